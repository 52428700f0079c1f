package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/swaggo/swag"
)

type staticDoc string

func (d staticDoc) ReadDoc() string { return string(d) }

var registerTestDoc sync.Once

func TestDocsHandler_APIDocs(t *testing.T) {
	registerTestDoc.Do(func() {
		swag.Register("handler-test", staticDoc(`{"swagger":"2.0","info":{"title":"test"}}`))
	})

	c, rec := newRequestContext(http.MethodGet, "/v2/api-docs", "", nil)
	if err := NewDocsHandler("handler-test").APIDocs(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil || doc["swagger"] != "2.0" {
		t.Fatalf("unexpected document %s (%v)", rec.Body.String(), err)
	}
}

func TestDocsHandler_UnknownInstance(t *testing.T) {
	c, _ := newRequestContext(http.MethodGet, "/v2/api-docs", "", nil)
	if err := NewDocsHandler("missing").APIDocs(c); err == nil {
		t.Fatal("expected an error for an unregistered document")
	}
}

func TestDocsHandler_Resources(t *testing.T) {
	c, rec := newRequestContext(http.MethodGet, "/swagger-resources", "", nil)
	if err := NewDocsHandler("").Resources(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resources []swaggerResource
	if err := json.Unmarshal(rec.Body.Bytes(), &resources); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resources) != 1 || resources[0].URL != "/v2/api-docs" {
		t.Errorf("unexpected resources %+v", resources)
	}
}
