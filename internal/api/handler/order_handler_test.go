package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/shop-api/internal/api/middleware"
	"github.com/shopfront/shop-api/internal/core/domain"
)

const anaID = "64b7f0c2a1b2c3d4e5f60718"

func newOrderFixture() (*OrderHandler, *stubOrderService) {
	users := &stubUserService{users: map[string]*domain.User{
		anaID: {ID: anaID, Email: "ana@example.com", Roles: []domain.Role{domain.RoleUser}},
	}}
	orders := &stubOrderService{order: &domain.Order{
		ID:     "order-1",
		UserID: anaID,
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Mug", Quantity: 2, UnitPrice: 7.5},
		},
		Total:     15,
		Currency:  "USD",
		Status:    domain.OrderPending,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	return NewOrderHandler(orders, users), orders
}

func newRequestContext(method, target, body string, p *middleware.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		middleware.SetPrincipal(c, p)
	}
	return c, rec
}

func customer(subject string) *middleware.Principal {
	return &middleware.Principal{Subject: subject, Roles: []domain.Role{domain.RoleUser}, Source: middleware.SourceBearer}
}

func manager(subject string) *middleware.Principal {
	return &middleware.Principal{Subject: subject, Roles: []domain.Role{domain.RoleUser, domain.RoleManager}, Source: middleware.SourceBearer}
}

func TestOrderHandler_Create(t *testing.T) {
	h, orders := newOrderFixture()
	c, rec := newRequestContext(http.MethodPost, "/api/orders",
		`{"items":[{"product_id":"p1","quantity":2}]}`, customer("ana@example.com"))

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if orders.created.UserID != anaID {
		t.Errorf("order placed for %q, want %q", orders.created.UserID, anaID)
	}
	if len(orders.created.Items) != 1 || orders.created.Items[0].Quantity != 2 {
		t.Errorf("unexpected items %+v", orders.created.Items)
	}

	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Links.Self != "/api/orders/order-1" {
		t.Errorf("self link = %q", resp.Links.Self)
	}
	if resp.Items[0].Subtotal != 15 {
		t.Errorf("subtotal = %v", resp.Items[0].Subtotal)
	}
}

func TestOrderHandler_Create_Validation(t *testing.T) {
	h, _ := newOrderFixture()
	for _, body := range []string{`{"items":[]}`, `{"items":[{"product_id":"p1","quantity":0}]}`, `{`} {
		c, _ := newRequestContext(http.MethodPost, "/api/orders", body, customer("ana@example.com"))
		err := h.Create(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestOrderHandler_Create_BuiltInForbidden(t *testing.T) {
	h, _ := newOrderFixture()
	c, _ := newRequestContext(http.MethodPost, "/api/orders",
		`{"items":[{"product_id":"p1","quantity":1}]}`, manager("admin"))

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a principal without a directory record, got %v", err)
	}
}

func TestOrderHandler_Get_OwnerScope(t *testing.T) {
	h, orders := newOrderFixture()

	c, _ := newRequestContext(http.MethodGet, "/api/orders/order-1", "", customer("ana@example.com"))
	c.SetParamNames("id")
	c.SetParamValues("order-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if orders.getInput.IsManager || orders.getInput.UserID != anaID {
		t.Errorf("customer lookup = %+v", orders.getInput)
	}

	c, _ = newRequestContext(http.MethodGet, "/api/orders/order-1", "", manager("admin"))
	c.SetParamNames("id")
	c.SetParamValues("order-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !orders.getInput.IsManager || orders.getInput.UserID != "" {
		t.Errorf("manager lookup = %+v", orders.getInput)
	}
}

func TestOrderHandler_ListMine(t *testing.T) {
	h, orders := newOrderFixture()
	c, rec := newRequestContext(http.MethodGet, "/api/users/me/orders?status=paid&page=2", "", customer("ana@example.com"))

	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if orders.filter.UserID != anaID || orders.filter.Status != "paid" || orders.filter.Page != 2 {
		t.Errorf("unexpected filter %+v", orders.filter)
	}
}

func TestOrderHandler_List_RejectsUnknownStatus(t *testing.T) {
	h, _ := newOrderFixture()
	c, _ := newRequestContext(http.MethodGet, "/api/orders?status=lost", "", manager("admin"))

	err := h.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	h, _ := newOrderFixture()
	c, rec := newRequestContext(http.MethodPatch, "/api/orders/order-1/status", `{"status":"paid"}`, manager("admin"))
	c.SetParamNames("id")
	c.SetParamValues("order-1")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "paid" {
		t.Errorf("status = %q", resp.Status)
	}
}
