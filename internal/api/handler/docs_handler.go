package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// DocsHandler serves the swagger document registered by the docs package.
type DocsHandler struct {
	instance string
}

func NewDocsHandler(instance string) *DocsHandler {
	if instance == "" {
		instance = swag.Name
	}
	return &DocsHandler{instance: instance}
}

// APIDocs returns the swagger JSON.
func (h *DocsHandler) APIDocs(c echo.Context) error {
	doc, err := swag.ReadDoc(h.instance)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "api documentation not available")
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
}

type swaggerResource struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	Location       string `json:"location"`
	SwaggerVersion string `json:"swaggerVersion"`
}

// Resources lists the available swagger documents.
func (h *DocsHandler) Resources(c echo.Context) error {
	return c.JSON(http.StatusOK, []swaggerResource{{
		Name:           "default",
		URL:            "/v2/api-docs",
		Location:       "/v2/api-docs",
		SwaggerVersion: "2.0",
	}})
}
