package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/shop-api/internal/core/ports"
)

// ProductHandler serves the catalogue.
type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create adds a product to the catalogue.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.products.Create(c.Request().Context(), toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProductResponse(p))
}

// Get returns a single product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// List browses the catalogue.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        q          query     string  false  "Name search"
// @Param        min_price  query     number  false  "Minimum price"
// @Param        max_price  query     number  false  "Maximum price"
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size"
// @Success      200        {object}  pageResponse[productResponse]
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q listProductsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.products.List(c.Request().Context(), ports.ListProductsFilter{
		Search:   q.Search,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Page:     q.Page,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toProductResponse))
}

// Update replaces a product's writable fields.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.products.Update(c.Request().Context(), c.Param("id"), toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// Delete removes a product.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  string  true  "Product id"
// @Success      204
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
