package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/shop-api/internal/api/metrics"
	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

// OrderHandler serves order placement and lookup.
type OrderHandler struct {
	orders ports.OrderService
	users  ports.UserService
}

func NewOrderHandler(orders ports.OrderService, users ports.UserService) *OrderHandler {
	return &OrderHandler{orders: orders, users: users}
}

// Create places an order for the calling user.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order lines"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	userID, err := directoryUserID(ctx, h.users, p)
	if err != nil {
		return err
	}

	order, err := h.orders.Create(ctx, toCreateOrderInput(req, userID))
	if err != nil {
		return err
	}
	metrics.OrdersCreatedTotal.WithLabelValues(order.Currency).Inc()
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get returns an order owned by the caller, or any order for managers.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	in := ports.GetOrderInput{OrderID: c.Param("id"), IsManager: p.HasRole(domain.RoleManager)}
	if !in.IsManager {
		if in.UserID, err = directoryUserID(c.Request().Context(), h.users, p); err != nil {
			return err
		}
	}

	order, err := h.orders.Get(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// List returns every order.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  pageResponse[orderResponse]
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	q, err := bindOrdersQuery(c)
	if err != nil {
		return err
	}
	return h.list(c, ports.ListOrdersFilter{Status: q.Status, Page: q.Page, Limit: q.Limit})
}

// ListMine returns the caller's orders.
//
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  pageResponse[orderResponse]
// @Router       /api/users/me/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	q, err := bindOrdersQuery(c)
	if err != nil {
		return err
	}
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	userID, err := directoryUserID(c.Request().Context(), h.users, p)
	if err != nil {
		return err
	}
	return h.list(c, ports.ListOrdersFilter{UserID: userID, Status: q.Status, Page: q.Page, Limit: q.Limit})
}

func (h *OrderHandler) list(c echo.Context, filter ports.ListOrdersFilter) error {
	page, err := h.orders.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, toOrderResponse))
}

func bindOrdersQuery(c echo.Context) (listOrdersQuery, error) {
	var q listOrdersQuery
	if err := c.Bind(&q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return q, nil
}

// UpdateStatus moves an order along its lifecycle.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Order id"
// @Param        body  body      updateOrderStatusRequest  true  "New status"
// @Success      200   {object}  orderResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete removes an order.
//
// @Summary      Delete an order
// @Tags         orders
// @Security     BearerAuth
// @Param        id  path  string  true  "Order id"
// @Success      204
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	if err := h.orders.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
