package handler

import (
	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	created := u.CreatedAt
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     domain.RoleStrings(u.Roles),
		CreatedAt: &created,
	}
}

// toIdentityResponse projects a login identity. Built-in users have no
// directory record, so only their name and roles are exposed.
func toIdentityResponse(id *domain.Identity) userResponse {
	if id.User != nil {
		resp := toUserResponse(id.User)
		resp.Roles = domain.RoleStrings(id.Roles)
		return resp
	}
	return userResponse{
		Email: id.Subject,
		Name:  id.Subject,
		Roles: domain.RoleStrings(id.Roles),
	}
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		}
	}
	return orderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Items:     items,
		Total:     o.Total,
		Currency:  o.Currency,
		CreatedAt: o.CreatedAt,
		Links:     orderLinks{Self: "/api/orders/" + o.ID},
	}
}

func toPageResponse[T, R any](p *ports.Page[T], conv func(T) R) pageResponse[R] {
	items := make([]R, len(p.Items))
	for i, it := range p.Items {
		items[i] = conv(it)
	}
	return pageResponse[R]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// --- Request → Service input ---

func toProductInput(req productRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
	}
}

func toCreateOrderInput(req createOrderRequest, userID string) ports.CreateOrderInput {
	items := make([]ports.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = ports.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return ports.CreateOrderInput{UserID: userID, Items: items}
}
