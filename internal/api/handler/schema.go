package handler

import "time"

// errorResponse is the standard error envelope returned on 4xx/5xx responses
// other than login failures.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

// loginRequest is either a primary login (email, password) or a refresh
// (access_token, refresh_token).
type loginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (r loginRequest) isRefresh() bool {
	return r.AccessToken != "" && r.RefreshToken != ""
}

type loginResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// --- Users ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"max=120"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type userResponse struct {
	ID        string     `json:"id,omitempty"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Roles     []string   `json:"roles"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// --- Products ---

type productRequest struct {
	Name        string  `json:"name"        validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Currency    string  `json:"currency"    validate:"required,len=3"`
	Stock       int     `json:"stock"       validate:"min=0"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listProductsQuery struct {
	Search   string  `query:"q"`
	MinPrice float64 `query:"min_price" validate:"min=0"`
	MaxPrice float64 `query:"max_price" validate:"min=0"`
	Page     int     `query:"page"      validate:"min=0"`
	Limit    int     `query:"limit"     validate:"min=0,max=100"`
}

// --- Orders ---

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid shipped delivered cancelled"`
}

type orderItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type orderLinks struct {
	Self string `json:"self"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Status    string              `json:"status"`
	Items     []orderItemResponse `json:"items"`
	Total     float64             `json:"total"`
	Currency  string              `json:"currency"`
	CreatedAt time.Time           `json:"created_at"`
	Links     orderLinks          `json:"_links"`
}

type listOrdersQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending paid shipped delivered cancelled"`
	Page   int    `query:"page"   validate:"min=0"`
	Limit  int    `query:"limit"  validate:"min=0,max=100"`
}

// --- Shared ---

type listQuery struct {
	Search string `query:"q"`
	Page   int    `query:"page"  validate:"min=0"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
}

type pageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
