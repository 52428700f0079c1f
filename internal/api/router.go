package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shopfront/shop-api/docs"
	"github.com/shopfront/shop-api/internal/api/handler"
	"github.com/shopfront/shop-api/internal/api/middleware"
	"github.com/shopfront/shop-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Codec    ports.TokenCodec
	Sessions ports.SessionStore
	Users    ports.UserService
	Products ports.ProductService
	Orders   ports.OrderService

	// HealthChecks are pinged by /health/ready, keyed by dependency name.
	HealthChecks map[string]func(context.Context) error

	CORSAllowedOrigins []string
	CookieSecure       bool

	// Registerer and Gatherer default to the global prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds the Echo instance with middleware and routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(cors(d.CORSAllowedOrigins))

	prom, err := echoprometheus.MiddlewareConfig{
		Namespace:  "shop",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}.ToMiddleware()
	if err != nil {
		return nil, fmt.Errorf("prometheus middleware: %w", err)
	}
	e.Use(prom)

	// --- Authorization ---
	gate, err := gateConfig(d)
	if err != nil {
		return nil, err
	}
	policy, err := middleware.NewPolicy(middleware.DefaultRules())
	if err != nil {
		return nil, err
	}
	e.Use(middleware.Gate(gate))
	e.Use(policy.Middleware())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.CookieSecure, d.Log)
	userHandler := handler.NewUserHandler(d.Users)
	productHandler := handler.NewProductHandler(d.Products)
	orderHandler := handler.NewOrderHandler(d.Orders, d.Users)
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	docsHandler := handler.NewDocsHandler("")

	// --- Auth ---
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	// --- API documentation ---
	e.GET("/swagger-ui.html", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/swagger-ui/index.html")
	})
	e.GET("/swagger-ui/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/v2/api-docs")))
	e.GET("/v2/api-docs", docsHandler.APIDocs)
	e.GET("/swagger-resources", docsHandler.Resources)

	// --- Users ---
	users := e.Group("/api/users")
	users.POST("", userHandler.Register)
	users.GET("", userHandler.List)
	users.GET("/me", userHandler.Me)
	users.GET("/me/orders", orderHandler.ListMine)
	users.GET("/:id", userHandler.Get)
	users.DELETE("/:id", userHandler.Delete)

	// --- Products ---
	products := e.Group("/api/products")
	products.GET("", productHandler.List)
	products.POST("", productHandler.Create)
	products.GET("/:id", productHandler.Get)
	products.PUT("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.Delete)

	// --- Orders ---
	orders := e.Group("/api/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus)
	orders.DELETE("/:id", orderHandler.Delete)

	// --- Probes and metrics ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	return e, nil
}

// gateConfig picks the credential strategies for the configured auth mode.
// In JWT mode the documentation routes accept only the swagger_id cookie; in
// session mode they go through the session like every other route.
func gateConfig(d Deps) (middleware.GateConfig, error) {
	cfg := middleware.GateConfig{Log: d.Log}
	switch d.Auth.Mode() {
	case ports.AuthModeJWT:
		cfg.Strategies = []middleware.Strategy{middleware.NewBearerStrategy(d.Codec, d.Log)}
		cfg.DocStrategy = middleware.NewServiceCookieStrategy(d.Codec, d.Log)
	case ports.AuthModeSession:
		if d.Sessions == nil {
			return cfg, fmt.Errorf("router: session mode requires a session store")
		}
		cfg.Strategies = []middleware.Strategy{middleware.NewSessionStrategy(d.Sessions, d.Log)}
	default:
		return cfg, fmt.Errorf("router: unknown auth mode %q", d.Auth.Mode())
	}
	return cfg, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func cors(origins []string) echo.MiddlewareFunc {
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		origins = []string{"*"}
	}
	return echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
		AllowCredentials: !wildcard,
	})
}
