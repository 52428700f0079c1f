package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopfront/shop-api/internal/api"
	"github.com/shopfront/shop-api/internal/api/metrics"
	"github.com/shopfront/shop-api/internal/core/ports"
	"github.com/shopfront/shop-api/internal/core/service"
	"github.com/shopfront/shop-api/internal/infrastructure/config"
	mongodb "github.com/shopfront/shop-api/internal/infrastructure/db/mongo"
	redisdb "github.com/shopfront/shop-api/internal/infrastructure/db/redis"
	"github.com/shopfront/shop-api/internal/infrastructure/queue"
	"github.com/shopfront/shop-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Shopfront API
// @version                     1.0
// @description                 Users, products and orders behind JWT or session authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shop-api:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: "shop-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Token codec ---
	key := []byte(cfg.Auth.JWTSecret)
	if len(key) == 0 {
		if key, err = service.GenerateSigningKey(); err != nil {
			return err
		}
		log.Warn().Msg("JWT_SECRET not set, using a random signing key; tokens will not survive a restart")
	}
	codec, err := service.NewTokenCodec(key, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		return err
	}

	// --- Audit trail ---
	auditService := service.NewAuthEventService(mongodb.NewAuthEventRepository(db), log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log,
		queue.WithDropHook(metrics.AuditEventsDroppedTotal.Inc))
	dispatcher.Start(ctx)

	// --- Core services ---
	userRepo := mongodb.NewUserRepository(db)
	builtIns, err := superusers(cfg.Auth)
	if err != nil {
		return err
	}
	verifier := service.NewCredentialVerifier(userRepo, builtIns, log)

	sessions := redisdb.NewSessionStore(rdb, cfg.Auth.SessionTTL)
	mode := ports.AuthMode(cfg.Auth.Mode)
	authService, err := service.NewAuthService(mode, verifier, codec, sessions, dispatcher, log)
	if err != nil {
		return err
	}

	e, err := api.NewRouter(api.Deps{
		Auth:     authService,
		Codec:    codec,
		Sessions: sessions,
		Users:    service.NewUserService(userRepo, cfg.Auth.BcryptCost, log),
		Products: service.NewProductService(mongodb.NewProductRepository(db), log),
		Orders:   service.NewOrderService(mongodb.NewOrderRepository(db), mongodb.NewProductRepository(db), log),
		HealthChecks: map[string]func(context.Context) error{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		CookieSecure:       cfg.HTTP.CookieSecure,
		Log:                log,
	})
	if err != nil {
		return err
	}

	return serve(ctx, e, ":"+cfg.Port, log, mode)
}

// superusers hashes the configured built-in account at boot.
func superusers(cfg config.AuthConfig) ([]service.BuiltInUser, error) {
	if cfg.SuperuserName == "" {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperuserPassword), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash superuser password: %w", err)
	}
	return []service.BuiltInUser{{Name: cfg.SuperuserName, PasswordHash: string(hash)}}, nil
}

type server interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

func serve(ctx context.Context, srv server, addr string, log zerolog.Logger, mode ports.AuthMode) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("auth_mode", string(mode)).Msg("server starting")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
