package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port string `env:"PORT,      default=8080"`
	Env  string `env:"ENV,       default=development"`

	Log   LogConfig
	Auth  AuthConfig
	HTTP  HTTPConfig
	Mongo MongoConfig
	Redis RedisConfig

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
}

// AuthConfig selects the authentication mode and its credentials. An empty
// JWTSecret makes the server generate a random key at startup. The built-in
// superuser is opt-in: setting SUPERUSER_NAME requires SUPERUSER_PASSWORD.
type AuthConfig struct {
	Mode              string        `env:"AUTH_MODE,          default=jwt"`
	JWTSecret         string        `env:"JWT_SECRET"`
	AccessTokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL,   default=15m"`
	RefreshTokenTTL   time.Duration `env:"REFRESH_TOKEN_TTL,  default=24h"`
	SessionTTL        time.Duration `env:"SESSION_TTL,        default=30m"`
	SuperuserName     string        `env:"SUPERUSER_NAME"`
	SuperuserPassword string        `env:"SUPERUSER_PASSWORD"`
	BcryptCost        int           `env:"BCRYPT_COST,        default=10"`
}

type HTTPConfig struct {
	CookieSecure       bool     `env:"COOKIE_SECURE,        default=false"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=shop"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Auth.Mode = strings.ToLower(strings.TrimSpace(c.Auth.Mode))
	switch c.Auth.Mode {
	case "jwt", "session":
	default:
		return fmt.Errorf("config: AUTH_MODE must be jwt or session, got %q", c.Auth.Mode)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 || c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("config: token and session ttls must be positive")
	}
	if c.Auth.SuperuserName != "" && c.Auth.SuperuserPassword == "" {
		return fmt.Errorf("config: SUPERUSER_PASSWORD is required when SUPERUSER_NAME is set")
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
