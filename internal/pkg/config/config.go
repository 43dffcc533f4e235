package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Token store kinds accepted by TOKEN_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Tokens  TokenStoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Stub    StubConfig
}

// APIConfig points the portal at the feedback backend.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=10s"`
}

type SessionConfig struct {
	CookieSecure   bool          `env:"COOKIE_SECURE,           default=false"`
	IdleTTL        time.Duration `env:"SESSION_IDLE_TTL,        default=30m"`
	ResolveTimeout time.Duration `env:"SESSION_RESOLVE_TIMEOUT, default=5s"`
}

type TokenStoreConfig struct {
	Kind string        `env:"TOKEN_STORE, default=memory"`
	TTL  time.Duration `env:"TOKEN_TTL,   default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=feedback_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// StubConfig configures the in-memory development backend.
type StubConfig struct {
	Port      string        `env:"STUB_PORT,      default=8000"`
	JWTSecret string        `env:"JWT_SECRET,     default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"STUB_TOKEN_TTL, default=24h"`
	Seed      bool          `env:"STUB_SEED,      default=true"`

	// Browser origins allowed to call the stub directly.
	AllowOrigins []string `env:"STUB_CORS_ORIGINS, default=http://localhost:3000"`
}

// IsDevelopment reports whether ENV is development.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Tokens.Kind {
	case StoreMemory, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("config: TOKEN_STORE must be memory, redis or mongo, got %q", c.Tokens.Kind)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: API_BASE_URL is required")
	}
	return nil
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
