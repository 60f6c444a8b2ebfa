package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	SeedStatic = "static"
	SeedMongo  = "mongo"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	Marketplace MarketplaceConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	AMQP        AMQPConfig
}

type MarketplaceConfig struct {
	// StrictTransitions rejects reserve/complete calls that skip a state.
	StrictTransitions bool   `env:"MEAL_STRICT_TRANSITIONS, default=false"`
	SeedSource        string `env:"SEED_SOURCE,             default=static"`
	EventWorkers      int    `env:"EVENT_WORKERS,           default=8"`
}

// MongoConfig is optional: an empty URI disables the audit trail and the
// mongo seed source.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=marketplace"`
}

// RedisConfig is optional: an empty address keeps sessions in memory.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,    default=0"`
	TTL      time.Duration `env:"SESSION_TTL, default=0s"`
}

// AMQPConfig is optional: an empty URL disables event publishing.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE, default=marketplace.events"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l. Tests use envconfig.MapLookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Marketplace.SeedSource {
	case SeedStatic:
	case SeedMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("config: SEED_SOURCE=mongo requires MONGO_URI")
		}
	default:
		return fmt.Errorf("config: SEED_SOURCE must be %q or %q, got %q", SeedStatic, SeedMongo, c.Marketplace.SeedSource)
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == "dev-secret") {
		return fmt.Errorf("config: JWT_SECRET must be set in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
