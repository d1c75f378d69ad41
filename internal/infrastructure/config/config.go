package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the API server configuration.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SiteURL is the public frontend origin used to build the checkout
	// success and cancel redirects.
	SiteURL string `env:"SITE_URL, default=http://localhost:3000"`

	// AuthJWTSecret verifies access tokens issued by the external identity
	// provider (HS256).
	AuthJWTSecret string `env:"AUTH_JWT_SECRET, required"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Stripe StripeConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=sponsorfinder"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// StripeConfig carries payment provider credentials and the fixed premium
// product. Missing secrets fail Load rather than defaulting silently.
type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY,     required"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET, required"`

	PriceCents  int64  `env:"PREMIUM_PRICE_CENTS, default=2700"`
	Currency    string `env:"PREMIUM_CURRENCY,    default=usd"`
	ProductName string `env:"PREMIUM_PRODUCT_NAME, default=SponsorFinder - Lifetime Access"`
	ProductDesc string `env:"PREMIUM_PRODUCT_DESC, default=Get lifetime access to contact information for all sponsor brands"`
}

// ScraperConfig holds the sponsor discovery CLI configuration.
type ScraperConfig struct {
	LogLevel    string   `env:"LOG_LEVEL,            default=info"`
	Feeds       []string `env:"SCRAPER_FEEDS"`
	MaxEpisodes int      `env:"SCRAPER_MAX_EPISODES, default=50"`
	Workers     int      `env:"SCRAPER_WORKERS,      default=4"`

	Mongo MongoConfig
}

// EnricherConfig holds the contact enrichment CLI configuration.
type EnricherConfig struct {
	LogLevel     string `env:"LOG_LEVEL,      default=info"`
	HunterAPIKey string `env:"HUNTER_API_KEY"`

	Mongo MongoConfig
}

// Load reads the API server configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadScraper reads the scraper CLI configuration.
func LoadScraper(ctx context.Context) (*ScraperConfig, error) {
	var cfg ScraperConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadEnricher reads the enricher CLI configuration.
func LoadEnricher(ctx context.Context) (*EnricherConfig, error) {
	var cfg EnricherConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
