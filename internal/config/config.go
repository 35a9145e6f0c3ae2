package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	Environment      string
	Database         DatabaseConfig
	Shopify          ShopifyConfig
	AI               AIConfig
	Scraper          ScraperConfig
	LogLevel         string
	ServiceKeyHash   string // SERVICE_API_KEY_HASH: bcrypt hash authorizing /api and /internal routes
	WebhookSecret    string // SHOPIFY_WEBHOOK_SECRET: verify incoming Shopify webhooks (X-Shopify-Hmac-Sha256)
	WarmCacheOnStart bool   // WARM_CACHE_ON_START: warm vendor/product-type caches at boot
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

// AIConfig is used to call the description-generation provider
type AIConfig struct {
	BaseURL string // e.g. https://api.anthropic.com; empty means description endpoints return 503
	APIKey  string
	Model   string
}

// ScraperConfig is used to call the third-party extraction API for reference URLs
type ScraperConfig struct {
	BaseURL string // empty means the scrape endpoint returns 503
	APIKey  string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "productbuilder"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2026-01"),
		},
		AI: AIConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("AI_BASE_URL", "https://api.anthropic.com")),
			APIKey:  strings.TrimSpace(getEnvOrViper("AI_API_KEY", "")),
			Model:   getEnvOrViper("AI_MODEL", "claude-sonnet-4-5"),
		},
		Scraper: ScraperConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("SCRAPER_BASE_URL", "")),
			APIKey:  strings.TrimSpace(getEnvOrViper("SCRAPER_API_KEY", "")),
		},
		LogLevel:         getEnvOrViper("LOG_LEVEL", "info"),
		ServiceKeyHash:   strings.TrimSpace(getEnvOrViper("SERVICE_API_KEY_HASH", "")),
		WebhookSecret:    strings.TrimSpace(getEnvOrViper("SHOPIFY_WEBHOOK_SECRET", "")),
		WarmCacheOnStart: getEnvOrViper("WARM_CACHE_ON_START", "true") == "true",
	}

	// Validate required fields
	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
