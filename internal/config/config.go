package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Postgres
	DatabaseURL string

	// External services
	AuthServiceURL   string
	ParserServiceURL string

	// Payment gate for PDF export; zero price disables the gate
	PaymentSecretKey      string
	PaymentPublishableKey string
	ExportPriceCents      int
	ExportCurrency        string

	// Chromium PDF printing
	ChromeTimeoutSeconds int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AuthServiceURL:   envOr("AUTH_SERVICE_URL", "http://auth-service:8001"),
		ParserServiceURL: envOr("PARSER_SERVICE_URL", "http://parser-service:8000"),

		PaymentSecretKey:      os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentPublishableKey: os.Getenv("PAYMENT_PUBLISHABLE_KEY"),
		ExportPriceCents:      envInt("EXPORT_PRICE_CENTS", 0),
		ExportCurrency:        envOr("EXPORT_CURRENCY", "usd"),

		ChromeTimeoutSeconds: envInt("CHROME_TIMEOUT_SECONDS", 60),
	}

	if cfg.ChromeTimeoutSeconds <= 0 {
		cfg.ChromeTimeoutSeconds = 60
	}

	return cfg
}

func (c Config) Validate() error {
	if c.AuthServiceURL == "" {
		return fmt.Errorf("AUTH_SERVICE_URL is required")
	}
	if c.ExportPriceCents > 0 && c.PaymentSecretKey == "" {
		return fmt.Errorf("PAYMENT_SECRET_KEY is required when EXPORT_PRICE_CENTS is set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
