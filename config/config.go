package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every environment-driven knob the service reads. Values are
// loaded once at startup; the runtime environment decides whether sandbox or
// live processor keys are handed to checkouts.
type Config struct {
	Port        string
	Environment string // "production" or anything else (treated as sandbox)

	// Base URL of the platform REST backend (vendors, bookings, payments,
	// coupons). The backend owns all persistence; this service only holds
	// in-memory flow state.
	BackendBaseURL string

	// Stripe keys. The secret key drives server-side gateway calls; the
	// publishable keys are handed to clients via processor-handle resolution.
	StripeSecretKey       string
	StripePublishableLive string
	StripePublishableTest string

	// SNS topic for reconciliation-failure reports. Optional; when empty the
	// service falls back to log-only reporting.
	ErrorTopicARN string
	AWSRegion     string

	// Payment method availability flags.
	CardPaymentsEnabled bool
	TestPaymentsEnabled bool

	VendorInfoTTL    time.Duration
	EventLoadTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where a
// value is optional. A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8089"),
		Environment:           getEnv("APP_ENV", "development"),
		BackendBaseURL:        os.Getenv("BACKEND_BASE_URL"),
		StripeSecretKey:       os.Getenv("STRIPE_API_KEY"),
		StripePublishableLive: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripePublishableTest: os.Getenv("STRIPE_PUBLISHABLE_KEY_TEST"),
		ErrorTopicARN:         os.Getenv("ERROR_SNS_TOPIC_ARN"),
		AWSRegion:             getEnv("AWS_REGION", "eu-west-2"),
		CardPaymentsEnabled:   getEnvBool("CARD_PAYMENTS_ENABLED", true),
		TestPaymentsEnabled:   getEnvBool("TEST_PAYMENTS_ENABLED", true),
		VendorInfoTTL:         getEnvDuration("VENDOR_INFO_TTL", 30*time.Minute),
		EventLoadTimeout:      getEnvDuration("EVENT_LOAD_TIMEOUT", 15*time.Second),
	}

	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("missing required environment variable BACKEND_BASE_URL")
	}
	if cfg.Production() && cfg.StripePublishableLive == "" {
		return nil, fmt.Errorf("missing STRIPE_PUBLISHABLE_KEY in production")
	}

	return cfg, nil
}

// Production reports whether live processor keys should be used.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}
