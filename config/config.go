package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP API configuration
	ListenAddr string

	// Economy configuration
	StartingBalance int64   // Wallet balance granted on first reference
	MarketFeeRate   float64 // Fraction of the sale price retained by the house
	MaxListingPrice int64

	// Rate limiting configuration
	TransferRateLimit  int           // Transfers allowed per actor per window
	PurchaseRateLimit  int           // Purchases allowed per actor per window
	RateWindow         time.Duration // Sliding window length
	FraudFlagThreshold int64         // Single-transfer amount that triggers a warning flag

	// Wagering configuration
	WagerMinBet int64
	WagerMaxBet int64

	// Audit configuration
	AuditRetentionDays int // Entries older than this are swept
	SweepHourUTC       int // Hour in UTC when the daily retention sweep runs (0-23)

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ListenAddr:  os.Getenv("LISTEN_ADDR"),

		// Economy defaults
		StartingBalance: 0,
		MarketFeeRate:   0.05,
		MaxListingPrice: 10_000_000,

		// Rate limiting defaults
		TransferRateLimit:  10,
		PurchaseRateLimit:  5,
		RateWindow:         60 * time.Second,
		FraudFlagThreshold: 1_000_000,

		// Wagering defaults
		WagerMinBet: 1,
		WagerMaxBet: 250_000,

		// Audit defaults
		AuditRetentionDays: 90,
		SweepHourUTC:       4,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	// Override defaults if environment variables are set
	if v := os.Getenv("STARTING_BALANCE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}
	if v := os.Getenv("MARKET_FEE_RATE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed < 1 {
			config.MarketFeeRate = parsed
		}
	}
	if v := os.Getenv("TRANSFER_RATE_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.TransferRateLimit = parsed
		}
	}
	if v := os.Getenv("PURCHASE_RATE_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.PurchaseRateLimit = parsed
		}
	}
	if v := os.Getenv("RATE_WINDOW_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.RateWindow = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("FRAUD_FLAG_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			config.FraudFlagThreshold = parsed
		}
	}
	if v := os.Getenv("WAGER_MIN_BET"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			config.WagerMinBet = parsed
		}
	}
	if v := os.Getenv("WAGER_MAX_BET"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			config.WagerMaxBet = parsed
		}
	}
	if v := os.Getenv("AUDIT_RETENTION_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.AuditRetentionDays = parsed
		}
	}
	if v := os.Getenv("SWEEP_HOUR_UTC"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 23 {
			config.SweepHourUTC = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
