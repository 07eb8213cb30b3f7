package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string
	Env  string

	DatabaseURL string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret     string
	WebhookSecret string

	// Casino limits, all in points.
	MinBet      int64
	MaxBet      int64
	DailyLimit  int64
	BetCooldown time.Duration

	// Wallet conversion: points credited per whole dollar deposited, plus
	// a bonus percentage applied on top.
	PointsPerDollar     int64
	DepositBonusPercent int64

	// Default point cost of a gift card claim.
	RedemptionThreshold int64
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	webhookSecret := os.Getenv("WEBHOOK_SECRET")
	if webhookSecret == "" {
		return nil, fmt.Errorf("WEBHOOK_SECRET environment variable is required")
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENVIRONMENT", "development"),
		DatabaseURL:         dbURL,
		RedisURL:            getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:             int(getEnvInt("REDIS_DB", 0)),
		JWTSecret:           jwtSecret,
		WebhookSecret:       webhookSecret,
		MinBet:              getEnvInt("CASINO_MIN_BET", 10),
		MaxBet:              getEnvInt("CASINO_MAX_BET", 500),
		DailyLimit:          getEnvInt("CASINO_DAILY_LIMIT", 1000),
		BetCooldown:         time.Duration(getEnvInt("CASINO_BET_COOLDOWN_SECONDS", 5)) * time.Second,
		PointsPerDollar:     getEnvInt("POINTS_PER_DOLLAR", 100),
		DepositBonusPercent: getEnvInt("DEPOSIT_BONUS_PERCENT", 0),
		RedemptionThreshold: getEnvInt("REDEMPTION_THRESHOLD", 1000),
	}

	if cfg.MinBet < 1 || cfg.MaxBet < cfg.MinBet {
		return nil, fmt.Errorf("invalid bet limits: min=%d max=%d", cfg.MinBet, cfg.MaxBet)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
