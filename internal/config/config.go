package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	CORSOrigins      string
	DatabaseDSN      string
	DefaultUnitPrice float64 // fallback unit price when a line item's flavor has no catalog match
	ReconcileCron    string  // cron spec for the totals sweep, empty disables it
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "bakeshop.db"),
		DefaultUnitPrice: getEnvFloat("DEFAULT_UNIT_PRICE", 5),
		ReconcileCron:    getEnv("RECONCILE_CRON", "0 3 * * *"),
	}

	if cfg.DatabaseDSN == "bakeshop.db" {
		log.Println("[WARN] DATABASE_DSN not set, using local sqlite file bakeshop.db")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a number, using default %v", key, v, def)
		return def
	}
	return f
}
