package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort     = "3000"
	defaultMongoURI = "mongodb://localhost:27017"
	defaultMongoDB  = "sportrent"
	defaultJWTTTL   = "24h"
)

type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string
	JWTTTL    time.Duration
}

// Load reads configuration from the environment. JWT_SECRET is the only
// required variable; everything else has local-development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", defaultPort),
		MongoURI:  getEnv("MONGO_URI", defaultMongoURI),
		MongoDB:   getEnv("MONGO_DB", defaultMongoDB),
		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	ttl, err := parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = ttl

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return d, nil
}
