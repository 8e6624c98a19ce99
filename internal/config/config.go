// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// devJWTSecret is the fallback signing secret used when JWT_SECRET is unset.
// It exists so tests and local runs work out of the box; LoadStrict refuses
// to start a real deployment on it.
const devJWTSecret = "dev-secret-do-not-use-in-production"

// Config holds all runtime configuration. Access and refresh token TTLs are
// deliberately not here: they are fixed constants in the token package.
type Config struct {
	Env        string // application environment (dev/test/prod)
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host
	DBPort     string // database port
	DBName     string // database name
	JWTSecret  string // secret used to sign tokens
	BcryptCost int    // bcrypt cost for password hashing
	AMQPURL    string // RabbitMQ URL for the event publisher (optional)
}

// Load reads configuration with permissive defaults. A missing JWT_SECRET
// falls back to the dev secret with a logged warning.
func Load() Config {
	cfg := Config{
		Env:        getenv("APP_ENV", "dev"),
		Port:       getenv("APP_PORT", "8080"),
		DBUser:     getenv("DB_USER", "registry"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBName:     getenv("DB_NAME", "student_registry"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		BcryptCost: envInt("BCRYPT_COST", 12),
		AMQPURL:    os.Getenv("RABBITMQ_URL"),
	}
	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET not set, using built-in dev secret; do not deploy like this")
		cfg.JWTSecret = devJWTSecret
	}
	return cfg
}

// LoadStrict is Load with production posture: JWT_SECRET must be set
// explicitly, with no silent fallback. cmd/server uses this.
func LoadStrict() Config {
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("missing required env var: JWT_SECRET")
	}
	return Load()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "":
		return def
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
