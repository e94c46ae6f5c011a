// Package config loads the typed configuration shared by the backend and
// the cartctl CLI. Values come from the environment, optionally seeded
// from a .env file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Lang     string `env:"CART_LANG" envDefault:"vi"`

	JWT     JWTConfig
	Client  ClientConfig
	Backend BackendConfig
}

// JWTConfig is shared by the backend (issuer) and the CLI (verifier).
type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" envDefault:"A_VERY_SECURE_SECRET_KEY_REPLACE_LATER"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`
}

// ClientConfig configures the cart core as used by cartctl.
type ClientConfig struct {
	APIURL  string        `env:"CART_API_URL" envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"CART_API_TIMEOUT" envDefault:"10s"`

	// Storage is one of sqlite, mysql, redis, memory.
	Storage     string `env:"CART_STORAGE" envDefault:"sqlite"`
	SQLitePath  string `env:"CART_SQLITE_PATH" envDefault:"cart.db"`
	MySQLDSN    string `env:"CART_MYSQL_DSN"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"bookstore:"`
}

// BackendConfig configures the development REST backend.
type BackendConfig struct {
	Port          string `env:"PORT" envDefault:"8080"`
	Driver        string `env:"BACKEND_DRIVER" envDefault:"sqlite"`
	DSN           string `env:"BACKEND_DSN" envDefault:"backend.db"`
	PartialEcho   bool   `env:"PARTIAL_ECHO" envDefault:"false"`
	AllowedOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
