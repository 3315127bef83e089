package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Registry RegistryConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL.
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// RegistryConfig holds wallet-registry tunables.
type RegistryConfig struct {
	// DefaultNetworkID is the designated default (mainnet) CAIP-2 id used
	// for primary reassignment and restoration fallback.
	DefaultNetworkID string
	// FreePlanAddressLimit / ProPlanAddressLimit cap distinct addresses.
	FreePlanAddressLimit int
	ProPlanAddressLimit  int
	// RateLimitRequests per RateLimitWindow, per principal.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// EthereumRPCURL backs ENS name resolution; empty disables it.
	EthereumRPCURL string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "wallet_registry"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Registry: RegistryConfig{
			DefaultNetworkID:     getEnv("DEFAULT_NETWORK_ID", "eip155:1"),
			FreePlanAddressLimit: getEnvAsInt("FREE_PLAN_ADDRESS_LIMIT", 3),
			ProPlanAddressLimit:  getEnvAsInt("PRO_PLAN_ADDRESS_LIMIT", 10),
			RateLimitRequests:    getEnvAsInt("RATE_LIMIT_REQUESTS", 60),
			RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
			EthereumRPCURL:       getEnv("ETHEREUM_RPC_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
