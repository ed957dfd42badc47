package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	ServerPort string
	JWTSecret  string
	JWTExpiry  time.Duration
	LogLevel   string
	LogFormat  string
	// RateLimitRPS <= 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	// RedisAddr switches the rate limiter to a shared Redis window.
	RedisAddr string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "internhub_user"),
		DBPassword:     getEnv("DB_PASSWORD", "internhub_pass"),
		DBName:         getEnv("DB_NAME", "internhub_db"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry:      time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 72)) * time.Hour,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvFloat(key string, defaultVal float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultVal
	}
	return value
}
