package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	JWTExpireDays int
	GinMode       string
	LogLevel      string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "ganttuser"),
		DBPassword:    getEnv("DB_PASSWORD", "ganttpassword"),
		DBName:        getEnv("DB_NAME", "gantt_projects"),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTExpireDays: getEnvInt("JWT_EXPIRE_DAYS", 30),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
