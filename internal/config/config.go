package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultGeminiModel   = "gemini-3-flash-preview"
	DefaultTemperature   = 0.8
	DefaultAdviceTimeout = 30 * time.Second
	DefaultSessionTTL    = 60 * time.Minute
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Gemini AI
	Advisor AdvisorConfig

	// Chat sessions
	SessionTTL time.Duration

	// Admin
	AdminUser         string
	AdminPasswordHash string

	// SMTP
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	SMTPFrom  string
	TeamInbox string

	// Frontend
	FrontendURL string

	LogLevel string
}

// AdvisorConfig holds the settings for the strategist chat model.
type AdvisorConfig struct {
	GeminiAPIKey string
	Model        string
	Temperature  float32
	Timeout      time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		Env:               getEnvOrDefault("ENV", "development"),
		DatabaseURL:       mustGetEnv("DATABASE_URL"),
		RedisURL:          mustGetEnv("REDIS_URL"),
		JWTSecret:         mustGetEnv("JWT_SECRET"),
		Advisor:           loadAdvisor(),
		SessionTTL:        getEnvAsDurationOrDefault("SESSION_TTL", DefaultSessionTTL),
		AdminUser:         getEnvOrDefault("ADMIN_USER", "admin"),
		AdminPasswordHash: getEnvOrDefault("ADMIN_PASSWORD_HASH", ""),
		SMTPHost:          getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:          getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:          getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:          getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom:          getEnvOrDefault("SMTP_FROM", "noreply@nexus.creative"),
		TeamInbox:         getEnvOrDefault("TEAM_INBOX", "hello@nexus.creative"),
		FrontendURL:       getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

// LoadAdvisor reads only the Gemini settings. Used by the CLI, which has no
// database or Redis.
func LoadAdvisor() AdvisorConfig {
	godotenv.Load()
	return loadAdvisor()
}

// A missing API key is not fatal here: the advice client reports it as a
// setup failure on first use.
func loadAdvisor() AdvisorConfig {
	return AdvisorConfig{
		GeminiAPIKey: getEnvOrDefault("GEMINI_API_KEY", ""),
		Model:        getEnvOrDefault("GEMINI_MODEL", DefaultGeminiModel),
		Temperature:  float32(getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", DefaultTemperature)),
		Timeout:      getEnvAsDurationOrDefault("ADVICE_TIMEOUT", DefaultAdviceTimeout),
	}
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// Accepts Go durations ("45s") or a plain number of seconds.
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d
	}
	if n := getEnvAsIntOrDefault(key, 0); n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}
