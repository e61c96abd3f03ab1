package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort           string  // Application port
	DBUser            string  // Database user
	DBPassword        string  // Database password
	DBHost            string  // Database host
	DBPort            string  // Database port
	DBName            string  // Database name
	JWTSecret         string  // JWT secret key
	RedisAddr         string  // Redis server address
	RedisPass         string  // Redis password
	RedisDB           int     // Redis database number
	SMTPHost          string  // SMTP server host
	SMTPPort          string  // SMTP server port
	SMTPFrom          string  // Sender address for transactional mail
	PublicBaseURL     string  // Public base URL used in reset links
	DeliveryCharge    float64 // Fixed delivery charge added to every order
	DeliveryDays      int     // Estimated delivery offset in days
	IsProd            bool    // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBName:         os.Getenv("DB_NAME"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:      os.Getenv("REDIS_PASS"),
		RedisDB:        redisDB,
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getEnv("SMTP_PORT", "25"),
		SMTPFrom:       getEnv("SMTP_FROM", "no-reply@localhost"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		DeliveryCharge: getEnvFloat("DELIVERY_CHARGE", 40),
		DeliveryDays:   getEnvInt("DELIVERY_DAYS", 7),
		IsProd:         os.Getenv("IS_PROD") == "true",
	}
}

// getEnv returns the value of key or a default when unset
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the integer value of key or a default when unset/invalid
func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getEnvFloat returns the float value of key or a default when unset/invalid
func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
