// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Data        DataConfig
	Session     SessionConfig
	Throttle    ThrottleConfig
	AWS         AWSConfig
	Payment     PaymentConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DataConfig struct {
	Dir       string
	File      string // bbolt database file, relative to Dir
	UploadDir string
}

type SessionConfig struct {
	Secret     string
	Backend    string // "cookie" or "filesystem"
	CookieName string
	MaxAge     int // in seconds
}

type ThrottleConfig struct {
	RequestLimit  int // general requests per window
	RequestWindow int // in minutes
	AuthFailures  int // failed login/register attempts per window
	AuthWindow    int // in minutes
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
}

// PaymentConfig carries the static manual-payment instructions returned to buyers.
type PaymentConfig struct {
	BankName      string
	BankAccount   string
	BankHolder    string
	EWalletName   string
	EWalletNumber string
	ContactPhone  string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Data: DataConfig{
			Dir:       getEnv("DATA_DIR", "./data"),
			File:      getEnv("DATA_FILE", "market.db"),
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "change-me-in-production"),
			Backend:    getEnv("SESSION_BACKEND", "cookie"),
			CookieName: getEnv("SESSION_COOKIE_NAME", "bytemart_session"),
			MaxAge:     getEnvAsInt("SESSION_MAX_AGE", int(7*24*time.Hour/time.Second)),
		},
		Throttle: ThrottleConfig{
			RequestLimit:  getEnvAsInt("THROTTLE_REQUEST_LIMIT", 100),
			RequestWindow: getEnvAsInt("THROTTLE_REQUEST_WINDOW", 15),
			AuthFailures:  getEnvAsInt("THROTTLE_AUTH_FAILURES", 5),
			AuthWindow:    getEnvAsInt("THROTTLE_AUTH_WINDOW", 60),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "bytemart-uploads"),
		},
		Payment: PaymentConfig{
			BankName:      getEnv("PAYMENT_BANK_NAME", "First National Bank"),
			BankAccount:   getEnv("PAYMENT_BANK_ACCOUNT", ""),
			BankHolder:    getEnv("PAYMENT_BANK_HOLDER", ""),
			EWalletName:   getEnv("PAYMENT_EWALLET_NAME", ""),
			EWalletNumber: getEnv("PAYMENT_EWALLET_NUMBER", ""),
			ContactPhone:  getEnv("PAYMENT_CONTACT_PHONE", ""),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Session.Secret == "change-me-in-production" && c.Environment == "production" {
		return fmt.Errorf("session secret must be changed in production")
	}

	if c.Session.Backend != "cookie" && c.Session.Backend != "filesystem" {
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
