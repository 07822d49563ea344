package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	FrontendURL string
	BackendURL  string

	ZarinpalMerchantID string
	ZarinpalRequestURL string
	ZarinpalVerifyURL  string
	ZarinpalStartPay   string

	SMSProviderURL string
	SMSAPIKey      string
	SMSSender      string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// AppConfig is the loaded configuration, set by LoadConfig
var AppConfig *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
		Env:        os.Getenv("ENV"),

		FrontendURL: os.Getenv("FRONTEND_URL"),
		BackendURL:  os.Getenv("BACKEND_URL"),

		ZarinpalMerchantID: os.Getenv("ZARINPAL_MERCHANT"),
		ZarinpalRequestURL: getEnvOrDefault("ZP_API_REQUEST", "https://api.zarinpal.com/pg/rest/WebGate/PaymentRequest.json"),
		ZarinpalVerifyURL:  getEnvOrDefault("ZP_API_VERIFY", "https://api.zarinpal.com/pg/rest/WebGate/PaymentVerification.json"),
		ZarinpalStartPay:   getEnvOrDefault("ZP_API_STARTPAY", "https://www.zarinpal.com/pg/StartPay/"),

		SMSProviderURL: os.Getenv("SMS_PROVIDER_URL"),
		SMSAPIKey:      os.Getenv("SMS_API_KEY"),
		SMSSender:      os.Getenv("SMS_SENDER"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
	}

	AppConfig = config
	return config, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
