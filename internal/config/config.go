package config

import (
	"os"
	"strings"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string

	JWTSecret      string
	AdminJWTSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string

	KafkaBrokers      []string
	NotificationTopic string

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string
}

// Load reads configuration from environment variables.
func Load() Config {
	cfg := Config{
		Addr:        getenv("STORE_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),

		NotificationTopic: getenv("NOTIFICATION_TOPIC", "order-notifications"),

		SMTPHost:  getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getenv("SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if cfg.AdminJWTSecret == "" {
		cfg.AdminJWTSecret = cfg.JWTSecret
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.SMTPUser
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
