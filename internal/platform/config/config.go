package config

import (
	"os"
	"strings"
)

// Server captures process-level configuration for the fieldgate service.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisAddr     string
	JWTSigningKey string
	// AdminKeyHash is a bcrypt hash of the admin API key protecting the
	// settings endpoints. Empty disables the admin surface.
	AdminKeyHash string
	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("FIELDGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("AUDIT_KAFKA_TOPIC")
	if topic == "" {
		topic = "fieldgate.audit"
	}

	var brokers []string
	if raw := os.Getenv("AUDIT_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		JWTSigningKey: jwtSigningKey,
		AdminKeyHash:  os.Getenv("ADMIN_KEY_HASH"),
		KafkaBrokers:  brokers,
		KafkaTopic:    topic,
	}
}
