package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MySQLDSN  string
	RedisURL  string
	JWTSecret string
	Port      string

	// Optional shared secret the fronting identity layer must present on
	// /v1/auth/login; empty disables the check.
	LoginSecret string

	// Base URL of the frontend, used for links in outbound mail.
	BaseURL        string
	AllowedOrigins []string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	InviteExpiryDays int
	SweepInterval    time.Duration
	DraftTTLDays     int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s: %v", key, err)
	}
	return n
}

func Load() Config {
	origins := strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		MySQLDSN:  getenv("MYSQL_DSN", ""),
		RedisURL:  getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret: getenv("JWT_SECRET", ""),
		Port:      getenv("PORT", "8080"),

		LoginSecret: os.Getenv("LOGIN_SHARED_SECRET"),

		BaseURL:        getenv("BASE_URL", "http://localhost:3000"),
		AllowedOrigins: origins,

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getenv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getenv("SMTP_FROM", "no-reply@incubator.local"),

		InviteExpiryDays: getint("INVITE_EXPIRY_DAYS", 2),
		SweepInterval:    time.Duration(getint("SWEEP_INTERVAL_MINUTES", 60)) * time.Minute,
		DraftTTLDays:     getint("DRAFT_TTL_DAYS", 30),
	}
}
