package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type AppSettings struct {
	Env      string
	Port     string
	LogLevel string

	DatabaseURL string

	JWTSecret            string
	SecretKey            string
	PasswordResetTimeout time.Duration
	FrontendBaseURL      string

	EmailBackend    string
	BrevoAPIKey     string
	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	CloudinaryURL string
	SentryDSN     string

	TimeblockScheme string
	NoShowLimit     int
	Location        *time.Location
}

// Settings is the process-wide configuration. Load fills it; tests may
// overwrite individual fields.
var Settings = defaults()

var loadEnvOnce sync.Once

func loadEnvFile() {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load(".env")
	})
}

// Config returns a single environment value after the .env file has been read.
func Config(key string) string {
	loadEnvFile()
	return os.Getenv(key)
}

func Load() (*AppSettings, error) {
	loadEnvFile()

	s := defaults()
	s.Env = getenv("ENV", s.Env)
	s.Port = getenv("PORT", s.Port)
	s.LogLevel = getenv("LOG_LEVEL", s.LogLevel)
	s.DatabaseURL = os.Getenv("DATABASE_URL")
	s.JWTSecret = os.Getenv("JWT_SECRET")
	s.SecretKey = os.Getenv("SECRET_KEY")
	s.FrontendBaseURL = strings.TrimRight(os.Getenv("FRONTEND_BASE_URL"), "/")
	s.EmailBackend = strings.ToLower(getenv("EMAIL_BACKEND", s.EmailBackend))
	s.BrevoAPIKey = os.Getenv("BREVO_API_KEY")
	s.SendgridAPIKey = os.Getenv("SENDGRID_API_KEY")
	s.EmailSender = getenv("EMAIL_SENDER", s.EmailSender)
	s.EmailSenderName = getenv("EMAIL_SENDER_NAME", s.EmailSenderName)
	s.AdminUsername = getenv("ADMIN_USERNAME", s.AdminUsername)
	s.AdminEmail = os.Getenv("ADMIN_EMAIL")
	s.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	s.CloudinaryURL = os.Getenv("CLOUDINARY_URL")
	s.SentryDSN = os.Getenv("SENTRY_DSN")
	s.TimeblockScheme = getenv("TIMEBLOCK_SCHEME", s.TimeblockScheme)

	if v := os.Getenv("PASSWORD_RESET_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PASSWORD_RESET_TIMEOUT: %w", err)
		}
		s.PasswordResetTimeout = d
	}
	if v := os.Getenv("NO_SHOW_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("NO_SHOW_LIMIT: invalid value %q", v)
		}
		s.NoShowLimit = n
	}
	if tz := os.Getenv("TIME_ZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("TIME_ZONE: %w", err)
		}
		s.Location = loc
	}

	if s.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if s.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if s.SecretKey == "" {
		s.SecretKey = s.JWTSecret
	}

	Settings = s
	return s, nil
}

func defaults() *AppSettings {
	return &AppSettings{
		Env:                  "dev",
		Port:                 "8080",
		LogLevel:             "info",
		PasswordResetTimeout: 72 * time.Hour,
		EmailBackend:         "console",
		EmailSender:          "noreply@tutoring.local",
		EmailSenderName:      "Tutoring Center",
		AdminUsername:        "admin",
		TimeblockScheme:      "40min",
		NoShowLimit:          2,
		Location:             time.Local,
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
