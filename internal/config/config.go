package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the server needs at startup.
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabasePath       string
	SessionSecret      string
	Environment        string
	UploadDir          string
	UploadURLPath      string
	CORSAllowedOrigins []string
	AdminUsername      string
	AdminEmail         string
	AdminPassword      string
}

// IsDevelopment reports whether the server runs in development mode.
// Secure cookie flags and gin's release mode key off of this.
func (c AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the application configuration from the environment, with
// safe defaults for missing values. A .env file is honored when present.
// SESSION_SECRET has no default: a session cookie signed with a
// guessable key is forgeable, so an empty secret is a load error and
// the startup path treats it as fatal.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "inkpress.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		return AppConfig{}, errors.New("SESSION_SECRET must be set")
	}

	environment := strings.TrimSpace(os.Getenv("ENVIRONMENT"))
	if environment == "" {
		environment = "development"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/uploads"
	}

	corsOrigins := splitOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:5173"}
	}

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       databasePath,
		SessionSecret:      sessionSecret,
		Environment:        environment,
		UploadDir:          uploadDir,
		UploadURLPath:      uploadURLPath,
		CORSAllowedOrigins: corsOrigins,
		AdminUsername:      strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminEmail:         strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:      strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
	}, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		origins = append(origins, trimmed)
	}
	return origins
}
