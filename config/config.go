package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const developmentJWTSecret = "insecure-development-secret"

// Config holds all configuration for the application
type Config struct {
	Env Environment `ignored:"true"`

	// Server configuration
	ServerHost      string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ServerPort      string        `envconfig:"SERVER_PORT" default:"8000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Database configuration
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"recipebox"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"recipebox.db"`

	// Redis configuration. An empty URL disables rate limiting.
	RedisURL      string `envconfig:"REDIS_URL"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"120"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// JWT configuration
	JWTSecret string `envconfig:"JWT_SECRET"`

	// Media storage
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"local"`
	MediaRoot      string `envconfig:"MEDIA_ROOT" default:"media"`
	MediaURL       string `envconfig:"MEDIA_URL" default:"/media"`
	S3BucketName   string `envconfig:"S3_BUCKET_NAME"`
	AWSRegion      string `envconfig:"AWS_REGION" default:"us-east-1"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadConfig creates a new Config from the process environment. In
// development a .env file is read first; outside CI any Docker secret files
// override the matching variables.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development {
		// a missing .env is normal
		_ = godotenv.Load()
	}

	cfg := &Config{Env: env}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if env != CI {
		applySecrets(cfg)
	}

	if cfg.JWTSecret == "" && (env == Development || env == Test) {
		cfg.JWTSecret = developmentJWTSecret
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applySecrets overlays Docker secrets on top of environment values.
func applySecrets(cfg *Config) {
	overlay := map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"jwt_secret":     &cfg.JWTSecret,
		"redis_url":      &cfg.RedisURL,
		"redis_password": &cfg.RedisPassword,
		"s3_bucket_name": &cfg.S3BucketName,
	}
	for name, dst := range overlay {
		if v := readSecret(name); v != "" {
			*dst = v
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// PostgresDSN renders the connection string understood by both pgx and lib/pq.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
