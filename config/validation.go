package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirements lists the settings that must be non-empty per environment.
var requirements = map[Environment][]string{
	Development: {"SERVER_PORT"},
	Test:        {"SERVER_PORT"},
	CI:          {"SERVER_PORT", "JWT_SECRET"},
	Production:  {"SERVER_PORT", "JWT_SECRET", "DB_PASSWORD"},
}

func (c *Config) lookup(key string) string {
	switch key {
	case "SERVER_PORT":
		return c.ServerPort
	case "JWT_SECRET":
		return c.JWTSecret
	case "DB_PASSWORD":
		if c.DBDriver == "sqlite" {
			return "n/a"
		}
		return c.DBPassword
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	for _, key := range requirements[cfg.Env] {
		if cfg.lookup(key) == "" {
			errs = append(errs, ValidationError{Field: key, Message: fmt.Sprintf("is required in %s", cfg.Env)})
		}
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"})
	}

	switch cfg.StorageBackend {
	case "local":
		if cfg.MediaRoot == "" {
			errs = append(errs, ValidationError{Field: "MEDIA_ROOT", Message: "is required for local storage"})
		}
	case "s3":
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "is required for s3 storage"})
		}
	default:
		errs = append(errs, ValidationError{Field: "STORAGE_BACKEND", Message: "must be local or s3"})
	}

	if cfg.Env.IsProduction() && cfg.JWTSecret == developmentJWTSecret {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must not use the development secret"})
	}

	if cfg.RedisURL != "" && cfg.RateLimitRequests <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "must be positive"})
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{Field: "LOG_FORMAT", Message: "must be text or json"})
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
