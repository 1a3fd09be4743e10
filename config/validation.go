package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its
// environment. All problems are reported together.
func ValidateConfig(cfg *Config) error {
	var errs []error
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.Server.Port == "" {
		fail("server.port", "is required")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			fail("database.host", "is required for postgres")
		}
		if cfg.Database.Name == "" {
			fail("database.name", "is required for postgres")
		}
		if cfg.Database.User == "" {
			fail("database.user", "is required for postgres")
		}
		if cfg.Env == Production && cfg.Database.Password == "" {
			fail("database.password", "db_password secret is required in production")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			fail("database.sqlite_path", "is required for sqlite")
		}
		if cfg.Env == Production {
			fail("database.driver", "sqlite is not supported in production")
		}
	default:
		fail("database.driver", fmt.Sprintf("unsupported driver %q", cfg.Database.Driver))
	}

	switch cfg.Storage.Backend {
	case "local":
		if cfg.Storage.UploadDir == "" {
			fail("storage.upload_dir", "is required for local storage")
		}
	case "s3":
		if cfg.Storage.S3.Bucket == "" {
			fail("storage.s3.bucket", "is required for s3 storage")
		}
	default:
		fail("storage.backend", fmt.Sprintf("unsupported backend %q", cfg.Storage.Backend))
	}
	if cfg.Storage.MaxUploadBytes <= 0 {
		fail("storage.max_upload_bytes", "must be positive")
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0) {
		fail("rate_limit", "requests and window must be positive when enabled")
	}

	if cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		fail("log.format", "must be json or console")
	}

	return errors.Join(errs...)
}
