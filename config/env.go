package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := strings.ToLower(os.Getenv("ENV")); env {
	case "production", "prod":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}

// secretOverrides maps Docker secret files to the credential they replace
var secretOverrides = map[string]func(*Config, string){
	"db_password":    func(c *Config, v string) { c.Database.Password = v },
	"redis_password": func(c *Config, v string) { c.Redis.Password = v },
	"redis_url":      func(c *Config, v string) { c.Redis.URL = v },
	"s3_access_key":  func(c *Config, v string) { c.Storage.S3.AccessKey = v },
	"s3_secret_key":  func(c *Config, v string) { c.Storage.S3.SecretKey = v },
}

// applySecrets overrides credentials with Docker secrets when present. CI
// takes its credentials from the environment only.
func applySecrets(cfg *Config) {
	if cfg.Env == CI {
		return
	}
	for name, set := range secretOverrides {
		if value := readSecret(name); value != "" {
			set(cfg, value)
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
