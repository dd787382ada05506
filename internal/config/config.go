// Package config loads the gateway configuration from the environment, with
// an optional Vault overlay for the spreadsheet credentials and admin token.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the gateway process.
type Config struct {
	Port       string
	WorkerEnv  string
	DebugLevel string

	AdminToken string
	BaseURL    string

	GoogleClientEmail string
	GooglePrivateKey  string
	SpreadsheetID     string
	TokenEndpoint     string
	SheetsBaseURL     string

	RedisAddr string

	VaultAddr       string
	VaultToken      string
	VaultSecretPath string

	OTLPEndpoint string
}

// Load reads configuration from the environment. Every key has a sane
// dev default except the credentials, which stay empty and trip the
// NOT_CONFIGURED path downstream.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("WORKER_ENV", "dev")
	v.SetDefault("DEBUG_LEVEL", "info")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("VAULT_SECRET_PATH", "secret/data/event-gateway")

	cfg := &Config{
		Port:       v.GetString("PORT"),
		WorkerEnv:  v.GetString("WORKER_ENV"),
		DebugLevel: v.GetString("DEBUG_LEVEL"),

		AdminToken: v.GetString("ADMIN_TOKEN"),
		BaseURL:    v.GetString("BASE_URL"),

		GoogleClientEmail: v.GetString("GOOGLE_CLIENT_EMAIL"),
		GooglePrivateKey:  v.GetString("GOOGLE_PRIVATE_KEY"),
		SpreadsheetID:     v.GetString("SHEETS_SPREADSHEET_ID"),
		TokenEndpoint:     v.GetString("GOOGLE_TOKEN_ENDPOINT"),
		SheetsBaseURL:     v.GetString("SHEETS_BASE_URL"),

		RedisAddr: v.GetString("REDIS_ADDR"),

		VaultAddr:       v.GetString("VAULT_ADDR"),
		VaultToken:      v.GetString("VAULT_TOKEN"),
		VaultSecretPath: v.GetString("VAULT_SECRET_PATH"),

		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.VaultAddr != "" && cfg.VaultToken != "" {
		if err := cfg.overlayVault(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// overlayVault replaces the secret-bearing fields with values from the KV2
// secret, keeping env values for any key the secret omits.
func (c *Config) overlayVault() error {
	data, err := fetchKV2(c.VaultAddr, c.VaultToken, c.VaultSecretPath)
	if err != nil {
		return err
	}
	pick := func(key string, dst *string) {
		if s, ok := data[key].(string); ok && s != "" {
			*dst = s
		}
	}
	pick("google_client_email", &c.GoogleClientEmail)
	pick("google_private_key", &c.GooglePrivateKey)
	pick("sheets_spreadsheet_id", &c.SpreadsheetID)
	pick("admin_token", &c.AdminToken)
	return nil
}

// AnalyticsEnv maps the deployment environment onto the closed analytics
// env column values.
func (c *Config) AnalyticsEnv() string {
	switch strings.ToLower(c.WorkerEnv) {
	case "production", "prod":
		return "prod"
	case "staging", "stg":
		return "stg"
	default:
		return "dev"
	}
}

// IsDev reports whether the process runs outside production and staging.
func (c *Config) IsDev() bool {
	return c.AnalyticsEnv() == "dev"
}
