package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	DatabaseURL         string   `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret           string   `mapstructure:"JWT_SECRET"`
	TokenTTLHours       int      `mapstructure:"TOKEN_TTL_HOURS"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	BaseURL             string   `mapstructure:"BASE_URL"`
	AnamnesisWebhookURL string   `mapstructure:"ANAMNESIS_WEBHOOK_URL"`
	SMTPHost            string   `mapstructure:"SMTP_HOST"`
	SMTPPort            int      `mapstructure:"SMTP_PORT"`
	SMTPUser            string   `mapstructure:"SMTP_USER"`
	SMTPPass            string   `mapstructure:"SMTP_PASS"`
	SMTPFrom            string   `mapstructure:"SMTP_FROM"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BASE_URL", "http://localhost:8000")
	v.SetDefault("SMTP_PORT", 587)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"JWT_SECRET", "TOKEN_TTL_HOURS", "CORS_ORIGINS", "BASE_URL",
		"ANAMNESIS_WEBHOOK_URL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. In production a
// JWT_SECRET must be set so that session tokens cannot be forged.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive, got %d", c.TokenTTLHours)
	}
	if c.AnamnesisWebhookURL != "" && !strings.HasPrefix(c.AnamnesisWebhookURL, "http") {
		return fmt.Errorf("ANAMNESIS_WEBHOOK_URL must be an http(s) URL")
	}
	return nil
}
