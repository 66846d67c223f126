package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	// Vision API (image classification)
	VisionAPIKey     string `mapstructure:"VISION_API_KEY"`
	VisionAPIBaseURL string `mapstructure:"VISION_API_BASE_URL"`

	// Supabase
	SupabaseURL            string `mapstructure:"SUPABASE_URL"`
	SupabasePublishableKey string `mapstructure:"SUPABASE_PUBLISHABLE_KEY"`
	SupabaseJWTSecret      string `mapstructure:"SUPABASE_JWT_SECRET"`
	SupabaseStorageBucket  string `mapstructure:"SUPABASE_STORAGE_BUCKET"`

	// Webhooks
	PaymentWebhookToken string `mapstructure:"PAYMENT_WEBHOOK_TOKEN"`
	EditingWebhookToken string `mapstructure:"EDITING_WEBHOOK_TOKEN"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Server
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	BaseURL     string `mapstructure:"BASE_URL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, reading from environment: %v", err)
	}

	// OS environment variables override .env values
	v.AutomaticEnv()

	v.SetDefault("VISION_API_BASE_URL", "https://api.scenesense.ai/v1/")
	v.SetDefault("SUPABASE_STORAGE_BUCKET", "property-photos")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("BASE_URL", "http://localhost:8080")

	// AutomaticEnv does not feed Unmarshal on its own, so bind each key
	for _, key := range []string{
		"VISION_API_KEY", "VISION_API_BASE_URL",
		"SUPABASE_URL", "SUPABASE_PUBLISHABLE_KEY", "SUPABASE_JWT_SECRET", "SUPABASE_STORAGE_BUCKET",
		"PAYMENT_WEBHOOK_TOKEN", "EDITING_WEBHOOK_TOKEN",
		"DATABASE_URL", "PORT", "ENVIRONMENT", "BASE_URL",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.VisionAPIKey == "" {
		return fmt.Errorf("VISION_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	return nil
}
