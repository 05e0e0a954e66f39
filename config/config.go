package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the server. Values come from the
// environment with sensible defaults for local development.
type Config struct {
	Port               string
	AWSRegion          string
	S3Bucket           string
	JWTSecret          string
	JWTExpiry          time.Duration
	CORSAllowedOrigins []string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET_NAME", "amora-photos")
	v.SetDefault("JWT_EXPIRY", "168h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}

	expiry, err := time.ParseDuration(v.GetString("JWT_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}

	return &Config{
		Port:               v.GetString("PORT"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET_NAME"),
		JWTSecret:          secret,
		JWTExpiry:          expiry,
		CORSAllowedOrigins: strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ","),
	}, nil
}
