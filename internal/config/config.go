package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Provider
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"aws"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Object storage
	S3Bucket       string `envconfig:"S3_BUCKET" required:"true"`
	LivenessPrefix string `envconfig:"LIVENESS_PREFIX" default:"liveness-sessions"`

	// Verification tuning
	FaceCropScale       float64 `envconfig:"FACE_CROP_SCALE" default:"1.2"`
	FaceConfidenceMin   float64 `envconfig:"FACE_CONFIDENCE_MIN" default:"95"`
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"95"`
	AuditImagesLimit    int32   `envconfig:"AUDIT_IMAGES_LIMIT" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
