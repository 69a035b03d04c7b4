package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix for every environment variable read by Load, e.g. SHOPHUB_PORT.
const Prefix = "shophub"

type Config struct {
	ServerPort          string        `envconfig:"PORT" default:"8080"`
	Environment         string        `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
	CatalogURL          string        `envconfig:"CATALOG_URL" default:"https://fakestoreapi.com"`
	SessionSecret       string        `envconfig:"SESSION_SECRET"`
	SessionTTL          time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SweepInterval       time.Duration `envconfig:"SWEEP_INTERVAL" default:"10m"`
	CloudinaryURL       string        `envconfig:"CLOUDINARY_URL"`
	ImageTransformation string        `envconfig:"IMAGE_TRANSFORMATION" default:"c_fill,w_400,h_400"`
	AllowedOrigins      []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads .env if present, then the SHOPHUB_* environment. Without a
// configured session secret a random one is generated, which means session
// cookies do not survive a restart.
func Load() (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.SessionSecret == "" {
		secret, err := generateRandomString(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
	}

	return &cfg, nil
}

func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
