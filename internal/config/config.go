// Package config loads process configuration from GIRDER_* environment
// variables, with optional .env support for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AirtableToken string // GIRDER_AIRTABLE_TOKEN (required)
	AirtableBase  string // GIRDER_AIRTABLE_BASE (required)
	AirtableURL   string // GIRDER_AIRTABLE_URL (default "https://api.airtable.com/v0")
	HTTPAddr      string // GIRDER_HTTP_ADDR (default ":8080")
	AuthToken     string // GIRDER_AUTH_TOKEN (optional, empty = auth disabled)
	NATSURL       string // GIRDER_NATS_URL (optional, empty = no events)
	SchemaPath    string // GIRDER_SCHEMA (optional TOML schema override)
	CORSOrigin    string // GIRDER_CORS_ORIGIN (default "*")
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; missing files are not an error.
// Missing Airtable credentials are a configuration error: no request can do
// any work without them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		AirtableToken: os.Getenv("GIRDER_AIRTABLE_TOKEN"),
		AirtableBase:  os.Getenv("GIRDER_AIRTABLE_BASE"),
		AirtableURL:   envOrDefault("GIRDER_AIRTABLE_URL", "https://api.airtable.com/v0"),
		HTTPAddr:      envOrDefault("GIRDER_HTTP_ADDR", ":8080"),
		AuthToken:     os.Getenv("GIRDER_AUTH_TOKEN"),
		NATSURL:       os.Getenv("GIRDER_NATS_URL"),
		SchemaPath:    os.Getenv("GIRDER_SCHEMA"),
		CORSOrigin:    envOrDefault("GIRDER_CORS_ORIGIN", "*"),
	}
	if c.AirtableToken == "" {
		return nil, fmt.Errorf("GIRDER_AIRTABLE_TOKEN is required")
	}
	if c.AirtableBase == "" {
		return nil, fmt.Errorf("GIRDER_AIRTABLE_BASE is required")
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
