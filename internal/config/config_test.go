package config

import "testing"

// girderEnvVars lists all env vars that must be cleared between tests.
var girderEnvVars = []string{
	"GIRDER_AIRTABLE_TOKEN", "GIRDER_AIRTABLE_BASE", "GIRDER_AIRTABLE_URL",
	"GIRDER_HTTP_ADDR", "GIRDER_AUTH_TOKEN", "GIRDER_NATS_URL",
	"GIRDER_SCHEMA", "GIRDER_CORS_ORIGIN",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range girderEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantURL      string
		wantHTTPAddr string
		wantCORS     string
	}{
		{
			name:    "MissingToken",
			env:     map[string]string{"GIRDER_AIRTABLE_BASE": "appX"},
			wantErr: true,
		},
		{
			name:    "MissingBase",
			env:     map[string]string{"GIRDER_AIRTABLE_TOKEN": "tok"},
			wantErr: true,
		},
		{
			name: "Defaults",
			env: map[string]string{
				"GIRDER_AIRTABLE_TOKEN": "tok",
				"GIRDER_AIRTABLE_BASE":  "appX",
			},
			wantURL:      "https://api.airtable.com/v0",
			wantHTTPAddr: ":8080",
			wantCORS:     "*",
		},
		{
			name: "Overrides",
			env: map[string]string{
				"GIRDER_AIRTABLE_TOKEN": "tok",
				"GIRDER_AIRTABLE_BASE":  "appX",
				"GIRDER_AIRTABLE_URL":   "http://127.0.0.1:9999/v0",
				"GIRDER_HTTP_ADDR":      ":3000",
				"GIRDER_CORS_ORIGIN":    "https://dash.example.com",
			},
			wantURL:      "http://127.0.0.1:9999/v0",
			wantHTTPAddr: ":3000",
			wantCORS:     "https://dash.example.com",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.AirtableURL != tc.wantURL {
				t.Errorf("AirtableURL = %q, want %q", cfg.AirtableURL, tc.wantURL)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.CORSOrigin != tc.wantCORS {
				t.Errorf("CORSOrigin = %q, want %q", cfg.CORSOrigin, tc.wantCORS)
			}
		})
	}
}
