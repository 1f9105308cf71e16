package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "zero scroll step",
			mutate: func(cfg *Config) {
				cfg.ScrollStep = 0
			},
			wantErr: "scroll step",
		},
		{
			name: "negative max scrolls",
			mutate: func(cfg *Config) {
				cfg.MaxScrolls = -1
			},
			wantErr: "max scrolls",
		},
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "invalid url format",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "zero page load timeout",
			mutate: func(cfg *Config) {
				cfg.PageLoadTimeout = 0
			},
			wantErr: "page load timeout",
		},
		{
			name: "negative step delay",
			mutate: func(cfg *Config) {
				cfg.StepDelay = -time.Millisecond
			},
			wantErr: "step delay",
		},
		{
			name: "zero dedupe size",
			mutate: func(cfg *Config) {
				cfg.DedupeMaxSize = 0
			},
			wantErr: "dedupe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("EVDS_BASE_URL", "http://localhost:8080/evds")
	t.Setenv("EVDS_TIMEOUT", "3s")
	t.Setenv("EVDS_MAX_SCROLLS", "25")
	t.Setenv("EVDS_HEADLESS", "false")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv returned error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080/evds" {
		t.Fatalf("unexpected base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Timeout)
	}
	if cfg.MaxScrolls != 25 {
		t.Fatalf("unexpected max scrolls %d", cfg.MaxScrolls)
	}
	if cfg.Headless {
		t.Fatalf("expected headless to be disabled")
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("EVDS_MAX_SCROLLS", "many")

	cfg := DefaultConfig()
	err := cfg.ApplyEnv()
	if err == nil || !strings.Contains(err.Error(), "EVDS_MAX_SCROLLS") {
		t.Fatalf("expected error naming EVDS_MAX_SCROLLS, got %v", err)
	}
}

func TestEnvStringBlank(t *testing.T) {
	t.Setenv("EVDS_CHROME_PATH", "   ")
	if _, ok := EnvString("EVDS_CHROME_PATH"); ok {
		t.Fatalf("blank value should count as unset")
	}
}
