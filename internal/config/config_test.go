package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceBaseURL != "http://localhost:8080" {
		t.Errorf("service url = %q", cfg.ServiceBaseURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("timeout = %v", cfg.HTTPTimeout)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("refresh interval = %v", cfg.RefreshInterval)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.WeatherAPIURL == "" || cfg.HistoricalAPIURL == "" || cfg.GeocodingAPIURL == "" {
		t.Errorf("missing upstream defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_SERVICE_URL", "http://dash.internal:9090")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("REFRESH_INTERVAL", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceBaseURL != "http://dash.internal:9090" {
		t.Errorf("service url = %q", cfg.ServiceBaseURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("timeout = %v", cfg.HTTPTimeout)
	}
	if cfg.RefreshInterval != 0 {
		t.Errorf("refresh interval = %v, want disabled", cfg.RefreshInterval)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatal("load accepted a bad duration")
	}
}
