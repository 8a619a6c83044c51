package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Base URL of the dashboard service the client talks to.
	ServiceBaseURL string

	// Timeout applied to outbound HTTP calls (client and upstream).
	HTTPTimeout time.Duration

	// RefreshInterval controls how often the active dashboard view is
	// re-fetched in the background. Zero disables auto-refresh.
	RefreshInterval time.Duration

	// Server listen port.
	Port string

	// Open-Meteo endpoints used by the server.
	WeatherAPIURL    string
	HistoricalAPIURL string
	GeocodingAPIURL  string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ServiceBaseURL = getenvDefault("DASHBOARD_SERVICE_URL", "http://localhost:8080")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Auto-refresh: default 15 minutes, "0" disables.
	refreshStr := getenvDefault("REFRESH_INTERVAL", "15m")
	refresh, err := time.ParseDuration(refreshStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = refresh

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.WeatherAPIURL = getenvDefault("WEATHER_API_URL", "https://api.open-meteo.com/v1")
	cfg.HistoricalAPIURL = getenvDefault("HISTORICAL_WEATHER_API_URL", "https://archive-api.open-meteo.com/v1/archive")
	cfg.GeocodingAPIURL = getenvDefault("GEOCODING_API_URL", "https://geocoding-api.open-meteo.com/v1")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
