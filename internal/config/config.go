package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ListenAddr string
	BaseURL    string

	Provider struct {
		TokenURL   string
		BaseURL    string
		CalendarID string
	}

	Tasks struct {
		BaseURL string
		Token   string
	}

	OIDC struct {
		IssuerURL string
		ClientID  string
	}

	Session struct {
		CookieName string
	}

	Grid struct {
		StartHour int
		EndHour   int
	}

	PrometheusEnabled bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("APP_LISTEN_ADDR", ":8080")
	cfg.BaseURL = getenvDefault("APP_BASE_URL", "http://localhost:8080")

	cfg.Provider.TokenURL = os.Getenv("APP_TOKEN_URL")
	cfg.Provider.BaseURL = os.Getenv("APP_CALENDAR_URL")
	cfg.Provider.CalendarID = getenvDefault("APP_CALENDAR_ID", "primary")

	cfg.Tasks.BaseURL = os.Getenv("APP_TASKS_URL")
	cfg.Tasks.Token = os.Getenv("APP_TASKS_TOKEN")

	cfg.OIDC.IssuerURL = os.Getenv("APP_OIDC_ISSUER_URL")
	cfg.OIDC.ClientID = os.Getenv("APP_OIDC_CLIENT_ID")
	cfg.Session.CookieName = getenvDefault("APP_SESSION_COOKIE", "daygrid_session")

	cfg.Grid.StartHour = getenvInt("APP_GRID_START_HOUR", 7)
	cfg.Grid.EndHour = getenvInt("APP_GRID_END_HOUR", 21)

	cfg.PrometheusEnabled = getenvBool("APP_PROMETHEUS_ENDPOINT_ENABLED", false)

	if cfg.Provider.TokenURL == "" {
		return nil, errors.New("APP_TOKEN_URL is required")
	}
	if cfg.Provider.BaseURL == "" {
		return nil, errors.New("APP_CALENDAR_URL is required")
	}
	if cfg.OIDC.IssuerURL == "" || cfg.OIDC.ClientID == "" {
		return nil, errors.New("APP_OIDC_ISSUER_URL and APP_OIDC_CLIENT_ID are required")
	}
	if cfg.Tasks.BaseURL != "" && cfg.Tasks.Token == "" {
		return nil, errors.New("APP_TASKS_TOKEN is required when APP_TASKS_URL is set")
	}
	if cfg.Grid.StartHour < 0 || cfg.Grid.EndHour > 24 || cfg.Grid.StartHour >= cfg.Grid.EndHour {
		return nil, fmt.Errorf("invalid grid window %d..%d", cfg.Grid.StartHour, cfg.Grid.EndHour)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
