package myconfig

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config is read from an optional yaml file first, environment variables win
type Config struct {
	Port            string    `mapstructure:"port"`
	ServiceURL      string    `mapstructure:"service_url"`
	APIURL          string    `mapstructure:"api_url"`
	RedirectBaseURL string    `mapstructure:"redirect_base_url"`
	RazorpayKeyID   string    `mapstructure:"razorpay_key_id"`
	Branding        Branding  `mapstructure:"branding"`
	RateLimit       RateLimit `mapstructure:"rate_limit"`
	FakeBackend     Fake      `mapstructure:"fake_backend"`
}

type Branding struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Address     string `mapstructure:"address"`
	ThemeColor  string `mapstructure:"theme_color"`
	PrefillName string `mapstructure:"prefill_name"`
}

// Fake serves an in-memory backend next to the payment page, for local runs only
type Fake struct {
	Enabled   bool   `mapstructure:"enabled"`
	KeySecret string `mapstructure:"key_secret"`
	Token     string `mapstructure:"token"`
	Email     string `mapstructure:"email"`
}

type RateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

var defaults = map[string]any{
	"port":                  "8080",
	"service_url":           "http://localhost:8080",
	"branding.name":         "Zap",
	"branding.description":  "Zap Pro - One-time lifetime access",
	"branding.address":      "Zap Technologies, India",
	"branding.theme_color":  "#6D28D9",
	"branding.prefill_name": "Zap User",
	"rate_limit.rps":        1.0,
	"rate_limit.burst":      5,
	"fake_backend.enabled":  false,
	"fake_backend.token":    "local",
	"fake_backend.email":    "user@localhost",
}

// environment variable per key, nested keys are joined by an underscore
var envNames = map[string]string{
	"port":                    "PORT",
	"service_url":             "SERVICE_URL",
	"api_url":                 "API_URL",
	"redirect_base_url":       "REDIRECT_BASE_URL",
	"razorpay_key_id":         "RAZORPAY_KEY_ID",
	"branding.name":           "BRANDING_NAME",
	"branding.description":    "BRANDING_DESCRIPTION",
	"branding.address":        "BRANDING_ADDRESS",
	"branding.theme_color":    "BRANDING_THEME_COLOR",
	"branding.prefill_name":   "BRANDING_PREFILL_NAME",
	"rate_limit.rps":          "RATE_LIMIT_RPS",
	"rate_limit.burst":        "RATE_LIMIT_BURST",
	"fake_backend.enabled":    "FAKE_BACKEND",
	"fake_backend.key_secret": "FAKE_BACKEND_KEY_SECRET",
	"fake_backend.token":      "FAKE_BACKEND_TOKEN",
	"fake_backend.email":      "FAKE_BACKEND_EMAIL",
}

// Load reads the yaml file at path (when not empty) and overlays the environment
func Load(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envNames {
		err := v.BindEnv(key, env)
		if err != nil {
			return Config{}, fmt.Errorf("error binding %s to %s: %w", key, env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		err := v.ReadInConfig()
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	cfg := Config{}
	err := v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.RedirectBaseURL = strings.TrimRight(cfg.RedirectBaseURL, "/")
	cfg.ServiceURL = strings.TrimRight(cfg.ServiceURL, "/")
	if cfg.FakeBackend.Enabled && cfg.APIURL == "" {
		cfg.APIURL = cfg.ServiceURL
	}
	if cfg.RedirectBaseURL == "" {
		cfg.RedirectBaseURL = cfg.APIURL
	}

	err = cfg.validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.APIURL == "" {
		return fmt.Errorf("missing API_URL")
	}
	for name, value := range map[string]string{"API_URL": cfg.APIURL, "REDIRECT_BASE_URL": cfg.RedirectBaseURL, "SERVICE_URL": cfg.ServiceURL} {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, value)
		}
	}
	if cfg.RazorpayKeyID == "" {
		return fmt.Errorf("missing RAZORPAY_KEY_ID")
	}
	if cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive: rps=%v burst=%d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	return nil
}
