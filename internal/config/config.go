package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration. It is built once at startup and
// passed by value to the components that need it.
type Config struct {
	HTTPAddr          string
	Env               string
	LogLevel          string
	ShutdownTimeout   time.Duration
	AllowedOrigins    []string
	MaxRequestsPerMin int
	PickupLocationID  string
	Commerce7         Commerce7Config
}

// Commerce7Config holds the upstream credential and transport settings.
type Commerce7Config struct {
	BaseURL   string
	AppID     string
	SecretKey string
	TenantID  string
	Timeout   time.Duration
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

type rawConfig struct {
	HTTPAddr               string `mapstructure:"HTTP_ADDR"`
	Env                    string `mapstructure:"ENV"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	UpstreamTimeoutSeconds int    `mapstructure:"UPSTREAM_TIMEOUT_SECONDS"`
	CORSAllowedOrigins     string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MaxRequestsPerMin      int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	C7APIURL               string `mapstructure:"C7_API_URL"`
	C7AppID                string `mapstructure:"C7_APP_ID"`
	C7SecretKey            string `mapstructure:"C7_SECRET_KEY"`
	C7TenantID             string `mapstructure:"C7_TENANT_ID"`
	PickupLocationID       string `mapstructure:"PICKUP_LOCATION_ID"`
}

// Load reads configuration from the environment, overlaid on an optional
// YAML file. With an empty path, config.yaml is looked up in . and
// ./config. Missing credentials are an error.
func Load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 15)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("C7_API_URL", "https://api.commerce7.com/v1")
	// Required keys get empty defaults so AutomaticEnv applies on Unmarshal.
	v.SetDefault("C7_APP_ID", "")
	v.SetDefault("C7_SECRET_KEY", "")
	v.SetDefault("C7_TENANT_ID", "")
	v.SetDefault("PICKUP_LOCATION_ID", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := Config{
		HTTPAddr:          raw.HTTPAddr,
		Env:               raw.Env,
		LogLevel:          raw.LogLevel,
		ShutdownTimeout:   time.Duration(raw.ShutdownTimeoutSeconds) * time.Second,
		AllowedOrigins:    splitList(raw.CORSAllowedOrigins),
		MaxRequestsPerMin: raw.MaxRequestsPerMin,
		PickupLocationID:  strings.TrimSpace(raw.PickupLocationID),
		Commerce7: Commerce7Config{
			BaseURL:   strings.TrimRight(raw.C7APIURL, "/"),
			AppID:     strings.TrimSpace(raw.C7AppID),
			SecretKey: strings.TrimSpace(raw.C7SecretKey),
			TenantID:  strings.TrimSpace(raw.C7TenantID),
			Timeout:   time.Duration(raw.UpstreamTimeoutSeconds) * time.Second,
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every required setting is present.
func (c Config) Validate() error {
	var missing []string
	if c.Commerce7.AppID == "" {
		missing = append(missing, "C7_APP_ID")
	}
	if c.Commerce7.SecretKey == "" {
		missing = append(missing, "C7_SECRET_KEY")
	}
	if c.Commerce7.TenantID == "" {
		missing = append(missing, "C7_TENANT_ID")
	}
	if c.PickupLocationID == "" {
		missing = append(missing, "PICKUP_LOCATION_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	u, err := url.Parse(c.Commerce7.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid C7_API_URL %q", c.Commerce7.BaseURL)
	}
	if c.Commerce7.Timeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
