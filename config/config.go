// Package config loads service configuration from a JSON or YAML file with
// optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kheireddine-anas/busbot/infra/browser"
	"github.com/kheireddine-anas/busbot/infra/transport"
)

type Config struct {
	Platform transport.Config `json:"platform"`
	Browser  browser.Config   `json:"browser"`
	Token    TokenConfig      `json:"token"`
	Audit    AuditConfig      `json:"audit"`
	Booking  BookingConfig    `json:"booking"`
	Metrics  MetricsConfig    `json:"metrics"`
}

// TokenConfig locates the persisted session token.
type TokenConfig struct {
	Path string `json:"path"`
}

func (c *TokenConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = ".tkn"
	}
}

// AuditConfig locates the append-only booking audit log.
type AuditConfig struct {
	Path string `json:"path"`
}

func (c *AuditConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "booking_audit.jsonl"
	}
}

// BookingConfig holds booking request options.
type BookingConfig struct {
	// ToCampus selects the travel direction sent with every booking.
	ToCampus bool `json:"to_campus"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":2112"
	}
}

// Load reads the configuration file at path. Environment variables with the
// BUSBOT_ prefix override file values, with "__" as the section separator.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("BUSBOT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "busbot_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Platform.SetDefaults()
	cfg.Browser.SetDefaults()
	cfg.Token.SetDefaults()
	cfg.Audit.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Platform.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
