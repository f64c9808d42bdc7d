package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/keymap"
	"gopkg.in/yaml.v3"
)

// Node roles.
const (
	RoleCentral    = "central"
	RolePeripheral = "peripheral"
)

// Link kinds.
const (
	LinkMemory = "memory"
	LinkHTTP   = "http"
	LinkRedis  = "redis"
)

// DefaultRefreshInterval matches the status screen's periodic repaint.
const DefaultRefreshInterval = 2 * time.Second

// Config is the layerdisplay.yaml file.
type Config struct {
	Node            NodeConfig   `yaml:"node" json:"node"`
	Behavior        string       `yaml:"behavior" json:"behavior"`
	Link            LinkConfig   `yaml:"link" json:"link"`
	Keymap          KeymapConfig `yaml:"keymap" json:"keymap"`
	LogLevel        string       `yaml:"log_level" json:"log_level"`
	MetricsAddr     string       `yaml:"metrics_addr" json:"metrics_addr"`
	RefreshInterval string       `yaml:"refresh_interval" json:"refresh_interval"`
}

// NodeConfig selects what this process is.
type NodeConfig struct {
	Role string `yaml:"role" json:"role"`
	// Source is the peripheral index the central forwards to, or the index
	// a peripheral listens as.
	Source uint8 `yaml:"source" json:"source"`
}

// LinkConfig selects the split transport. Options are decoded by the
// adapter-specific accessors (HTTP, Redis).
type LinkConfig struct {
	Kind    string         `yaml:"kind" json:"kind"`
	Options map[string]any `yaml:"options" json:"options"`
}

// KeymapConfig describes the central's layers.
type KeymapConfig struct {
	DefaultLayer domain.Layer       `yaml:"default_layer" json:"default_layer"`
	Layers       []keymap.LayerSpec `yaml:"layers" json:"layers"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Node:            NodeConfig{Role: RoleCentral},
		Behavior:        domain.BehaviorLayerDisplay,
		Link:            LinkConfig{Kind: LinkMemory},
		LogLevel:        "info",
		RefreshInterval: DefaultRefreshInterval.String(),
	}
}

// Load reads a configuration file (YAML or JSON). A missing file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.Node.Role {
	case RoleCentral, RolePeripheral:
	default:
		return fmt.Errorf("invalid node role %q", c.Node.Role)
	}
	switch c.Link.Kind {
	case LinkMemory, LinkHTTP, LinkRedis:
	default:
		return fmt.Errorf("unknown link kind %q", c.Link.Kind)
	}
	if c.Behavior == "" {
		return fmt.Errorf("behavior name must not be empty")
	}
	if _, err := c.Refresh(); err != nil {
		return err
	}
	return nil
}

// Refresh returns the periodic repaint interval.
func (c *Config) Refresh() (time.Duration, error) {
	if c.RefreshInterval == "" {
		return DefaultRefreshInterval, nil
	}
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid refresh_interval: %s must be positive", d)
	}
	return d, nil
}
