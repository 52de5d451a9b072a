package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vietdv277/asgroll/pkg/types"
)

// DefaultRegionFallback is used when no region is configured anywhere
const DefaultRegionFallback = "us-east-1"

// Config represents the application configuration
type Config struct {
	AWSProfile     string         `yaml:"aws_profile,omitempty"`
	AWSRegion      string         `yaml:"aws_region,omitempty"`
	RegionFallback string         `yaml:"region_fallback,omitempty"`
	Refresh        *RefreshConfig `yaml:"refresh,omitempty"`
}

// RefreshConfig overrides the instance refresh defaults
type RefreshConfig struct {
	CheckpointPercentages []int         `yaml:"checkpoint_percentages,omitempty"`
	MinHealthyPercentage  *int          `yaml:"min_healthy_percentage,omitempty"` // nil keeps the default, 0 is valid
	WaitTimeout           time.Duration `yaml:"wait_timeout,omitempty"`
}

// GetConfigDir returns the config directory path ($XDG_CONFIG_HOME/asgroll)
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "asgroll")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".asgroll"
	}
	return filepath.Join(home, ".config", "asgroll")
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	configPath := GetConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration file
func SaveConfig(cfg *Config) error {
	configDir := GetConfigDir()

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := GetConfigPath()
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetRegionFallback returns the configured fallback region or us-east-1
func (c *Config) GetRegionFallback() string {
	if c.RegionFallback != "" {
		return c.RegionFallback
	}
	return DefaultRegionFallback
}

// RefreshPreferences returns the refresh defaults with any overrides applied
func (c *Config) RefreshPreferences() types.RefreshPreferences {
	prefs := types.DefaultRefreshPreferences()
	if c.Refresh == nil {
		return prefs
	}

	if len(c.Refresh.CheckpointPercentages) > 0 {
		prefs.CheckpointPercentages = c.Refresh.CheckpointPercentages
	}
	if c.Refresh.MinHealthyPercentage != nil {
		prefs.MinHealthyPercentage = *c.Refresh.MinHealthyPercentage
	}
	return prefs
}

// WaitTimeout returns how long a waited refresh is polled, zero for the default
func (c *Config) WaitTimeout() time.Duration {
	if c.Refresh == nil {
		return 0
	}
	return c.Refresh.WaitTimeout
}

// setters maps the keys accepted by Set to the field they update
var setters = map[string]func(*Config, string) error{
	"aws_profile": func(c *Config, v string) error {
		c.AWSProfile = v
		return nil
	},
	"aws_region": func(c *Config, v string) error {
		c.AWSRegion = v
		return nil
	},
	"region_fallback": func(c *Config, v string) error {
		c.RegionFallback = v
		return nil
	},
	"refresh.checkpoint_percentages": func(c *Config, v string) error {
		var percentages []int
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			p, err := strconv.Atoi(part)
			if err != nil || p < 1 || p > 100 {
				return fmt.Errorf("invalid checkpoint percentage %q", part)
			}
			percentages = append(percentages, p)
		}
		if !sort.IntsAreSorted(percentages) {
			return fmt.Errorf("checkpoint percentages must be ascending: %s", v)
		}
		c.refresh().CheckpointPercentages = percentages
		return nil
	},
	"refresh.min_healthy_percentage": func(c *Config, v string) error {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 || p > 100 {
			return fmt.Errorf("invalid min healthy percentage %q", v)
		}
		c.refresh().MinHealthyPercentage = &p
		return nil
	},
	"refresh.wait_timeout": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid wait timeout %q: %w", v, err)
		}
		c.refresh().WaitTimeout = d
		return nil
	},
}

func (c *Config) refresh() *RefreshConfig {
	if c.Refresh == nil {
		c.Refresh = &RefreshConfig{}
	}
	return c.Refresh
}

// Keys returns the keys accepted by Set in sorted order
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set updates a single key in the saved config
func Set(key, value string) error {
	setter, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	if err := setter(cfg, value); err != nil {
		return err
	}
	return SaveConfig(cfg)
}

// GetSavedProfile returns the saved AWS profile from config
func GetSavedProfile() string {
	cfg, err := LoadConfig()
	if err != nil {
		return ""
	}
	return cfg.AWSProfile
}
