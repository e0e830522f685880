// Package config provides configuration management for the VPN benchmark tool.
// It handles loading, saving, and validating the settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/vpn-bench/common"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// TunnelCommand is the external up/down command, e.g. "wg-quick".
	TunnelCommand string `yaml:"tunnel_command"`
	// UseSudo prefixes every tunnel command with sudo.
	UseSudo bool `yaml:"use_sudo"`
	// PingTarget is the reference host for the latency probe.
	PingTarget string `yaml:"ping_target"`
	// PingCount is the number of round-trip checks per latency probe.
	PingCount int `yaml:"ping_count"`
	// SettleDelay is the pause between two benchmarked configurations.
	SettleDelay time.Duration `yaml:"settle_delay"`
	// VerifyHosts are dialed after activation; empty disables the check.
	VerifyHosts []string `yaml:"verify_hosts"`
	// ResultsDir is where the final table is written. Empty means the
	// current working directory.
	ResultsDir string `yaml:"results_dir"`
	// ResultsFile is the name of the final table file.
	ResultsFile string `yaml:"results_file"`
	// HistoryEnabled records every campaign in a local sqlite database.
	HistoryEnabled bool `yaml:"history_enabled"`
	// LogToFile mirrors log output to the config directory.
	LogToFile bool `yaml:"log_to_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TunnelCommand:  common.DefaultTunnelCommand,
		UseSudo:        false,
		PingTarget:     common.DefaultPingTarget,
		PingCount:      common.DefaultPingCount,
		SettleDelay:    common.DefaultSettleDelay,
		VerifyHosts:    append([]string(nil), common.DefaultVerifyHosts...),
		ResultsFile:    common.ResultsFileName,
		HistoryEnabled: true,
		LogToFile:      false,
	}
}

// Load loads the configuration from the default location. If the file
// doesn't exist, it creates one with default values.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, writing the defaults
// there first when the file does not exist yet.
func LoadFrom(configPath string) (*Config, error) {
	if !common.FileExists(configPath) {
		cfg := DefaultConfig()
		if err := cfg.SaveTo(configPath); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfigLoad, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	// Start from defaults so keys missing from the file keep their default.
	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", common.ErrConfigLoad, configPath, err)
	}

	config.validate()
	return config, nil
}

// validate resets out-of-range values to their defaults.
func (c *Config) validate() {
	defaults := DefaultConfig()
	if c.TunnelCommand == "" {
		c.TunnelCommand = defaults.TunnelCommand
	}
	if c.PingTarget == "" {
		c.PingTarget = defaults.PingTarget
	}
	if c.PingCount <= 0 {
		c.PingCount = defaults.PingCount
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = defaults.SettleDelay
	}
	if c.ResultsFile == "" || filepath.Base(c.ResultsFile) != c.ResultsFile {
		c.ResultsFile = defaults.ResultsFile
	}
}

// SaveTo writes the configuration to configPath.
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("%w: creating config directory: %v", common.ErrConfigSave, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: serializing: %v", common.ErrConfigSave, err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrConfigSave, err)
	}

	return nil
}

// ResultsPath returns the absolute path of the final results file.
func (c *Config) ResultsPath() (string, error) {
	dir := c.ResultsDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Abs(filepath.Join(dir, c.ResultsFile))
}

// Path returns the settings file location, honouring VPN_BENCH_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(common.ConfigPathEnv); p != "" {
		return p, nil
	}
	dir, err := common.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.ConfigFileName), nil
}
