package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the runnersync configuration
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Sync   SyncConfig   `yaml:"sync,omitempty"`
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Organization string `yaml:"organization"`
	Token        string `yaml:"token,omitempty"`
	TokenSecret  string `yaml:"token_secret,omitempty"`
}

// SyncConfig holds default options for reconciliation runs; command line
// flags override them
type SyncConfig struct {
	RepoType      string `yaml:"repo_type,omitempty"`
	Overwrite     bool   `yaml:"overwrite,omitempty"`
	CreateMissing bool   `yaml:"create_missing,omitempty"`
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	// Create config directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".runnersync", "config.yaml"), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.GitHub.Token != "" && c.GitHub.TokenSecret != "" {
		return fmt.Errorf("configure either github.token or github.token_secret, not both")
	}

	return nil
}
