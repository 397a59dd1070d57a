package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the effective settings for a run: defaults, overlaid by the
// global file under the home dot-directory, overlaid by the workspace file.
type Config struct {
	Model      string `json:"model"`
	APIKey     string `json:"api_key"`               // API key for LLM providers
	BaseURL    string `json:"base_url,omitempty"`    // Base URL for LLM providers (optional)
	OllamaURL  string `json:"ollama_url,omitempty"`  // Ollama server URL (optional)
	MaxHistory int    `json:"max_history,omitempty"` // Maximum chat turns kept in memory
	DataDir    string `json:"data_dir,omitempty"`    // Where the task table and transcripts live
	Debug      bool   `json:"debug,omitempty"`       // Verbose logging
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Model:      "openai:gpt-4o",
		MaxHistory: 50,
	}
}

// LoadConfig builds the effective config for the given workspace. Missing
// or unreadable config files are simply skipped.
func LoadConfig(workspacePath string) (*Config, error) {
	cfg := DefaultConfig()

	if homeDir, err := os.UserHomeDir(); err == nil {
		if global, err := readConfigFile(filepath.Join(homeDir, ".steward", "config.json")); err == nil {
			overlay(cfg, global)
		}
	}

	if local, err := readConfigFile(filepath.Join(workspacePath, ".steward", "config.json")); err == nil {
		overlay(cfg, local)
	}

	return cfg, nil
}

// Keys returns the configuration keys Get and Set accept, in display order.
func Keys() []string {
	return []string{"model", "api_key", "base_url", "ollama_url", "max_history", "data_dir", "debug"}
}

// Get retrieves a configuration value by key
func (c *Config) Get(key string) (interface{}, error) {
	values := map[string]interface{}{
		"model":       c.Model,
		"api_key":     c.APIKey,
		"base_url":    c.BaseURL,
		"ollama_url":  c.OllamaURL,
		"max_history": c.MaxHistory,
		"data_dir":    c.DataDir,
		"debug":       c.Debug,
	}

	value, ok := values[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return value, nil
}

// Set updates a configuration value by key. Values arrive as strings from
// the CLI; non-string keys validate and convert here.
func (c *Config) Set(key string, value interface{}) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string value for %s", key)
	}

	switch key {
	case "model":
		c.Model = str
	case "api_key":
		c.APIKey = str
	case "base_url":
		c.BaseURL = str
	case "ollama_url":
		c.OllamaURL = str
	case "max_history":
		n, err := strconv.Atoi(str)
		if err != nil || n < 1 {
			return fmt.Errorf("expected a positive number for max_history, got: %s", str)
		}
		c.MaxHistory = n
	case "data_dir":
		c.DataDir = str
	case "debug":
		switch str {
		case "true":
			c.Debug = true
		case "false":
			c.Debug = false
		default:
			return fmt.Errorf("expected 'true' or 'false' for debug, got: %s", str)
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return nil
}

// ResolveDataDir returns the directory holding the task table, chat
// transcripts, and log file. An explicit data_dir wins; otherwise a
// workspace with its own .steward directory keeps its data there, and
// everything else shares ~/.steward.
func (c *Config) ResolveDataDir(workspacePath string) (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}

	if workspacePath != "" {
		local := filepath.Join(workspacePath, ".steward")
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".steward"), nil
}

// TasksPath returns the task table location under dataDir.
func TasksPath(dataDir string) string {
	return filepath.Join(dataDir, "tasks.csv")
}

// HistoryDir returns the chat transcript directory under dataDir.
func HistoryDir(dataDir string) string {
	return filepath.Join(dataDir, "history")
}

// LogPath returns the log file location under dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "steward.log")
}

// SaveLocalConfig writes the config to <workspace>/.steward/config.json
func SaveLocalConfig(workspacePath string, cfg *Config) error {
	stewardDir := filepath.Join(workspacePath, ".steward")
	if err := os.MkdirAll(stewardDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(stewardDir, "config.json"), data, 0644)
}

func readConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// overlay copies src's set values onto dst, key by key.
func overlay(dst, src *Config) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.OllamaURL != "" {
		dst.OllamaURL = src.OllamaURL
	}
	if src.MaxHistory > 0 {
		dst.MaxHistory = src.MaxHistory
	}
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	// Debug only merges on; a file that leaves it unset cannot turn it off.
	if src.Debug {
		dst.Debug = true
	}
}
