// Package config manages the global (~/.config/embedpipe/config.toml)
// configuration for embedpipe.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GlobalConfig holds user-wide settings.
type GlobalConfig struct {
	Embedder string       `toml:"embedder"`
	Keys     KeysConfig   `toml:"keys"`
	Ollama   OllamaConfig `toml:"ollama"`
}

type KeysConfig struct {
	OpenAI string `toml:"openai"`
	Gemini string `toml:"gemini"`
}

type OllamaConfig struct {
	Host       string `toml:"host"`
	EmbedModel string `toml:"embed_model"`
}

// DefaultGlobal returns sensible defaults: local embeddings via Ollama
// with the all-minilm sentence transformer.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		Embedder: "ollama",
		Ollama: OllamaConfig{
			Host:       "http://localhost:11434",
			EmbedModel: "all-minilm",
		},
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "embedpipe", "config.toml"), nil
}

// LoadGlobal loads the global config, applying defaults for any missing values.
func LoadGlobal() (GlobalConfig, error) {
	cfg := DefaultGlobal()

	path, err := GlobalConfigPath()
	if err != nil {
		return cfg, nil // Return defaults if we can't determine home dir.
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // File doesn't exist yet — use defaults.
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load global: %w", err)
	}

	// Let env vars override config file API keys.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Keys.Gemini = v
	}

	return cfg, nil
}

// SaveGlobal writes the global config to disk.
func SaveGlobal(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create global config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// APIKey returns the configured key for the named provider, if any.
func (c GlobalConfig) APIKey(provider string) string {
	switch provider {
	case "openai":
		return c.Keys.OpenAI
	case "gemini":
		return c.Keys.Gemini
	default:
		return ""
	}
}
