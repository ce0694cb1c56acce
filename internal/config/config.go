// Package config loads engine configuration from a YAML file with
// environment overrides. Flags handled by the CLI override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mnemoslabs/mnemos/internal/compose"
)

// Config is the full engine configuration.
type Config struct {
	// DataDir holds the vault databases, the cortex database and the
	// semantic index.
	DataDir string `yaml:"data_dir"`

	// Subject scopes relational and episodic memory keys.
	Subject string `yaml:"subject"`

	// SoulKeyEnv names the environment variable carrying the soul-domain
	// passphrase. The passphrase itself never lives in the config file.
	SoulKeyEnv string `yaml:"soul_key_env"`

	Compose  ComposeConfig  `yaml:"compose"`
	Record   RecordConfig   `yaml:"record"`
	Semantic SemanticConfig `yaml:"semantic"`
}

// ComposeConfig tunes context composition.
type ComposeConfig struct {
	DecayRate     float64         `yaml:"decay_rate"`
	EpisodicLimit int             `yaml:"episodic_limit"`
	Budget        int             `yaml:"budget"` // chars, 0 = unlimited
	Weights       compose.Weights `yaml:"weights"`
}

// RecordConfig tunes exchange recording.
type RecordConfig struct {
	AssistantName string `yaml:"assistant_name"`
	Truncate      int    `yaml:"truncate"`
}

// SemanticConfig tunes the optional semantic index.
type SemanticConfig struct {
	// Provider selects the embedder: "ollama", "hash", or "" (index
	// disabled).
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	TopK     int    `yaml:"top_k"`
}

// Default returns the stock configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:    filepath.Join(home, ".mnemos"),
		Subject:    "dad",
		SoulKeyEnv: "MNEMOS_SOUL_KEY",
		Compose: ComposeConfig{
			DecayRate:     1e-4,
			EpisodicLimit: 8,
			Budget:        0,
			Weights:       compose.DefaultWeights(),
		},
		Record: RecordConfig{
			AssistantName: "Assistant",
			Truncate:      200,
		},
		Semantic: SemanticConfig{
			Provider: "",
			TopK:     5,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mnemos", "config.yaml")
}

// Load reads the config at path, falling back to defaults when the file does
// not exist, then applies MNEMOS_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MNEMOS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("MNEMOS_SUBJECT"); v != "" {
		c.Subject = v
	}
	if v := os.Getenv("MNEMOS_DECAY_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Compose.DecayRate = f
		}
	}
	if v := os.Getenv("MNEMOS_EMBED_PROVIDER"); v != "" {
		c.Semantic.Provider = v
	}
	if v := os.Getenv("MNEMOS_EMBED_MODEL"); v != "" {
		c.Semantic.Model = v
	}
	if v := os.Getenv("MNEMOS_EMBED_URL"); v != "" {
		c.Semantic.BaseURL = v
	}
}

// SoulPassphrase resolves the soul-domain passphrase from the configured
// environment variable, with a development fallback so a fresh install works
// out of the box. Production setups should always set the variable.
func (c *Config) SoulPassphrase() string {
	if v := os.Getenv(c.SoulKeyEnv); v != "" {
		return v
	}
	return "mnemos-dev-soul-key"
}

// Write saves the config as YAML at path, creating parent directories.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
