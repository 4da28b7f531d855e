// Package config loads the application configuration from YAML with
// environment-variable overrides. Credentials may live in the file, in the
// environment, or both; the environment wins.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration when no --config
// flag is given.
const DefaultPath = ".shipnote/config.yaml"

// Config is the full application configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	LLM     LLMConfig     `yaml:"llm"`
	History HistoryConfig `yaml:"history"`
	Output  OutputConfig  `yaml:"output"`
}

// SourcesConfig configures the three activity sources. A source with no
// credentials is simply skipped at construction time; it is not an error.
type SourcesConfig struct {
	GitHub GitHubConfig `yaml:"github"`
	Linear LinearConfig `yaml:"linear"`
	Slack  SlackConfig  `yaml:"slack"`
}

// GitHubConfig identifies the repository to read code activity from.
type GitHubConfig struct {
	// Owner and Repo name the repository, e.g. "acme" / "widget".
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// Token is a GitHub API token. Falls back to SHIPNOTE_GITHUB_TOKEN.
	Token string `yaml:"token,omitempty"`
}

// LinearConfig identifies the Linear team to read issue activity from.
type LinearConfig struct {
	// APIKey is a Linear API key. Falls back to SHIPNOTE_LINEAR_API_KEY.
	APIKey string `yaml:"api_key,omitempty"`

	// TeamID scopes issue queries to one team. Empty means all teams the
	// key can see.
	TeamID string `yaml:"team_id,omitempty"`
}

// SlackConfig identifies the Slack channels to read chat activity from.
type SlackConfig struct {
	// Token is a Slack bot token. Falls back to SHIPNOTE_SLACK_TOKEN.
	Token string `yaml:"token,omitempty"`

	// Channels lists channel IDs to scan for ship/release chatter.
	Channels []string `yaml:"channels,omitempty"`
}

// LLMConfig configures the optional LLM analyzer. When construction fails
// for any reason the pipeline runs rule-based only; it never aborts.
type LLMConfig struct {
	// Enabled turns LLM analysis on. Default: true (falls back cleanly
	// when no credential is present).
	Enabled bool `yaml:"enabled"`

	// Provider selects the backend: "anthropic" or "openai".
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model.
	Model string `yaml:"model,omitempty"`

	// APIKey overrides the provider's environment credential
	// (ANTHROPIC_API_KEY / OPENAI_API_KEY).
	APIKey string `yaml:"api_key,omitempty"`

	// MaxTokens caps the response size. 0 means the provider default.
	MaxTokens int `yaml:"max_tokens,omitempty"`
}

// HistoryConfig configures the local generation-history store.
type HistoryConfig struct {
	// Enabled controls whether runs are recorded. Default: true.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database location.
	Path string `yaml:"path"`
}

// OutputConfig configures where and how results are rendered.
type OutputConfig struct {
	// Format is "markdown" or "html".
	Format string `yaml:"format"`

	// Path is the output file. Empty writes to stdout.
	Path string `yaml:"path,omitempty"`
}

// Default returns a usable zero-credential configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Enabled:  true,
			Provider: "anthropic",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".shipnote/history.db",
		},
		Output: OutputConfig{
			Format: "markdown",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadOrDefault loads the file at path, applies environment overrides, and
// falls back to defaults when the file does not exist. Any other read or
// parse failure is an error.
func LoadOrDefault(path string) (*Config, error) {
	config, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		config = Default()
	} else if err != nil {
		return nil, err
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks if the configuration has valid values
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "", "markdown", "html":
	default:
		return fmt.Errorf("output format must be markdown or html (got %q)", c.Output.Format)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm max_tokens cannot be negative (got %d)", c.LLM.MaxTokens)
	}
	return nil
}

// SaveDefault writes a starter configuration file, creating the parent
// directory if needed.
func SaveDefault(path string) error {
	config := Default()

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
