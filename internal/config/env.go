package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment overrides. Every override is optional; unset variables leave
// the file/default value in place.
//
//   - SHIPNOTE_GITHUB_TOKEN
//   - SHIPNOTE_LINEAR_API_KEY
//   - SHIPNOTE_SLACK_TOKEN
//   - SHIPNOTE_LLM_ENABLED
//   - SHIPNOTE_LLM_PROVIDER
//   - SHIPNOTE_LLM_MODEL
//   - SHIPNOTE_HISTORY_PATH
//
// Provider API keys (ANTHROPIC_API_KEY, OPENAI_API_KEY) are resolved by the
// analyzer itself, not here.
func (c *Config) applyEnv() {
	parseEnvString("SHIPNOTE_GITHUB_TOKEN", &c.Sources.GitHub.Token)
	parseEnvString("SHIPNOTE_LINEAR_API_KEY", &c.Sources.Linear.APIKey)
	parseEnvString("SHIPNOTE_SLACK_TOKEN", &c.Sources.Slack.Token)
	parseEnvString("SHIPNOTE_LLM_PROVIDER", &c.LLM.Provider)
	parseEnvString("SHIPNOTE_LLM_MODEL", &c.LLM.Model)
	parseEnvString("SHIPNOTE_HISTORY_PATH", &c.History.Path)

	// Boolean overrides warn instead of failing: a typo in the environment
	// should not take the CLI down.
	if err := parseEnvBool("SHIPNOTE_LLM_ENABLED", &c.LLM.Enabled); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (keeping configured value)\n", err)
	}
}

// parseEnvBool parses a bool from an environment variable
func parseEnvBool(key string, dest *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvString parses a string from an environment variable
func parseEnvString(key string, dest *string) {
	if value := os.Getenv(key); value != "" {
		*dest = value
	}
}
