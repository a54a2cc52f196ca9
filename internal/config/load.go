package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides applied after the YAML file is decoded.
const (
	EnvLLMAPIKey  = "MEETING_DIGEST_LLM_API_KEY"
	EnvLLMBaseURL = "MEETING_DIGEST_LLM_BASE_URL"
	EnvStoreURI   = "MEETING_DIGEST_STORE_URI"
	EnvLogLevel   = "MEETING_DIGEST_LOG_LEVEL"
)

// Load reads the YAML file at path, applies .env and environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if keys := os.Getenv(EnvLLMAPIKey); keys != "" {
		c.LLM.APIKeys = nil
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.LLM.APIKeys = append(c.LLM.APIKeys, k)
			}
		}
	}
	if v := os.Getenv(EnvLLMBaseURL); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(EnvStoreURI); v != "" {
		c.Store.URI = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}
