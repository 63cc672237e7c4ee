// Package config loads server settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultOpenAIModel = "gpt-4o-mini"

const DefaultListenAddr = ":8080"

type Config struct {
	ListenAddr            string   `yaml:"listen_addr"`
	DefaultOpenAPIURL     string   `yaml:"default_openapi_url"`
	AllowedOpenAPIOrigins []string `yaml:"allowed_openapi_origins"`
	OpenAIAPIKey          string   `yaml:"openai_api_key"`
	OpenAIModel           string   `yaml:"openai_model"`
	StaticDir             string   `yaml:"static_dir"`
}

// Load reads the config file at path, then applies environment overrides
// and defaults. An empty path skips the file entirely, so a pure-env setup
// works without any file on disk.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SPECDOCS_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("SPECDOCS_DEFAULT_OPENAPI_URL"); v != "" {
		c.DefaultOpenAPIURL = v
	}
	if v, ok := os.LookupEnv("SPECDOCS_ALLOWED_OPENAPI_ORIGINS"); ok {
		c.AllowedOpenAPIOrigins = SplitOrigins(v)
	}
	if v := os.Getenv("SPECDOCS_OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	} else if c.OpenAIAPIKey == "" {
		c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("SPECDOCS_OPENAI_MODEL"); v != "" {
		c.OpenAIModel = v
	}
	if v := os.Getenv("SPECDOCS_STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = DefaultOpenAIModel
	}
}

// SplitOrigins parses a comma-separated origin list, dropping empty entries.
func SplitOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
