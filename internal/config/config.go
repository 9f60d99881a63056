// Package config loads the optional per-repository runner config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const relPath = ".beadrunner.yaml"

const (
	BackendOpenCode = "opencode"
	BackendClaude   = "claude"
)

type Agent struct {
	Backend string `yaml:"backend"`
	Binary  string `yaml:"binary"`
}

type Config struct {
	Root     string `yaml:"root"`
	Model    string `yaml:"model"`
	Headless bool   `yaml:"headless"`
	Agent    Agent  `yaml:"agent"`
}

func Default() Config {
	return Config{Agent: Agent{Backend: BackendOpenCode}}
}

// Load reads .beadrunner.yaml from the repository root. A missing file
// yields the defaults; unknown keys are an error so typos surface.
func Load(repoRoot string) (Config, error) {
	path := filepath.Join(repoRoot, relPath)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("cannot read config file at %s: %w", relPath, err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(strings.NewReader(string(content)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config file at %s: %w", relPath, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	backend := strings.TrimSpace(c.Agent.Backend)
	switch backend {
	case "", BackendOpenCode, BackendClaude:
		return nil
	default:
		return fmt.Errorf("agent.backend in %s must be %q or %q, got %q", relPath, BackendOpenCode, BackendClaude, backend)
	}
}
