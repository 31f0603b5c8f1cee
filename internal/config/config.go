package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPublicPort is the public gateway port used when PORT is unset.
	DefaultPublicPort = 3000

	// DefaultFlag is a visible placeholder so the demo works without setup.
	DefaultFlag = "flag{ssrf-lab-placeholder}"

	configFileName = "ssrf-lab.yaml"
)

// Config holds the process-wide settings. It is populated once at startup
// and never mutated afterwards.
type Config struct {
	PublicPort int    `yaml:"port"`
	Flag       string `yaml:"flag"`
}

// DefaultConfig returns the configuration used when no file and no
// environment variables are present.
func DefaultConfig() Config {
	return Config{
		PublicPort: DefaultPublicPort,
		Flag:       DefaultFlag,
	}
}

// Load reads the optional ssrf-lab.yaml from the working directory and then
// applies environment overrides (FLAG, PORT). Environment always wins.
func Load() (Config, error) {
	cfg := DefaultConfig()
	if data, err := os.ReadFile(configFileName); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configFileName, err)
		}
	}
	return applyEnv(cfg)
}

// LoadFromPath reads the given config file. Environment overrides still apply.
func LoadFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("FLAG")); v != "" {
		cfg.Flag = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT value %q", v)
		}
		cfg.PublicPort = port
	}
	if cfg.PublicPort <= 0 {
		cfg.PublicPort = DefaultPublicPort
	}
	if strings.TrimSpace(cfg.Flag) == "" {
		cfg.Flag = DefaultFlag
	}
	return cfg, nil
}
