// Package config loads the tool configuration: where the deployment
// manifest and the state file live, which RPC endpoint to use and how to
// log. This is glue around the state core; the state file itself is
// handled by pkg/state.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// LogConfig controls CLI logging.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" envconfig:"LOG_PRETTY"`
}

// Config is the tool configuration. Every field can be overridden through
// the environment with a BEAMER_ prefix, e.g. BEAMER_RPC_URL.
type Config struct {
	// RPCURL is the endpoint of the home chain node.
	RPCURL string `yaml:"rpc_url" envconfig:"RPC_URL"`

	// DeploymentDir holds deployment.json and the contract ABI files.
	DeploymentDir string `yaml:"deployment_dir" envconfig:"DEPLOYMENT_DIR"`

	// StateFile is the path of the checksum-verified state file.
	StateFile string `yaml:"state_file" envconfig:"STATE_FILE"`

	Log LogConfig `yaml:"log"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		RPCURL:        "http://localhost:8545",
		DeploymentDir: "deployments",
		StateFile:     "state.json",
		Log:           LogConfig{Level: "info"},
	}
}

// Load reads the configuration from path, expands environment variable
// references in the file and applies BEAMER_* environment overrides. An
// empty path yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		content := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	if err := envconfig.Process("beamer", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return cfg, nil
}
