package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader that searches rootDir for .code-digest.yaml.
// A missing config file is fine; defaults and environment apply.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader that reads exactly the given config file.
// A missing file is an error, since the caller asked for it by name.
func NewFileLoader(configFile string) Loader {
	return &loader{configFile: configFile}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CODE_DIGEST_*)
// 2. Config file (.code-digest.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	explicit := l.configFile != ""
	if explicit {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(".code-digest")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("CODE_DIGEST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind the scalar knobs; pattern lists and rule tables only make
	// sense in the file
	v.BindEnv("tree")
	v.BindEnv("workers")
	v.BindEnv("unsupported")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file in the search path is acceptable; an explicitly
		// named file must exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || explicit {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("tree", defaults.Tree)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("unsupported", defaults.Unsupported)
}
