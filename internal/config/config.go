// Package config defines the digest run configuration and its loading
// from file and environment.
package config

import (
	"sort"
	"strings"

	"github.com/asimihsan/code-digest/internal/digest"
	"github.com/asimihsan/code-digest/internal/syntax"
	"github.com/asimihsan/code-digest/internal/walker"
)

// Unsupported-language policies. Error fails files whose language has no
// grammar; Raw passes them through verbatim.
const (
	UnsupportedError = "error"
	UnsupportedRaw   = "raw"
)

// Config represents the complete digest configuration.
// It can be loaded from .code-digest.yaml with environment variable overrides.
type Config struct {
	Ignore      []string                  `yaml:"ignore" mapstructure:"ignore"`           // glob patterns to skip
	Include     []string                  `yaml:"include" mapstructure:"include"`         // glob patterns for full-content passthrough
	Tree        bool                      `yaml:"tree" mapstructure:"tree"`               // prepend a directory tree to the output
	Workers     int                       `yaml:"workers" mapstructure:"workers"`         // 0 means one worker per CPU
	Unsupported string                    `yaml:"unsupported" mapstructure:"unsupported"` // "error" or "raw"
	Languages   map[string]LanguageConfig `yaml:"languages" mapstructure:"languages"`     // per-language rule overrides
}

// LanguageConfig layers selector rules above a language's defaults.
type LanguageConfig struct {
	Rules []digest.Rule `yaml:"rules" mapstructure:"rules"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Ignore:      append([]string(nil), walker.DefaultIgnores...),
		Include:     []string{},
		Tree:        false,
		Workers:     0,
		Unsupported: UnsupportedError,
		Languages:   map[string]LanguageConfig{},
	}
}

// Overrides flattens the per-language rule config into the shape the
// digest pipeline takes.
func (c *Config) Overrides() map[string][]digest.Rule {
	if len(c.Languages) == 0 {
		return nil
	}

	overrides := make(map[string][]digest.Rule, len(c.Languages))
	for language, lc := range c.Languages {
		if len(lc.Rules) == 0 {
			continue
		}
		overrides[language] = lc.Rules
	}
	return overrides
}

// RawUnsupported reports whether unknown-language files pass through
// verbatim instead of failing.
func (c *Config) RawUnsupported() bool {
	return strings.EqualFold(c.Unsupported, UnsupportedRaw)
}

// WatchExtensions returns the file extensions watch mode should monitor:
// every registered grammar extension plus any extension named by an
// include pattern.
func (c *Config) WatchExtensions() []string {
	extMap := make(map[string]bool)
	for _, ext := range syntax.Extensions() {
		extMap[ext] = true
	}
	for _, pattern := range c.Include {
		if ext := extractExtension(pattern); ext != "" {
			extMap[ext] = true
		}
	}

	extensions := make([]string, 0, len(extMap))
	for ext := range extMap {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if pattern doesn't match a simple extension pattern.
// Examples: "**/*.md" -> ".md", "*.txt" -> ".txt"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
