package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/asimihsan/code-digest/internal/digest"
	"github.com/asimihsan/code-digest/internal/syntax"
)

var (
	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid workers")

	// ErrInvalidPolicy indicates an unknown unsupported-language policy
	ErrInvalidPolicy = errors.New("invalid unsupported policy")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrInvalidLanguageRules indicates a malformed per-language rule block
	ErrInvalidLanguageRules = errors.New("invalid language rules")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	policy := strings.ToLower(cfg.Unsupported)
	if policy != UnsupportedError && policy != UnsupportedRaw {
		errs = append(errs, fmt.Errorf("%w: must be %q or %q, got %q", ErrInvalidPolicy, UnsupportedError, UnsupportedRaw, cfg.Unsupported))
	}

	if err := validatePatterns("ignore", cfg.Ignore); err != nil {
		errs = append(errs, err)
	}
	if err := validatePatterns("include", cfg.Include); err != nil {
		errs = append(errs, err)
	}

	if err := validateLanguages(cfg.Languages); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePatterns(kind string, patterns []string) error {
	var errs []error

	for _, pattern := range patterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidPattern, kind, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLanguages(languages map[string]LanguageConfig) error {
	var errs []error

	for language, lc := range languages {
		if !syntax.Supported(language) {
			errs = append(errs, fmt.Errorf("%w: unknown language %q", ErrInvalidLanguageRules, language))
			continue
		}
		if err := digest.ValidateRules(lc.Rules); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidLanguageRules, language, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
