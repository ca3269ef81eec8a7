package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tsgonest/swagts/internal/typegen"
)

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with suggestions.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	if err := c.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	// Inputs
	if len(c.Input) == 0 {
		result.Errors = append(result.Errors, "input: at least one OpenAPI document required")
	}
	seen := make(map[string]bool)
	for _, in := range c.Input {
		ext := strings.ToLower(filepath.Ext(in))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("input: %q has extension %q, expected .json, .yaml or .yml", in, ext))
		}
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		if len(c.Input) > 1 && seen[base] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("input: several documents named %q would share an output directory", base))
		}
		seen[base] = true
	}

	if c.Output == "" {
		result.Errors = append(result.Errors, "output: must not be empty")
	}

	// Type map
	for k, v := range c.TypeMap {
		if strings.TrimSpace(v) == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("typeMap.%s: empty value falls back to %q", k, c.Types().Resolve(typegen.Wildcard)))
		}
	}

	// Overrides
	for k := range c.Overrides.Paths {
		if !strings.Contains(k, ".") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("overrides.paths: key %q has a single segment, did you mean overrides.fields?", k))
		}
	}

	// Logging
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("logLevel: %v", err))
		}
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		result.Errors = append(result.Errors,
			fmt.Sprintf("logFormat: invalid value %q, must be text or json", c.LogFormat))
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
