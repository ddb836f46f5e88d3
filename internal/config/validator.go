package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/taglog/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "file.retention_days")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// MaxRetentionDays bounds file.retention_days.
const MaxRetentionDays = 3650

// ValidColorModes returns the list of valid console color modes
func ValidColorModes() []string {
	return []string{"always", "auto", "never"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateLevel("level", c.Level)...)

	if c.Shard != nil && *c.Shard < 0 {
		errors = append(errors, ValidationError{
			Field:   "shard",
			Value:   *c.Shard,
			Message: "must be non-negative",
		})
	}

	// Validate Console config
	errors = append(errors, c.validateConsole()...)

	// Validate File config
	errors = append(errors, c.validateFile()...)

	return errors
}

func validateLevel(field string, level logging.Level) []ValidationError {
	if level.Valid() {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Value:   int(level),
		Message: fmt.Sprintf("must be one of: %s", strings.Join(logging.ValidLevels(), ", ")),
	}}
}

// validateConsole validates the ConsoleConfig
func (c *Config) validateConsole() []ValidationError {
	var errors []ValidationError

	if c.Console.Level != nil {
		errors = append(errors, validateLevel("console.level", *c.Console.Level)...)
	}

	// Empty means the default
	if c.Console.Color != "" && !slices.Contains(ValidColorModes(), strings.ToLower(c.Console.Color)) {
		errors = append(errors, ValidationError{
			Field:   "console.color",
			Value:   c.Console.Color,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColorModes(), ", ")),
		})
	}

	return errors
}

// validateFile validates the FileConfig
func (c *Config) validateFile() []ValidationError {
	var errors []ValidationError

	if c.File.Level != nil {
		errors = append(errors, validateLevel("file.level", *c.File.Level)...)
	}

	if c.File.Enabled && strings.TrimSpace(c.File.Dir) == "" {
		errors = append(errors, ValidationError{
			Field:   "file.dir",
			Value:   c.File.Dir,
			Message: "cannot be empty when the file transport is enabled",
		})
	}

	if strings.ContainsRune(c.File.Dir, 0) {
		errors = append(errors, ValidationError{
			Field:   "file.dir",
			Value:   c.File.Dir,
			Message: "contains null byte",
		})
	}

	if c.File.RetentionDays < 1 {
		errors = append(errors, ValidationError{
			Field:   "file.retention_days",
			Value:   c.File.RetentionDays,
			Message: "must be at least 1",
		})
	}
	if c.File.RetentionDays > MaxRetentionDays {
		errors = append(errors, ValidationError{
			Field:   "file.retention_days",
			Value:   c.File.RetentionDays,
			Message: fmt.Sprintf("exceeds maximum of %d days", MaxRetentionDays),
		})
	}

	return errors
}
