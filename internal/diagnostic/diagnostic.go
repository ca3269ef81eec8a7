// Package diagnostic collects the problems found while generating bindings
// so they can be reported together at the end of a run.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics for filtering.
type Category string

const (
	CategoryEndpointFailed  Category = "endpoint-failed"
	CategoryPrefixMismatch  Category = "prefix-mismatch"
	CategoryDocumentInvalid Category = "document-invalid"
	CategoryConfigInvalid   Category = "config-invalid"
	CategoryDeprecated      Category = "deprecated"
)

// Diagnostic represents a structured diagnostic message.
type Diagnostic struct {
	Severity Severity
	Category Category
	Source   string // input document path
	Subject  string // what the message is about, e.g. "get /users/{id}"
	Message  string
	Hint     string // optional suggestion for fixing the issue
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.Source != "" {
		sb.WriteString(d.Source)
		if d.Subject != "" {
			sb.WriteString(" (")
			sb.WriteString(d.Subject)
			sb.WriteString(")")
		}
		sb.WriteString(" - ")
	} else if d.Subject != "" {
		sb.WriteString(d.Subject)
		sb.WriteString(" - ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")

	if d.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(d.Category))
		sb.WriteString("] ")
	}

	sb.WriteString(d.Message)

	if d.Hint != "" {
		sb.WriteString("\n  hint: ")
		sb.WriteString(d.Hint)
	}

	return sb.String()
}

// Collector collects diagnostics during a run.
type Collector struct {
	diagnostics []Diagnostic
	strict      bool // if true, warnings become errors
	quiet       bool // if true, suppress warnings
}

// NewCollector creates a new diagnostic collector.
func NewCollector(strict, quiet bool) *Collector {
	return &Collector{
		strict: strict,
		quiet:  quiet,
	}
}

// Warn adds a warning diagnostic.
func (c *Collector) Warn(category Category, source, subject, message string) {
	c.WarnWithHint(category, source, subject, message, "")
}

// WarnWithHint adds a warning with a suggestion.
func (c *Collector) WarnWithHint(category Category, source, subject, message, hint string) {
	if c == nil || c.quiet {
		return
	}
	sev := SeverityWarning
	if c.strict {
		sev = SeverityError
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: sev,
		Category: category,
		Source:   source,
		Subject:  subject,
		Message:  message,
		Hint:     hint,
	})
}

// Error adds an error diagnostic.
func (c *Collector) Error(category Category, source, subject, message string) {
	if c == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: SeverityError,
		Category: category,
		Source:   source,
		Subject:  subject,
		Message:  message,
	})
}

// Info adds an informational diagnostic.
func (c *Collector) Info(category Category, source, subject, message string) {
	if c == nil || c.quiet {
		return
	}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Severity: SeverityInfo,
		Category: category,
		Source:   source,
		Subject:  subject,
		Message:  message,
	})
}

// Merge appends the diagnostics of other. Severities are kept as recorded.
func (c *Collector) Merge(other *Collector) {
	if c == nil || other == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, other.diagnostics...)
}

// Diagnostics returns all collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	return c.diagnostics
}

// HasErrors returns true if any error-level diagnostics exist.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

// ErrorCount returns the number of error diagnostics.
func (c *Collector) ErrorCount() int {
	return c.count(SeverityError)
}

// WarningCount returns the number of warning diagnostics.
func (c *Collector) WarningCount() int {
	return c.count(SeverityWarning)
}

func (c *Collector) count(sev Severity) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, d := range c.diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// FormatAll formats all diagnostics as a multi-line string.
func (c *Collector) FormatAll() string {
	if c == nil || len(c.diagnostics) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range c.diagnostics {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Log writes every diagnostic to log at the level matching its severity.
func (c *Collector) Log(log logrus.FieldLogger) {
	if c == nil {
		return
	}
	for _, d := range c.diagnostics {
		entry := log.WithField("category", string(d.Category))
		if d.Source != "" {
			entry = entry.WithField("source", d.Source)
		}
		if d.Subject != "" {
			entry = entry.WithField("subject", d.Subject)
		}
		if d.Hint != "" {
			entry = entry.WithField("hint", d.Hint)
		}
		switch d.Severity {
		case SeverityError:
			entry.Error(d.Message)
		case SeverityWarning:
			entry.Warn(d.Message)
		default:
			entry.Info(d.Message)
		}
	}
}

// Summary returns a summary line like "1 error(s), 2 warning(s)".
func (c *Collector) Summary() string {
	if c == nil {
		return ""
	}
	warnings := c.WarningCount()
	errors := c.ErrorCount()

	parts := []string{}
	if errors > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errors))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warnings))
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, ", ")
}
