// Package logging provides zerolog helpers shared by the CLI, chiefly
// credential redaction for the AI backend integration. Goal titles and task
// names are the user's own words and pass through untouched; API keys and
// tokens that can leak through subprocess errors never reach the log file.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue replaces sensitive data in log output.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match credential formats that can surface in AI CLI
// stderr or environment dumps.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Compiled once, read-only
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-api[a-zA-Z0-9_-]+`),

	// OpenAI-style keys
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),

	// Key/value assignments naming a secret
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret|password|token)\s*[:=]\s*["']?[^\s"']{8,}["']?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_-]{20,}`),
}

// sensitiveFieldNames are field names whose values are always redacted.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Read-only lookup table
	"api_key",
	"apikey",
	"token",
	"secret",
	"password",
	"authorization",
	"anthropic_api_key",
}

// Redact replaces credential patterns in s with RedactedValue.
func Redact(s string) string {
	out := s
	for _, p := range sensitivePatterns {
		out = p.ReplaceAllString(out, RedactedValue)
	}
	return out
}

// ContainsSensitiveData reports whether s matches any credential pattern.
func ContainsSensitiveData(s string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// IsSensitiveFieldName reports whether a field name indicates a secret.
func IsSensitiveFieldName(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range sensitiveFieldNames {
		if lower == s || strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// SafeValue returns the value to log for a named field: fully redacted when
// the field name indicates a secret, pattern-redacted otherwise.
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return Redact(value)
}

// RedactHook flags events whose message carries credential-shaped content.
// Zerolog hooks cannot rewrite the message itself, so call-site filtering via
// SafeValue stays the primary defense; the hook marks anything that slips by.
type RedactHook struct{}

// Run implements zerolog.Hook.
func (RedactHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// FilteringWriter redacts credential patterns in everything written through
// it. Log file writers are wrapped with it so secrets never hit disk even
// when a call site forgets SafeValue.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w with pattern redaction.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. The returned length is the input length so
// callers never see a short write from redaction shrinking the payload.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(Redact(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
