// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Broker and database URLs carry credentials, and raw
// message payloads may carry tokens, so both pass through here on their way to a
// log line.
package redact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
)

// DefaultPreviewLength is the number of characters of a payload kept in log previews.
const DefaultPreviewLength = 200

const previewEllipsis = "…"

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order; the JWT rule runs before the bearer rule so a bearer JWT
// is reported as a JWT.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`(?i)\b(amqps?|postgres(?:ql)?|mysql|redis)://[^@/\s]+@`),
		replacement: "${1}://" + RedactedCredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9._~+/=-]+`),
		replacement: "${1} " + RedactionPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(password|passwd|pwd)['"]?\s*[=:]\s*['"]?[^'"&\s,}]+`),
		replacement: "${1}=" + RedactedCredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(api[_-]?key|secret)['"]?\s*[=:]\s*['"]?[^'"&\s,}]{4,}`),
		replacement: "${1}=" + RedactedKeyPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// Preview renders a raw payload for logging: invalid UTF-8 is replaced,
// secrets are redacted, and the result is cut to at most maxChars characters
// followed by an ellipsis marker. A non-positive maxChars selects
// DefaultPreviewLength.
func Preview(payload []byte, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultPreviewLength
	}

	s := String(strings.ToValidUTF8(string(payload), "�"))
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}

	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i] + previewEllipsis
		}
		n++
	}
	return s
}
