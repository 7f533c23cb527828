package logger

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// noteExcerptLen bounds how much free-text note content reaches the log.
const noteExcerptLen = 40

// redactValue masks sensitive content before it reaches the log stream.
// Free-text notes are truncated to an excerpt (they routinely contain
// customer names and contact details), and embedded email addresses are
// masked everywhere.
func redactValue(key, val string) string {
	if strings.Contains(strings.ToLower(key), "notes") {
		val = excerpt(val)
	}
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}

// excerpt shortens free text to its leading characters.
func excerpt(s string) string {
	if len(s) <= noteExcerptLen {
		return s
	}
	return s[:noteExcerptLen] + "…"
}

// RedactEmail masks an email address for safe logging.
// "jane.doe@example.com" → "ja***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}
