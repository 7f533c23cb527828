package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T, fn func()) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	fn()
	if buf.Len() == 0 {
		return nil
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %q", buf.String())
	}
	return entry
}

func TestInfoEmitsStructuredEntry(t *testing.T) {
	entry := capture(t, func() {
		Info("batch evaluated", "batch_id", "abc-123", "evaluated", 4)
	})
	if entry["level"] != "INFO" || entry["msg"] != "batch evaluated" {
		t.Errorf("entry = %v", entry)
	}
	if entry["batch_id"] != "abc-123" || entry["evaluated"] != "4" {
		t.Errorf("fields = %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	SetLevel(WARN)
	defer SetLevel(INFO)

	entry := capture(t, func() {
		Info("should be dropped")
	})
	if entry != nil {
		t.Errorf("INFO entry emitted despite WARN level: %v", entry)
	}
}

func TestNotesRedaction(t *testing.T) {
	entry := capture(t, func() {
		Warn("bad record",
			"notes", strings.Repeat("sensitive customer context ", 5),
		)
	})
	notes, _ := entry["notes"].(string)
	if len(notes) > noteExcerptLen+len("…") {
		t.Errorf("notes not truncated: %q", notes)
	}
}

func TestEmbeddedEmailRedaction(t *testing.T) {
	entry := capture(t, func() {
		Error("contact failed", "detail", "reached jane.doe@example.com twice")
	})
	detail, _ := entry["detail"].(string)
	if strings.Contains(detail, "jane.doe@example.com") {
		t.Errorf("email not redacted: %q", detail)
	}
	if !strings.Contains(detail, "ja***@example.com") {
		t.Errorf("unexpected redaction form: %q", detail)
	}
}

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"jane.doe@example.com", "ja***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
