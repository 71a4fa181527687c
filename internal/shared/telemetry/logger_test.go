package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("request.complete", map[string]any{"status": 200, "path": "/api/health"})

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", line, err)
	}
	if entry["msg"] != "request.complete" || entry["level"] != "INFO" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["path"] != "/api/health" || entry["status"] != float64(200) {
		t.Fatalf("missing fields in %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key in %v", entry)
	}
}

func TestErrorStringifiesErrors(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Error("llm.call", map[string]any{"error": errors.New("boom")})
	Warn("llm.fence_stripped", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["error"] != "boom" || entry["level"] != "ERROR" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Fatalf("expected WARN, got %v", entry["level"])
	}
}
