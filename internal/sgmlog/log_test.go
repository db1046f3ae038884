package sgmlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestGetLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := GetLevel(in)
		if err != nil {
			t.Fatalf("GetLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("GetLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := GetLevel("verbose"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}

func TestGetFormat(t *testing.T) {
	if f, err := GetFormat("JSON"); err != nil || f != FormatJSON {
		t.Fatalf("GetFormat(JSON) = %v, %v", f, err)
	}
	if _, err := GetFormat("yaml"); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

func TestNewHandlerFromStringsJSON(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandlerFromStrings(&buf, "info", "json")
	if err != nil {
		t.Fatalf("NewHandlerFromStrings: %v", err)
	}
	slog.New(h).Info("hello", "k", "v")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if out["msg"] != "hello" {
		t.Fatalf("msg = %v, want hello", out["msg"])
	}
}

func TestNewHandlerFromStringsText(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandlerFromStrings(&buf, "debug", "text")
	if err != nil {
		t.Fatalf("NewHandlerFromStrings: %v", err)
	}
	slog.New(h).Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("output = %q, missing message", buf.String())
	}
}

func TestNewHandlerFromStringsPropagatesParseError(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewHandlerFromStrings(&buf, "loud", "text"); err == nil {
		t.Fatalf("expected an error for an invalid level")
	}
}
