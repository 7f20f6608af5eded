package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	content := `
logger:
  level: debug
  type: json
batch:
  workers_count: 8
server:
  addr: ":9000"
  cors:
    trusted_origins: ["https://example.com"]
`

	cfg, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if cfg.Logger.Level != "debug" || cfg.Logger.Type != "json" {
		t.Fatalf("unexpected logger config: %+v", cfg.Logger)
	}
	if cfg.Logger.Output != "stderr" {
		t.Fatalf("expected default output stderr, got %q", cfg.Logger.Output)
	}
	if cfg.Batch.WorkersCount != 8 || cfg.Batch.BufferSize != 64 {
		t.Fatalf("unexpected batch config: %+v", cfg.Batch)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("expected addr :9000, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.Server.CORS.TrustedOrigins) != 1 || cfg.Server.CORS.TrustedOrigins[0] != "https://example.com" {
		t.Fatalf("unexpected cors config: %+v", cfg.Server.CORS)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.Batch != Default().Batch {
		t.Fatalf("expected default batch config, got %+v", cfg.Batch)
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"logger: {level: loud}":         "invalid log level: loud",
		"logger: {type: xml}":           "invalid log type: xml",
		"logger: {output: file}":        "invalid log output: file",
		"batch: {workers_count: 0}":     "workers count cannot be zero",
		"server: {addr: ''}":            "api server address is required",
		"unknown: true":                 "field unknown not found",
		"logger: [not, a, map]":         "cannot parse config file",
		"server: {shutdown_timeout: x}": "cannot parse config file",
	}

	for content, expected := range tests {
		_, err := Parse([]byte(content))
		if err == nil {
			t.Fatalf("Parse(%q): expected an error", content)
		}
		if !strings.Contains(err.Error(), expected) {
			t.Fatalf("Parse(%q): expected error containing %q, got %q", content, expected, err.Error())
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("batch:\n  workers_count: 2\n"), 0o644); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Batch.WorkersCount != 2 {
		t.Fatalf("expected 2 workers, got %d", cfg.Batch.WorkersCount)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		typ   string
		check func(out string) bool
	}{
		{"json", func(out string) bool { return json.Valid([]byte(out)) }},
		{"text", func(out string) bool { return strings.Contains(out, "msg=hello") }},
		{"colored-text", func(out string) bool { return strings.Contains(out, "\x1b[") }},
		// A buffer is not a terminal.
		{"auto", func(out string) bool { return strings.Contains(out, "msg=hello") && !strings.Contains(out, "\x1b[") }},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		handler, err := LoggerConfig{Level: "info", Type: tt.typ, Output: "stderr"}.Handler(&buf)
		if err != nil {
			t.Fatalf("Handler(%s) returned error: %v", tt.typ, err)
		}

		logger := slog.New(handler)
		logger.Debug("hidden")
		logger.Info("hello", "key", "value")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Fatalf("Handler(%s): debug entry should be filtered: %q", tt.typ, out)
		}
		if !tt.check(strings.TrimSpace(out)) {
			t.Fatalf("Handler(%s): unexpected output %q", tt.typ, out)
		}
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Logger.Output = "stdout"

	logger, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("Logger returned error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected a logger")
	}

	cfg.Logger.Level = "verbose"
	if _, err := cfg.NewLogger(); err == nil {
		t.Fatalf("expected an error for an invalid level")
	}
}
