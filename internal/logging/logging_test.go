package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"TRACE":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"fatal":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := GetLevel(in); got != want {
			t.Fatalf("GetLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	h, closer, err := NewHandler(&buf, Options{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	defer closer.Close()

	logger := slog.New(h)
	logger.Info("hidden")
	logger.Warn("figure rendered", "id", "revenue")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"figure rendered"`) || !strings.Contains(out, `"id":"revenue"`) {
		t.Fatalf("unexpected json output: %s", out)
	}

	if _, _, err := NewHandler(&buf, Options{Format: "xml"}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestNewHandlerWritesFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "chartembed.log")

	h, closer, err := NewHandler(&buf, Options{File: path})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	slog.New(h).Info("served page", "figures", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "served page") || !strings.Contains(buf.String(), "figures=3") {
		t.Fatalf("record missing from writers: file=%q stdout=%q", data, buf.String())
	}
}
