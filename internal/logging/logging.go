package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	TextFormat = "text"
	JSONFormat = "json"
)

var ErrUnknownFormat = errors.New("logging: unknown log format")

// Options configures the process logger.
type Options struct {
	Level  string
	Format string
	// File enables a rotating log file next to the primary writer.
	File string
}

// GetLevel maps a level name to a slog level. Unknown names map to info.
func GetLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error", "fatal", "panic":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug", "trace":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds a slog handler writing to w and, when opts.File is set,
// to a lumberjack rotated file. The returned closer releases the file.
func NewHandler(w io.Writer, opts Options) (slog.Handler, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		logWriter := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    25,
			MaxBackups: 10,
			MaxAge:     14,
			Compress:   true,
		}
		w = io.MultiWriter(w, logWriter)
		closer = logWriter
	}

	handlerOpts := &slog.HandlerOptions{Level: GetLevel(opts.Level)}
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", TextFormat:
		return slog.NewTextHandler(w, handlerOpts), closer, nil
	case JSONFormat:
		return slog.NewJSONHandler(w, handlerOpts), closer, nil
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// Setup installs the handler as the slog default.
func Setup(w io.Writer, opts Options) (io.Closer, error) {
	h, closer, err := NewHandler(w, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(h))
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
