package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dsproc/internal/config"
)

// LogFileName is the file written inside the configured log directory.
const LogFileName = "dsproc.log"

// Options describes one log destination.
type Options struct {
	Level  string
	Format string
	// Path is a log file to append to. When empty, Writer is used, and when
	// both are empty records go to stderr.
	Path   string
	Writer io.Writer
}

// New constructs a logger writing to a single destination.
func New(opts Options) (*slog.Logger, error) {
	handler, err := newHandler(opts, parseLevel(opts.Level))
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

// NewFromConfig creates the CLI logger: records at the configured level go to
// <log_dir>/dsproc.log, and warnings and errors are also echoed to stderr so
// they never mix with command output on stdout.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	console, err := newHandler(Options{Format: "console", Writer: os.Stderr}, slog.LevelDebug)
	if err != nil {
		return nil, err
	}
	stderr := sink{handler: console, min: slog.LevelWarn}
	if cfg == nil || strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return slog.New(newTeeHandler(stderr)), nil
	}

	level := parseLevel(cfg.Logging.Level)
	file, err := newHandler(Options{
		Format: cfg.Logging.Format,
		Path:   filepath.Join(cfg.Paths.LogDir, LogFileName),
	}, level)
	if err != nil {
		return nil, err
	}
	return slog.New(newTeeHandler(sink{handler: file, min: level}, stderr)), nil
}

func newHandler(opts Options, level slog.Level) (slog.Handler, error) {
	w, err := openWriter(opts)
	if err != nil {
		return nil, err
	}
	addSource := level <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		return newJSONHandler(w, level, addSource), nil
	case "console", "":
		return newConsoleHandler(w, level, addSource), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriter(opts Options) (io.Writer, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		if opts.Writer != nil {
			return opts.Writer, nil
		}
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func newJSONHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	})
}
