// Package telemetry builds the process logger and records structured events.
//
// Records always go to a text handler (stderr in the commands; stdout carries
// the MCP transport). When an events path is configured every record is also
// appended to it as one JSON object per line.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// Options selects log level and the optional JSONL events file.
type Options struct {
	Level      slog.Level
	EventsPath string
}

// NewLogger returns a logger fanning out to a text handler on w and, if
// opts.EventsPath is set, a JSON handler appending to that file. The close
// function releases the file and is always safe to call.
func NewLogger(w io.Writer, opts Options) (*slog.Logger, func() error, error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level}),
	}
	closeFn := func() error { return nil }

	if opts.EventsPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.EventsPath), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("telemetry: mkdir %s: %w", filepath.Dir(opts.EventsPath), err)
		}
		f, err := os.OpenFile(opts.EventsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("telemetry: open %s: %w", opts.EventsPath, err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
		closeFn = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("telemetry: invalid log level %q", s)
	}
	return level, nil
}

// Emit records event on the context's logger with the given attributes.
// The event name is repeated under the "event" key and the turn ID, when
// present, under "turn_id".
func Emit(ctx context.Context, level slog.Level, event string, args ...any) {
	attrs := make([]any, 0, len(args)+4)
	attrs = append(attrs, "event", event)
	if id, ok := TurnIDFromContext(ctx); ok {
		attrs = append(attrs, "turn_id", id)
	}
	attrs = append(attrs, args...)
	FromContext(ctx).Log(ctx, level, event, attrs...)
}
