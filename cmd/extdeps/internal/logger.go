package internal

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// newLogger creates the logger handed to the reconcilers. It does not
// set the global logger.
func newLogger(levelStr, formatStr string, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", levelStr)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(formatStr) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", formatStr)
}
