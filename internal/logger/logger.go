// Package logger wraps zerolog.Logger with the constructors and
// context helpers used by the server.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New builds a JSON logger tagged with role. Output goes to stdout and, when
// logFile is set, is also appended to that file.
func New(role, level, logFile string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(os.Stdout, f)
	}

	l := zerolog.New(out).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &Logger{l}, nil
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithRequestID returns a child logger carrying the request id.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{l.With().Str("request_id", id).Logger()}
}

// FromContext returns the logger attached to ctx, or a disabled logger if
// none was attached.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*zerolog.Ctx(ctx)}
}
