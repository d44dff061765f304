package firebasemiddleware

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core and jwks for consistent logging
// across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogrusLogger returns a Logger adapter for logrus.FieldLogger. Key/value
// arguments become logrus fields.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (a *logrusLoggerAdapter) Debug(msg string, args ...any) { a.entry(args).Debug(msg) }
func (a *logrusLoggerAdapter) Info(msg string, args ...any)  { a.entry(args).Info(msg) }
func (a *logrusLoggerAdapter) Warn(msg string, args ...any)  { a.entry(args).Warn(msg) }
func (a *logrusLoggerAdapter) Error(msg string, args ...any) { a.entry(args).Error(msg) }

func (a *logrusLoggerAdapter) entry(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return a.l
	}
	return a.l.WithFields(fields(args))
}

// fields pairs args into logrus.Fields. A trailing key without a value is
// kept under "!BADKEY", matching log/slog.
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}
