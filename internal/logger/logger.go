// Package logger provides a thin wrapper around zerolog.Logger used
// throughout the label-sync subsystem.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Components obtain scoped loggers via FromContext or With-style child
// loggers carrying an account field. Token and key material must never be
// passed to a log event; models.Credential redacts itself as a Stringer.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding zerolog.Logger
// exposes the full zerolog API while letting the subsystem add helpers
// without touching the upstream type.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a *Logger for the given role label (e.g. "syncd",
// "vault"). Entries are JSON on os.Stdout with a "role" field, a timestamp
// and a "func" caller field holding the fully-qualified function name.
func NewLogger(role string) *Logger {
	return newLogger(role, os.Stdout)
}

// NewWriterLogger is NewLogger with an explicit output, used by the daemon
// to log to a file instead of stdout.
func NewWriterLogger(role string, w io.Writer) *Logger {
	return newLogger(role, w)
}

func newLogger(role string, w io.Writer) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithAccount returns a child logger tagged with the wallet account index,
// so cycles for different accounts can be told apart in the output.
func (l *Logger) WithAccount(accountIndex uint32) *Logger {
	return &Logger{l.With().Uint32("account", accountIndex).Logger()}
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper. If no logger has been attached, zerolog returns its global logger,
// so this never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
