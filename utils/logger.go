package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging throughout the application. Messages keep
// the "[component] message" shape; zerolog handles levels and output.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a Logger writing human readable lines to stdout at info level.
func NewLogger() *Logger {
	return NewLoggerTo(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}, "info")
}

// NewLoggerTo creates a Logger writing to w at the named level. Unknown levels
// fall back to info.
func NewLoggerTo(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &Logger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// SetLevel changes the minimum level, e.g. once configuration has been read.
func (l *Logger) SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return
	}
	l.zl = l.zl.Level(lvl)
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}
