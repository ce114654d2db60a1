// Package logging provides a shared logger and log utilities to be used in all internal packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// L is the logger used by every package in the module. Replace it with
// SetOutput, or PatchLogger in tests.
var L = newLogger(os.Stderr)

func newLogger(writer io.Writer) *zerolog.Logger {
	if f, ok := writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		writer = zerolog.ConsoleWriter{
			Out:         writer,
			TimeFormat:  time.RFC3339,
			FormatLevel: consoleFormatLevel,
		}
	}

	logger := zerolog.New(writer).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
	return &logger
}

// SetOutput replaces the destination of L, keeping its level.
func SetOutput(writer io.Writer) {
	level := L.GetLevel()
	logger := newLogger(writer).Level(level)
	L = &logger
}

// SetLevel sets the level of L from a level name (debug, info, warn, error).
// An empty name leaves the level unchanged.
func SetLevel(levelName string) error {
	if levelName == "" {
		return nil
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	logger := L.Level(level)
	L = &logger
	return nil
}

// PatchLogger sets the global L logger to write logs to w. When the test ends
// the global L logger is reset to the previous value.
// PatchLogger changes a static variable, so tests that use PatchLogger can not
// use t.Parallel.
func PatchLogger(t *testing.T, w io.Writer) {
	t.Helper()
	original := L
	logger := zerolog.New(w).Level(zerolog.DebugLevel)
	L = &logger
	t.Cleanup(func() {
		L = original
	})
}

func Debugf(format string, v ...interface{}) {
	L.Debug().CallerSkipFrame(1).Msgf(format, v...)
}

func Infof(format string, v ...interface{}) {
	L.Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	L.Warn().CallerSkipFrame(1).Msgf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	L.Error().CallerSkipFrame(1).Msgf(format, v...)
}
