package cmd

import (
	"io"

	"github.com/muesli/termenv"
)

// ansiWriter turns on ANSI escape handling of the Windows console for the
// duration of each write, so notification colors render.
type ansiWriter struct {
	io.Writer
}

func newStderr(w io.Writer) io.Writer {
	return ansiWriter{w}
}

func (a ansiWriter) Write(p []byte) (int, error) {
	mode, err := termenv.EnableWindowsANSIConsole()
	if err != nil {
		return 0, err
	}
	defer termenv.RestoreWindowsConsole(mode)
	return a.Writer.Write(p)
}
