package logging

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// consoleFormatLevel replaces the zerolog console level names with fixed
// width, colored names.
func consoleFormatLevel(i interface{}) string {
	noColor := !isTerminal()
	l, ok := i.(string)
	if !ok {
		return fmt.Sprintf("%v", i)
	}

	switch l {
	case zerolog.LevelTraceValue:
		return colorize("TRACE", colorMagenta, noColor)
	case zerolog.LevelDebugValue:
		return colorize("DEBUG", colorYellow, noColor)
	case zerolog.LevelInfoValue:
		return colorize("INFO ", colorGreen, noColor)
	case zerolog.LevelWarnValue:
		return colorize("WARN ", colorRed, noColor)
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return colorize(colorize(fmt.Sprintf("%-5.5s", l), colorRed, noColor), colorBold, noColor)
	default:
		return colorize("?????", colorBold, noColor)
	}
}

const (
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorMagenta = 35

	colorBold = 1
)

// colorize returns the string s wrapped in ANSI code c, unless disabled is true.
func colorize(s interface{}, c int, disabled bool) string {
	if disabled {
		return fmt.Sprintf("%s", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
