package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/brackethq/bracket/internal/cmd"
	"github.com/brackethq/bracket/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cmd.Run(ctx, os.Args[1:]...); err != nil {
		var userErr cmd.Error
		switch {
		case errors.Is(err, terminal.InterruptErr), errors.Is(err, context.Canceled):
			logging.Debugf("user interrupted the process")
		case errors.As(err, &userErr):
			fmt.Fprintln(os.Stderr, userErr.Error())
		case strings.Contains(err.Error(), "x509: certificate signed by unknown authority"):
			fmt.Fprintf(os.Stderr, "The server certificate is not trusted; use --skip-tls-verify only for servers you control:\n\n%v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		cancel()
		os.Exit(1)
	}
}
