package main

import (
	"fmt"
	"os"

	"github.com/brackethq/bracket/internal/cmd"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing command line argument: path to the openapi document")
	}
	filename := args[0]

	return cmd.WriteFormsDocumentToFile(cmd.FormsDocument(), filename)
}
