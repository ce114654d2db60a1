package main

import (
	"fmt"
	"os"

	"github.com/brackethq/bracket/internal/cmd"
)

func main() {
	filename := "./docs/cli-reference.md"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	if err := run(filename); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	rootCmd := cmd.NewRootCmd(&cmd.CLI{})
	return GenMarkdownFile(rootCmd, f)
}
