package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExactArgs validates that a cobra command is executed with exactly number
// command line arguments, otherwise it returns an error that includes the
// usage string.
func ExactArgs(number int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == number {
			return nil
		}
		return argsError(cmd, fmt.Sprintf("requires exactly %d %s", number, pluralize("argument", number)))
	}
}

// MinArgs validates that a cobra command is executed with at least min command
// line arguments.
func MinArgs(min int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) >= min {
			return nil
		}
		return argsError(cmd, fmt.Sprintf("requires at least %d %s", min, pluralize("argument", min)))
	}
}

// MaxArgs validates that a cobra command is executed with at most max command
// line arguments.
func MaxArgs(max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) <= max {
			return nil
		}
		return argsError(cmd, fmt.Sprintf("accepts at most %d %s", max, pluralize("argument", max)))
	}
}

// NoArgs validates that a cobra command is executed with no arguments.
func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return argsError(cmd, "accepts no arguments")
}

func argsError(cmd *cobra.Command, problem string) error {
	return fmt.Errorf(
		"%q %s.\nSee \"%s --help\".\n\nUsage:  %s\n",
		cmd.CommandPath(),
		problem,
		cmd.CommandPath(),
		cmd.UseLine())
}

func pluralize(word string, number int) string {
	if number == 1 {
		return word
	}
	return word + "s"
}
