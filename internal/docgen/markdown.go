package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// GenMarkdownFile writes a reference of every available command under root.
func GenMarkdownFile(root *cobra.Command, w io.Writer) error {
	buf := new(bytes.Buffer)
	buf.WriteString("# CLI Reference\n")

	for _, c := range commands(root) {
		genCommand(c, buf)
	}

	_, err := buf.WriteTo(w)
	return err
}

func commands(c *cobra.Command) []*cobra.Command {
	var result []*cobra.Command
	for _, sub := range c.Commands() {
		if !sub.IsAvailableCommand() || sub.IsAdditionalHelpTopicCommand() {
			continue
		}
		if sub.Runnable() {
			result = append(result, sub)
		}
		result = append(result, commands(sub)...)
	}
	return result
}

func genCommand(c *cobra.Command, buf *bytes.Buffer) {
	fmt.Fprintf(buf, "\n## `%s`\n\n", c.CommandPath())

	description := c.Long
	if description == "" {
		description = c.Short
	}
	buf.WriteString(description + "\n\n")

	buf.WriteString("```\n" + c.UseLine() + "\n```\n")

	if len(c.Example) > 0 {
		buf.WriteString("\n### Examples\n\n")
		buf.WriteString("```\n" + c.Example + "\n```\n")
	}

	if flags := c.NonInheritedFlags(); flags.HasAvailableFlags() {
		buf.WriteString("\n### Options\n\n")
		buf.WriteString("```\n" + strings.TrimRight(flags.FlagUsages(), "\n") + "\n```\n")
	}

	if flags := c.InheritedFlags(); flags.HasAvailableFlags() {
		buf.WriteString("\n### Options inherited from parent commands\n\n")
		buf.WriteString("```\n" + strings.TrimRight(flags.FlagUsages(), "\n") + "\n```\n")
	}
}
