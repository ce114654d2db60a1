package cmd

import (
	"github.com/spf13/cobra"

	"github.com/brackethq/bracket/internal"
)

func newVersionCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Display the bracket version",
		Args:    NoArgs,
		GroupID: groupOther,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.Output("Client: %s", internal.FullVersion())
			return nil
		},
	}
}
