package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/lensesio/tableprinter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal"
	"github.com/brackethq/bracket/internal/cmd/cliopts"
	"github.com/brackethq/bracket/internal/cmd/types"
	"github.com/brackethq/bracket/internal/logging"
	"github.com/brackethq/bracket/metrics"
)

// Run the main CLI command with the given args. The args should not contain
// the name of the binary (ex: os.Args[1:]).
func Run(ctx context.Context, args ...string) error {
	cli := newCLI(ctx)
	cmd := NewRootCmd(cli)
	cmd.SetArgs(args)
	cmd.SetOut(cli.Stdout)
	cmd.SetErr(cli.Stderr)
	err := cmd.ExecuteContext(ctx)

	// failed commands record their requests too
	if cli.Options.MetricsFile == "" {
		return err
	}
	if werr := metrics.WriteFile(cli.Options.MetricsFile, cli.registry); werr != nil {
		if err != nil {
			logging.Errorf("write metrics: %v", werr)
			return err
		}
		return fmt.Errorf("write metrics: %w", werr)
	}
	return err
}

func printTable(data interface{}, out io.Writer) {
	table := tableprinter.New(out)

	table.HeaderAlignment = tableprinter.AlignLeft
	table.AutoWrapText = false
	table.DefaultAlignment = tableprinter.AlignLeft
	table.CenterSeparator = ""
	table.ColumnSeparator = ""
	table.RowSeparator = ""
	table.HeaderLine = false
	table.BorderBottom = false
	table.BorderLeft = false
	table.BorderRight = false
	table.BorderTop = false
	table.Print(data)
}

// newAPIClient returns a client for the server in the options. Requests are
// timed by the metrics transport of the CLI.
func newAPIClient(cli *CLI) (*api.Client, error) {
	opts := cli.Options

	var server types.URL
	if err := server.Set(opts.Server); err != nil {
		return nil, Error{Message: fmt.Sprintf("Invalid server URL %q", opts.Server), OriginalError: err}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.SkipTLSVerify {
		transport.TLSClientConfig = &tls.Config{
			//nolint:gosec // We may purposely set insecureskipverify via a flag
			InsecureSkipVerify: true,
		}
	}

	return &api.Client{
		Name:      "cli",
		Version:   internal.Version,
		URL:       server.String(),
		AccessKey: opts.AccessKey,
		HTTP: http.Client{
			Timeout:   opts.Timeout,
			Transport: metrics.NewTransport(cli.registry, transport),
		},
		OnUnauthorized: func() {
			logging.Debugf("server rejected the access key")
		},
	}, nil
}

func mustBeLoggedIn(cli *CLI) error {
	if cli.Options.AccessKey == "" {
		return errNotLoggedIn
	}
	return nil
}

const (
	groupCore       = "group-core"
	groupManagement = "group-management"
	groupOther      = "group-other"
)

func NewRootCmd(cli *CLI) *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:               "bracket",
		Short:             "Manage access to bracket tournaments",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cliopts.DefaultsFromEnv(envPrefix, cmd.Flags()); err != nil {
				return err
			}
			opts, err := loadOptions(cmd.Flags())
			if err != nil {
				return err
			}
			cli.Options = opts
			return logging.SetLevel(opts.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddGroup(
		&cobra.Group{
			ID:    groupCore,
			Title: "Core commands:",
		},
		&cobra.Group{
			ID:    groupManagement,
			Title: "Management commands:",
		},
		&cobra.Group{
			ID:    groupOther,
			Title: "Other commands:",
		})

	rootCmd.AddCommand(
		// Core commands
		newLoginCmd(cli),
		newPasswordResetCmd(cli),

		// Management commands
		newClubsCmd(cli),

		// Other commands
		newSchemaCmd(cli),
		newVersionCmd(cli))

	rootCmd.PersistentFlags().Bool("help", false, "Display help")
	addRootFlags(rootCmd.PersistentFlags())

	rootCmd.SetHelpCommandGroupID(groupOther)
	rootCmd.SetUsageTemplate(usageTemplate())
	return rootCmd
}

func addNonInteractiveFlag(flags *pflag.FlagSet, bind *bool) {
	isNonInteractiveMode := os.Stdin == nil || !term.IsTerminal(int(os.Stdin.Fd()))
	flags.BoolVar(bind, "non-interactive", isNonInteractiveMode, "Disable all prompts for input")
}

func addFormatFlag(flags *pflag.FlagSet, bind *string) {
	flags.StringVar(bind, "format", "", "Output format [json]")
}

func usageTemplate() string {
	return `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{end}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}
