package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/collaborators"
	"github.com/brackethq/bracket/internal/notify"
)

func newClubsCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clubs",
		Short:   "Manage clubs",
		Aliases: []string{"club"},
		GroupID: groupManagement,
	}

	cmd.AddCommand(newCollaboratorsCmd(cli))
	return cmd
}

func newCollaboratorsCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collaborators",
		Short:   "Manage who has access to a club",
		Aliases: []string{"collaborator"},
	}

	cmd.AddCommand(newCollaboratorsListCmd(cli))
	cmd.AddCommand(newCollaboratorsAddCmd(cli))
	cmd.AddCommand(newCollaboratorsRemoveCmd(cli))
	return cmd
}

// newCollaboratorsFlow returns a flow reading through a new cache. Each command
// is one short lived session, so nothing is cached between commands.
func newCollaboratorsFlow(cli *CLI) (*collaborators.Flow, error) {
	if err := mustBeLoggedIn(cli); err != nil {
		return nil, err
	}
	client, err := newAPIClient(cli)
	if err != nil {
		return nil, err
	}
	return collaborators.NewFlow(client, nil, notify.NewConsole(cli.Stderr)), nil
}

func parseClub(raw string) (api.ClubID, error) {
	var club api.ClubID
	if err := club.Set(raw); err != nil {
		return 0, Error{Message: "Invalid club", OriginalError: err}
	}
	return club, nil
}

func newCollaboratorsListCmd(cli *CLI) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list CLUB",
		Aliases: []string{"ls"},
		Short:   "List the collaborators of a club",
		Example: `# List the collaborators of club 12
$ bracket clubs collaborators list 12`,
		Args: ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			club, err := parseClub(args[0])
			if err != nil {
				return err
			}

			flow, err := newCollaboratorsFlow(cli)
			if err != nil {
				return err
			}

			snapshot, err := flow.List(cmd.Context(), club)
			if err != nil {
				return Error{Message: fmt.Sprintf("Cannot list the collaborators of club %v", club), OriginalError: err}
			}

			return printCollaborators(cli, snapshot, format)
		},
	}

	addFormatFlag(cmd.Flags(), &format)
	return cmd
}

func newCollaboratorsAddCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add CLUB EMAIL",
		Short: "Give a user access to a club",
		Example: `# Give ada@example.com access to club 12
$ bracket clubs collaborators add 12 ada@example.com`,
		Args: ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			club, err := parseClub(args[0])
			if err != nil {
				return err
			}

			flow, err := newCollaboratorsFlow(cli)
			if err != nil {
				return err
			}

			snapshot, err := flow.Invite(cmd.Context(), club, args[1])
			if err != nil {
				return Error{Message: fmt.Sprintf("Cannot add %v to club %v", args[1], club), OriginalError: err}
			}

			cli.Output("Added %v to club %v", args[1], club)
			return printCollaborators(cli, snapshot, "")
		},
	}
	return cmd
}

func newCollaboratorsRemoveCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove CLUB USER_ID...",
		Aliases: []string{"rm"},
		Short:   "Remove the access of users to a club",
		Example: `# Remove user 42 from club 12
$ bracket clubs collaborators remove 12 42`,
		Args: MinArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			club, err := parseClub(args[0])
			if err != nil {
				return err
			}

			users := make([]api.UserID, 0, len(args)-1)
			for _, raw := range args[1:] {
				var user api.UserID
				if err := user.Set(raw); err != nil {
					return Error{Message: "Invalid user", OriginalError: err}
				}
				users = append(users, user)
			}

			flow, err := newCollaboratorsFlow(cli)
			if err != nil {
				return err
			}

			snapshot, err := flow.RevokeAll(cmd.Context(), club, users...)
			if err != nil {
				return Error{Message: fmt.Sprintf("Cannot remove collaborators from club %v", club), OriginalError: err}
			}

			cli.Output("Removed %d %s from club %v", len(users), pluralize("collaborator", len(users)), club)
			return printCollaborators(cli, snapshot, "")
		},
	}
	return cmd
}

func printCollaborators(cli *CLI, snapshot collaborators.Snapshot, format string) error {
	switch format {
	case "json":
		items := snapshot.Collaborators
		if items == nil {
			items = []api.Collaborator{}
		}
		jsonOutput, err := json.Marshal(items)
		if err != nil {
			return err
		}
		cli.Output("%s", jsonOutput)
		return nil
	case "":
	default:
		return Error{Message: fmt.Sprintf("Unsupported output format %q", format)}
	}

	if snapshot.Empty() {
		cli.Output("No collaborators found")
		return nil
	}

	type row struct {
		ID          string `header:"ID"`
		Name        string `header:"Name"`
		Email       string `header:"Email"`
		AccountType string `header:"Account Type"`
	}

	rows := make([]row, 0, len(snapshot.Collaborators))
	for _, c := range snapshot.Collaborators {
		rows = append(rows, row{
			ID:          c.ID.String(),
			Name:        c.Name,
			Email:       c.Email,
			AccountType: c.AccountType,
		})
	}
	printTable(rows, cli.Stdout)
	return nil
}
