package cmd

import (
	survey "github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/logging"
	"github.com/brackethq/bracket/internal/validate"
)

type loginCmdOptions struct {
	Email          string
	Password       string
	NonInteractive bool
}

func newLoginCmd(cli *CLI) *cobra.Command {
	var options loginCmdOptions

	cmd := &cobra.Command{
		Use:     "login [SERVER]",
		Short:   "Login to bracket",
		Args:    MaxArgs(1),
		GroupID: groupCore,
		Example: `# Login (prompt for email and password)
$ bracket login bracket.example.com/api

# Login with email and password
$ export BRACKET_SERVER=https://bracket.example.com/api
$ export BRACKET_EMAIL=ada@example.com
$ export BRACKET_PASSWORD=p4ssw0rd
$ bracket login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cli.Options.Server = args[0]
			}
			return login(cmd, cli, options)
		},
	}

	cmd.Flags().StringVar(&options.Email, "email", "", "Email address of the account")
	cmd.Flags().StringVar(&options.Password, "password", "",
		"Password, prefer the "+envPrefix+"_PASSWORD environment variable")
	addNonInteractiveFlag(cmd.Flags(), &options.NonInteractive)
	return cmd
}

func login(cmd *cobra.Command, cli *CLI, options loginCmdOptions) error {
	if options.Email == "" || options.Password == "" {
		if options.NonInteractive {
			return Error{Message: "Non-interactive login requires --email and the " + envPrefix + "_PASSWORD environment variable"}
		}
		if err := promptLogin(cli, &options); err != nil {
			return err
		}
	}

	req := &api.LoginRequest{Email: options.Email, Password: options.Password}
	if err := validate.Validate(req); err != nil {
		return Error{Message: "Invalid login", OriginalError: err}
	}

	client, err := newAPIClient(cli)
	if err != nil {
		return err
	}

	logging.Debugf("call server: login %s", options.Email)
	resp, err := client.Login(cmd.Context(), req)
	if err != nil {
		return Error{Message: "Login failed", OriginalError: err}
	}

	if err := saveLogin(client.URL, resp.AccessToken); err != nil {
		return err
	}

	cli.Output("Logged in as %s", options.Email)
	return nil
}

func promptLogin(cli *CLI, options *loginCmdOptions) error {
	if options.Email == "" {
		err := survey.AskOne(&survey.Input{Message: "Email:"}, &options.Email,
			cli.surveyIO(), survey.WithValidator(survey.Required))
		if err != nil {
			return err
		}
	}
	if options.Password == "" {
		err := survey.AskOne(&survey.Password{Message: "Password:"}, &options.Password,
			cli.surveyIO(), survey.WithValidator(survey.Required))
		if err != nil {
			return err
		}
	}
	return nil
}
