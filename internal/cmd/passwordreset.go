package cmd

import (
	"errors"
	"fmt"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/cmd/types"
	"github.com/brackethq/bracket/internal/logging"
	"github.com/brackethq/bracket/internal/notify"
	"github.com/brackethq/bracket/internal/recovery"
	"github.com/brackethq/bracket/internal/validate"
)

type passwordResetOptions struct {
	Email          string
	Token          string
	Link           types.ResetLink
	NewPassword    string
	Open           bool
	NonInteractive bool
}

func newPasswordResetCmd(cli *CLI) *cobra.Command {
	var options passwordResetOptions

	cmd := &cobra.Command{
		Use:   "password-reset",
		Short: "Reset a forgotten password",
		Long: `Reset a forgotten password.

Without a token, a reset link is requested for your email address first. The
same confirmation is shown whether or not an account exists for the address.

Use --link with the link from the email, or --token with its token, to set the
new password directly.`,
		Example: `# Request a reset link, then set the new password
$ bracket password-reset --email ada@example.com

# Set the new password with the link from the email
$ bracket password-reset --link 'https://bracket.example.com/password-reset?token=...'`,
		Args:    NoArgs,
		GroupID: groupCore,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("link") {
				if options.Token != "" {
					return Error{Message: "Only one of --link or --token may be used"}
				}
				options.Token = options.Link.Token()
				if options.Token == "" {
					return Error{Message: "The reset link does not contain a token"}
				}
			}
			return passwordReset(cmd, cli, options)
		},
	}

	cmd.Flags().StringVar(&options.Email, "email", "", "Email address of the account")
	cmd.Flags().StringVar(&options.Token, "token", "", "Reset token from the reset email")
	cmd.Flags().Var(&options.Link, "link", "Reset link from the reset email")
	cmd.Flags().StringVar(&options.NewPassword, "new-password", "",
		"New password, prefer the "+envPrefix+"_NEW_PASSWORD environment variable")
	cmd.Flags().BoolVar(&options.Open, "open", false, "Open the sign in page in a browser once the password is reset")
	addNonInteractiveFlag(cmd.Flags(), &options.NonInteractive)
	return cmd
}

func passwordReset(cmd *cobra.Command, cli *CLI, options passwordResetOptions) error {
	client, err := newAPIClient(cli)
	if err != nil {
		return err
	}

	flow := recovery.New(cmd.Context(), recovery.Options{
		Authority:    client,
		Notifier:     notify.NewConsole(cli.Stdout),
		Navigator:    signInNavigator(cli, options.Open),
		InitialToken: options.Token,
	})
	defer flow.Close()

	for {
		state := flow.State()
		switch state.Step {
		case recovery.Completed:
			return nil

		case recovery.AwaitingEmail:
			email, err := emailForReset(cli, &options)
			if err != nil {
				return err
			}
			if err := flow.SubmitEmail(email); err != nil {
				if canRetry(cli, options, err) {
					continue
				}
				return Error{Message: "Could not request a password reset", OriginalError: err}
			}

		case recovery.AwaitingCredential:
			if state.Token == "" && options.NonInteractive {
				cli.Output(`Use the link from the email with "bracket password-reset --link LINK" to set a new password`)
				return nil
			}
			credential, err := credentialForReset(cli, &options, state.Token)
			if err != nil {
				return err
			}
			if err := flow.SubmitCredential(credential); err != nil {
				if canRetry(cli, options, err) {
					continue
				}
				return Error{Message: "Could not reset the password", OriginalError: err}
			}
		}
	}
}

// canRetry reports whether the user can be asked again after err. Validation
// problems are printed first. A request the authority rejected was already
// reported by the notifier, and the flow keeps the token for the next attempt.
func canRetry(cli *CLI, options passwordResetOptions, err error) bool {
	if options.NonInteractive {
		return false
	}

	var fieldErrs validate.Error
	if errors.As(err, &fieldErrs) {
		for _, line := range notify.Describe(fieldErrs) {
			cli.Output("  %s", line)
		}
		return true
	}

	code := api.ErrorStatusCode(err)
	return code >= 400 && code < 500
}

// emailForReset returns the email from the flag the first time it is called,
// and prompts for it after that.
func emailForReset(cli *CLI, options *passwordResetOptions) (string, error) {
	if options.Email != "" {
		email := options.Email
		options.Email = ""
		return email, nil
	}
	if options.NonInteractive {
		return "", Error{Message: "Non-interactive mode requires --email, or a reset token from --token or --link"}
	}

	var email string
	err := survey.AskOne(&survey.Input{Message: "Email:"}, &email, cli.surveyIO(), survey.WithValidator(survey.Required))
	return email, err
}

// credentialForReset returns the token and new password. The token field is
// pre-filled with token.
func credentialForReset(cli *CLI, options *passwordResetOptions, token string) (recovery.Credential, error) {
	if options.NonInteractive {
		if options.NewPassword == "" {
			return recovery.Credential{}, Error{Message: "Non-interactive mode requires --new-password or " + envPrefix + "_NEW_PASSWORD"}
		}
		// there is nothing to confirm without a prompt
		return recovery.Credential{
			Token:           token,
			NewPassword:     options.NewPassword,
			ConfirmPassword: options.NewPassword,
		}, nil
	}

	var answers struct {
		Token           string
		NewPassword     string
		ConfirmPassword string
	}
	questions := []*survey.Question{
		{
			Name:   "Token",
			Prompt: &survey.Input{Message: "Reset token:", Default: token},
		},
		{
			Name:   "NewPassword",
			Prompt: &survey.Password{Message: "New password:"},
		},
		{
			Name:   "ConfirmPassword",
			Prompt: &survey.Password{Message: "Confirm new password:"},
		},
	}
	if err := survey.Ask(questions, &answers, cli.surveyIO()); err != nil {
		return recovery.Credential{}, err
	}

	return recovery.Credential{
		Token:           answers.Token,
		NewPassword:     answers.NewPassword,
		ConfirmPassword: answers.ConfirmPassword,
	}, nil
}

// signInNavigator sends the user to the sign in page after a reset. The page
// is printed, and opened in a browser when open is true.
func signInNavigator(cli *CLI, open bool) recovery.Navigator {
	return recovery.NavigatorFunc(func(to recovery.Destination) {
		if to != recovery.SignIn {
			return
		}

		signInURL := cli.Options.SignInURL
		if signInURL == "" {
			cli.Output(`Run "bracket login" to sign in with your new password`)
			return
		}

		cli.Output("Sign in at %s", signInURL)
		if !open {
			return
		}
		browser.Stdout = cli.Stderr
		if err := browser.OpenURL(signInURL); err != nil {
			logging.Debugf("open browser: %v", err)
			fmt.Fprintf(cli.Stderr, "Could not open a browser, visit %s to sign in\n", signInURL)
		}
	})
}
