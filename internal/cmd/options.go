package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/brackethq/bracket/internal/cmd/cliopts"
)

const envPrefix = "BRACKET"

// Options are shared by all commands. They are read from the config file,
// then from BRACKET_ environment variables, then from command line flags.
type Options struct {
	// Server is the root of the API, ex: https://bracket.example.com/api.
	Server    string `default:"http://localhost:8400"`
	AccessKey string
	// SignInURL is shown after a password was reset.
	SignInURL     string
	Timeout       time.Duration `default:"30s"`
	LogLevel      string        `default:"info"`
	SkipTLSVerify bool
	// MetricsFile is written with the client request metrics when a command
	// finishes.
	MetricsFile string
}

// bracketHomeDir returns the directory that holds the config file. It is
// $BRACKET_HOME when set, otherwise ~/.bracket.
func bracketHomeDir() (string, error) {
	if dir := os.Getenv("BRACKET_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bracket"), nil
}

func configFilename() (string, error) {
	dir, err := bracketHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func loadOptions(flags cliopts.FlagSet) (Options, error) {
	var opts Options
	defaults.SetDefaults(&opts)

	filename, err := configFilename()
	if err != nil {
		return opts, err
	}

	err = cliopts.Load(&opts, cliopts.Options{
		Filename:  filename,
		EnvPrefix: envPrefix,
		Flags:     flags,
	})
	return opts, err
}

// saveLogin writes the server and access key to the config file. Other keys
// in the file are preserved.
func saveLogin(server, accessKey string) error {
	filename, err := configFilename()
	if err != nil {
		return err
	}

	raw := map[string]interface{}{}
	contents, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		if err := yaml.Unmarshal(contents, &raw); err != nil {
			return fmt.Errorf("failed to decode %s: %w", filename, err)
		}
	}

	raw["server"] = server
	raw["accessKey"] = accessKey

	contents, err = yaml.Marshal(raw)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o700); err != nil {
		return err
	}
	return os.WriteFile(filename, contents, 0o600)
}

func addRootFlags(flags *pflag.FlagSet) {
	var defaultOpts Options
	defaults.SetDefaults(&defaultOpts)

	flags.String("server", defaultOpts.Server, "Root URL of the bracket API")
	flags.String("sign-in-url", "", "URL of the sign in page, shown after a password reset")
	flags.Duration("timeout", defaultOpts.Timeout, "Timeout for each request to the server")
	flags.String("log-level", defaultOpts.LogLevel, "Show logs when running the command [error, warn, info, debug]")
	flags.Bool("skip-tls-verify", false, "Skip verifying the server certificate")
	flags.String("metrics-file", "", "Write client request metrics to this file when the command finishes")
}
