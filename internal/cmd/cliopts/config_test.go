package cliopts

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

type example struct {
	Server        string
	AccessKey     string
	SignInURL     string
	Timeout       time.Duration
	SkipTLSVerify bool
	Retries       int32

	Prompt  PromptOptions
	Display *PromptOptions

	PromptOptions

	Clubs []string
}

type PromptOptions struct {
	Color  bool
	Width  int
	Prefix string
}

const exampleConfig = `
server: https://file.example.com
accessKey: from-file
signInURL: https://file.example.com/login
timeout: 10s
retries: 2

prompt:
    width: 80
    prefix: "> "

display:
    color: true

prefix: "$ "
clubs: [one, two]
`

func TestLoad(t *testing.T) {
	f := fs.NewFile(t, t.Name(), fs.WithContent(exampleConfig))

	t.Setenv("BRACKET_ACCESS_KEY", "from-env")
	t.Setenv("BRACKET_SKIP_TLS_VERIFY", "true")
	t.Setenv("BRACKET_PROMPT_COLOR", "true")
	t.Setenv("BRACKET_DISPLAY_WIDTH", "120")
	t.Setenv("BRACKET_WIDTH", "40")
	t.Setenv("OTHER_SERVER", "not-this")

	target := example{
		Server:  "left-as-default",
		Timeout: 30 * time.Second,
	}
	err := Load(&target, Options{Filename: f.Path(), EnvPrefix: "BRACKET"})
	assert.NilError(t, err)

	expected := example{
		Server:        "https://file.example.com",
		AccessKey:     "from-env",
		SignInURL:     "https://file.example.com/login",
		Timeout:       10 * time.Second,
		SkipTLSVerify: true,
		Retries:       2,
		Prompt:        PromptOptions{Color: true, Width: 80, Prefix: "> "},
		Display:       &PromptOptions{Color: true, Width: 120},
		PromptOptions: PromptOptions{Width: 40, Prefix: "$ "},
		Clubs:         []string{"one", "two"},
	}
	assert.DeepEqual(t, target, expected)
}

func TestLoad_WithFlags(t *testing.T) {
	f := fs.NewFile(t, t.Name(), fs.WithContent(exampleConfig))
	t.Setenv("BRACKET_ACCESS_KEY", "from-env")
	t.Setenv("BRACKET_RETRIES", "3")

	flags := pflag.NewFlagSet("any", pflag.ContinueOnError)
	flags.String("server", "", "")
	flags.String("access-key", "", "")
	flags.Duration("timeout", time.Minute, "")
	flags.Bool("skip-tls-verify", false, "")
	flags.Int32("retries", 0, "")
	flags.Int("prompt-width", 0, "")
	flags.StringSlice("clubs", nil, "")

	err := flags.Parse([]string{
		"--access-key=from-flag",
		"--skip-tls-verify",
		"--prompt-width=20",
		"--clubs=three",
		"--clubs=four",
	})
	assert.NilError(t, err)

	var target example
	err = Load(&target, Options{Filename: f.Path(), EnvPrefix: "BRACKET", Flags: flags})
	assert.NilError(t, err)

	expected := example{
		// unset flags do not replace the file and environment values
		Server:        "https://file.example.com",
		Timeout:       10 * time.Second,
		Retries:       3,
		AccessKey:     "from-flag",
		SignInURL:     "https://file.example.com/login",
		SkipTLSVerify: true,
		Prompt:        PromptOptions{Width: 20, Prefix: "> "},
		Display:       &PromptOptions{Color: true},
		PromptOptions: PromptOptions{Prefix: "$ "},
		Clubs:         []string{"three", "four"},
	}
	assert.DeepEqual(t, target, expected)
}

func TestLoad_MissingFile(t *testing.T) {
	target := example{Server: "default"}
	err := Load(&target, Options{Filename: "/does/not/exist.yaml"})
	assert.NilError(t, err)
	assert.Equal(t, target.Server, "default")
}

func TestLoad_EmptyFile(t *testing.T) {
	f := fs.NewFile(t, t.Name())
	target := example{Server: "default"}
	err := Load(&target, Options{Filename: f.Path()})
	assert.NilError(t, err)
	assert.Equal(t, target.Server, "default")
}
