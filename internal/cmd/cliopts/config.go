// Package cliopts loads command options from a config file, environment
// variables, and command line flags.
package cliopts

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

type Options struct {
	// Filename of a yaml file. A file that does not exist is skipped.
	Filename  string
	EnvPrefix string
	Flags     FlagSet
}

// Load configuration into target. Configuration may come from multiple sources.
//
// To set default values, apply them to target before calling Load.
// Configuration is loaded in the following order:
//  1. from a yaml file identified by opts.Filename
//  2. from environment variables that start with opts.EnvPrefix
//  3. from command line flags in opts.Flags that were set
//
// Values are matched to the fields in target by convention. To override the
// convention use the 'config' struct field tag to specify a different name.
//
// For example, the field target.SignInURL would be set from:
//
//	// YAML
//	{"signInURL": "value"}
//	// environment variable
//	PREFIX_SIGN_IN_URL=value
//	// command line flag
//	flags.String("sign-in-url", ...)
func Load(target interface{}, opts Options) error {
	if opts.Filename != "" {
		if err := loadFromFile(target, opts); err != nil {
			return err
		}
	}
	if opts.EnvPrefix != "" {
		if err := loadFromEnv(target, opts); err != nil {
			return err
		}
	}
	if opts.Flags != nil {
		if err := loadFromFlags(target, opts); err != nil {
			return err
		}
	}
	return nil
}

func loadFromFile(target interface{}, opts Options) error {
	fh, err := os.Open(opts.Filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer fh.Close()

	var raw map[string]interface{}
	if err := yaml.NewDecoder(fh).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode yaml from %s: %w", opts.Filename, err)
	}

	cfg := DecodeConfig(target)
	decoder, err := mapstructure.NewDecoder(&cfg)
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode from %s: %w", opts.Filename, err)
	}
	return nil
}

const fieldTagName = "config"

// DecodeConfig returns the default DecoderConfig used by Load. This config
// can be used by tests in other packages to simulate a call to Load.
func DecodeConfig(target interface{}) mapstructure.DecoderConfig {
	return mapstructure.DecoderConfig{
		Squash:  true,
		Result:  target,
		TagName: fieldTagName,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			hookFlagValueSlice,
			hookSetFromString,
		),
	}
}
