package cliopts

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

type FlagSet interface {
	VisitAll(fn func(*pflag.Flag))
}

// DefaultsFromEnv sets every flag that was not set on the command line from
// its environment variable, when one exists.
//
// The environment variable for a flag has the prefix prepended, dashes replaced
// with underscores, and lowercase converted to uppercase (ex:
// --new-password is set from BRACKET_NEW_PASSWORD).
//
// DefaultsFromEnv should be called after FlagSet.Parse, but before any flags
// are used. Flags set from the environment are not marked as changed.
func DefaultsFromEnv(prefix string, flags FlagSet) error {
	var errs []error
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Changed {
			return
		}

		v, exists := os.LookupEnv(EnvName(prefix, flag.Name))
		if !exists {
			return
		}
		if err := flag.Value.Set(v); err != nil {
			errs = append(errs, fmt.Errorf("failed to set %v from environment variable: %w", flag.Name, err))
		}
	})
	return errors.Join(errs...)
}

// EnvName returns the name of the environment variable for the flag name.
func EnvName(prefix, flagName string) string {
	return strings.ToUpper(prefix + "_" + strings.ReplaceAll(flagName, "-", "_"))
}
