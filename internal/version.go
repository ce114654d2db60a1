package internal

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Set at build time with -ldflags "-X github.com/brackethq/bracket/internal.Version=...".
var (
	Version    = "0.4.0"
	Prerelease = ""
	Metadata   = "dev"
	Commit     = ""
)

// FullVersion returns the semver version of the client. Development builds
// report the next patch version so they sort after the release they were
// built from.
func FullVersion() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		panic(fmt.Sprintf("invalid version %v: %v", Version, err))
	}

	if Metadata == "dev" {
		*v = v.IncPatch()
	}

	if Prerelease != "" {
		*v, _ = v.SetPrerelease(Prerelease)
	}
	*v, _ = v.SetMetadata(Metadata)

	return v.String()
}
