// Package types contains flag and config value types shared by commands.
package types

import (
	"net/url"

	"github.com/goware/urlx"
)

// URL is an alias for url.URL that allows it to be parsed from a command line
// flag, or config file. A value without a scheme gets http, so
// "localhost:8400" is accepted.
type URL url.URL

func (u *URL) Set(raw string) error {
	v, err := urlx.Parse(raw)
	if err != nil {
		return err
	}
	*u = URL(*v)
	return nil
}

func (u *URL) String() string {
	if u == nil {
		return ""
	}
	return (*url.URL)(u).String()
}

func (u *URL) Type() string {
	return "url"
}

func (u *URL) Value() *url.URL {
	return (*url.URL)(u)
}

// ResetLink is the link sent by email to reset a password. The reset token is
// carried in its token query parameter.
type ResetLink struct {
	URL
}

func (l *ResetLink) Type() string {
	return "link"
}

// Token returns the reset token of the link, or an empty string when the link
// does not have one.
func (l *ResetLink) Token() string {
	return l.Value().Query().Get("token")
}
