package uri

import (
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// Components is a set of URI components used to assemble a URI with [Build].
// All values are raw, they are written as is.
type Components struct {
	Scheme   string
	UserInfo string
	Host     string
	Port     int
	HasPort  bool
	Path     string
	Query    string
	Fragment string
}

// Components returns the components of the URI.
// Unlike [URI.Path], the Path field keeps a bare "/" path.
func (u URI) Components() Components {
	port, hasPort := u.Port()
	return Components{
		Scheme:   u.Scheme(),
		UserInfo: u.UserInfo(),
		Host:     u.Host(),
		Port:     port,
		HasPort:  hasPort,
		Path:     u.rawPath(),
		Query:    u.Query(),
		Fragment: u.Fragment(),
	}
}

// Build assembles a URI from the components and validates it with [Parse].
//
// The components are written in the order
// "scheme://" "userinfo@" "host" ":port" "path" "?query" "#fragment",
// empty components are omitted together with their delimiters.
// A non-empty path is separated from the host with a slash.
// A port without a host is rejected with [ErrPortWithoutHost].
func Build(c Components) (URI, error) {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if c.Scheme != "" {
		sb.WriteString(c.Scheme)
		sb.WriteString("://")
	}
	if c.UserInfo != "" {
		sb.WriteString(c.UserInfo)
		sb.WriteString("@")
	}
	sb.WriteString(c.Host)
	if c.HasPort {
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(c.Port))
	}
	if c.Host != "" && c.Path != "" && c.Path[0] != '/' {
		sb.WriteString("/")
	}
	sb.WriteString(c.Path)
	if c.Query != "" {
		sb.WriteString("?")
		sb.WriteString(c.Query)
	}
	if c.Fragment != "" {
		sb.WriteString("#")
		sb.WriteString(c.Fragment)
	}

	raw := sb.String()
	if c.HasPort && c.Host == "" {
		return URI{}, errtrace.Wrap(newInvalidURIError(raw, ErrPortWithoutHost))
	}
	return errtrace.Wrap2(Parse(raw))
}

// WithScheme returns a copy of the URI with the scheme replaced.
// Only the "http://" or "https://" prefix is rewritten, the rest of the URI is kept verbatim.
// An empty scheme removes the prefix.
func (u URI) WithScheme(scheme string) (URI, error) {
	_, rest := grammar.SplitSchemePrefix(u.raw)
	if scheme == "" {
		return errtrace.Wrap2(Parse(rest))
	}
	return errtrace.Wrap2(Parse(scheme + "://" + rest))
}

// WithUserInfo returns a copy of the URI with the user and password replaced.
// The password is used only with a non-empty user. An empty user removes the userinfo.
func (u URI) WithUserInfo(user, password string) (URI, error) {
	c := u.Components()
	c.UserInfo = user
	if user != "" && password != "" {
		c.UserInfo += ":" + password
	}
	return errtrace.Wrap2(Build(c))
}

// WithHost returns a copy of the URI with the host replaced.
func (u URI) WithHost(host string) (URI, error) {
	c := u.Components()
	c.Host = host
	return errtrace.Wrap2(Build(c))
}

// WithPort returns a copy of the URI with the port replaced.
func (u URI) WithPort(port int) (URI, error) {
	c := u.Components()
	c.Port, c.HasPort = port, true
	return errtrace.Wrap2(Build(c))
}

// WithoutPort returns a copy of the URI without the port.
func (u URI) WithoutPort() (URI, error) {
	c := u.Components()
	c.Port, c.HasPort = 0, false
	return errtrace.Wrap2(Build(c))
}

// WithPath returns a copy of the URI with the path replaced.
func (u URI) WithPath(path string) (URI, error) {
	c := u.Components()
	c.Path = path
	return errtrace.Wrap2(Build(c))
}

// WithQuery returns a copy of the URI with the query parameters of q merged into
// the current ones: keys of q overwrite the same keys, other keys are retained.
// A query without parameters (e.g. an empty string) removes the query.
func (u URI) WithQuery(q string) (URI, error) {
	c := u.Components()
	if ps := ParseQuery(q); len(ps) > 0 {
		c.Query = u.QueryParams().Merge(ps).Encode()
	} else {
		c.Query = ""
	}
	return errtrace.Wrap2(Build(c))
}

// WithFragment returns a copy of the URI with the fragment replaced.
func (u URI) WithFragment(fragment string) (URI, error) {
	c := u.Components()
	c.Fragment = fragment
	return errtrace.Wrap2(Build(c))
}
