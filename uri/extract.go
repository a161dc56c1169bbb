package uri

import (
	"strconv"
	"strings"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

func (u URI) parts() grammar.Parts {
	p, _ := grammar.Split(u.raw)
	return p
}

// Scheme returns the scheme of the URI ("http" or "https") or an empty string.
func (u URI) Scheme() string { return u.parts().Scheme }

// UserInfo returns "user" or "user:password" part of the authority or an empty string.
func (u URI) UserInfo() string {
	p := u.parts()
	if p.HasPassword {
		return p.User + ":" + p.Password
	}
	return p.User
}

// User returns the username and a bool flag indicating whether it is present.
func (u URI) User() (string, bool) {
	p := u.parts()
	return p.User, p.HasUser
}

// Password returns the password and a bool flag indicating whether it is present.
func (u URI) Password() (string, bool) {
	p := u.parts()
	return p.Password, p.HasPassword
}

// Host returns the host of the URI.
//
// Host-less identifiers like "container/path" or "{host}/path/{id}" report
// their leading token as the host ("container" and "{host}" respectively).
// IPv6 hosts are returned with the square brackets.
func (u URI) Host() string {
	p := u.parts()
	if p.Host != "" || p.HasUser {
		return p.Host
	}
	return grammar.LeadingToken(u.raw)
}

// Port returns the port and a bool flag indicating whether it is present.
// [Parse] guarantees the port fits into int.
func (u URI) Port() (int, bool) {
	p := u.parts()
	if !p.HasPort {
		return 0, false
	}
	port, err := strconv.Atoi(p.Port)
	if err != nil {
		return 0, false
	}
	return port, true
}

// Authority returns the "userinfo@host:port" part of the URI.
func (u URI) Authority() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	if ui := u.UserInfo(); ui != "" {
		sb.WriteString(ui)
		sb.WriteString("@")
	}
	sb.WriteString(u.Host())
	if port, ok := u.Port(); ok {
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(port))
	}
	return sb.String()
}

// Path returns the path of the URI. A bare "/" path is reported as empty.
func (u URI) Path() string {
	if p := u.rawPath(); p != "/" {
		return p
	}
	return ""
}

func (u URI) rawPath() string {
	p := u.parts()
	if p.Host == "" && !p.HasUser {
		// the leading token is reported as the host, see URI.Host
		if tok := grammar.LeadingToken(u.raw); tok != "" {
			return strings.TrimPrefix(p.Path, tok)
		}
	}
	return p.Path
}

// Query returns the raw query string without the leading '?'.
func (u URI) Query() string { return u.parts().Query }

// Fragment returns the raw fragment without the leading '#'.
func (u URI) Fragment() string { return u.parts().Fragment }

// DomainSuffix returns the last dot-separated label of the host.
// The bool flag is false when the host is empty or has a single label.
func (u URI) DomainSuffix() (string, bool) {
	host := u.Host()
	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return "", false
	}
	return host[i+1:], true
}

// FileName returns the last segment of the path.
// The bool flag is false when the path is empty or ends with a slash.
func (u URI) FileName() (string, bool) {
	path := u.Path()
	if path == "" || strings.HasSuffix(path, "/") {
		return "", false
	}
	return path[strings.LastIndexByte(path, '/')+1:], true
}

// IsHTTPS reports whether the URI has the https scheme.
func (u URI) IsHTTPS() bool { return util.EqFold(u.Scheme(), "https") }

func (u URI) HasUser() bool {
	_, ok := u.User()
	return ok
}

func (u URI) HasPassword() bool {
	_, ok := u.Password()
	return ok
}

func (u URI) HasHost() bool { return u.Host() != "" }

func (u URI) HasPort() bool {
	_, ok := u.Port()
	return ok
}

func (u URI) HasPath() bool { return u.Path() != "" }

func (u URI) HasQuery() bool { return u.Query() != "" }

func (u URI) HasFragment() bool { return u.Fragment() != "" }
