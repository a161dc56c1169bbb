// Package grammar implements the URI surface accepted by the uri package.
//
// The grammar is a single compiled pattern. It is intentionally broader than RFC 3986 in
// the host position (routing placeholders like "{host}" and relative container paths are
// accepted) and narrower in the scheme position (only http and https).
package grammar

//go:generate errtrace -w .

import "regexp"

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	h16       = `[0-9a-f]{1,4}`
	decOctet  = `(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])`
	ipv4Exact = decOctet + `(?:\.` + decOctet + `){3}`
	ls32      = `(?:` + h16 + `:` + h16 + `|` + ipv4Exact + `)`

	ipv6 = `(?:` +
		`(?:` + h16 + `:){6}` + ls32 +
		`|::(?:` + h16 + `:){5}` + ls32 +
		`|(?:` + h16 + `)?::(?:` + h16 + `:){4}` + ls32 +
		`|(?:(?:` + h16 + `:){0,1}` + h16 + `)?::(?:` + h16 + `:){3}` + ls32 +
		`|(?:(?:` + h16 + `:){0,2}` + h16 + `)?::(?:` + h16 + `:){2}` + ls32 +
		`|(?:(?:` + h16 + `:){0,3}` + h16 + `)?::` + h16 + `:` + ls32 +
		`|(?:(?:` + h16 + `:){0,4}` + h16 + `)?::` + ls32 +
		`|(?:(?:` + h16 + `:){0,5}` + h16 + `)?::` + h16 +
		`|(?:(?:` + h16 + `:){0,6}` + h16 + `)?::` +
		`)`

	// domain name, braces placeholders and punycode labels are covered by the same class
	domain = `[\pL\pN\pS\-.{}]+`
	ipv4   = `\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`

	userChars = `[.\pL\pN-]+`
	pctEnc    = `%[0-9a-f]{2}`

	uriPattern = `(?i)^` +
		`(?:(?P<scheme>http|https)://)?` +
		`(?:(?P<user>` + userChars + `)(?::(?P<pass>` + userChars + `))?@)?` +
		`(?:(?P<host>` + domain + `|` + ipv4 + `|\[` + ipv6 + `\])(?::(?P<port>[0-9]+))?)?` +
		`(?P<path>(?:/(?:[\pL\pN\-._~!$&'{}()*+,;=:@%]|` + pctEnc + `)*)*)` +
		`(?:\?(?P<query>(?:[\pL\pN\-._~!$&'\[\]()*+,;=:@/?%]|` + pctEnc + `)*))?` +
		`(?:#(?P<fragment>(?:[\pL\pN\-._~!$&'()*+,;=:@/?]|` + pctEnc + `)*))?` +
		`$`
)

var (
	uriRegexp = regexp.MustCompile(uriPattern)

	schemePrefix = regexp.MustCompile(`(?i)^(?:http|https)://`)
	leadingToken = regexp.MustCompile(`^[^/?#]+`)
)

var (
	idxScheme   = uriRegexp.SubexpIndex("scheme")
	idxUser     = uriRegexp.SubexpIndex("user")
	idxPass     = uriRegexp.SubexpIndex("pass")
	idxHost     = uriRegexp.SubexpIndex("host")
	idxPort     = uriRegexp.SubexpIndex("port")
	idxPath     = uriRegexp.SubexpIndex("path")
	idxQuery    = uriRegexp.SubexpIndex("query")
	idxFragment = uriRegexp.SubexpIndex("fragment")
)

// Validate reports whether s is accepted by the URI grammar.
// Empty input is never valid.
func Validate[T ~string | ~[]byte](s T) bool {
	if len(s) == 0 {
		return false
	}
	return uriRegexp.MatchString(string(s))
}

// SplitSchemePrefix splits s into the "http://" or "https://" prefix and the rest.
// The prefix is empty when s doesn't start with a supported scheme.
func SplitSchemePrefix(s string) (prefix, rest string) {
	loc := schemePrefix.FindStringIndex(s)
	if loc == nil {
		return "", s
	}
	return s[:loc[1]], s[loc[1]:]
}

// LeadingToken returns the leading run of characters that are none of '/', '?', '#',
// skipping the scheme prefix if present.
// It is the fallback host of host-less identifiers like "container/path" or "{host}/path".
func LeadingToken(s string) string {
	_, rest := SplitSchemePrefix(s)
	return leadingToken.FindString(rest)
}

// Parts holds the raw components matched by the grammar.
// Nothing is unescaped or normalized.
type Parts struct {
	Scheme   string
	User     string
	Password string
	Host     string
	Port     string
	Path     string
	Query    string
	Fragment string

	HasUser,
	HasPassword,
	HasPort,
	HasQuery,
	HasFragment bool
}

// Split matches s against the URI grammar and returns its raw components.
// The boolean result is false if s is not accepted by the grammar.
func Split(s string) (Parts, bool) {
	if len(s) == 0 {
		return Parts{}, false
	}

	m := uriRegexp.FindStringSubmatchIndex(s)
	if m == nil {
		return Parts{}, false
	}

	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return s[m[2*i]:m[2*i+1]], true
	}

	var p Parts
	p.Scheme, _ = group(idxScheme)
	p.User, p.HasUser = group(idxUser)
	p.Password, p.HasPassword = group(idxPass)
	p.Host, _ = group(idxHost)
	p.Port, p.HasPort = group(idxPort)
	p.Path, _ = group(idxPath)
	p.Query, p.HasQuery = group(idxQuery)
	p.Fragment, p.HasFragment = group(idxFragment)
	return p, true
}
