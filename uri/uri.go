package uri

//go:generate errtrace -w .

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// URI is an immutable validated URI.
//
// It holds only the raw text as it was supplied to [Parse] or assembled by [Build],
// every component is derived from it on access.
// The zero value is not a valid URI, use [URI.IsZero] to detect it.
// URI values are comparable with ==, which is the same as [URI.Equal].
type URI struct {
	raw string
}

// Parse parses and validates a URI from the given input s (string or []byte).
//
// The input is kept verbatim, no normalization or unescaping is performed.
// On failure the returned error is an [*InvalidURIError].
func Parse[T ~string | ~[]byte](s T) (URI, error) {
	raw := string(s)
	if err := grammar.Match(raw); err != nil {
		return URI{}, errtrace.Wrap(newInvalidURIError(raw, err))
	}

	u := URI{raw: raw}
	if p := u.parts(); p.HasPort {
		if _, err := strconv.Atoi(p.Port); err != nil {
			return URI{}, errtrace.Wrap(newInvalidURIError(raw, ErrPortOutOfRange))
		}
	}
	if !u.HasHost() && !u.HasPath() {
		return URI{}, errtrace.Wrap(newInvalidURIError(raw, ErrNoHostOrPath))
	}
	return u, nil
}

// MustParse is like [Parse] but panics on error.
func MustParse[T ~string | ~[]byte](s T) URI {
	return util.Must2(Parse(s))
}

// IsValid reports whether v can be parsed as a URI and satisfies all given predicates.
//
// v can be a string, []byte, [URI], *[URI] or [fmt.Stringer]; any other value, including nil,
// is not valid. Predicates receive the parsed URI. IsValid never panics on invalid input.
func IsValid(v any, preds ...func(URI) bool) bool {
	var (
		u   URI
		err error
	)
	switch v := v.(type) {
	case string:
		u, err = Parse(v)
	case []byte:
		u, err = Parse(v)
	case URI:
		u, err = Parse(v.raw)
	case *URI:
		if v == nil {
			return false
		}
		u, err = Parse(v.raw)
	case fmt.Stringer:
		u, err = Parse(v.String())
	default:
		return false
	}
	if err != nil {
		return false
	}

	for _, pred := range preds {
		if pred != nil && !pred(u) {
			return false
		}
	}
	return true
}

// IsZero reports whether u is the zero value.
func (u URI) IsZero() bool { return u.raw == "" }

// String returns the URI exactly as it was parsed.
func (u URI) String() string { return u.raw }

// Format implements fmt.Formatter for custom formatting of the URI.
func (u URI) Format(f fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		if verb == 'v' && f.Flag('#') {
			break
		}
		fmt.Fprint(f, u.raw)
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.raw))
		return
	}

	type hideMethods URI
	type URI hideMethods
	fmt.Fprintf(f, fmt.FormatString(f, verb), URI(u))
}

// LogValue implements [slog.LogValuer].
func (u URI) LogValue() slog.Value { return slog.StringValue(u.raw) }

// Equal reports whether u and val are the same URI.
//
// val can be [URI] or *[URI]. The comparison is an exact comparison of the raw text,
// differently escaped URIs are not equal even when they are semantically the same.
func (u URI) Equal(val any) bool {
	var other URI
	switch v := val.(type) {
	case URI:
		other = v
	case *URI:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return u.raw == other.raw
}

// MarshalText implements [encoding.TextMarshaler].
func (u URI) MarshalText() ([]byte, error) {
	return []byte(u.raw), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// Empty text is decoded into the zero URI, the counterpart of marshalling the zero URI.
func (u *URI) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*u = URI{}
		return nil
	}
	u1, err := Parse(text)
	if err != nil {
		*u = URI{}
		return errtrace.Wrap(err)
	}
	*u = u1
	return nil
}

//go:generate go tool mockgen -typed=false -destination=../internal/testutil/probemock/prober_mock.go -package=probemock . Prober

// Prober checks a target on the network and reports the response status.
// It is used by [URI.Exists], see the probe package for the HTTP implementation.
type Prober interface {
	Probe(ctx context.Context, target string) (status int, err error)
}

// ProberFunc is an adapter to allow the use of ordinary functions as [Prober].
type ProberFunc func(ctx context.Context, target string) (int, error)

// Probe calls fn(ctx, target).
func (fn ProberFunc) Probe(ctx context.Context, target string) (int, error) {
	return errtrace.Wrap2(fn(ctx, target))
}

// Exists probes the URI with p and reports whether it answered with 200, 301 or 302 status.
// Any probe failure is reported as false.
func (u URI) Exists(ctx context.Context, p Prober) bool {
	if p == nil || u.IsZero() {
		return false
	}

	status, err := p.Probe(ctx, u.raw)
	if err != nil {
		return false
	}

	switch status {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound:
		return true
	default:
		return false
	}
}
