package grammar

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/errorutil"
)

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

func newMalformedInputErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, args...) //errtrace:skip
}

// Match checks s against the URI grammar.
// It returns [ErrEmptyInput] for empty input and an error wrapping [ErrMalformedInput]
// when s is not accepted.
func Match[T ~string | ~[]byte](s T) error {
	if len(s) == 0 {
		return errtrace.Wrap(ErrEmptyInput)
	}
	if !uriRegexp.MatchString(string(s)) {
		return errtrace.Wrap(newMalformedInputErr("unexpected input %q", string(s)))
	}
	return nil
}
