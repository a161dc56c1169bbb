package uri

import (
	"errors"
	"strconv"

	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/grammar"
)

// Error is a string error type of the package sentinel errors.
type Error = errorutil.Error

const (
	// ErrInvalidURI is matched by every [InvalidURIError].
	ErrInvalidURI Error = "invalid URI"
	// ErrInvalidArgument is returned on attempt to decode an unsupported value into a URI.
	ErrInvalidArgument = errorutil.ErrInvalidArgument

	// ErrNoHostOrPath is the cause of the error when the input passes the grammar
	// but has neither host nor path.
	ErrNoHostOrPath Error = "neither host nor path"
	// ErrPortWithoutHost is the cause of the error when a URI is built with a port but without a host.
	ErrPortWithoutHost Error = "port without host"
	// ErrPortOutOfRange is the cause of the error when the port digits don't fit into int.
	ErrPortOutOfRange Error = "port out of range"

	// ErrEmptyInput and ErrMalformedInput are the grammar failures.
	ErrEmptyInput     = grammar.ErrEmptyInput
	ErrMalformedInput = grammar.ErrMalformedInput
)

// InvalidURIError is returned when a string can't be turned into a [URI].
// It matches [ErrInvalidURI] and the cause of the rejection with [errors.Is].
type InvalidURIError struct {
	// Input is the rejected text exactly as it was supplied or assembled.
	Input string
	// Reason is a human-readable reason of the rejection.
	Reason string

	cause error
}

func newInvalidURIError(input string, cause error) *InvalidURIError {
	reason := cause.Error()
	var gerr grammar.Error
	if errors.As(cause, &gerr) {
		reason = string(gerr)
	}
	return &InvalidURIError{Input: input, Reason: reason, cause: cause}
}

func (e *InvalidURIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Reason == "" {
		return string(ErrInvalidURI) + " " + strconv.Quote(e.Input)
	}
	return string(ErrInvalidURI) + " " + strconv.Quote(e.Input) + ": " + e.Reason
}

func (e *InvalidURIError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.cause == nil {
		return []error{ErrInvalidURI}
	}
	return []error{ErrInvalidURI, e.cause}
}
