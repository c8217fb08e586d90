package internal

import (
	"fmt"
	"github.com/pkg/errors"
	"io"
)

// Exit codes of the icingacase binary.
const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitInvalidInput      = 2
	ExitDispatchFailure   = 3
	ExitLookupUnavailable = ExitFailure
)

var (
	// ErrInvalidInput is the root of all errors caused by malformed or out-of-enum invocation parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLookupUnavailable is the root of all errors caused by an unreadable acknowledgement or exclusion file.
	ErrLookupUnavailable = errors.New("lookup unavailable")

	// ErrDispatchFailure is the root of all errors caused by a failing mail transport.
	ErrDispatchFailure = errors.New("dispatch failure")
)

// InvalidInput wraps err as ErrInvalidInput.
func InvalidInput(err error) error {
	return kind{err: err, kind: ErrInvalidInput}
}

// LookupUnavailable wraps err as ErrLookupUnavailable.
func LookupUnavailable(err error) error {
	return kind{err: err, kind: ErrLookupUnavailable}
}

// DispatchFailure wraps err as ErrDispatchFailure.
func DispatchFailure(err error) error {
	return kind{err: err, kind: ErrDispatchFailure}
}

// ExitCode maps err to the exit code the process should terminate with.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, ErrDispatchFailure):
		return ExitDispatchFailure
	case errors.Is(err, ErrLookupUnavailable):
		return ExitLookupUnavailable
	default:
		return ExitFailure
	}
}

// CantParseFloat64 wraps the given error with the specified string that cannot be parsed into float64.
func CantParseFloat64(err error, s string) error {
	return errors.Wrapf(err, "can't parse %q into float64", s)
}

// CantUnmarshalYAML wraps the given error with the designated value, which cannot be unmarshalled into.
func CantUnmarshalYAML(err error, v interface{}) error {
	return errors.Wrapf(err, "can't unmarshal YAML into %T", v)
}

// kind tags an error with one of the sentinel errors above
// while keeping the original error and its stack trace intact.
type kind struct {
	err  error
	kind error
}

// Error implements the error interface.
func (k kind) Error() string {
	return k.kind.Error() + ": " + k.err.Error()
}

// Is reports whether target is the sentinel k was tagged with.
func (k kind) Is(target error) bool {
	return target == k.kind
}

// Unwrap returns the tagged error.
func (k kind) Unwrap() error {
	return k.err
}

// Cause implements the causer interface of github.com/pkg/errors.
func (k kind) Cause() error {
	return k.err
}

// Format implements the fmt.Formatter interface so that "%+v" still prints the stack trace of the tagged error.
func (k kind) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = fmt.Fprintf(s, "%s: %+v", k.kind, k.err)
		return
	}

	_, _ = io.WriteString(s, k.Error())
}
