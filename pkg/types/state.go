package types

import (
	"encoding"
	"fmt"
	"github.com/icinga/icingacase/internal"
)

// State specifies a service state as reported by the monitoring system.
type State uint8

const (
	StateOK State = iota
	StateWarning
	StateCritical
	StateUnknown
)

// IsProblem reports whether s is a state worth creating a case for.
func (s State) IsProblem() bool {
	return s == StateWarning || s == StateCritical
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *State) UnmarshalText(text []byte) error {
	for k, v := range states {
		if v == string(text) {
			*s = k
			return nil
		}
	}

	return internal.InvalidInput(BadState{string(text)})
}

// String implements the fmt.Stringer interface.
func (s State) String() string {
	if v, ok := states[s]; ok {
		return v
	}

	return fmt.Sprintf("State(%d)", uint8(s))
}

// BadState complains about a state that is none of OK, WARNING, CRITICAL and UNKNOWN.
type BadState struct {
	State interface{}
}

// Error implements the error interface.
func (bs BadState) Error() string {
	return fmt.Sprintf("bad service state: %#v", bs.State)
}

// states maps all valid State values to their monitoring macro representation.
var states = map[State]string{
	StateOK:       "OK",
	StateWarning:  "WARNING",
	StateCritical: "CRITICAL",
	StateUnknown:  "UNKNOWN",
}

// Assert interface compliance.
var (
	_ error                    = BadState{}
	_ encoding.TextUnmarshaler = (*State)(nil)
	_ fmt.Stringer             = State(0)
)
