package types

import (
	"encoding"
	"fmt"
	"github.com/icinga/icingacase/internal"
)

// StateType specifies a state's hardness.
type StateType uint8

const (
	StateTypeSoft StateType = iota
	StateTypeHard
)

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (st *StateType) UnmarshalText(text []byte) error {
	for k, v := range stateTypes {
		if v == string(text) {
			*st = k
			return nil
		}
	}

	return internal.InvalidInput(BadStateType{string(text)})
}

// String implements the fmt.Stringer interface.
func (st StateType) String() string {
	if v, ok := stateTypes[st]; ok {
		return v
	}

	return fmt.Sprintf("StateType(%d)", uint8(st))
}

// BadStateType complains about a state type that is neither SOFT nor HARD.
type BadStateType struct {
	Type interface{}
}

// Error implements the error interface.
func (bst BadStateType) Error() string {
	return fmt.Sprintf("bad state type: %#v", bst.Type)
}

// stateTypes maps all valid StateType values to their monitoring macro representation.
var stateTypes = map[StateType]string{
	StateTypeSoft: "SOFT",
	StateTypeHard: "HARD",
}

// Assert interface compliance.
var (
	_ error                    = BadStateType{}
	_ encoding.TextUnmarshaler = (*StateType)(nil)
	_ fmt.Stringer             = StateType(0)
)
