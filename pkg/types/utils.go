package types

import (
	"encoding"
)

// Parse unmarshals text into a fresh T.
//
//	state, err := types.Parse[types.State](ev.State)
func Parse[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](text string) (T, error) {
	var v T
	err := PT(&v).UnmarshalText([]byte(text))

	return v, err
}
