package types

import (
	"encoding"
	"github.com/icinga/icingacase/internal"
	"github.com/pkg/errors"
	"math"
	"strconv"
	"strings"
)

// Float is a float64 parsed from a monitoring macro such as $SERVICEPERCENTCHANGE$.
type Float float64

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// Surrounding whitespace is ignored. NaN and anything not understood by strconv.ParseFloat is invalid input.
func (f *Float) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return internal.InvalidInput(internal.CantParseFloat64(err, string(text)))
	}

	if math.IsNaN(parsed) {
		return internal.InvalidInput(errors.Errorf("%q is not a number", string(text)))
	}

	*f = Float(parsed)

	return nil
}

// Assert interface compliance.
var (
	_ encoding.TextUnmarshaler = (*Float)(nil)
)
