package decision

import (
	"fmt"
)

// Reason tells why an event has been suppressed.
type Reason uint8

const (
	None Reason = iota
	NonProblemState
	SoftState
	Flapping
	Acknowledged
	Excluded
)

// String implements the fmt.Stringer interface.
func (r Reason) String() string {
	switch r {
	case None:
		return "none"
	case NonProblemState:
		return "non-problem state"
	case SoftState:
		return "soft state, not yet confirmed"
	case Flapping:
		return "flapping"
	case Acknowledged:
		return "acknowledged"
	case Excluded:
		return "excluded by pattern"
	default:
		return fmt.Sprintf("Reason(%d)", uint8(r))
	}
}

// Outcome is the result of evaluating one event.
// Reason is None if and only if Notify is true.
type Outcome struct {
	Notify bool
	Reason Reason
}

// String implements the fmt.Stringer interface.
func (o Outcome) String() string {
	if o.Notify {
		return "notify"
	}

	return "suppress (" + o.Reason.String() + ")"
}

// Assert interface compliance.
var (
	_ fmt.Stringer = None
	_ fmt.Stringer = Outcome{}
)
