// Package event provides the ServiceEvent a single invocation is about.
package event

import (
	"github.com/icinga/icingacase/internal"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// ServiceEvent is one service state change as passed by the monitoring system.
//
// All attributes are kept verbatim as supplied by the caller.
// They are parsed lazily by whoever needs their semantic value,
// so that e.g. an OK event never fails because of a garbled flap percentage.
type ServiceEvent struct {
	State              string
	StateType          string
	HostName           string
	ServiceDisplayName string
	FlapPercent        string
	LongOutput         string
	HostAddress        string
	HostGroupNotes     string
	ServiceNotes       string
	ProblemID          string
}

// Param names a ServiceEvent attribute by the monitoring macro it is usually populated from.
type Param struct {
	Name  string
	Value string
}

// Params returns the attributes of e in invocation order.
func (e *ServiceEvent) Params() []Param {
	return []Param{
		{"SERVICESTATE", e.State},
		{"SERVICESTATETYPE", e.StateType},
		{"HOSTNAME", e.HostName},
		{"SERVICEDISPLAYNAME", e.ServiceDisplayName},
		{"SERVICEPERCENTCHANGE", e.FlapPercent},
		{"LONGSERVICEOUTPUT", e.LongOutput},
		{"HOSTADDRESS", e.HostAddress},
		{"HOSTGROUPNOTES", e.HostGroupNotes},
		{"SERVICENOTES", e.ServiceNotes},
		{"SERVICEPROBLEMID", e.ProblemID},
	}
}

// NumArgs is the number of positional arguments FromArgs expects.
const NumArgs = 10

// FromArgs builds a ServiceEvent from positional invocation parameters in the order
// state, state type, host name, service display name, flap percentage, long output,
// host address, host group notes, service notes and problem ID.
func FromArgs(args []string) (*ServiceEvent, error) {
	if len(args) != NumArgs {
		return nil, internal.InvalidInput(errors.Errorf("expected %d positional arguments, got %d", NumArgs, len(args)))
	}

	return &ServiceEvent{
		State:              args[0],
		StateType:          args[1],
		HostName:           args[2],
		ServiceDisplayName: args[3],
		FlapPercent:        args[4],
		LongOutput:         args[5],
		HostAddress:        args[6],
		HostGroupNotes:     args[7],
		ServiceNotes:       args[8],
		ProblemID:          args[9],
	}, nil
}

// MarshalLogObject implements the zapcore.ObjectMarshaler interface.
func (e *ServiceEvent) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("host", e.HostName)
	enc.AddString("service", e.ServiceDisplayName)
	enc.AddString("state", e.State)
	enc.AddString("state_type", e.StateType)
	enc.AddString("problem_id", e.ProblemID)

	return nil
}

// Assert interface compliance.
var (
	_ zapcore.ObjectMarshaler = (*ServiceEvent)(nil)
)
