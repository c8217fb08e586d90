// Package decision implements the policy deciding whether a service event deserves a case.
package decision

import (
	"github.com/icinga/icingacase/pkg/event"
	"github.com/icinga/icingacase/pkg/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultFlapThreshold is the flap percentage above which a service is considered flapping.
const DefaultFlapThreshold = 35.0

// Acknowledgements tells whether a problem is already being handled by an operator.
type Acknowledgements interface {
	IsAcknowledged(problemID string) (bool, error)
}

// Exclusions tells whether a service output is known noise.
type Exclusions interface {
	Excludes(output string) (bool, error)
}

// Engine evaluates the suppression gates for service events.
// It holds no mutable state, so evaluating the same event against unchanged stores always yields the same Outcome.
type Engine struct {
	flapThreshold float64
	acks          Acknowledgements
	excls         Exclusions
	logger        *zap.SugaredLogger
}

// NewEngine returns a new Engine.
func NewEngine(flapThreshold float64, acks Acknowledgements, excls Exclusions, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		flapThreshold: flapThreshold,
		acks:          acks,
		excls:         excls,
		logger:        logger,
	}
}

// Evaluate runs ev through the gates in the following order and stops at the first one suppressing it:
// state, state type, flapping, acknowledgement and exclusion.
//
// Attributes of ev are only parsed once the gate needing them is reached.
// Malformed attributes yield an internal.ErrInvalidInput error and unreadable stores an internal.ErrLookupUnavailable one.
func (e *Engine) Evaluate(ev *event.ServiceEvent) (Outcome, error) {
	logger := e.logger.With(zap.Object("event", ev))

	state, err := types.Parse[types.State](ev.State)
	if err != nil {
		return Outcome{}, err
	}
	if !state.IsProblem() {
		return e.suppress(logger, NonProblemState), nil
	}

	stateType, err := types.Parse[types.StateType](ev.StateType)
	if err != nil {
		return Outcome{}, err
	}
	if stateType != types.StateTypeHard {
		return e.suppress(logger, SoftState), nil
	}

	flapPercent, err := types.Parse[types.Float](ev.FlapPercent)
	if err != nil {
		return Outcome{}, errors.WithMessage(err, "bad flap percentage")
	}
	if float64(flapPercent) > e.flapThreshold {
		logger.Debugf("Flap percentage %v exceeds threshold %v", float64(flapPercent), e.flapThreshold)

		return e.suppress(logger, Flapping), nil
	}

	acknowledged, err := e.acks.IsAcknowledged(ev.ProblemID)
	if err != nil {
		return Outcome{}, errors.WithMessage(err, "can't check acknowledgements")
	}
	if acknowledged {
		return e.suppress(logger, Acknowledged), nil
	}

	excluded, err := e.excls.Excludes(ev.LongOutput)
	if err != nil {
		return Outcome{}, errors.WithMessage(err, "can't check exclusions")
	}
	if excluded {
		return e.suppress(logger, Excluded), nil
	}

	logger.Debug("Event passed all gates")

	return Outcome{Notify: true}, nil
}

func (e *Engine) suppress(logger *zap.SugaredLogger, reason Reason) Outcome {
	logger.Debugw("Suppressing event", zap.Stringer("reason", reason))

	return Outcome{Reason: reason}
}
