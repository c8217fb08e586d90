package decision

import (
	"github.com/icinga/icingacase/internal"
	"github.com/icinga/icingacase/pkg/event"
	"github.com/icinga/icingacase/pkg/lookup"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// stores fakes both lookup stores and counts how often they have been consulted.
type stores struct {
	acked     map[string]bool
	excluded  map[string]bool
	err       error
	ackCalls  int
	exclCalls int
}

func (s *stores) IsAcknowledged(problemID string) (bool, error) {
	s.ackCalls++
	return s.acked[problemID], s.err
}

func (s *stores) Excludes(output string) (bool, error) {
	s.exclCalls++
	return s.excluded[output], s.err
}

func newEvent(state, stateType, flapPercent string) *event.ServiceEvent {
	return &event.ServiceEvent{
		State:              state,
		StateType:          stateType,
		HostName:           "db-01",
		ServiceDisplayName: "Disk /var",
		FlapPercent:        flapPercent,
		LongOutput:         "disk full",
		HostAddress:        "192.0.2.10",
		ProblemID:          "42",
	}
}

func TestEngine_Evaluate(t *testing.T) {
	subtests := []struct {
		name      string
		event     *event.ServiceEvent
		stores    *stores
		output    Outcome
		ackCalls  int
		exclCalls int
	}{
		{
			name:   "ok",
			event:  newEvent("OK", "HARD", "10"),
			stores: &stores{acked: map[string]bool{"42": true}},
			output: Outcome{Reason: NonProblemState},
		},
		{
			name:   "unknown",
			event:  newEvent("UNKNOWN", "HARD", "10"),
			stores: &stores{},
			output: Outcome{Reason: NonProblemState},
		},
		{
			name:   "ok-ignores-garbage",
			event:  newEvent("OK", "whatever", "not a number"),
			stores: &stores{},
			output: Outcome{Reason: NonProblemState},
		},
		{
			name:   "warning-soft",
			event:  newEvent("WARNING", "SOFT", "10"),
			stores: &stores{},
			output: Outcome{Reason: SoftState},
		},
		{
			name:   "critical-soft-ignores-flap-ack-exclusion",
			event:  newEvent("CRITICAL", "SOFT", "99"),
			stores: &stores{acked: map[string]bool{"42": true}, excluded: map[string]bool{"disk full": true}},
			output: Outcome{Reason: SoftState},
		},
		{
			name:   "soft-ignores-garbage-flap-percentage",
			event:  newEvent("WARNING", "SOFT", "n/a"),
			stores: &stores{},
			output: Outcome{Reason: SoftState},
		},
		{
			name:   "flapping",
			event:  newEvent("CRITICAL", "HARD", "35.1"),
			stores: &stores{},
			output: Outcome{Reason: Flapping},
		},
		{
			name:      "flap-threshold-is-exclusive",
			event:     newEvent("CRITICAL", "HARD", "35.0"),
			stores:    &stores{},
			output:    Outcome{Notify: true},
			ackCalls:  1,
			exclCalls: 1,
		},
		{
			name:     "acknowledged",
			event:    newEvent("WARNING", "HARD", "0"),
			stores:   &stores{acked: map[string]bool{"42": true}, excluded: map[string]bool{"disk full": true}},
			output:   Outcome{Reason: Acknowledged},
			ackCalls: 1,
		},
		{
			name:      "excluded",
			event:     newEvent("CRITICAL", "HARD", "10"),
			stores:    &stores{acked: map[string]bool{"17": true}, excluded: map[string]bool{"disk full": true}},
			output:    Outcome{Reason: Excluded},
			ackCalls:  1,
			exclCalls: 1,
		},
		{
			name:      "notify",
			event:     newEvent("WARNING", "HARD", "10"),
			stores:    &stores{},
			output:    Outcome{Notify: true},
			ackCalls:  1,
			exclCalls: 1,
		},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			e := NewEngine(DefaultFlapThreshold, st.stores, st.stores, zaptest.NewLogger(t).Sugar())

			actual, err := e.Evaluate(st.event)
			require.NoError(t, err)
			require.Equal(t, st.output, actual)
			require.Equal(t, st.ackCalls, st.stores.ackCalls, "acknowledgement lookups")
			require.Equal(t, st.exclCalls, st.stores.exclCalls, "exclusion lookups")

			again, err := e.Evaluate(st.event)
			require.NoError(t, err)
			require.Equal(t, actual, again)
		})
	}
}

func TestEngine_Evaluate_Errors(t *testing.T) {
	subtests := []struct {
		name   string
		event  *event.ServiceEvent
		stores *stores
		error  error
	}{
		{"bad-state", newEvent("DOWN", "HARD", "10"), &stores{}, internal.ErrInvalidInput},
		{"lowercase-state", newEvent("critical", "HARD", "10"), &stores{}, internal.ErrInvalidInput},
		{"bad-state-type", newEvent("CRITICAL", "FIRM", "10"), &stores{}, internal.ErrInvalidInput},
		{"bad-flap-percentage", newEvent("CRITICAL", "HARD", "ten"), &stores{}, internal.ErrInvalidInput},
		{
			"unavailable-store",
			newEvent("CRITICAL", "HARD", "10"),
			&stores{err: internal.LookupUnavailable(errors.New("permission denied"))},
			internal.ErrLookupUnavailable,
		},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			e := NewEngine(DefaultFlapThreshold, st.stores, st.stores, zaptest.NewLogger(t).Sugar())

			_, err := e.Evaluate(st.event)
			require.ErrorIs(t, err, st.error)
		})
	}
}

func TestEngine_Evaluate_Threshold(t *testing.T) {
	for _, threshold := range []float64{0, 12.5, 35, 100} {
		e := NewEngine(threshold, &stores{}, &stores{}, zaptest.NewLogger(t).Sugar())

		for _, flap := range []float64{0, 12.5, 12.6, 35, 35.5, 100} {
			actual, err := e.Evaluate(newEvent("CRITICAL", "HARD", formatFloat(flap)))
			require.NoError(t, err)

			if flap > threshold {
				require.Equal(t, Outcome{Reason: Flapping}, actual, "flap=%v threshold=%v", flap, threshold)
			} else {
				require.Equal(t, Outcome{Notify: true}, actual, "flap=%v threshold=%v", flap, threshold)
			}
		}
	}
}

// TestEngine_Evaluate_Files runs the engine against the real flat-file stores.
func TestEngine_Evaluate_Files(t *testing.T) {
	dir := t.TempDir()
	ackPath := filepath.Join(dir, "ack.list")
	exclPath := filepath.Join(dir, "exclusions.list")
	logger := zaptest.NewLogger(t).Sugar()

	require.NoError(t, os.WriteFile(ackPath, nil, 0o600))
	require.NoError(t, os.WriteFile(exclPath, []byte("ping timeout\n"), 0o600))

	e := NewEngine(
		DefaultFlapThreshold,
		lookup.NewAcknowledgementFile(ackPath, logger),
		lookup.NewExclusionFile(exclPath, logger),
		logger,
	)

	ev := newEvent("CRITICAL", "HARD", "10")

	t.Run("Notify", func(t *testing.T) {
		actual, err := e.Evaluate(ev)
		require.NoError(t, err)
		require.Equal(t, Outcome{Notify: true}, actual)
	})

	t.Run("Acknowledged", func(t *testing.T) {
		require.NoError(t, os.WriteFile(ackPath, []byte("42 acknowledged by opX\n"), 0o600))
		defer func() { require.NoError(t, os.WriteFile(ackPath, nil, 0o600)) }()

		actual, err := e.Evaluate(ev)
		require.NoError(t, err)
		require.Equal(t, Outcome{Reason: Acknowledged}, actual)
	})

	t.Run("Excluded", func(t *testing.T) {
		require.NoError(t, os.WriteFile(exclPath, []byte("ping timeout\n\ndisk full\n"), 0o600))

		actual, err := e.Evaluate(ev)
		require.NoError(t, err)
		require.Equal(t, Outcome{Reason: Excluded}, actual)
	})

	t.Run("Unreadable", func(t *testing.T) {
		require.NoError(t, os.Remove(ackPath))

		_, err := e.Evaluate(ev)
		require.ErrorIs(t, err, internal.ErrLookupUnavailable)

		actual, err := e.Evaluate(newEvent("WARNING", "SOFT", "10"))
		require.NoError(t, err, "stores must not be consulted for soft states")
		require.Equal(t, Outcome{Reason: SoftState}, actual)
	})
}

func TestOutcome_String(t *testing.T) {
	require.Equal(t, "notify", Outcome{Notify: true}.String())
	require.Equal(t, "suppress (flapping)", Outcome{Reason: Flapping}.String())
	require.Equal(t, "suppress (soft state, not yet confirmed)", Outcome{Reason: SoftState}.String())
	require.Equal(t, "Reason(42)", Reason(42).String())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
