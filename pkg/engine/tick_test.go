package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayyushutup/boxbox/pkg/model"
)

// runTicks drives n ticks from a fresh state built with the given seed and
// returns the final state plus every event emitted along the way.
func runTicks(t *testing.T, seed int64, n int) (model.RaceState, []model.Event) {
	t.Helper()
	state := newTestState(seed, 6)
	rng := NewRNG(seed)
	var allEvents []model.Event
	for i := 0; i < n; i++ {
		var events []model.Event
		state, events = Tick(state, model.Controls{Modifiers: model.DefaultModifiers()}, rng)
		allEvents = append(allEvents, events...)
	}
	return state, allEvents
}

func TestTickIsDeterministic(t *testing.T) {
	stateA, eventsA := runTicks(t, 42, 500)
	stateB, eventsB := runTicks(t, 42, 500)

	require.Equal(t, stateA.Meta.Tick, stateB.Meta.Tick)
	assert.Equal(t, stateA, stateB, "identical seed and controls must produce byte-identical state")
	require.Equal(t, len(eventsA), len(eventsB))
	assert.Equal(t, eventsA, eventsB)
}

func TestTickInvariantsHoldThroughoutRace(t *testing.T) {
	state := newTestState(7, 6)
	rng := NewRNG(7)

	lastTick := state.Meta.Tick
	for i := 0; i < 3000 && !state.IsFinished; i++ {
		state, _ = Tick(state, model.Controls{Modifiers: model.DefaultModifiers()}, rng)

		require.GreaterOrEqual(t, state.Meta.Tick, lastTick, "tick must be monotone non-decreasing")
		lastTick = state.Meta.Tick
		require.Equal(t, state.Meta.Tick*model.TickDurationMs, state.Meta.SimTimeMs)

		flagCount := 0
		for _, rc := range []model.RaceControlState{model.Green, model.Yellow, model.VSC, model.SafetyCar, model.RedFlag} {
			if state.RaceControl == rc {
				flagCount++
			}
		}
		require.Equal(t, 1, flagCount, "exactly one race_control flag must be active")

		seenPositions := map[int]bool{}
		for _, c := range state.Cars {
			require.GreaterOrEqual(t, c.Telemetry.Tire.Wear, 0.0)
			require.LessOrEqual(t, c.Telemetry.Tire.Wear, 1.0)
			require.GreaterOrEqual(t, c.Telemetry.FuelKg, 0.0)
			require.GreaterOrEqual(t, c.Telemetry.LapProgress, 0.0)
			require.Less(t, c.Telemetry.LapProgress, 1.0)
			require.GreaterOrEqual(t, c.Systems.ERSBattery, 0.0)
			require.LessOrEqual(t, c.Systems.ERSBattery, 4.0)

			if !c.IsDNF() {
				require.False(t, seenPositions[c.Timing.Position], "duplicate position among non-DNF cars")
				seenPositions[c.Timing.Position] = true
			}
		}

		for j := 1; j <= len(seenPositions); j++ {
			require.True(t, seenPositions[j], "positions must form a dense permutation starting at 1")
		}
	}
}

func TestEventsAreAppendOnlyAndNeverReordered(t *testing.T) {
	state := newTestState(11, 4)
	rng := NewRNG(11)

	for i := 0; i < 200; i++ {
		state, _ = Tick(state, model.Controls{Modifiers: model.DefaultModifiers()}, rng)
		last := int64(-1)
		for _, ev := range state.Events {
			require.GreaterOrEqual(t, ev.Tick, last)
			last = ev.Tick
		}
	}
}

func TestLegalTransitionsMatchStateMachine(t *testing.T) {
	assert.True(t, LegalTransition(model.Green, model.SafetyCar))
	assert.True(t, LegalTransition(model.Green, model.VSC))
	assert.True(t, LegalTransition(model.Green, model.RedFlag))
	assert.False(t, LegalTransition(model.SafetyCar, model.VSC))
	assert.True(t, LegalTransition(model.SafetyCar, model.Green))
	assert.False(t, LegalTransition(model.Green, model.Green))
}

func TestDirectorInjectsSafetyCar(t *testing.T) {
	state := newTestState(42, 6)
	rng := NewRNG(42)

	state, events := Tick(state, model.Controls{
		Modifiers:      model.DefaultModifiers(),
		DirectorEvents: []model.DirectorEvent{{Type: model.DirectorSC}},
	}, rng)

	assert.Equal(t, model.SafetyCar, state.RaceControl)
	found := false
	for _, ev := range events {
		if ev.Type == model.SafetyCarDeployed {
			found = true
		}
	}
	assert.True(t, found, "expected a SAFETY_CAR_DEPLOYED event")
}
