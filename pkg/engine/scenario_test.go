package engine

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayyushutup/boxbox/pkg/model"
)

// goldenCar is the stable subset of a starting grid slot checked against
// testdata/monza_sprint_seed42.json: identity plus starting tire/fuel, not
// the full zero-valued Car struct.
type goldenCar struct {
	Driver   string             `json:"driver"`
	Position int                `json:"position"`
	Compound model.TireCompound `json:"compound"`
	FuelKg   float64            `json:"fuel_kg"`
}

type goldenBaseline struct {
	ScenarioID   string    `json:"scenario_id"`
	TrackID      string    `json:"track_id"`
	LengthMeters float64   `json:"length_meters"`
	LapsTotal    int       `json:"laps_total"`
	Weather      string    `json:"weather"`
	Cars         []goldenCar `json:"cars"`
}

func toGoldenBaseline(state model.RaceState, scenarioID string) goldenBaseline {
	g := goldenBaseline{
		ScenarioID:   scenarioID,
		TrackID:      state.Track.ID,
		LengthMeters: state.Track.LengthMeters,
		LapsTotal:    state.Meta.LapsTotal,
		Weather:      string(state.Weather.Condition),
	}
	for _, c := range state.Cars {
		g.Cars = append(g.Cars, goldenCar{
			Driver: c.Identity.Driver, Position: c.Timing.Position,
			Compound: c.Telemetry.Tire.Compound, FuelKg: c.Telemetry.FuelKg,
		})
	}
	return g
}

// TestMonzaSprintSeed42BaselineMatchesGolden checks §8 scenario 1's
// baseline against a committed fixture, and TestMonzaSprintSeed42IsDeterministic
// (below) checks the actual determinism property: running it twice from
// that baseline produces byte-identical state and events. The two are
// split because the full post-simulation state (thousands of ticks of
// PCG-derived floats) isn't something a committed fixture can hold without
// having been generated by an actual run.
func TestMonzaSprintSeed42BaselineMatchesGolden(t *testing.T) {
	state := monzaSprintBaseline(42)
	got := toGoldenBaseline(state, "monza_sprint")

	data, err := os.ReadFile("testdata/monza_sprint_seed42.json")
	require.NoError(t, err)
	var want goldenBaseline
	require.NoError(t, json.Unmarshal(data, &want))

	assert.Equal(t, want, got, "monza_sprint seed-42 baseline has drifted from the committed fixture")
}

func TestMonzaSprintSeed42IsDeterministic(t *testing.T) {
	run := func() (model.RaceState, []model.Event) {
		state := monzaSprintBaseline(42)
		rng := NewRNG(42)
		controls := model.Controls{Modifiers: model.DefaultModifiers(), Compounds: sampleCompounds()}
		var allEvents []model.Event
		for i := 0; i < 20000 && !state.IsFinished; i++ {
			var events []model.Event
			state, events = Tick(state, controls, rng)
			allEvents = append(allEvents, events...)
		}
		return state, allEvents
	}

	stateA, eventsA := run()
	stateB, eventsB := run()

	require.True(t, stateA.IsFinished, "monza_sprint seed 42 must reach is_finished within 20000 ticks")
	assert.Equal(t, stateA, stateB)
	assert.Equal(t, eventsA, eventsB)
	assert.Equal(t, 10, stateA.Meta.LapsTotal)
}

// TestManualSafetyCarEndsOnlyAfterDwellAndBunching is §8 scenario 2: inject
// a director SC once the leader reaches lap 3, check it takes effect within
// one tick, check the top-of-field gap spread shrinks by at least 60%
// within two laps, and check SC never ends before SCMinimumDwellLaps have
// elapsed even though the field bunches up well before then.
func TestManualSafetyCarEndsOnlyAfterDwellAndBunching(t *testing.T) {
	state := monzaSprintBaseline(42)
	// Spread the grid out in lap_progress so there is a real gap spread to
	// close under SC; 0.04 lap_progress on a 5793m track is roughly 230m,
	// a multi-second gap at racing speed.
	for i := range state.Cars {
		state.Cars[i].Telemetry.LapProgress = float64(i) * 0.04
	}
	rng := NewRNG(42)
	controls := model.Controls{Modifiers: model.DefaultModifiers(), Compounds: sampleCompounds()}

	// Run under green until the leader reaches lap 3, recording the gap
	// spread the moment before SC is injected.
	var deployLap int
	var spreadAtDeploy float64
	deployed := false
	for i := 0; i < 20000 && !deployed; i++ {
		leaderLap := 0
		if l := state.Leader(); l != nil {
			leaderLap = l.Timing.Lap
		}
		tickControls := controls
		if leaderLap >= 3 {
			spreadAtDeploy = gapSpread(state.Cars)
			deployLap = leaderLap
			tickControls.DirectorEvents = []model.DirectorEvent{{Type: model.DirectorSC}}
		}
		state, _ = Tick(state, tickControls, rng)
		if leaderLap >= 3 && !deployed {
			deployed = true
			require.Equal(t, model.SafetyCar, state.RaceControl, "SC must take effect within one tick of injection")
		}
	}
	require.True(t, deployed)

	// Run roughly two laps under SC from deployment and check the spread has shrunk.
	targetLap := deployLap + 2
	for i := 0; i < 20000; i++ {
		if l := state.Leader(); l == nil || l.Timing.Lap >= targetLap || state.RaceControl == model.Green {
			break
		}
		state, _ = Tick(state, controls, rng)
	}
	spreadAfter := gapSpread(state.Cars)

	// SC must not end before the minimum dwell, regardless of bunching.
	for i := 0; i < 20000; i++ {
		leaderLap := state.Leader().Timing.Lap
		if leaderLap >= deployLap+SCMinimumDwellLaps {
			break
		}
		require.Equal(t, model.SafetyCar, state.RaceControl, "SC ended before minimum dwell elapsed")
		state, _ = Tick(state, controls, rng)
	}

	require.Greater(t, spreadAtDeploy, 0.0, "test setup must start with a non-trivial gap spread")
	assert.LessOrEqual(t, spreadAfter, spreadAtDeploy*0.4,
		"gap spread must shrink by at least 60%% within two laps under Safety Car")
}

// gapSpread returns the difference between the largest and smallest
// gap-to-leader among currently racing cars.
func gapSpread(cars []model.Car) float64 {
	min, max := 0.0, 0.0
	first := true
	for _, c := range cars {
		if c.IsDNF() || !c.IsRacing() {
			continue
		}
		g := c.Timing.GapToLeaderSec
		if first {
			min, max = g, g
			first = false
			continue
		}
		if g < min {
			min = g
		}
		if g > max {
			max = g
		}
	}
	return max - min
}

// TestPitStrategyBoxThisLapSpa is §8 scenario 3: HAM boxes once his own lap
// reaches 12, and the stop resolves exactly once with a reset tire.
func TestPitStrategyBoxThisLapSpa(t *testing.T) {
	state := spaStrategicBaseline(7)
	rng := NewRNG(7)
	controls := model.Controls{Modifiers: model.DefaultModifiers(), Compounds: sampleCompounds()}

	boxed := false
	var pitEvents []model.Event
	var positionBeforeBox int
	for i := 0; i < 20000 && !state.IsFinished; i++ {
		ham := state.CarByDriver("HAM")
		require.NotNil(t, ham)

		tickControls := controls
		if !boxed && ham.Timing.Lap >= 12 {
			positionBeforeBox = ham.Timing.Position
			tickControls.DriverCommands = []model.DriverCommand{{Driver: "HAM", Cmd: model.CmdBoxThisLap}}
			boxed = true
		}
		var events []model.Event
		state, events = Tick(state, tickControls, rng)
		for _, ev := range events {
			if ev.Type == model.PitStop && ev.Payload["driver"] == "HAM" {
				pitEvents = append(pitEvents, ev)
			}
		}
		if boxed && len(pitEvents) > 0 {
			break
		}
	}

	require.True(t, boxed, "HAM must reach lap 12 within the tick budget")
	require.Len(t, pitEvents, 1, "exactly one PIT_STOP event expected for HAM")
	require.Contains(t, []int{12, 13}, pitEvents[0].Lap, "HAM's pit stop must land on lap 12 or 13")

	ham := state.CarByDriver("HAM")
	require.NotNil(t, ham)
	assert.Equal(t, 0, ham.Telemetry.Tire.AgeLaps, "tire age must reset on pit stop")
	assert.Equal(t, 0.0, ham.Telemetry.Tire.Wear, "tire wear must reset on pit stop")
	assert.GreaterOrEqual(t, ham.Timing.Position, positionBeforeBox, "a pit stop should never improve track position immediately")
	assert.LessOrEqual(t, ham.Timing.Position, len(state.Cars), "position must stay within the grid size")
}

// TestSilverstoneWetTransitionDropsSoftTires is §8 scenario 4: once the
// track is wet, no subsequent pit stop may fit a DryOnly compound.
func TestSilverstoneWetTransitionDropsSoftTires(t *testing.T) {
	state := silverstoneWetTransitionBaseline(11)
	rng := NewRNG(11)
	compounds := sampleCompounds()
	base := model.Controls{Modifiers: model.DefaultModifiers(), Compounds: compounds}

	transitioned := false
	lapsAfterTransition := 0
	driverOrder := []string{"VER", "LEC", "HAM", "NOR", "SAI", "PER"}
	boxedAt := map[string]bool{}

	for i := 0; i < 20000 && lapsAfterTransition < 3; i++ {
		leaderLap := 0
		if l := state.Leader(); l != nil {
			leaderLap = l.Timing.Lap
		}
		tickControls := base
		if !transitioned && leaderLap >= 10 {
			tickControls.DirectorEvents = []model.DirectorEvent{{Type: model.DirectorWeather, Weather: model.Wet}}
		}

		// Once wet, box whichever driver hasn't already been commanded in,
		// one per tick, so every car eventually switches off its starting
		// SOFT set rather than staying out on slicks forever.
		if transitioned {
			for _, d := range driverOrder {
				if !boxedAt[d] {
					tickControls.DriverCommands = []model.DriverCommand{{Driver: d, Cmd: model.CmdBoxThisLap}}
					boxedAt[d] = true
					break
				}
			}
		}

		state, _ = Tick(state, tickControls, rng)

		if !transitioned && state.Weather.RainProbability >= wetThreshold {
			transitioned = true
		}
		if transitioned {
			l := state.Leader()
			if l != nil && l.Timing.Lap >= 13 {
				lapsAfterTransition = l.Timing.Lap - 10
			}
		}
	}

	require.True(t, transitioned, "weather must transition to wet within the tick budget")
	for _, c := range state.Cars {
		if c.IsDNF() {
			continue
		}
		assert.False(t, c.Telemetry.Tire.Compound == model.Soft && boxedAt[c.Identity.Driver],
			"%s must not still be on SOFT after boxing during the wet transition", c.Identity.Driver)
	}
}
