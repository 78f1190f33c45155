package predictor

import (
	"context"

	"github.com/ayyushutup/boxbox/pkg/catalog/baseline"
	"github.com/ayyushutup/boxbox/pkg/catalog/compound"
	"github.com/ayyushutup/boxbox/pkg/engine"
	"github.com/ayyushutup/boxbox/pkg/model"
)

// ScenarioRunResult is §6's scenario_run output: "final classification, key
// events, fastest lap, strategy summary per driver".
type ScenarioRunResult struct {
	Final       model.RaceState   `json:"final"`
	KeyEvents   []model.Event     `json:"key_events"`
	FastestLap  *model.Event      `json:"fastest_lap,omitempty"`
	Strategies  []Strategy        `json:"strategies"`
}

// keyEventTypes filters the full tick-by-tick event stream down to what a
// race-summary consumer cares about, dropping the per-lap/per-mode noise.
var keyEventTypes = map[model.EventType]bool{
	model.RaceStart:         true,
	model.Overtake:          true,
	model.PitStop:           true,
	model.SafetyCarDeployed: true,
	model.SafetyCarEnding:   true,
	model.VSCDeployed:       true,
	model.VSCEnding:         true,
	model.RedFlagEvent:      true,
	model.DNFEvent:          true,
	model.FastestLap:        true,
	model.WeatherChange:     true,
}

// ScenarioRun deterministically runs one scenario to completion at its
// catalog baseline (seed 0, no modifiers) and returns a race summary rather
// than an ensemble aggregate.
func (p *Predictor) ScenarioRun(ctx context.Context, scenarioID string, compounds *compound.Repository) (ScenarioRunResult, error) {
	scn, err := p.Scenarios.Get(ctx, scenarioID)
	if err != nil {
		return ScenarioRunResult{}, &model.InvalidInputError{Field: "scenario_id", Reason: "unknown scenario"}
	}

	base, err := baseline.Baseline(ctx, scn, p.Catalogs)
	if err != nil {
		return ScenarioRunResult{}, err
	}
	base.Meta.Seed = 0

	var compoundList []model.Compound
	if compounds != nil {
		compoundList, _ = compounds.List(ctx)
	}

	rng := engine.NewRNG(0)
	controls := model.Controls{Modifiers: model.DefaultModifiers(), Compounds: compoundList}

	var keyEvents []model.Event
	var fastest *model.Event
	state := base
	for i := 0; i < maxTicksPerMember && !state.IsFinished; i++ {
		var events []model.Event
		state, events = engine.Tick(state, controls, rng)
		for i := range events {
			ev := events[i]
			if keyEventTypes[ev.Type] {
				keyEvents = append(keyEvents, ev)
			}
			if ev.Type == model.FastestLap {
				fastest = &ev
			}
		}
	}

	strategies := FeasibleStrategies(scn, compoundList, base.Track.Abrasion, estimateFuelPerLap(base))

	return ScenarioRunResult{
		Final:      state,
		KeyEvents:  keyEvents,
		FastestLap: fastest,
		Strategies: strategies,
	}, nil
}

// estimateFuelPerLap derives a rough per-lap fuel burn from the baseline
// grid's starting fuel load and the scenario's total lap count, for the
// stint-feasibility projection's fuel budget check.
func estimateFuelPerLap(state model.RaceState) float64 {
	if state.Meta.LapsTotal == 0 || len(state.Cars) == 0 {
		return 1.8
	}
	return state.Cars[0].Telemetry.FuelKg / float64(state.Meta.LapsTotal)
}
