package predictor

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/catalog/baseline"
	"github.com/ayyushutup/boxbox/pkg/catalog/compound"
	"github.com/ayyushutup/boxbox/pkg/catalog/scenario"
	"github.com/ayyushutup/boxbox/pkg/engine"
	"github.com/ayyushutup/boxbox/pkg/model"
)

// maxTicksPerMember bounds a runaway ensemble member (a race that somehow
// never finishes) so a bad baseline can't hang the whole ensemble.
const maxTicksPerMember = 20000

// DriverOutlook is one driver's row of the predictor's aggregate output.
type DriverOutlook struct {
	Driver             string    `json:"driver"`
	WinProb            float64   `json:"win_prob"`
	PodiumProb         float64   `json:"podium_prob"`
	PointsProb         float64   `json:"points_prob"`
	FinishDistribution []float64 `json:"finish_distribution"` // index 0 == P1
	ExpectedPosition   float64   `json:"expected_position"`
}

// Predictions is the output of Predict: §4.3's aggregation plus the
// ensemble-median Safety Car count. ScenarioRun's extras (fastest lap, key
// events) are returned by ScenarioRun itself and are not part of this struct.
type Predictions struct {
	N               int             `json:"n"`
	BaseSeed        int64           `json:"base_seed"`
	Drivers         []DriverOutlook `json:"drivers"`
	PredictedOrder  []string        `json:"predicted_order"`
	Confidence      float64         `json:"confidence"`
	MedianSCEvents  float64         `json:"median_sc_events"`
}

// Predictor is stateless with respect to any single prediction: it reads
// catalogs and runs independent ensemble members, never retaining state
// between calls (§2: "Predictor. Stateless.").
type Predictor struct {
	Scenarios *scenario.Repository
	Catalogs  baseline.Catalogs
	Compounds *compound.Repository
	Workers   int
}

func New(scenarios *scenario.Repository, cats baseline.Catalogs, compounds *compound.Repository, workers int) *Predictor {
	if workers <= 0 {
		workers = 4
	}
	return &Predictor{Scenarios: scenarios, Catalogs: cats, Compounds: compounds, Workers: workers}
}

type memberResult struct {
	order    []string
	scEvents int
}

// Predict builds the scenario baseline and runs an N-member ensemble,
// aggregating outcomes per §4.3. A caller-supplied ctx cancellation
// short-circuits remaining members without corrupting partial aggregates
// (§5) — members already collected are still folded into the result.
func (p *Predictor) Predict(ctx context.Context, scenarioID string, mods model.Modifiers, n int) (model.RaceState, Predictions, error) {
	scn, err := p.Scenarios.Get(ctx, scenarioID)
	if err != nil {
		return model.RaceState{}, Predictions{}, &model.InvalidInputError{Field: "scenario_id", Reason: "unknown scenario"}
	}
	if err := ValidateModifiers(mods); err != nil {
		return model.RaceState{}, Predictions{}, err
	}
	if n <= 0 {
		n = 500
	}

	base, err := baseline.Baseline(ctx, scn, p.Catalogs)
	if err != nil {
		return model.RaceState{}, Predictions{}, err
	}
	if mods.Weather != "" {
		base.Weather.Condition = mods.Weather
		if mods.Weather == model.Wet {
			base.Weather.RainProbability = 1.0
		}
	}

	baseSeed := BaseSeed(scenarioID, mods)
	var compoundList []model.Compound
	if p.Compounds != nil {
		compoundList = p.Compounds.Available(ctx)
	}
	controls := model.Controls{Modifiers: mods, Compounds: compoundList}

	results := make([]*memberResult, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}
			r, err := runMember(base, MemberSeed(baseSeed, i), controls)
			if err != nil {
				log.Warn("ensemble member invariant violation, dropping member", log.ErrorField(err))
				return nil
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait() // members are independent; a member error never aborts the aggregate

	kept := make([]*memberResult, 0, n)
	for _, r := range results {
		if r != nil {
			kept = append(kept, r)
		}
	}

	preds := Aggregate(base.Cars, kept, baseSeed)
	return base, preds, nil
}

// runMember drives one ensemble member to completion. Per §7, a tick that
// panics on an invariant violation is recovered here and turned into a
// typed *model.InvariantViolationError carrying the failing tick and seed
// (an ensemble member never accumulates a driver-issued command trace the
// way a live session does, so CommandTrace is left empty) rather than
// taking down the whole ensemble or silently corrupting the aggregate.
func runMember(baseline model.RaceState, seed int64, controls model.Controls) (result *memberResult, err error) {
	state := baseline.Clone()
	state.Meta.Seed = seed
	rng := engine.NewRNG(seed)
	scEvents := 0

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &model.InvariantViolationError{
				Tick:   state.Meta.Tick,
				Seed:   seed,
				Reason: fmt.Sprintf("%v", r),
			}
		}
	}()

	for i := 0; i < maxTicksPerMember && !state.IsFinished; i++ {
		var events []model.Event
		state, events = engine.Tick(state, controls, rng)
		for _, ev := range events {
			if ev.Type == model.SafetyCarDeployed {
				scEvents++
			}
		}
	}

	order := make([]string, len(state.Cars))
	for _, c := range state.Cars {
		pos := c.Timing.Position
		if pos >= 1 && pos <= len(order) {
			order[pos-1] = c.Identity.Driver
		}
	}
	return &memberResult{order: order, scEvents: scEvents}, nil
}

// ValidateModifiers enforces §6's recognised modifier ranges at the
// boundary, per §7 "invalid input ... rejected at boundary".
func ValidateModifiers(mods model.Modifiers) error {
	if mods.Aggression != 0 && (mods.Aggression < 0.5 || mods.Aggression > 1.5) {
		return &model.InvalidInputError{Field: "aggression", Reason: "must be within 0.5-1.5"}
	}
	if mods.SCProb < 0 || mods.SCProb > 3 {
		return &model.InvalidInputError{Field: "sc_prob", Reason: "must be within 0-3"}
	}
	if mods.TireDeg != 0 && (mods.TireDeg < 0.5 || mods.TireDeg > 2) {
		return &model.InvalidInputError{Field: "tire_deg", Reason: "must be within 0.5-2"}
	}
	switch mods.Weather {
	case "", model.Dry, model.Wet:
	default:
		return &model.InvalidInputError{Field: "weather", Reason: `must be "DRY" or "WET"`}
	}
	return nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
