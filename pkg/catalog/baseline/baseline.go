// Package baseline builds a fresh RaceState from a Scenario plus the Track
// and Driver catalogs — the "initializer" §3's Lifecycle section
// describes: "A RaceState is created by an initializer that draws from
// the Scenario (grid, lap count, weather baseline) and the Track/Driver
// catalogs."
package baseline

import (
	"context"
	"fmt"

	"github.com/ayyushutup/boxbox/pkg/catalog/driver"
	"github.com/ayyushutup/boxbox/pkg/catalog/track"
	"github.com/ayyushutup/boxbox/pkg/model"
)

// Catalogs bundles the three read-only lookups a baseline build needs.
type Catalogs struct {
	Tracks  *track.Repository
	Drivers *driver.Repository
}

// Baseline builds tick-0 RaceState for a scenario: grid order, starting
// tires/fuel from the scenario, identity from the Driver catalog, track
// geometry frozen from the Track catalog.
func Baseline(ctx context.Context, scn model.Scenario, cats Catalogs) (model.RaceState, error) {
	trk, err := cats.Tracks.Get(ctx, scn.TrackID)
	if err != nil {
		return model.RaceState{}, fmt.Errorf("baseline: track %q: %w", scn.TrackID, err)
	}

	cars := make([]model.Car, 0, len(scn.Cars))
	for _, sc := range scn.Cars {
		drv, ok := cats.Drivers.Get(ctx, sc.Driver)
		if !ok {
			return model.RaceState{}, fmt.Errorf("baseline: driver %q not found in scenario %q", sc.Driver, scn.ID)
		}
		cars = append(cars, model.Car{
			Identity: drv.Identity(scn.TrackID),
			Telemetry: model.CarTelemetry{
				FuelKg:      sc.FuelKg,
				LapProgress: 0,
				Tire:        model.TireState{Compound: sc.Compound, AgeLaps: 0, Wear: sc.TireWear},
			},
			Systems:  model.CarSystems{ERSBattery: 2.0},
			Strategy: model.CarStrategy{DrivingMode: model.Balanced, ActiveCommand: model.CmdNone},
			Timing:   model.CarTiming{Position: sc.StartPos, Lap: 0, Sector: 0, Status: model.Racing},
		})
	}

	return model.RaceState{
		SchemaVersion: model.SchemaVersion,
		Meta:          model.Meta{Tick: 0, SimTimeMs: 0, LapsTotal: scn.LapsTotal},
		Track:         trk.Ref(),
		Weather:       scn.WeatherBaseline,
		RaceControl:   model.Green,
		DRSEnabled:    true,
		Cars:          cars,
		Events: []model.Event{
			model.NewEvent(0, 0, model.RaceStart, "race start: "+scn.Name, model.Payload{"scenario_id": scn.ID}),
		},
	}, nil
}

// WithSeed stamps the seed onto a just-built baseline. Kept separate from
// Baseline so the Predictor can build one baseline and then fork many
// seeded ensemble members from the same Meta.
func WithSeed(state model.RaceState, seed int64) model.RaceState {
	state.Meta.Seed = seed
	return state
}
