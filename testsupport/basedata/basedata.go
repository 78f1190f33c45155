// Package basedata supplies the fixture catalog records the test suite
// and local dev tooling seed into the in-memory repository fallbacks —
// adapted from the teacher's testsupport/basedata package of plain sample
// builders, pointed at this domain's Track/Driver/Compound/Scenario
// catalog instead of track/event telemetry records.
package basedata

import (
	"context"

	"github.com/ayyushutup/boxbox/pkg/catalog/compound"
	"github.com/ayyushutup/boxbox/pkg/catalog/driver"
	"github.com/ayyushutup/boxbox/pkg/catalog/scenario"
	"github.com/ayyushutup/boxbox/pkg/catalog/track"
	"github.com/ayyushutup/boxbox/pkg/model"
)

func SampleTrackMonza() model.Track {
	return model.Track{
		ID: "monza_sprint", Name: "Autodromo Nazionale Monza",
		LengthMeters: 5793, PitLossSec: 23, PitEntryPct: 0.97, PitExitPct: 0.02,
		BaseIncident: 0.000015, Abrasion: 0.9, Downforce: 0.6, OvertakeDiff: 0.5,
		Sectors: []model.Sector{
			{Num: 0, LengthM: 2200, Type: model.SectorFast},
			{Num: 1, LengthM: 1800, Type: model.SectorMedium},
			{Num: 2, LengthM: 1793, Type: model.SectorSlow},
		},
		DRSZones: []model.DRSZone{{StartPct: 0.0, EndPct: 0.1}, {StartPct: 0.55, EndPct: 0.68}},
	}
}

func SampleTrackSpa() model.Track {
	return model.Track{
		ID: "spa_strategic", Name: "Circuit de Spa-Francorchamps",
		LengthMeters: 7004, PitLossSec: 20, PitEntryPct: 0.96, PitExitPct: 0.03,
		BaseIncident: 0.00003, Abrasion: 1.1, Downforce: 0.8, OvertakeDiff: 0.8,
		Sectors: []model.Sector{
			{Num: 0, LengthM: 2800, Type: model.SectorFast},
			{Num: 1, LengthM: 2200, Type: model.SectorMedium},
			{Num: 2, LengthM: 2004, Type: model.SectorSlow},
		},
		DRSZones: []model.DRSZone{{StartPct: 0.3, EndPct: 0.4}},
	}
}

func SampleTrackSilverstone() model.Track {
	return model.Track{
		ID: "silverstone_wet_transition", Name: "Silverstone Circuit",
		LengthMeters: 5891, PitLossSec: 21, PitEntryPct: 0.95, PitExitPct: 0.04,
		BaseIncident: 0.00002, Abrasion: 1.0, Downforce: 1.1, OvertakeDiff: 1.0,
		Sectors: []model.Sector{
			{Num: 0, LengthM: 2100, Type: model.SectorFast},
			{Num: 1, LengthM: 2100, Type: model.SectorMedium},
			{Num: 2, LengthM: 1691, Type: model.SectorSlow},
		},
		DRSZones: []model.DRSZone{{StartPct: 0.6, EndPct: 0.72}},
	}
}

func SampleTrackMonaco() model.Track {
	return model.Track{
		ID: "monaco_start", Name: "Circuit de Monaco",
		LengthMeters: 3337, PitLossSec: 18, PitEntryPct: 0.98, PitExitPct: 0.05,
		BaseIncident: 0.00004, Abrasion: 0.7, Downforce: 1.8, OvertakeDiff: 2.5,
		Sectors: []model.Sector{
			{Num: 0, LengthM: 1200, Type: model.SectorSlow},
			{Num: 1, LengthM: 1137, Type: model.SectorMedium},
			{Num: 2, LengthM: 1000, Type: model.SectorSlow},
		},
		DRSZones: []model.DRSZone{{StartPct: 0.9, EndPct: 0.98}},
	}
}

// SampleDrivers mirrors the grid used across scenarios/catalog.py's named
// scenarios: real F1 driver codes with plausible skill/aggression spread.
func SampleDrivers() []model.Driver {
	return []model.Driver{
		{Code: "VER", Name: "Max Verstappen", Team: "Red Bull", BaseSkill: 0.98, Aggression: 1.3, TireManagement: 0.7, WetMultiplier: 1.15},
		{Code: "HAM", Name: "Lewis Hamilton", Team: "Mercedes", BaseSkill: 0.96, Aggression: 1.0, TireManagement: 0.9, WetMultiplier: 1.2},
		{Code: "LEC", Name: "Charles Leclerc", Team: "Ferrari", BaseSkill: 0.95, Aggression: 1.2, TireManagement: 0.6, WetMultiplier: 0.95},
		{Code: "NOR", Name: "Lando Norris", Team: "McLaren", BaseSkill: 0.94, Aggression: 1.05, TireManagement: 0.8, WetMultiplier: 1.0},
		{Code: "SAI", Name: "Carlos Sainz", Team: "Ferrari", BaseSkill: 0.93, Aggression: 0.95, TireManagement: 0.85, WetMultiplier: 0.9},
		{Code: "PER", Name: "Sergio Perez", Team: "Red Bull", BaseSkill: 0.92, Aggression: 0.9, TireManagement: 0.75, WetMultiplier: 0.85},
	}
}

// Soft/Medium/Hard are slicks and marked DryOnly; Inter/Wet are marked
// WetOnly. Both flags feed engine.ChooseCompound's weather-legality
// filter so a pit stop never fits a slick once the track is genuinely
// wet, or a wet tire while it's dry.
func SampleCompounds() []model.Compound {
	return []model.Compound{
		{Name: model.Soft, BasePaceOffset: 0.6, WearPerLap: 0.15, OptimalRangeLow: 90, OptimalRangeHigh: 110, DryOnly: true},
		{Name: model.Medium, BasePaceOffset: 0.3, WearPerLap: 0.075, OptimalRangeLow: 85, OptimalRangeHigh: 105, DryOnly: true},
		{Name: model.Hard, BasePaceOffset: 0.0, WearPerLap: 0.0375, OptimalRangeLow: 80, OptimalRangeHigh: 100, DryOnly: true},
		{Name: model.Inter, BasePaceOffset: -0.5, WearPerLap: 0.06, OptimalRangeLow: 40, OptimalRangeHigh: 70, WetOnly: true},
		{Name: model.WetTy, BasePaceOffset: -1.2, WearPerLap: 0.04, OptimalRangeLow: 20, OptimalRangeHigh: 50, WetOnly: true},
	}
}

// grid builds a ScenarioCar slice in starting-position order.
func grid(drivers []string, compound model.TireCompound, fuelKg float64) []model.ScenarioCar {
	out := make([]model.ScenarioCar, 0, len(drivers))
	for i, d := range drivers {
		out = append(out, model.ScenarioCar{Driver: d, StartPos: i + 1, Compound: compound, FuelKg: fuelKg})
	}
	return out
}

func ScenarioMonzaSprint() model.Scenario {
	return model.Scenario{
		ID: "monza_sprint", Name: "Monza Sprint", TrackID: "monza_sprint", LapsTotal: 10,
		Cars:            grid([]string{"VER", "HAM", "LEC", "NOR", "SAI", "PER"}, model.Medium, 100),
		WeatherBaseline: model.Weather{Condition: model.Dry, RainProbability: 0.02, TrackTempC: 32},
		Type:            model.RaceSituation, Difficulty: model.DifficultyEasy,
		Description: "A short sprint at Monza to validate baseline determinism.",
		Tags:        []string{"sprint", "monza"},
	}
}

func ScenarioSpaStrategic() model.Scenario {
	return model.Scenario{
		ID: "spa_strategic", Name: "Spa Strategic Gamble", TrackID: "spa_strategic", LapsTotal: 30,
		Cars:            grid([]string{"HAM", "VER", "LEC", "SAI", "NOR", "PER"}, model.Medium, 105),
		WeatherBaseline: model.Weather{Condition: model.Dry, RainProbability: 0.1, TrackTempC: 24},
		Type:            model.StrategyDilemma, Difficulty: model.DifficultyMedium,
		Description: "HAM must decide when to pit while defending from fast-closing rivals.",
		Tags:        []string{"strategy", "pit-stop"},
	}
}

func ScenarioSilverstoneWetTransition() model.Scenario {
	return model.Scenario{
		ID: "silverstone_wet_transition", Name: "Silverstone Wet Transition", TrackID: "silverstone_wet_transition", LapsTotal: 25,
		Cars:            grid([]string{"VER", "LEC", "HAM", "NOR", "SAI", "PER"}, model.Soft, 100),
		WeatherBaseline: model.Weather{Condition: model.Dry, RainProbability: 0.05, TrackTempC: 20},
		ForcedEvents:    []model.ForcedEvent{{Lap: 10, Weather: model.Wet}},
		Type:            model.WeatherEvent, Difficulty: model.DifficultyHard,
		Description: "A scripted rain shower midway through forces a compound switch.",
		Tags:        []string{"weather", "strategy"},
	}
}

func ScenarioMonacoStart() model.Scenario {
	return model.Scenario{
		ID: "monaco_start", Name: "Monaco Race Start", TrackID: "monaco_start", LapsTotal: 20,
		Cars:            grid([]string{"LEC", "VER", "HAM", "SAI", "NOR", "PER"}, model.Medium, 95),
		WeatherBaseline: model.Weather{Condition: model.Dry, RainProbability: 0.0, TrackTempC: 26},
		Type:            model.RaceSituation, Difficulty: model.DifficultyMedium,
		Description: "The tightest overtaking track on the calendar; predictor consistency baseline.",
		Tags:        []string{"monaco", "start"},
	}
}

// Seed installs every fixture record into the given repositories' in-memory
// fallbacks, for use by tests and local dev runs without a live Postgres.
func Seed(ctx context.Context, tracks *track.Repository, drivers *driver.Repository, compounds *compound.Repository, scenarios *scenario.Repository) {
	for _, t := range []model.Track{SampleTrackMonza(), SampleTrackSpa(), SampleTrackSilverstone(), SampleTrackMonaco()} {
		_ = tracks.Create(ctx, t)
	}
	for _, d := range SampleDrivers() {
		_ = drivers.Create(ctx, d)
	}
	for _, c := range SampleCompounds() {
		_ = compounds.Create(ctx, c)
	}
	for _, s := range []model.Scenario{ScenarioMonzaSprint(), ScenarioSpaStrategic(), ScenarioSilverstoneWetTransition(), ScenarioMonacoStart()} {
		_ = scenarios.Create(ctx, s)
	}
}
