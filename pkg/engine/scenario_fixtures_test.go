package engine

import "github.com/ayyushutup/boxbox/pkg/model"

// Scenario fixtures mirror the values testsupport/basedata seeds into the
// catalog for the four named tracks/scenarios in spec.md's §8 test suite.
// Duplicated here (rather than imported) because pkg/engine's tests don't
// depend on pkg/catalog or pkg/testsupport — the engine package is a leaf.

type scenarioDriver struct {
	code           string
	team           string
	baseSkill      float64
	aggression     float64
	tireManagement float64
	wetMultiplier  float64
}

var (
	driverVER = scenarioDriver{"VER", "Red Bull", 0.98, 1.3, 0.7, 1.15}
	driverHAM = scenarioDriver{"HAM", "Mercedes", 0.96, 1.0, 0.9, 1.2}
	driverLEC = scenarioDriver{"LEC", "Ferrari", 0.95, 1.2, 0.6, 0.95}
	driverNOR = scenarioDriver{"NOR", "McLaren", 0.94, 1.05, 0.8, 1.0}
	driverSAI = scenarioDriver{"SAI", "Ferrari", 0.93, 0.95, 0.85, 0.9}
	driverPER = scenarioDriver{"PER", "Red Bull", 0.92, 0.9, 0.75, 0.85}
)

func scenarioCar(d scenarioDriver, pos int, compound model.TireCompound, fuelKg float64) model.Car {
	return model.Car{
		Identity: model.CarIdentity{
			Driver: d.code, Team: d.team, BaseSkill: d.baseSkill, Aggression: d.aggression,
			TireManagement: d.tireManagement, WetMultiplier: d.wetMultiplier, TrackAffinity: 1.0,
		},
		Telemetry: model.CarTelemetry{
			SpeedKph: 180, FuelKg: fuelKg, LapProgress: 0,
			Tire: model.TireState{Compound: compound, AgeLaps: 0, Wear: 0},
		},
		Systems:  model.CarSystems{ERSBattery: 2.0},
		Strategy: model.CarStrategy{DrivingMode: model.Balanced, ActiveCommand: model.CmdNone},
		Timing:   model.CarTiming{Position: pos, Lap: 0, Sector: 0, Status: model.Racing},
	}
}

// monzaSprintBaseline mirrors testsupport/basedata.SampleTrackMonza and
// ScenarioMonzaSprint: a 10-lap sprint, medium tires, dry baseline.
func monzaSprintBaseline(seed int64) model.RaceState {
	track := model.TrackRef{
		ID: "monza_sprint", Name: "Autodromo Nazionale Monza",
		LengthMeters: 5793, PitLossSec: 23, BaseIncident: 0.000015, Abrasion: 0.9, Downforce: 0.6, OvertakeDiff: 0.5,
		Sectors: []model.Sector{
			{Num: 0, LengthM: 2200, Type: model.SectorFast},
			{Num: 1, LengthM: 1800, Type: model.SectorMedium},
			{Num: 2, LengthM: 1793, Type: model.SectorSlow},
		},
		DRSZones: []model.DRSZone{{StartPct: 0.0, EndPct: 0.1}, {StartPct: 0.55, EndPct: 0.68}},
	}
	grid := []scenarioDriver{driverVER, driverHAM, driverLEC, driverNOR, driverSAI, driverPER}
	cars := make([]model.Car, len(grid))
	for i, d := range grid {
		cars[i] = scenarioCar(d, i+1, model.Medium, 100)
	}
	return model.RaceState{
		SchemaVersion: model.SchemaVersion,
		Meta:          model.Meta{Seed: seed, Tick: 0, SimTimeMs: 0, LapsTotal: 10},
		Track:         track,
		Weather:       model.Weather{Condition: model.Dry, RainProbability: 0.02, TrackTempC: 32},
		RaceControl:   model.Green,
		DRSEnabled:    true,
		Cars:          cars,
	}
}

// spaStrategicBaseline mirrors testsupport/basedata.SampleTrackSpa and
// ScenarioSpaStrategic: a 30-lap race with HAM on pole.
func spaStrategicBaseline(seed int64) model.RaceState {
	track := model.TrackRef{
		ID: "spa_strategic", Name: "Circuit de Spa-Francorchamps",
		LengthMeters: 7004, PitLossSec: 20, BaseIncident: 0.00003, Abrasion: 1.1, Downforce: 0.8, OvertakeDiff: 0.8,
		Sectors: []model.Sector{
			{Num: 0, LengthM: 2800, Type: model.SectorFast},
			{Num: 1, LengthM: 2200, Type: model.SectorMedium},
			{Num: 2, LengthM: 2004, Type: model.SectorSlow},
		},
		DRSZones: []model.DRSZone{{StartPct: 0.3, EndPct: 0.4}},
	}
	grid := []scenarioDriver{driverHAM, driverVER, driverLEC, driverSAI, driverNOR, driverPER}
	cars := make([]model.Car, len(grid))
	for i, d := range grid {
		cars[i] = scenarioCar(d, i+1, model.Medium, 105)
	}
	return model.RaceState{
		SchemaVersion: model.SchemaVersion,
		Meta:          model.Meta{Seed: seed, Tick: 0, SimTimeMs: 0, LapsTotal: 30},
		Track:         track,
		Weather:       model.Weather{Condition: model.Dry, RainProbability: 0.1, TrackTempC: 24},
		RaceControl:   model.Green,
		DRSEnabled:    true,
		Cars:          cars,
	}
}

// silverstoneWetTransitionBaseline mirrors testsupport/basedata's Silverstone
// track and scenario: every car starts on SOFT, with a scripted rain arrival
// at lap 10.
func silverstoneWetTransitionBaseline(seed int64) model.RaceState {
	track := model.TrackRef{
		ID: "silverstone_wet_transition", Name: "Silverstone Circuit",
		LengthMeters: 5891, PitLossSec: 21, BaseIncident: 0.00002, Abrasion: 1.0, Downforce: 1.1, OvertakeDiff: 1.0,
		Sectors: []model.Sector{
			{Num: 0, LengthM: 2100, Type: model.SectorFast},
			{Num: 1, LengthM: 2100, Type: model.SectorMedium},
			{Num: 2, LengthM: 1691, Type: model.SectorSlow},
		},
		DRSZones: []model.DRSZone{{StartPct: 0.6, EndPct: 0.72}},
	}
	grid := []scenarioDriver{driverVER, driverLEC, driverHAM, driverNOR, driverSAI, driverPER}
	cars := make([]model.Car, len(grid))
	for i, d := range grid {
		cars[i] = scenarioCar(d, i+1, model.Soft, 100)
	}
	return model.RaceState{
		SchemaVersion: model.SchemaVersion,
		Meta:          model.Meta{Seed: seed, Tick: 0, SimTimeMs: 0, LapsTotal: 25},
		Track:         track,
		Weather:       model.Weather{Condition: model.Dry, RainProbability: 0.05, TrackTempC: 20},
		RaceControl:   model.Green,
		DRSEnabled:    true,
		Cars:          cars,
	}
}

// sampleCompounds mirrors testsupport/basedata.SampleCompounds: slicks are
// DryOnly, Inter/Wet are WetOnly.
func sampleCompounds() []model.Compound {
	return []model.Compound{
		{Name: model.Soft, BasePaceOffset: 0.6, WearPerLap: 0.15, OptimalRangeLow: 90, OptimalRangeHigh: 110, DryOnly: true},
		{Name: model.Medium, BasePaceOffset: 0.3, WearPerLap: 0.075, OptimalRangeLow: 85, OptimalRangeHigh: 105, DryOnly: true},
		{Name: model.Hard, BasePaceOffset: 0.0, WearPerLap: 0.0375, OptimalRangeLow: 80, OptimalRangeHigh: 100, DryOnly: true},
		{Name: model.Inter, BasePaceOffset: -0.5, WearPerLap: 0.06, OptimalRangeLow: 40, OptimalRangeHigh: 70, WetOnly: true},
		{Name: model.WetTy, BasePaceOffset: -1.2, WearPerLap: 0.04, OptimalRangeLow: 20, OptimalRangeHigh: 50, WetOnly: true},
	}
}
