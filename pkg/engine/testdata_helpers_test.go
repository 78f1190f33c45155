package engine

import "github.com/ayyushutup/boxbox/pkg/model"

// newTestTrack builds a small three-sector track used across engine tests.
// Not a fixture file on disk — the engine package's own tests only need a
// geometry, not a full catalog record, so they build one directly rather
// than depending on pkg/catalog (which would invert the dependency order
// §2 establishes: catalogs are leaves).
func newTestTrack() model.TrackRef {
	return model.TrackRef{
		ID:           "test_track",
		Name:         "Test Circuit",
		LengthMeters: 5000,
		PitLossSec:   22,
		BaseIncident: 0.00002,
		Abrasion:     1.0,
		Downforce:    1.0,
		OvertakeDiff: 1.0,
		Sectors: []model.Sector{
			{Num: 0, LengthM: 1800, Type: model.SectorSlow},
			{Num: 1, LengthM: 1700, Type: model.SectorMedium},
			{Num: 2, LengthM: 1500, Type: model.SectorFast},
		},
		DRSZones: []model.DRSZone{{StartPct: 0.85, EndPct: 0.98}},
	}
}

func newTestCar(driver string, pos int) model.Car {
	return model.Car{
		Identity: model.CarIdentity{
			Driver: driver, Team: "Test", BaseSkill: 0.93, Aggression: 1.0,
			TireManagement: 0.5, WetMultiplier: 1.0, TrackAffinity: 1.0,
		},
		Telemetry: model.CarTelemetry{
			SpeedKph: 180, FuelKg: 100, LapProgress: 0,
			Tire: model.TireState{Compound: model.Medium, AgeLaps: 0, Wear: 0},
		},
		Systems: model.CarSystems{ERSBattery: 2.0},
		Strategy: model.CarStrategy{DrivingMode: model.Balanced, ActiveCommand: model.CmdNone},
		Timing:   model.CarTiming{Position: pos, Lap: 0, Sector: 0, Status: model.Racing},
	}
}

func newTestState(seed int64, numCars int) model.RaceState {
	track := newTestTrack()
	cars := make([]model.Car, 0, numCars)
	drivers := []string{"VER", "HAM", "LEC", "NOR", "SAI", "PER"}
	for i := 0; i < numCars; i++ {
		cars = append(cars, newTestCar(drivers[i%len(drivers)]+string(rune('0'+i)), i+1))
	}
	return model.RaceState{
		SchemaVersion: model.SchemaVersion,
		Meta:          model.Meta{Seed: seed, Tick: 0, SimTimeMs: 0, LapsTotal: 5},
		Track:         track,
		Weather:       model.Weather{Condition: model.Dry, RainProbability: 0.05, TrackTempC: 28},
		RaceControl:   model.Green,
		DRSEnabled:    true,
		Cars:          cars,
	}
}
