package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/ayyushutup/boxbox/pkg/model"
)

// Base speed by sector type, km/h. Grounded on physics.py's BASE_SPEED.
var baseSpeed = map[model.SectorType]float64{
	model.SectorSlow:   120,
	model.SectorMedium: 180,
	model.SectorFast:   280,
}

// Wear-per-tick by compound. Grounded on physics.py's TIRE_WEAR_RATES; these
// are catalog defaults, overridden per-track by the Compound catalog entry's
// WearPerLap when one is supplied.
var tireWearRate = map[model.TireCompound]float64{
	model.Soft:   0.00002,
	model.Medium: 0.00001,
	model.Hard:   0.000005,
	model.Inter:  0.000015,
	model.WetTy:  0.00001,
}

const (
	tireWearPenaltyKph   = 50.0  // max km/h lost at 100% wear
	fuelWeightPenaltyKph = 0.03  // km/h lost per kg of fuel
	fuelPerTick          = "0.005"
	minSpeedKph          = 50.0
	drsBoostKph          = 12.0
	slipstreamMaxBoost   = 8.0
	slipstreamGapSec     = 1.5
	dirtyAirGapSec       = 2.0
	dirtyAirMaxPenalty   = 0.04
	blueFlagPenalty      = 0.08
	ersHarvestPerFastSec = 0.015
	ersDeployBoostKph    = 10.0
	ersDeployDrainPerSec = 0.08
)

// BaseSpeed returns the catalog base speed for a sector type.
func BaseSpeed(sectorType model.SectorType) float64 {
	if v, ok := baseSpeed[sectorType]; ok {
		return v
	}
	return 180
}

// TireWearRate returns the per-tick wear rate baseline for a compound.
func TireWearRate(c model.TireCompound) float64 {
	if v, ok := tireWearRate[c]; ok {
		return v
	}
	return 0.00001
}

// CalculateTireWear advances wear by one tick: base rate × random
// variance × (1.5 if already past half-worn) × modifiers.TireDeg, capped
// at 1.0. Grounded on physics.py's calculate_tire_wear.
func CalculateTireWear(currentWear float64, compound model.TireCompound, abrasion, tireDegMod float64, rng *RNG) float64 {
	base := TireWearRate(compound) * abrasion
	variance := rng.Uniform(0.8, 1.2)
	increase := base * variance * tireDegMod
	if currentWear > 0.5 {
		increase *= 1.5
	}
	return math.Min(currentWear+increase, 1.0)
}

// CalculateSpeed computes instantaneous speed for a car from its mechanical
// state. Grounded on physics.py's calculate_speed, extended with the
// slipstream/dirty-air/DRS/ERS/blue-flag/weather terms engine.py layers on
// top in update_car.
func CalculateSpeed(baseSectorSpeed, tireWear, fuelKg, driverSkill float64, rng *RNG) float64 {
	speed := baseSectorSpeed
	speed += (driverSkill - 0.90) * 100
	speed -= tireWear * tireWearPenaltyKph
	speed -= fuelKg * fuelWeightPenaltyKph
	speed *= rng.Uniform(0.98, 1.02)
	return math.Max(speed, minSpeedKph)
}

// WeatherMultiplier penalizes pace on a wet/intermediate track proportional
// to rain probability, tempered by the driver's wet multiplier (1.0 =
// unaffected, >1.0 = better in the wet).
func WeatherMultiplier(rainProb, wetSkill float64) float64 {
	if rainProb <= 0 {
		return 1.0
	}
	penalty := rainProb * 0.35 / math.Max(wetSkill, 0.1)
	return math.Max(1-penalty, 0.4)
}

// ModeMultiplier maps driving mode to a pace multiplier; PUSH trades tire
// and fuel life for pace, CONSERVE trades the reverse.
func ModeMultiplier(mode model.DrivingMode) float64 {
	switch mode {
	case model.Push:
		return 1.04
	case model.Conserve:
		return 0.96
	default:
		return 1.0
	}
}

// SlipstreamBoost returns a speed boost (km/h) for a car running within
// slipstream range of the car ahead on a fast sector.
func SlipstreamBoost(gapAheadSec float64, sectorType model.SectorType) float64 {
	if sectorType != model.SectorFast || gapAheadSec >= slipstreamGapSec {
		return 0
	}
	closeness := 1 - gapAheadSec/slipstreamGapSec
	return slipstreamMaxBoost * closeness
}

// DirtyAirPenalty returns a fractional pace penalty (0..dirtyAirMaxPenalty)
// for running closely behind another car through slow/medium corners.
func DirtyAirPenalty(gapAheadSec float64, sectorType model.SectorType) float64 {
	if sectorType == model.SectorFast || gapAheadSec >= dirtyAirGapSec {
		return 0
	}
	closeness := 1 - gapAheadSec/dirtyAirGapSec
	return dirtyAirMaxPenalty * closeness
}

// CanActivateDRS reports whether DRS may be active this tick: within a
// DRS zone, within 1s of the car ahead, under GREEN, and not raining hard.
// Per SPEC_FULL open-question resolution, DRS is forbidden under any
// non-GREEN race_control state.
func CanActivateDRS(lapProgress, gapAheadSec float64, zones []model.DRSZone, raceControl model.RaceControlState, rainProb float64) bool {
	if raceControl != model.Green {
		return false
	}
	if gapAheadSec >= 1.0 {
		return false
	}
	if rainProb >= 0.5 {
		return false
	}
	for _, z := range zones {
		if lapProgress >= z.StartPct && lapProgress <= z.EndPct {
			return true
		}
	}
	return false
}

// ERSHarvest recovers a small amount of battery on slow and medium sectors
// (the braking zones); fast sectors harvest nothing.
func ERSHarvest(battery float64, sectorType model.SectorType) float64 {
	if sectorType != model.SectorFast {
		return math.Min(battery+ersHarvestPerFastSec, 4.0)
	}
	return battery
}

// ERSDeployment spends battery for a speed boost when a car has enough
// charge on a fast sector and is not in CONSERVE mode; returns the new battery level,
// the speed boost applied, and whether deployment is active this tick.
func ERSDeployment(battery float64, sectorType model.SectorType, wasDeployed bool, mode model.DrivingMode) (newBattery, boost float64, deployed bool) {
	if sectorType != model.SectorFast || battery < ersDeployDrainPerSec || mode == model.Conserve {
		return battery, 0, false
	}
	return battery - ersDeployDrainPerSec, ersDeployBoostKph, true
}

// ShouldYieldForBlueFlag reports whether a lapped car owes a blue flag to
// the race leader (one or more laps down).
func ShouldYieldForBlueFlag(carLap, leaderLap int) bool {
	return leaderLap-carLap >= 1
}

// CalculateBlueFlagPenalty is the fractional pace cost a lapped car eats
// while yielding position.
func CalculateBlueFlagPenalty() float64 { return blueFlagPenalty }

// CalculateFuelConsumption burns the fixed per-tick rate, scaled by mode,
// using decimal arithmetic so a multi-thousand-tick race never accumulates
// float drift that would break byte-for-byte replay comparison (§8).
func CalculateFuelConsumption(currentFuelKg float64, mode model.DrivingMode) float64 {
	rate := decimal.RequireFromString(fuelPerTick)
	switch mode {
	case model.Push:
		rate = rate.Mul(decimal.NewFromFloat(1.15))
	case model.Conserve:
		rate = rate.Mul(decimal.NewFromFloat(0.85))
	}
	cur := decimal.NewFromFloat(currentFuelKg)
	out := cur.Sub(rate)
	if out.IsNegative() {
		return 0
	}
	f, _ := out.Float64()
	return f
}
