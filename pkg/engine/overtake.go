package engine

import (
	"math"

	"github.com/ayyushutup/boxbox/pkg/model"
)

const (
	overtakeIntervalBaseSec   = 1.0
	overtakeIntervalDRSSec    = 0.7
	overtakeIntervalWetSec    = 0.5
	overtakePaceMargin        = 2.0
	attemptCostWear           = 0.01
	attemptCostERS            = 0.15
	overtakeCompletionMarginM = 1.0
)

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// OvertakeWindow returns the interval (seconds) within which an attacker
// may attempt an overtake on the car ahead — widened by DRS, aggression
// and wet conditions per §4.1 step 6.
func OvertakeWindow(attackerDRS bool, attackerAggression, rainProb float64) float64 {
	window := overtakeIntervalBaseSec
	if attackerDRS {
		window += overtakeIntervalDRSSec
	}
	window += (attackerAggression - 1.0) * 0.3
	window += rainProb * overtakeIntervalWetSec
	return math.Max(window, overtakeIntervalBaseSec)
}

// AttemptOvertake resolves one attacker/defender pair per §4.1 step 6:
// success probability is sigmoid(pace_delta*aggression - defense*overtake_difficulty).
// It only rolls the outcome; on failure the caller charges the trailing car
// its tire+ERS cost via ApplyAttemptCost. Returns whether the overtake
// succeeded.
func AttemptOvertake(attackerPace, defenderPace, attackerAggression, defenderSkill, trackOvertakeDiff float64, rng *RNG) bool {
	paceDelta := attackerPace - defenderPace
	prob := sigmoid(paceDelta*attackerAggression - defenderSkill*trackOvertakeDiff)
	return rng.Chance(prob)
}

// ApplyAttemptCost pays the small tire/ERS cost of a failed overtake
// attempt onto the attacking car.
func ApplyAttemptCost(c model.Car) model.Car {
	out := c
	out.Telemetry.Tire.Wear = math.Min(1.0, out.Telemetry.Tire.Wear+attemptCostWear)
	out.Systems.ERSBattery = math.Max(0, out.Systems.ERSBattery-attemptCostERS)
	return out
}

// carDistanceM returns a car's total race distance covered (lap count
// times track length plus this lap's progress), the common ruler Classify
// sorts on.
func carDistanceM(c model.Car, trackLengthM float64) float64 {
	return (float64(c.Timing.Lap) + c.Telemetry.LapProgress) * trackLengthM
}

// pinDistanceM rewrites a car's lap/lap_progress so its total distance
// equals distanceM, clamped to never go negative. Used to carry an
// overtake attempt's resolved outcome into the state Classify sorts on: a
// successful attempt completes the physical pass this tick even if the
// attacker's raw progress hadn't yet overtaken the defender's, and a
// failed attempt caps the attacker back below the defender's distance so
// "the attempt failed and it does not pass" holds at classification time
// too, not just in the RNG outcome.
func pinDistanceM(c model.Car, distanceM, trackLengthM float64) model.Car {
	if distanceM < 0 {
		distanceM = 0
	}
	lap := int(distanceM / trackLengthM)
	progress := distanceM/trackLengthM - float64(lap)
	out := c
	out.Timing.Lap = lap
	out.Telemetry.LapProgress = progress
	return out
}
