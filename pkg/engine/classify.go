package engine

import (
	"math"
	"sort"

	"github.com/ayyushutup/boxbox/pkg/model"
)

// Classify recomputes positions, gap_to_leader and interval_to_ahead from
// each car's physical (lap, lap_progress). Grounded on engine.py's
// recalculate_positions: sort by (lap desc, lap_progress desc), DNFs
// tail-sorted. It does not itself detect overtakes — resolveOvertakes runs
// before this and already decided, via the RNG-gated attempt, whose
// progress lands ahead of whose; Classify only sorts on the result and
// emits no OVERTAKE events of its own, so a physical position swap is
// never mistaken for (or substituted by) the probabilistic mechanic.
func Classify(cars []model.Car, trackLengthM float64) []model.Car {
	sorted := append([]model.Car(nil), cars...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsDNF() != b.IsDNF() {
			return !a.IsDNF()
		}
		if a.Timing.Lap != b.Timing.Lap {
			return a.Timing.Lap > b.Timing.Lap
		}
		return a.Telemetry.LapProgress > b.Telemetry.LapProgress
	})

	var leader *model.Car

	for i := range sorted {
		sorted[i].Timing.Position = i + 1
		if i == 0 {
			leader = &sorted[i]
			sorted[i].Timing.GapToLeaderSec = 0
			sorted[i].Timing.IntervalAheadSec = 0
			continue
		}
		ahead := sorted[i-1]
		sorted[i].Timing.IntervalAheadSec = gapSeconds(sorted[i], ahead, trackLengthM)
		if leader != nil {
			sorted[i].Timing.GapToLeaderSec = gapSeconds(sorted[i], *leader, trackLengthM)
		}
	}

	return sorted
}

// gapSeconds estimates the time gap from car to carAhead using distance
// covered and carAhead's current pace, grounded on engine.py's
// calculate_gap_to_car_ahead.
func gapSeconds(car, carAhead model.Car, trackLengthM float64) float64 {
	carDist := float64(car.Timing.Lap)*trackLengthM + car.Telemetry.LapProgress*trackLengthM
	aheadDist := float64(carAhead.Timing.Lap)*trackLengthM + carAhead.Telemetry.LapProgress*trackLengthM
	diff := aheadDist - carDist
	if diff < 0 {
		return math.Inf(1)
	}
	avgSpeed := math.Max(carAhead.Telemetry.SpeedKph, 100)
	avgSpeedMps := avgSpeed * 1000 / 3600
	return diff / avgSpeedMps
}

// CheckFinished reports whether the race is complete: the leader has
// crossed the line on the final lap.
func CheckFinished(cars []model.Car, lapsTotal int) bool {
	for _, c := range cars {
		if c.Timing.Position == 1 && c.IsRacing() {
			return c.Timing.Lap >= lapsTotal
		}
	}
	return false
}
