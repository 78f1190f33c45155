package engine

import (
	"math"

	"github.com/ayyushutup/boxbox/pkg/model"
)

// SCMinimumDwellLaps is the minimum number of laps the Safety Car stays
// out once deployed, grounded on engine.py's SC_LAPS_DURATION.
const SCMinimumDwellLaps = 3

// VSCSpeedReduction is the fractional pace cut applied to every car under
// VSC, grounded on engine.py's VSC_SPEED_REDUCTION.
const VSCSpeedReduction = 0.40

// SCSpeedKph is the pace cap applied to every car under full Safety Car.
const SCSpeedKph = 60.0

// scCatchUpMaxBoostKph and scCatchUpSaturationGapSec implement §4.1 step
// 3's "under SC cars bunch behind the leader": a car further behind the
// one ahead of it closes that gap faster than one already tucked in,
// scaling linearly up to the full boost once the gap reaches the
// saturation point. A car with nothing ahead (the leader) gets no boost.
const scCatchUpMaxBoostKph = 40.0
const scCatchUpSaturationGapSec = 5.0

// scBunchingSpeedKph returns the pace a car should run at under full
// Safety Car given its gap, in seconds, to the car ahead.
func scBunchingSpeedKph(gapAheadSec float64) float64 {
	if gapAheadSec <= 0 || math.IsInf(gapAheadSec, 1) {
		return SCSpeedKph
	}
	boost := scCatchUpMaxBoostKph * math.Min(gapAheadSec/scCatchUpSaturationGapSec, 1.0)
	return SCSpeedKph + boost
}

// LegalTransition reports whether moving from `from` to `to` is allowed by
// the state machine in spec §4.1: GREEN can go anywhere, everything else
// can only return to GREEN (RED_FLAG only by explicit director command,
// which this function does not distinguish — callers gate that at the
// command-ingestion boundary).
func LegalTransition(from, to model.RaceControlState) bool {
	if from == to {
		return false
	}
	if from == model.Green {
		switch to {
		case model.Yellow, model.VSC, model.SafetyCar, model.RedFlag:
			return true
		}
		return false
	}
	return to == model.Green
}

// SCBunchingGapSec is the gap-to-leader spread, in seconds, under which the
// field counts as "bunched" for ending a Safety Car period per §4.1's
// SAFETY_CAR->GREEN transition (minimum dwell AND field bunched within Δ).
// Not given a literal value by spec; chosen to require the pack to have
// genuinely caught back up rather than just idled out the dwell laps.
const SCBunchingGapSec = 3.0

// SCShouldEnd reports whether the Safety Car period has run its minimum
// dwell given the leader's current lap and the lap it was deployed on, AND
// the field has bunched back up within SCBunchingGapSec. Both conditions
// must hold; dwell alone does not end the period if the pack is still
// strung out.
func SCShouldEnd(deployLap, currentLap int, cars []model.Car) bool {
	if currentLap < deployLap+SCMinimumDwellLaps {
		return false
	}
	return fieldBunched(cars, SCBunchingGapSec)
}

// fieldBunched reports whether every racing car's gap to the leader is
// within deltaSec, using each car's gap as classified on the previous
// tick (the freshest data available before this tick's own Classify
// runs).
func fieldBunched(cars []model.Car, deltaSec float64) bool {
	for _, c := range cars {
		if c.IsDNF() || !c.IsRacing() {
			continue
		}
		if c.Timing.GapToLeaderSec > deltaSec {
			return false
		}
	}
	return true
}
