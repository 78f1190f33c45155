package engine

import "github.com/ayyushutup/boxbox/pkg/model"

const (
	basePitProgressLoss    = 0.025
	pitProgressLossJitter  = 0.003
	scPitProgressDiscount  = 0.5
	pitEntryLapProgress    = 0.05
)

// ChooseCompound implements §4.1 step 5's strategy rule: the shortest
// currently-available compound (by wear-per-lap, softest first) that will
// plausibly survive the remaining laps without exceeding full wear, drawn
// only from compounds legal for the current weather (no WetOnly in the
// dry, no DryOnly once rainProbability crosses wetThreshold — this is what
// makes strategy react to a DRY->WET transition). Falls back to the
// hardest legal compound if none comfortably reaches the end, matching the
// original's simple SOFT->MEDIUM->HARD fallback chain in execute_pit_stop
// when no catalog data is present.
func ChooseCompound(available []model.Compound, remainingLaps int, abrasion, rainProbability float64) model.TireCompound {
	if len(available) == 0 {
		if rainProbability >= wetThreshold {
			return model.WetTy
		}
		return model.Medium
	}
	wet := rainProbability >= wetThreshold

	var legal []model.Compound
	for _, c := range available {
		if wet && c.DryOnly {
			continue
		}
		if !wet && c.WetOnly {
			continue
		}
		legal = append(legal, c)
	}
	if len(legal) == 0 {
		legal = available
	}

	var best *model.Compound
	for i := range legal {
		c := legal[i]
		lapsToFull := lapsUntilFullWear(c, abrasion)
		if lapsToFull >= float64(remainingLaps) {
			if best == nil || c.WearPerLap > best.WearPerLap {
				// prefer the softest (higher wear rate) compound that still lasts
				best = &legal[i]
			}
		}
	}
	if best != nil {
		return best.Name
	}
	// nothing lasts the distance: take the hardest legal compound (lowest wear rate)
	hardest := legal[0]
	for _, c := range legal[1:] {
		if c.WearPerLap < hardest.WearPerLap {
			hardest = c
		}
	}
	return hardest.Name
}

func lapsUntilFullWear(c model.Compound, abrasion float64) float64 {
	rate := c.WearMultiplier(0, abrasion)
	if rate <= 0 {
		return 1e9
	}
	return 1.0 / rate
}

// ExecutePitStop transitions a car into its pit stop: resets tire age and
// wear, fits the chosen compound, pays a progress-loss penalty (halved
// under SC/VSC since the whole field is slow), and emits PIT_STOP.
// Grounded on engine.py's execute_pit_stop.
func ExecutePitStop(car model.Car, compound model.TireCompound, scOrVSC bool, tick int64, rng *RNG) (model.Car, model.Event) {
	penalty := basePitProgressLoss + rng.Uniform(-pitProgressLossJitter, pitProgressLossJitter)
	if scOrVSC {
		penalty *= scPitProgressDiscount
	}

	out := car
	out.Telemetry.SpeedKph = 60.0
	out.Telemetry.LapProgress = maxf(0, car.Telemetry.LapProgress-penalty)
	out.Telemetry.Tire = model.TireState{Compound: compound, AgeLaps: 0, Wear: 0}
	out.Systems.DRSActive = false
	out.Systems.ERSDeployed = false
	out.Strategy.ActiveCommand = model.CmdNone
	out.Strategy.BoxArmed = false
	out.Timing.PitStops = car.Timing.PitStops + 1
	out.Timing.InPitLane = false

	ev := model.NewEvent(tick, car.Timing.Lap, model.PitStop,
		car.Identity.Driver+" pits for "+string(compound)+" tires",
		model.Payload{"driver": car.Identity.Driver, "compound": string(compound)})
	return out, ev
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
