package engine

import (
	"math"
	"strconv"

	"github.com/ayyushutup/boxbox/pkg/model"
)

const (
	tickDtSec        = 0.1
	pitEntryLapProg  = 0.05
	eventTrimK       = 256
	weatherDriftEveryTicksChance = weatherDriftChance
)

// Tick advances the race by exactly one 100ms step. It is a total,
// allocation-conscious pure function: given a byte-identical state,
// controls and RNG counter it returns byte-identical output. No I/O, no
// wall-clock reads, no hidden state — everything it needs arrives through
// its three arguments. Grounded on simulation/engine.py's tick(), adapted
// from a flat five-tuple Car model to the five-group Car of pkg/model and
// generalized from the original's hard-coded SOFT/MEDIUM/HARD chain and
// global DataLogger side-channel.
//
// Random draws happen in the fixed order §4.1 mandates: commands ->
// director events -> per-car pace jitter in position order -> pit
// decisions -> overtakes in position order -> incidents in identity order
// -> weather. Reordering these is a breaking change to replay.
func Tick(state model.RaceState, controls model.Controls, rng *RNG) (model.RaceState, []model.Event) {
	out := state.Clone()
	out.Meta.Tick = state.Meta.Tick + 1
	out.Meta.SimTimeMs = out.Meta.Tick * model.TickDurationMs

	events := make([]model.Event, 0, 8)

	leaderLap := 0
	if l := state.Leader(); l != nil {
		leaderLap = l.Timing.Lap
	}

	// 1. Command ingestion — mutates only Strategy fields.
	ingestCommands(out.Cars, controls.DriverCommands, out.Meta.Tick, &events)

	// 2. Race-director events — race_control transitions.
	applyDirectorEvents(&out, controls.DirectorEvents, leaderLap, out.Meta.Tick, &events)

	// Auto-end SC/VSC once minimum dwell has elapsed and the field is bunched.
	if (out.RaceControl == model.SafetyCar || out.RaceControl == model.VSC) && out.SCDeployLap != nil {
		if SCShouldEnd(*out.SCDeployLap, leaderLap, out.Cars) {
			endingType := model.SafetyCarEnding
			if out.RaceControl == model.VSC {
				endingType = model.VSCEnding
			}
			events = append(events, model.NewEvent(out.Meta.Tick, leaderLap, endingType, "race control returns to green", nil))
			out.RaceControl = model.Green
			out.SCDeployLap = nil
		}
	}

	scActive := out.RaceControl == model.SafetyCar
	vscActive := out.RaceControl == model.VSC
	redFlag := out.RaceControl == model.RedFlag

	// An all-zero Modifiers value runs at catalog odds; otherwise sc_prob
	// is applied as given, so an explicit 0 turns off auto-deployed SCs.
	scMod := controls.Modifiers.SCProb
	if scMod == 0 && controls.Modifiers == (model.Modifiers{}) {
		scMod = 1.0
	}
	tireDegMod := controls.Modifiers.TireDeg
	if tireDegMod == 0 {
		tireDegMod = 1.0
	}
	aggressionMod := controls.Modifiers.Aggression
	if aggressionMod == 0 {
		aggressionMod = 1.0
	}

	// 3-5. Per car, in position order: pace jitter, progress, pit service.
	byPosition := append([]model.Car(nil), out.Cars...)
	sortByPosition(byPosition)

	for idx, car := range byPosition {
		if car.IsDNF() || redFlag {
			continue
		}

		gapAheadSec := math.Inf(1)
		if idx > 0 {
			gapAheadSec = car.Timing.IntervalAheadSec
		}

		oldLap := car.Timing.Lap
		updated := updateCar(car, out.Track, out.Weather, out.RaceControl, gapAheadSec, leaderLap, aggressionMod, tireDegMod, rng)

		// 5. Pit-stop service: fires on the lap-entry crossing if armed.
		if updated.Strategy.BoxArmed && updated.Timing.Lap > oldLap {
			compound := ChooseCompound(controls.Compounds, out.Meta.LapsTotal-updated.Timing.Lap, out.Track.Abrasion, out.Weather.RainProbability)
			pitted, pitEvent := ExecutePitStop(updated, compound, scActive || vscActive, out.Meta.Tick, rng)
			pitted.Timing.Status = model.Racing
			updated = pitted
			events = append(events, pitEvent)
		}

		if updated.Timing.Lap > oldLap {
			events = append(events, model.NewEvent(out.Meta.Tick, updated.Timing.Lap, model.LapComplete,
				updated.Identity.Driver+" completes lap "+strconv.Itoa(updated.Timing.Lap),
				model.Payload{
					"driver":        updated.Identity.Driver,
					"lap_time":      updated.Timing.LastLapTime,
					"tire_compound": string(updated.Telemetry.Tire.Compound),
					"tire_wear":     updated.Telemetry.Tire.Wear,
					"fuel":          updated.Telemetry.FuelKg,
				}))
		}

		setCar(out.Cars, updated)
	}

	// 6. Overtake resolution, in position order, after pace/progress update.
	// The RNG-resolved outcome is pinned straight into each car's
	// lap/lap_progress, so it is what Classify sorts on below rather than
	// being discarded by Classify's own from-scratch re-derivation.
	events = append(events, resolveOvertakes(out.Cars, out.Track, out.Meta.Tick, rng, aggressionMod, out.Weather.RainProbability)...)

	// 7. Incident rolls, in identity (grid index) order, after overtakes.
	if !redFlag {
		for idx := range out.Cars {
			car := out.Cars[idx]
			if car.IsDNF() {
				continue
			}
			isDNF, reason := IncidentRoll(car, out.Track.BaseIncident, ModeRisk(car.Strategy.DrivingMode), WeatherRisk(out.Weather.RainProbability), scMod, rng)
			if !isDNF {
				continue
			}
			dnfCar := car
			dnfCar.Telemetry.SpeedKph = 0
			dnfCar.Systems.DRSActive = false
			dnfCar.Systems.ERSDeployed = false
			dnfCar.Timing.Status = model.DNF
			events = append(events, model.NewEvent(out.Meta.Tick, car.Timing.Lap, model.DNFEvent,
				car.Identity.Driver+" DNF - "+reason, model.Payload{"driver": car.Identity.Driver, "reason": reason}))
			if out.RaceControl == model.Green && ShouldAutoDeploySC(rng, scMod) {
				out.RaceControl = model.SafetyCar
				out.SCDeployLap = &leaderLap
				events = append(events, model.NewEvent(out.Meta.Tick, car.Timing.Lap, model.SafetyCarDeployed,
					"Safety Car deployed for "+car.Identity.Driver+"'s incident", model.Payload{"cause": car.Identity.Driver}))
				scActive = true
			}
			out.Cars[idx] = dnfCar
		}
	}

	// 8. Weather drift.
	if rng.Chance(weatherDriftEveryTicksChance) {
		oldRain := out.Weather.RainProbability
		out.Weather = DriftWeather(out.Weather, rng)
		if oldRain < wetThreshold && out.Weather.RainProbability >= wetThreshold {
			events = append(events, model.NewEvent(out.Meta.Tick, leaderLap, model.WeatherChange, "Rain started - track is wet", model.Payload{"rain_prob": out.Weather.RainProbability}))
		} else if oldRain >= wetThreshold && out.Weather.RainProbability < wetThreshold {
			events = append(events, model.NewEvent(out.Meta.Tick, leaderLap, model.WeatherChange, "Rain stopped - track drying", model.Payload{"rain_prob": out.Weather.RainProbability}))
		}
	}

	// 9. Classification.
	out.Cars = Classify(out.Cars, out.Track.LengthMeters)
	events = append(events, detectFastestLap(out.Cars, out.Meta.Tick)...)
	out.IsFinished = CheckFinished(out.Cars, out.Meta.LapsTotal)
	out.DRSEnabled = out.RaceControl == model.Green

	// 10. Event trimming.
	out.Events = model.TrimEvents(append(out.Events, events...), eventTrimK)

	return out, events
}

func ingestCommands(cars []model.Car, cmds []model.DriverCommand, tick int64, events *[]model.Event) {
	for _, cmd := range cmds {
		for i := range cars {
			if cars[i].Identity.Driver != cmd.Driver {
				continue
			}
			switch cmd.Cmd {
			case model.CmdBoxThisLap:
				cars[i].Strategy.BoxArmed = true
				cars[i].Strategy.ActiveCommand = model.CmdBoxThisLap
			case model.CmdPush:
				cars[i].Strategy.DrivingMode = model.Push
				cars[i].Strategy.ActiveCommand = model.CmdPush
				*events = append(*events, model.NewEvent(tick, cars[i].Timing.Lap, model.ModeChange,
					cars[i].Identity.Driver+" switches to PUSH", model.Payload{"driver": cars[i].Identity.Driver, "mode": "PUSH"}))
			case model.CmdConserve:
				cars[i].Strategy.DrivingMode = model.Conserve
				cars[i].Strategy.ActiveCommand = model.CmdConserve
				*events = append(*events, model.NewEvent(tick, cars[i].Timing.Lap, model.ModeChange,
					cars[i].Identity.Driver+" switches to CONSERVE", model.Payload{"driver": cars[i].Identity.Driver, "mode": "CONSERVE"}))
			}
		}
	}
}

func applyDirectorEvents(state *model.RaceState, evs []model.DirectorEvent, leaderLap int, tick int64, events *[]model.Event) {
	for _, ev := range evs {
		switch ev.Type {
		case model.DirectorSC:
			if LegalTransition(state.RaceControl, model.SafetyCar) {
				state.RaceControl = model.SafetyCar
				state.SCDeployLap = &leaderLap
				*events = append(*events, model.NewEvent(tick, leaderLap, model.SafetyCarDeployed, "Safety Car deployed by race control", nil))
			}
		case model.DirectorVSC:
			if LegalTransition(state.RaceControl, model.VSC) {
				state.RaceControl = model.VSC
				state.SCDeployLap = &leaderLap
				*events = append(*events, model.NewEvent(tick, leaderLap, model.VSCDeployed, "Virtual Safety Car deployed", nil))
			}
		case model.DirectorRedFlag:
			if LegalTransition(state.RaceControl, model.RedFlag) {
				state.RaceControl = model.RedFlag
				*events = append(*events, model.NewEvent(tick, leaderLap, model.RedFlagEvent, "Red flag: race suspended", nil))
			}
		case model.DirectorGreen:
			if LegalTransition(state.RaceControl, model.Green) {
				state.RaceControl = model.Green
				state.SCDeployLap = nil
			}
		case model.DirectorWeather:
			state.Weather.Condition = ev.Weather
			switch ev.Weather {
			case model.Wet:
				state.Weather.RainProbability = 1.0
			case model.Dry:
				state.Weather.RainProbability = 0.0
			case model.Intermediate:
				state.Weather.RainProbability = 0.5
			}
		}
	}
}

func updateCar(car model.Car, track model.TrackRef, weather model.Weather, rc model.RaceControlState, gapAheadSec float64, leaderLap int, aggressionMod, tireDegMod float64, rng *RNG) model.Car {
	out := car
	sector := currentSector(track, car.Telemetry.LapProgress)
	sectorType := sector.Type
	base := BaseSpeed(sectorType)

	mode := car.Strategy.DrivingMode
	if mode == "" {
		mode = model.Balanced
	}

	speed := CalculateSpeed(base, car.Telemetry.Tire.Wear, car.Telemetry.FuelKg, car.Identity.BaseSkill, rng)
	speed *= WeatherMultiplier(weather.RainProbability, car.Identity.WetMultiplier)
	speed *= ModeMultiplier(mode)

	drsActive := CanActivateDRS(car.Telemetry.LapProgress, gapAheadSec, track.DRSZones, rc, weather.RainProbability)
	if drsActive {
		speed += drsBoostKph
	}
	speed += SlipstreamBoost(gapAheadSec, sectorType)
	dirtyAir := DirtyAirPenalty(gapAheadSec, sectorType)
	speed *= 1 - dirtyAir

	newBattery := ERSHarvest(car.Systems.ERSBattery, sectorType)
	newBattery, ersBoost, ersDeployed := ERSDeployment(newBattery, sectorType, car.Systems.ERSDeployed, mode)
	speed += ersBoost

	if ShouldYieldForBlueFlag(car.Timing.Lap, leaderLap) {
		speed *= 1 - CalculateBlueFlagPenalty()
	}

	switch rc {
	case model.SafetyCar:
		speed = scBunchingSpeedKph(gapAheadSec)
		drsActive = false
	case model.VSC:
		speed *= 1 - VSCSpeedReduction
		drsActive = false
	}

	out.Telemetry.SpeedKph = speed
	out.Systems.DRSActive = drsActive
	out.Systems.ERSBattery = newBattery
	out.Systems.ERSDeployed = ersDeployed
	out.Strategy.DrivingMode = mode

	distanceM := (speed / 3600) * tickDtSec * 1000
	progressInc := distanceM / track.LengthMeters
	newProgress := car.Telemetry.LapProgress + progressInc

	newLap := car.Timing.Lap
	newLastLapTime := car.Timing.LastLapTime
	newBestLapTime := car.Timing.BestLapTime

	if newProgress >= 1.0 {
		newProgress -= 1.0
		newLap++
		lapTimeSec := sectorLapTimeEstimate(speed, track.LengthMeters)
		newLastLapTime = lapTimeSec
		if newBestLapTime == 0 || lapTimeSec < newBestLapTime {
			newBestLapTime = lapTimeSec
		}

		newWear := CalculateTireWear(car.Telemetry.Tire.Wear, car.Telemetry.Tire.Compound, track.Abrasion, tireDegMod, rng)
		if mode == model.Push {
			newWear = math.Min(1.0, newWear+0.01)
		} else if mode == model.Conserve {
			newWear = math.Max(0, newWear-0.005)
		}
		out.Telemetry.Tire.Wear = newWear
		out.Telemetry.Tire.AgeLaps = car.Telemetry.Tire.AgeLaps + 1
		out.Telemetry.FuelKg = CalculateFuelConsumption(car.Telemetry.FuelKg, mode)
	}

	out.Telemetry.LapProgress = newProgress
	out.Timing.Lap = newLap
	out.Timing.Sector = sector.Num
	out.Timing.LastLapTime = newLastLapTime
	out.Timing.BestLapTime = newBestLapTime
	out.Timing.InPitLane = out.Strategy.BoxArmed && newProgress < pitEntryLapProg && newLap > car.Timing.Lap

	return out
}

// sectorLapTimeEstimate approximates a lap time from the car's current
// instantaneous pace; a rough proxy (the original tracks exact tick
// counts per lap, which this port doesn't retain per-car to keep state
// allocation-light for the Predictor's ensemble loop).
func sectorLapTimeEstimate(speedKph, trackLengthM float64) float64 {
	if speedKph <= 0 {
		return 0
	}
	speedMps := speedKph * 1000 / 3600
	return trackLengthM / speedMps
}

func currentSector(track model.TrackRef, lapProgress float64) model.Sector {
	if len(track.Sectors) == 0 {
		return model.Sector{Num: 0, Type: model.SectorMedium}
	}
	cumulative := 0.0
	for i, s := range track.Sectors {
		cumulative += s.LengthM
		boundary := cumulative / track.LengthMeters
		if lapProgress < boundary {
			return track.Sectors[i]
		}
	}
	return track.Sectors[len(track.Sectors)-1]
}

// resolveOvertakes walks the field back-to-front in position order,
// attempting one overtake per attacker/defender pair per §4.1 step 6. The
// RNG-gated outcome is the only thing that decides whether the pass
// happens: on success the attacker's distance is pinned just ahead of the
// defender's (completing the physical pass this tick even if raw pace
// jitter hadn't yet done so); on failure the attacker pays the attempt
// cost and, if its raw progress had already crept past the defender's, is
// pinned back behind it — "a failed attempt ... does not pass" holds at
// classification time, not only in the dice roll. It returns the OVERTAKE
// events for successful attempts; Classify no longer detects these itself.
func resolveOvertakes(cars []model.Car, track model.TrackRef, tick int64, rng *RNG, aggressionMod, rainProb float64) []model.Event {
	byPos := append([]model.Car(nil), cars...)
	sortByPosition(byPos)

	var events []model.Event
	for i := len(byPos) - 1; i > 0; i-- {
		attacker := byPos[i]
		defender := byPos[i-1]
		if attacker.IsDNF() || defender.IsDNF() || !attacker.IsRacing() || !defender.IsRacing() {
			continue
		}
		gap := attacker.Timing.IntervalAheadSec
		window := OvertakeWindow(attacker.Systems.DRSActive, attacker.Identity.Aggression*aggressionMod, rainProb)
		if gap >= window {
			continue
		}
		paceDelta := attacker.Telemetry.SpeedKph - defender.Telemetry.SpeedKph
		if paceDelta < overtakePaceMargin {
			continue
		}

		attackerDist := carDistanceM(attacker, track.LengthMeters)
		defenderDist := carDistanceM(defender, track.LengthMeters)

		if AttemptOvertake(attacker.Telemetry.SpeedKph, defender.Telemetry.SpeedKph, attacker.Identity.Aggression*aggressionMod, defender.Identity.BaseSkill, track.OvertakeDiff, rng) {
			if attackerDist <= defenderDist {
				attacker = pinDistanceM(attacker, defenderDist+overtakeCompletionMarginM, track.LengthMeters)
			}
			events = append(events, model.NewEvent(tick, attacker.Timing.Lap, model.Overtake,
				attacker.Identity.Driver+" overtakes "+defender.Identity.Driver+" for P"+strconv.Itoa(i),
				model.Payload{"overtaker": attacker.Identity.Driver, "overtaken": defender.Identity.Driver, "position": i}))
			byPos[i-1], byPos[i] = attacker, defender
		} else {
			attacker = ApplyAttemptCost(attacker)
			if attackerDist >= defenderDist {
				attacker = pinDistanceM(attacker, defenderDist-overtakeCompletionMarginM, track.LengthMeters)
			}
			byPos[i] = attacker
		}
	}
	for _, c := range byPos {
		setCar(cars, c)
	}
	return events
}

func detectFastestLap(cars []model.Car, tick int64) []model.Event {
	var events []model.Event
	globalBest := math.Inf(1)
	var globalBestDriver string
	for _, c := range cars {
		if c.Timing.BestLapTime > 0 && c.Timing.BestLapTime < globalBest && c.IsRacing() {
			globalBest = c.Timing.BestLapTime
			globalBestDriver = c.Identity.Driver
		}
	}
	if globalBestDriver == "" {
		return nil
	}
	for _, c := range cars {
		if c.Identity.Driver == globalBestDriver && c.Timing.LastLapTime == c.Timing.BestLapTime && c.Timing.LastLapTime > 0 {
			events = append(events, model.NewEvent(tick, c.Timing.Lap, model.FastestLap,
				c.Identity.Driver+" sets fastest lap", model.Payload{"driver": c.Identity.Driver, "time": c.Timing.BestLapTime}))
		}
	}
	return events
}

func sortByPosition(cars []model.Car) {
	for i := 1; i < len(cars); i++ {
		for j := i; j > 0 && cars[j].Timing.Position < cars[j-1].Timing.Position; j-- {
			cars[j], cars[j-1] = cars[j-1], cars[j]
		}
	}
}

func setCar(cars []model.Car, updated model.Car) {
	for i := range cars {
		if cars[i].Identity.Driver == updated.Identity.Driver {
			cars[i] = updated
			return
		}
	}
}
