package model

import "github.com/ohler55/ojg/jp"

// EventType enumerates the race-control and timing events the Engine emits.
// LAP_COMPLETE and BLUE_FLAG are supplemented from the original's engine.py
// and physics.py (see SPEC_FULL.md §11); everything else is verbatim §3.
type EventType string

const (
	RaceStart         EventType = "RACE_START"
	Overtake          EventType = "OVERTAKE"
	PitStop           EventType = "PIT_STOP"
	SafetyCarDeployed EventType = "SAFETY_CAR_DEPLOYED"
	SafetyCarEnding   EventType = "SAFETY_CAR_ENDING"
	VSCDeployed       EventType = "VSC_DEPLOYED"
	VSCEnding         EventType = "VSC_ENDING"
	RedFlagEvent      EventType = "RED_FLAG"
	DNFEvent          EventType = "DNF"
	FastestLap        EventType = "FASTEST_LAP"
	WeatherChange     EventType = "WEATHER_CHANGE"
	ModeChange        EventType = "MODE_CHANGE"
	DRSEnabledEvent   EventType = "DRS_ENABLED"
	LapComplete       EventType = "LAP_COMPLETE"
	BlueFlag          EventType = "BLUE_FLAG"
)

// Payload is a free-form JSON object carried on an Event. It is built and
// read with ojg/jp rather than a fixed struct per event type, since the
// shape varies by EventType and the wire contract (§6) treats it opaquely.
type Payload map[string]any

// Get evaluates a jp.ParseString path against the payload, e.g. "$.driver".
// Returns nil if the path yields nothing.
func (p Payload) Get(path string) any {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil
	}
	res := expr.Get(map[string]any(p))
	if len(res) == 0 {
		return nil
	}
	return res[0]
}

type Event struct {
	Tick        int64     `json:"tick"`
	Lap         int       `json:"lap"`
	Type        EventType `json:"type"`
	Description string    `json:"description"`
	Payload     Payload   `json:"payload,omitempty"`
}

func NewEvent(tick int64, lap int, t EventType, desc string, payload Payload) Event {
	return Event{Tick: tick, Lap: lap, Type: t, Description: desc, Payload: payload}
}
