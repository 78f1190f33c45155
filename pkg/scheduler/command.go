// Package scheduler hosts one interactive race session per Session value:
// authoritative RaceState, a command queue, wall-clock pacing, and an
// outbound snapshot stream. Grounded on the teacher's livedata_server.go
// broadcast-subscribe session shape, generalized from a passive telemetry
// relay into an owner that actually drives the Engine.
package scheduler

import "github.com/ayyushutup/boxbox/pkg/model"

// CommandName enumerates the commands accepted by a Session, per §4.2/§6.
type CommandName string

const (
	CmdInitScenario  CommandName = "init_scenario"
	CmdStart         CommandName = "start"
	CmdPause         CommandName = "pause"
	CmdStep          CommandName = "step"
	CmdSkipToLap     CommandName = "skip_to_lap"
	CmdEvent         CommandName = "event"
	CmdDriverCommand CommandName = "driver_command"
)

// Command is the client->server wire message of §6, decoded straight off
// the transport (websocket frame or otherwise) into this shape.
type Command struct {
	Command    CommandName             `json:"command"`
	ScenarioID string                  `json:"scenario_id,omitempty"`
	// Seed is a supplemented field not named by §6's wire contract: the
	// spec's init_scenario carries no seed, but determinism + replay
	// (§8) requires one. Callers that omit it get seed 0, matching
	// scenario_run's convention.
	Seed  int64                    `json:"seed,omitempty"`
	Speed int                      `json:"speed,omitempty"`
	Count int                      `json:"count,omitempty"`
	Lap   int                      `json:"lap,omitempty"`
	Type  model.DirectorEventType  `json:"type,omitempty"`
	Value model.WeatherCondition   `json:"value,omitempty"`
	Driver string                  `json:"driver,omitempty"`
	Cmd    model.CommandType       `json:"cmd,omitempty"`

	resp chan error
}

var validSpeeds = map[int]bool{1: true, 5: true, 10: true, 20: true}

var validDirectorEvents = map[model.DirectorEventType]bool{
	model.DirectorSC:      true,
	model.DirectorVSC:     true,
	model.DirectorRedFlag: true,
	model.DirectorGreen:   true,
	model.DirectorWeather: true,
}

var validDriverCommands = map[model.CommandType]bool{
	model.CmdNone:       true,
	model.CmdBoxThisLap: true,
	model.CmdPush:       true,
	model.CmdConserve:   true,
}
