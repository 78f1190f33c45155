package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/catalog/baseline"
	"github.com/ayyushutup/boxbox/pkg/catalog/compound"
	"github.com/ayyushutup/boxbox/pkg/catalog/scenario"
	"github.com/ayyushutup/boxbox/pkg/config"
	"github.com/ayyushutup/boxbox/pkg/engine"
	"github.com/ayyushutup/boxbox/pkg/model"
	"github.com/ayyushutup/boxbox/pkg/predictor"
	"github.com/ayyushutup/boxbox/pkg/utils/broadcast"
)

// maxBatchTicks bounds how many ticks the pace loop will run back-to-back
// to catch up after lag, per §4.2: "may batch up to B ticks... but never
// drops ticks".
const maxBatchTicks = 20

// predictionEnsembleN is the ensemble size used for the piggybacked
// predictions bundle — smaller than a standalone predict() call since it
// rides along on every snapshot and must stay cheap.
const predictionEnsembleN = 200

// cmdQueueDepth bounds how many inbound commands may be pending before
// Submit blocks the caller; the pace loop drains it between ticks.
const cmdQueueDepth = 16

// Session owns one live race: the authoritative RaceState, a single
// cooperative pace loop (§5: "Cooperative, single-owner per session"),
// and the outbound snapshot broadcaster. One interactive peer submits
// commands; any number of broadcast listeners may watch snapshots, though
// in practice the transport layer attaches exactly one.
type Session struct {
	id        string
	catalogs  baseline.Catalogs
	scenarios *scenario.Repository
	compounds []model.Compound
	predictor *predictor.Predictor

	cmds   chan *Command
	source chan Snapshot
	out    broadcast.BroadcastServer[Snapshot]

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// state below is owned exclusively by run(); never touched from
	// another goroutine.
	state        model.RaceState
	scenario     model.Scenario
	summary      model.ScenarioSummary
	rng          *engine.RNG
	speed        int
	playing      bool
	initialized  bool
	commandTrace []string
	predictions  *predictor.Predictions
}

func NewSession(id string, cats baseline.Catalogs, scenarios *scenario.Repository, compounds *compound.Repository, pred *predictor.Predictor) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	source := make(chan Snapshot, 4)
	var compoundList []model.Compound
	if compounds != nil {
		compoundList = compounds.Available(ctx)
	}
	s := &Session{
		id:        id,
		catalogs:  cats,
		scenarios: scenarios,
		compounds: compoundList,
		predictor: pred,
		cmds:      make(chan *Command, cmdQueueDepth),
		source:    source,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	s.out = broadcast.NewBroadcastServer[Snapshot](
		"snapshot", id, source,
		broadcast.WithTelemetry[Snapshot]("scheduler.session"),
		broadcast.WithQueueDepth[Snapshot](config.BroadcastQueueDepth),
	)
	go s.run()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Subscribe() <-chan Snapshot        { return s.out.Subscribe() }
func (s *Session) CancelSubscription(ch <-chan Snapshot) { s.out.CancelSubscription(ch) }

// Close tears the session down: the pace loop exits at its next
// suspension point (§5) and the Engine's pure state is dropped.
func (s *Session) Close() {
	s.cancel()
	<-s.done
	s.out.Close()
}

// Submit enqueues cmd and waits for it to be validated and applied (or
// rejected) by the pace loop. Per §7, a rejected command leaves session
// state unchanged.
func (s *Session) Submit(cmd *Command) error {
	cmd.resp = make(chan error, 1)
	select {
	case s.cmds <- cmd:
	case <-s.ctx.Done():
		return &model.TransportError{Op: "submit", Err: errors.New("session closed")}
	}
	select {
	case err := <-cmd.resp:
		return err
	case <-s.ctx.Done():
		return &model.TransportError{Op: "submit", Err: errors.New("session closed")}
	}
}

func (s *Session) interval() time.Duration {
	speed := s.speed
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(model.TickDurationMs) * time.Millisecond / time.Duration(speed)
}

// run is the pace loop: a single cooperative task that alternates between
// draining the command queue and invoking the Engine (§5). It suspends at
// exactly two points: the pacing timer and the command channel.
func (s *Session) run() {
	defer close(s.done)
	defer s.cancel()

	var pendingEvents []model.DirectorEvent
	var pendingCmds []model.DriverCommand
	var nextDeadline time.Time

	for {
		var timer *time.Timer
		var timerC <-chan time.Time
		if s.playing && s.initialized && !s.state.IsFinished {
			d := time.Until(nextDeadline)
			if d < 0 {
				d = 0
			}
			timer = time.NewTimer(d)
			timerC = timer.C
		}

		select {
		case <-s.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case cmd := <-s.cmds:
			if timer != nil {
				timer.Stop()
			}
			err := s.handleCommand(cmd, &pendingEvents, &pendingCmds, &nextDeadline)
			cmd.resp <- err

		case <-timerC:
			elapsed := time.Since(nextDeadline)
			interval := s.interval()
			ticksDue := 1
			if interval > 0 {
				ticksDue = int(elapsed/interval) + 1
			}
			if ticksDue > maxBatchTicks {
				ticksDue = maxBatchTicks
			}
			if err := s.advance(ticksDue, &pendingEvents, &pendingCmds); err != nil {
				log.Error("invariant violation, pausing session", log.String("session", s.id), log.ErrorField(err))
				s.playing = false
			}
			nextDeadline = nextDeadline.Add(interval * time.Duration(ticksDue))
			s.publish(snapshotTypeFor(s.state))
			if s.state.IsFinished {
				s.playing = false
			}
		}
	}
}

func snapshotTypeFor(state model.RaceState) SnapshotType {
	if state.IsFinished {
		return SnapshotFinished
	}
	return SnapshotUpdate
}

// advance runs exactly n ticks (or until the race finishes), consuming any
// pending director events / driver commands on the very first tick only —
// per §5's ordering guarantee, commands queued before a tick are visible
// to that tick and none after. Per §7, a tick that panics on an invariant
// violation is recovered here and turned into a typed
// *model.InvariantViolationError carrying the failing tick, seed and
// command trace so the failure is reproducible, never a silent hang or
// crash of the whole session.
func (s *Session) advance(n int, pendingEvents *[]model.DirectorEvent, pendingCmds *[]model.DriverCommand) error {
	for i := 0; i < n && !s.state.IsFinished; i++ {
		controls := model.Controls{
			Modifiers:      model.DefaultModifiers(),
			DirectorEvents: *pendingEvents,
			DriverCommands: *pendingCmds,
			Compounds:      s.compounds,
		}
		*pendingEvents = nil
		*pendingCmds = nil
		if err := s.tickOnce(controls); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) tickOnce(controls model.Controls) (err error) {
	tick := s.state.Meta.Tick
	seed := s.state.Meta.Seed
	defer func() {
		if r := recover(); r != nil {
			err = &model.InvariantViolationError{
				Tick:         tick,
				Seed:         seed,
				CommandTrace: append([]string(nil), s.commandTrace...),
				Reason:       fmt.Sprintf("%v", r),
			}
		}
	}()
	s.state, _ = engine.Tick(s.state, controls, s.rng)
	return nil
}

func (s *Session) handleCommand(
	cmd *Command,
	pendingEvents *[]model.DirectorEvent,
	pendingCmds *[]model.DriverCommand,
	nextDeadline *time.Time,
) error {
	switch cmd.Command {
	case CmdInitScenario:
		return s.handleInitScenario(cmd, pendingEvents, pendingCmds)
	case CmdStart:
		return s.handleStart(cmd, nextDeadline)
	case CmdPause:
		return s.handlePause()
	case CmdStep:
		return s.handleStep(cmd, pendingEvents, pendingCmds)
	case CmdSkipToLap:
		return s.handleSkipToLap(cmd, pendingEvents, pendingCmds)
	case CmdEvent:
		return s.handleEvent(cmd, pendingEvents)
	case CmdDriverCommand:
		return s.handleDriverCommand(cmd, pendingCmds)
	default:
		return &model.InvalidInputError{Field: "command", Reason: "unknown command " + string(cmd.Command)}
	}
}

func (s *Session) handleInitScenario(
	cmd *Command, pendingEvents *[]model.DirectorEvent, pendingCmds *[]model.DriverCommand,
) error {
	scn, err := s.scenarios.Get(s.ctx, cmd.ScenarioID)
	if err != nil {
		return &model.InvalidInputError{Field: "scenario_id", Reason: "unknown scenario"}
	}
	base, err := baseline.Baseline(s.ctx, scn, s.catalogs)
	if err != nil {
		return err
	}
	base.Meta.Seed = cmd.Seed

	s.scenario = scn
	s.summary = scn.Summary()
	s.state = base
	s.rng = engine.NewRNG(cmd.Seed)
	s.initialized = true
	s.playing = false
	s.commandTrace = nil
	s.predictions = nil
	*pendingEvents = nil
	*pendingCmds = nil

	s.refreshPredictions()
	s.publish(SnapshotInit)
	return nil
}

func (s *Session) handleStart(cmd *Command, nextDeadline *time.Time) error {
	if !s.initialized {
		return &model.IllegalCommandError{Command: "start", Reason: "no scenario initialized"}
	}
	if s.state.IsFinished {
		return &model.IllegalCommandError{Command: "start", Reason: "race already finished"}
	}
	if !validSpeeds[cmd.Speed] {
		return &model.InvalidInputError{Field: "speed", Reason: "must be one of 1, 5, 10, 20"}
	}
	s.speed = cmd.Speed
	s.playing = true
	*nextDeadline = time.Now().Add(s.interval())
	return nil
}

func (s *Session) handlePause() error {
	if !s.initialized {
		return &model.IllegalCommandError{Command: "pause", Reason: "no scenario initialized"}
	}
	if !s.playing {
		return &model.IllegalCommandError{Command: "pause", Reason: "already paused"}
	}
	s.playing = false
	return nil
}

func (s *Session) handleStep(
	cmd *Command, pendingEvents *[]model.DirectorEvent, pendingCmds *[]model.DriverCommand,
) error {
	if !s.initialized {
		return &model.IllegalCommandError{Command: "step", Reason: "no scenario initialized"}
	}
	if cmd.Count <= 0 {
		return &model.InvalidInputError{Field: "count", Reason: "must be positive"}
	}
	s.playing = false
	err := s.advance(cmd.Count, pendingEvents, pendingCmds)
	s.publish(snapshotTypeFor(s.state))
	return err
}

func (s *Session) handleSkipToLap(
	cmd *Command, pendingEvents *[]model.DirectorEvent, pendingCmds *[]model.DriverCommand,
) error {
	if !s.initialized {
		return &model.IllegalCommandError{Command: "skip_to_lap", Reason: "no scenario initialized"}
	}
	if cmd.Lap <= 0 || cmd.Lap > s.state.Meta.LapsTotal {
		return &model.IllegalCommandError{Command: "skip_to_lap", Reason: "lap beyond total_laps"}
	}
	s.playing = false
	var advanceErr error
	for !s.state.IsFinished {
		if leader := s.state.Leader(); leader != nil && leader.Timing.Lap >= cmd.Lap {
			break
		}
		if advanceErr = s.advance(1, pendingEvents, pendingCmds); advanceErr != nil {
			break
		}
	}
	// §4.2: "never emitting intermediate snapshots (only a final snapshot
	// for that skip)" — advance() above never publishes, only this does.
	s.publish(snapshotTypeFor(s.state))
	return advanceErr
}

func (s *Session) handleEvent(cmd *Command, pendingEvents *[]model.DirectorEvent) error {
	if !s.initialized {
		return &model.IllegalCommandError{Command: "event", Reason: "no scenario initialized"}
	}
	if !validDirectorEvents[cmd.Type] {
		return &model.InvalidInputError{Field: "type", Reason: "unrecognised director event"}
	}
	ev := model.DirectorEvent{Type: cmd.Type, Weather: cmd.Value}
	*pendingEvents = append(*pendingEvents, ev)
	s.commandTrace = append(s.commandTrace, "event:"+string(ev.Type))
	s.refreshPredictions()
	return nil
}

func (s *Session) handleDriverCommand(cmd *Command, pendingCmds *[]model.DriverCommand) error {
	if !s.initialized {
		return &model.IllegalCommandError{Command: "driver_command", Reason: "no scenario initialized"}
	}
	if s.state.CarByDriver(cmd.Driver) == nil {
		return &model.InvalidInputError{Field: "driver", Reason: "unknown driver in this session"}
	}
	if !validDriverCommands[cmd.Cmd] {
		return &model.InvalidInputError{Field: "cmd", Reason: "unrecognised driver command"}
	}
	*pendingCmds = append(*pendingCmds, model.DriverCommand{Driver: cmd.Driver, Cmd: cmd.Cmd})
	s.commandTrace = append(s.commandTrace, "driver_command:"+cmd.Driver+":"+string(cmd.Cmd))
	return nil
}

// refreshPredictions recomputes the piggybacked predictions bundle from
// the scenario's catalog baseline, not from mid-race state: §4.3's
// predict() contract takes (scenario_id, modifiers), not an arbitrary
// RaceState, so the piggyback is "how this scenario shapes up", refreshed
// on init_scenario and whenever a director event is queued (driver
// commands do not refresh it), rather than a continuously re-simulated
// live forecast.
func (s *Session) refreshPredictions() {
	if s.predictor == nil {
		return
	}
	_, preds, err := s.predictor.Predict(s.ctx, s.scenario.ID, model.DefaultModifiers(), predictionEnsembleN)
	if err != nil {
		log.Warn("predictor piggyback failed", log.String("session", s.id), log.ErrorField(err))
		return
	}
	s.predictions = &preds
}

func (s *Session) publish(t SnapshotType) {
	snap := Snapshot{Type: t, Data: s.state, Predictions: s.predictions}
	if t == SnapshotInit {
		summary := s.summary
		snap.Scenario = &summary
	}
	select {
	case s.source <- snap:
	case <-s.ctx.Done():
	}
}
