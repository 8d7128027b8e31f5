package tempoross

import (
	"errors"
	"fmt"
	"math/rand"

	"osrs_sim/internal/config"
	"osrs_sim/internal/phase"
	"osrs_sim/internal/tick"
	"osrs_sim/internal/util"
)

// RNG streams derived from a run seed.
const (
	gameStream   = 0
	policyStream = 1
)

type RunConfig struct {
	Rules  *config.Rules
	Player config.Player
	// MaxTicks overrides Rules.MaxTicks when positive.
	MaxTicks int
	// Record keeps the per-action event log in the outcome.
	Record bool
}

func (c RunConfig) maxTicks() int {
	if c.MaxTicks > 0 {
		return c.MaxTicks
	}
	return c.Rules.MaxTicks
}

type Outcome struct {
	Strategy string        `json:"strategy"`
	Seed     int64         `json:"seed"`
	Final    phase.State   `json:"final"`
	Ticks    tick.Tick     `json:"ticks"`
	Success  bool          `json:"success"`
	Counters Counters      `json:"counters"`
	Rejected int           `json:"rejected"`
	Score    Score         `json:"score"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	History  phase.History `json:"history,omitempty"`
	Events   []Event       `json:"events,omitempty"`
}

// Terminal reports whether the run reached a resolved phase.
func (o Outcome) Terminal() bool { return o.Final.Terminal() }

type Event struct {
	T       tick.Tick      `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type runner struct {
	cfg      RunConfig
	strategy Strategy
	clock    *tick.Clock
	queue    *tick.Queue[Action]
	machine  phase.Machine
	state    phase.State
	game     *Game
	player   Player
	policy   *rand.Rand
	out      *Outcome
}

// Run plays one game with s from seed until the phase resolves or the tick
// limit is hit. Errors are captured in the outcome; the partial counters
// of an errored run are kept.
func Run(s Strategy, seed int64, cfg RunConfig) (out Outcome) {
	out = Outcome{Strategy: s.Name(), Seed: seed, Final: phase.Initial()}
	if cfg.Rules == nil {
		cfg.Rules = config.DefaultRules()
	}
	if err := cfg.Rules.Validate(); err != nil {
		out.fail(err)
		return out
	}
	p, err := NewPlayer(cfg.Player, cfg.Rules)
	if err != nil {
		out.fail(err)
		return out
	}

	var r *runner
	defer func() {
		rec := recover()
		if r == nil {
			if rec != nil {
				out.fail(fmt.Errorf("run panicked during setup: %v", rec))
			}
			return
		}
		if rec != nil {
			out.fail(fmt.Errorf("run panicked at tick %d: %v", r.clock.Current(), rec))
		}
		r.finish()
	}()
	r = newRunner(s, seed, cfg, p, &out)
	if err := r.loop(); err != nil {
		out.fail(err)
	}
	return out
}

func newRunner(s Strategy, seed int64, cfg RunConfig, p Player, out *Outcome) *runner {
	clock := tick.NewClock(tick.Tick(cfg.maxTicks()))
	return &runner{
		cfg:      cfg,
		strategy: s.Fork(),
		clock:    clock,
		queue:    tick.NewQueue[Action](clock),
		machine:  phase.Machine{EnrageCycles: cfg.Rules.Boss.EnrageCycles, MaxStorm: len(cfg.Rules.Storm) - 1},
		state:    phase.Initial(),
		game:     newGame(cfg.Rules, p, util.Stream(seed, gameStream)),
		player:   p,
		policy:   util.Stream(seed, policyStream),
		out:      out,
	}
}

func (o *Outcome) fail(err error) {
	o.Err = err
	o.Error = err.Error()
}

func (r *runner) loop() error {
	if err := r.transition(phase.Start); err != nil {
		return err
	}
	for !r.state.Terminal() {
		now := r.clock.Current()
		r.decide(now)
		for due := r.queue.DrainDue(now); len(due) > 0; due = r.queue.DrainDue(now) {
			for _, d := range due {
				if err := r.execute(d); err != nil {
					return err
				}
			}
		}
		r.game.step(r.state)
		if err := r.transition(r.game.triggers(r.state)...); err != nil {
			return err
		}
		if r.state.Terminal() {
			break
		}
		if _, err := r.clock.Advance(); err != nil {
			if !errors.Is(err, tick.ErrTickLimit) {
				return err
			}
			if err := r.transition(phase.TimedOut); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *runner) view(now tick.Tick) View {
	return View{
		Tick:          now,
		State:         r.state,
		Counters:      r.game.Counters,
		PendingPlayer: r.queue.Pending(func(a Action) bool { return !a.NPC() }),
		Player:        r.player,
		Timing:        r.cfg.Rules.Timing,
		Boss:          r.game.Boss,
		Cannons:       append([]Cannon(nil), r.game.Cannons...),
		Hazards:       r.game.Hazards.clone(),
		Spots:         r.game.Spots,
		Pools:         r.game.Pools,
	}
}

func (r *runner) decide(now tick.Tick) {
	for _, p := range r.strategy.Decide(r.view(now), r.policy) {
		if p.Action.NPC() {
			r.reject(now, p.Action, "npc action proposed by strategy")
			continue
		}
		if _, err := r.queue.Schedule(p.Action, now+tick.Tick(p.Delay), p.Priority); err != nil {
			r.reject(now, p.Action, err.Error())
		}
	}
}

func (r *runner) execute(d tick.Scheduled[Action]) error {
	res, err := r.game.apply(d.Payload, r.state.Stage)
	if err != nil {
		return &ActionError{Action: d.Payload, Tick: int(d.At), Err: err}
	}
	if res.Rejected {
		r.reject(d.At, d.Payload, res.Reason)
	} else {
		r.emit(d.At, "Action", map[string]any{"action": d.Payload.String(), "priority": d.Priority.String()})
	}
	if res.Volley && r.queue.Pending(Action.NPC) == 0 {
		at := d.At + tick.Tick(r.cfg.Rules.Cannon.FireDelay)
		if _, err := r.queue.Schedule(Action{Kind: FireCannons}, at, tick.High); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) reject(at tick.Tick, a Action, reason string) {
	r.out.Rejected++
	r.emit(at, "Rejected", map[string]any{"action": a.String(), "reason": reason})
}

func (r *runner) transition(triggers ...phase.Trigger) error {
	next, err := r.machine.Resolve(r.state, triggers...)
	if err != nil {
		return err
	}
	prev := r.state
	r.state = next
	now := r.clock.Current()
	if !r.out.History.Record(int(now), prev, next) {
		return nil
	}
	if prev.Stage == phase.Surfaced && next.Stage == phase.Submerged {
		n := r.queue.CancelWhere(Action.NPC)
		r.game.clearCannons()
		r.emit(now, "CannonsReset", map[string]any{"cancelled": n})
	}
	r.emit(now, "Phase", map[string]any{"from": prev.String(), "to": next.String()})
	return nil
}

func (r *runner) emit(at tick.Tick, typ string, payload map[string]any) {
	if r.cfg.Record {
		r.out.Events = append(r.out.Events, Event{T: at, Type: typ, Payload: payload})
	}
}

func (r *runner) finish() {
	o := r.out
	o.Final = r.state
	o.Ticks = r.clock.Current()
	o.Success = r.state.Succeeded()
	o.Counters = r.game.Counters
	o.Score = ScoreOf(&o.Counters, o.Ticks, r.cfg.Rules, r.player)
}
