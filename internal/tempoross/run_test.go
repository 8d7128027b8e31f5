package tempoross

import (
	"errors"
	"testing"

	"osrs_sim/internal/config"
	"osrs_sim/internal/phase"
	"osrs_sim/internal/tick"
)

func defaultRun() RunConfig {
	return RunConfig{Rules: config.DefaultRules(), Player: config.DefaultPlayer()}
}

func TestRunIsDeterministic(t *testing.T) {
	for _, s := range Presets() {
		t.Run(s.Name(), func(t *testing.T) {
			a := Run(s, 42, defaultRun())
			b := Run(s, 42, defaultRun())
			if a.Final != b.Final || a.Ticks != b.Ticks || a.Counters != b.Counters || a.Rejected != b.Rejected {
				t.Errorf("runs with the same seed differ:\n%+v\n%+v", a, b)
			}
		})
	}
}

func TestRunStaysWithinTickLimit(t *testing.T) {
	cfg := defaultRun()
	for _, s := range Presets() {
		for seed := int64(1); seed <= 5; seed++ {
			o := Run(s, seed, cfg)
			if o.Err != nil {
				t.Fatalf("%s/%d: %v", s.Name(), seed, o.Err)
			}
			if !o.Terminal() {
				t.Errorf("%s/%d: final %s is not terminal", s.Name(), seed, o.Final)
			}
			if int(o.Ticks) > cfg.Rules.MaxTicks {
				t.Errorf("%s/%d: ticks %d exceed %d", s.Name(), seed, o.Ticks, cfg.Rules.MaxTicks)
			}
			if n := o.History.Resolutions(); n != 1 {
				t.Errorf("%s/%d: resolved %d times, want 1", s.Name(), seed, n)
			}
		}
	}
}

func TestBalancedSoloCanWin(t *testing.T) {
	wins := 0
	for seed := int64(1); seed <= 10; seed++ {
		o := Run(Balanced(), seed, defaultRun())
		if o.Success {
			wins++
			if o.Score.Points <= 0 || o.Counters.Get(FishCaught) == 0 {
				t.Errorf("seed %d won with score %+v", seed, o.Score)
			}
		}
	}
	if wins == 0 {
		t.Error("balanced never won a solo game at level 99")
	}
}

func TestIdleTimesOut(t *testing.T) {
	for _, max := range []int{1, 50, 0} {
		cfg := defaultRun()
		cfg.MaxTicks = max
		o := Run(Idle{}, 7, cfg)
		want := tick.Tick(cfg.maxTicks())
		if o.Final != (phase.State{Stage: phase.Resolved, Outcome: phase.Timeout}) {
			t.Errorf("max %d: final = %s, want resolved(timeout)", max, o.Final)
		}
		if o.Ticks != want {
			t.Errorf("max %d: ticks = %d, want %d", max, o.Ticks, want)
		}
		if o.Err != nil {
			t.Errorf("max %d: timeout reported as error %v", max, o.Err)
		}
	}
}

func TestMalformedActionStopsRun(t *testing.T) {
	s := &Scripted{Steps: map[tick.Tick][]Proposal{
		0: {{Action: Action{Kind: Repair, Target: 9}, Delay: 2, Priority: tick.Normal}},
	}}
	o := Run(s, 1, defaultRun())
	var ae *ActionError
	if !errors.As(o.Err, &ae) {
		t.Fatalf("Err = %v, want *ActionError", o.Err)
	}
	if !errors.Is(o.Err, ErrUnknownTarget) || ae.Tick != 2 {
		t.Errorf("ActionError = %+v, want unknown target at tick 2", ae)
	}
	if o.Terminal() {
		t.Errorf("errored run reports terminal state %s", o.Final)
	}
	if o.Error == "" {
		t.Error("Error text not set")
	}
}

func TestNegativeDelayIsRejected(t *testing.T) {
	s := &Scripted{Steps: map[tick.Tick][]Proposal{
		0: {{Action: Action{Kind: Fish, Target: 0}, Delay: -1, Priority: tick.Normal}},
	}}
	cfg := defaultRun()
	cfg.MaxTicks = 10
	o := Run(s, 1, cfg)
	if o.Err != nil {
		t.Fatalf("Err = %v, want nil", o.Err)
	}
	if o.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", o.Rejected)
	}
	if o.Counters.Get(FishCaught) != 0 {
		t.Error("rejected fish was still caught")
	}
}

func TestCookWithoutFishIsRejected(t *testing.T) {
	s := &Scripted{Steps: map[tick.Tick][]Proposal{
		0: {{Action: Action{Kind: Cook}, Delay: 0, Priority: tick.Normal}},
	}}
	cfg := defaultRun()
	cfg.MaxTicks = 5
	o := Run(s, 1, cfg)
	if o.Err != nil || o.Rejected != 1 {
		t.Errorf("Err/Rejected = %v/%d, want nil/1", o.Err, o.Rejected)
	}
	if o.Counters.Get(FishCooked) != 0 || o.Counters.Get(RawHeld) != 0 {
		t.Errorf("counters moved: %+v", o.Counters)
	}
}

func TestStrategyCannotFireCannons(t *testing.T) {
	s := &Scripted{Steps: map[tick.Tick][]Proposal{
		0: {{Action: Action{Kind: FireCannons}, Delay: 1, Priority: tick.High}},
	}}
	cfg := defaultRun()
	cfg.MaxTicks = 5
	if o := Run(s, 1, cfg); o.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", o.Rejected)
	}
}

func TestDueActionsRunInPriorityOrder(t *testing.T) {
	s := &Scripted{Steps: map[tick.Tick][]Proposal{
		0: {
			{Action: Action{Kind: Repair, Target: 0}, Delay: 2, Priority: tick.Low},
			{Action: Action{Kind: Douse, Target: 1}, Delay: 2, Priority: tick.Normal},
			{Action: Action{Kind: Douse, Target: 0}, Delay: 2, Priority: tick.Normal},
			{Action: Action{Kind: Deposit, Target: 0}, Delay: 2, Priority: tick.High},
		},
	}}
	cfg := defaultRun()
	cfg.MaxTicks = 5
	cfg.Record = true
	o := Run(s, 3, cfg)

	var got []string
	for _, ev := range o.Events {
		if ev.T == 2 && (ev.Type == "Action" || ev.Type == "Rejected") {
			got = append(got, ev.Payload["action"].(string))
		}
	}
	want := []string{"deposit[0]", "douse[1]", "douse[0]", "repair[0]"}
	if len(got) != len(want) {
		t.Fatalf("actions at tick 2 = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d = %s, want %s (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestSubmergeCancelsPendingVolley(t *testing.T) {
	rules := config.DefaultRules()
	p, err := NewPlayer(config.DefaultPlayer(), rules)
	if err != nil {
		t.Fatal(err)
	}
	var out Outcome
	r := newRunner(Idle{}, 1, RunConfig{Rules: rules}, p, &out)
	if err := r.transition(phase.Start); err != nil {
		t.Fatal(err)
	}
	r.game.Cannons[0].Raw = 12
	if _, err := r.queue.Schedule(Action{Kind: FireCannons}, 3, tick.High); err != nil {
		t.Fatal(err)
	}
	if _, err := r.queue.Schedule(Action{Kind: Fish, Target: 1}, 3, tick.Normal); err != nil {
		t.Fatal(err)
	}

	r.game.Boss.Energy = 0
	if err := r.transition(r.game.triggers(r.state)...); err != nil {
		t.Fatal(err)
	}
	if r.state.Stage != phase.Submerged {
		t.Fatalf("stage = %s, want submerged", r.state.Stage)
	}
	if n := r.queue.Pending(Action.NPC); n != 0 {
		t.Errorf("%d volleys still pending after submerge", n)
	}
	if n := r.queue.Pending(nil); n != 1 {
		t.Errorf("pending = %d, want the player's action kept", n)
	}
	if r.game.loaded() != 0 {
		t.Errorf("cannons hold %d fish after submerge", r.game.loaded())
	}
}

func TestDepositSchedulesSingleVolley(t *testing.T) {
	rules := config.DefaultRules()
	p, err := NewPlayer(config.DefaultPlayer(), rules)
	if err != nil {
		t.Fatal(err)
	}
	var out Outcome
	r := newRunner(Idle{}, 1, RunConfig{Rules: rules}, p, &out)
	if err := r.transition(phase.Start); err != nil {
		t.Fatal(err)
	}

	for _, target := range []int{0, 1} {
		r.game.Counters.Add(RawHeld, 12)
		d := tick.Scheduled[Action]{At: 0, Payload: Action{Kind: Deposit, Target: target}}
		if err := r.execute(d); err != nil {
			t.Fatal(err)
		}
	}
	if n := r.queue.Pending(Action.NPC); n != 1 {
		t.Errorf("pending volleys = %d, want 1", n)
	}
	next, ok := r.queue.Peek()
	if !ok || next.At != tick.Tick(rules.Cannon.FireDelay) || next.Priority != tick.High {
		t.Errorf("volley = %+v, want high priority at tick %d", next, rules.Cannon.FireDelay)
	}
}

func TestScriptedForkReplaysIndependently(t *testing.T) {
	base := &Scripted{Steps: map[tick.Tick][]Proposal{
		0: {{Action: Action{Kind: Fish}, Delay: 4, Priority: tick.Normal}},
	}}
	a, b := base.Fork(), base.Fork()
	v := View{Tick: 0}
	if len(a.Decide(v, nil)) != 1 || len(a.Decide(v, nil)) != 0 {
		t.Error("forked script did not consume its step")
	}
	if len(b.Decide(v, nil)) != 1 {
		t.Error("second fork saw the first fork's progress")
	}
}

// forkPanics fails while the run is being set up.
type forkPanics struct{ Idle }

func (forkPanics) Fork() Strategy { panic("fork exploded") }

func TestSetupPanicIsCaptured(t *testing.T) {
	o := Run(forkPanics{}, 1, defaultRun())
	if o.Err == nil || o.Error == "" {
		t.Fatalf("Err = %v, want the setup panic captured", o.Err)
	}
	if o.Terminal() {
		t.Errorf("final = %s, want a non-terminal errored run", o.Final)
	}
}

func TestInvalidLayoutFailsRun(t *testing.T) {
	cfg := defaultRun()
	cfg.Rules.Layout.Masts = -1
	o := Run(Balanced(), 1, cfg)
	if !errors.Is(o.Err, config.ErrInvalidRules) {
		t.Errorf("Err = %v, want ErrInvalidRules", o.Err)
	}
}

func TestDefeatOnRefillTickWins(t *testing.T) {
	rules := config.DefaultRules()
	rules.Boss.SoloEnergy, rules.Boss.SoloEssence = 3, 10
	p, err := NewPlayer(config.DefaultPlayer(), rules)
	if err != nil {
		t.Fatal(err)
	}
	p.CatchChance = 1

	var out Outcome
	r := newRunner(Idle{}, 1, RunConfig{Rules: rules, MaxTicks: 50}, p, &out)
	if err := r.transition(phase.Start); err != nil {
		t.Fatal(err)
	}
	r.game.Boss.Energy = 0
	if err := r.transition(r.game.triggers(r.state)...); err != nil {
		t.Fatal(err)
	}
	// One regen tick refills the boss while the harpoon empties its essence.
	if _, err := r.queue.Schedule(Action{Kind: Harpoon}, 0, tick.Normal); err != nil {
		t.Fatal(err)
	}
	if err := r.loop(); err != nil {
		t.Fatal(err)
	}
	r.finish()

	want := phase.State{Stage: phase.Resolved, Outcome: phase.Success}
	if out.Final != want || !out.Success {
		t.Errorf("final = %s (%+v), want resolved(success)", out.Final, out.Final)
	}
	if out.Ticks != 0 || out.Counters.Get(EssenceDamage) != 10 {
		t.Errorf("ticks/essence damage = %d/%d, want 0/10", out.Ticks, out.Counters.Get(EssenceDamage))
	}
	if r.game.Boss.Energy != r.game.Boss.MaxEnergy {
		t.Errorf("energy = %v, want refilled to %v", r.game.Boss.Energy, r.game.Boss.MaxEnergy)
	}
}
