package tempoross

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"osrs_sim/internal/config"
	"osrs_sim/internal/phase"
	"osrs_sim/internal/tick"
)

// Strategy chooses the player's next actions. Implementations hold only
// immutable configuration; anything a run mutates lives in the value
// returned by Fork.
type Strategy interface {
	Name() string
	Fork() Strategy
	Decide(v View, rng *rand.Rand) []Proposal
}

// Proposal asks the run to schedule Action at the current tick plus Delay.
type Proposal struct {
	Action   Action
	Delay    int
	Priority tick.Priority
}

// View is a read-only snapshot of one tick handed to a strategy.
type View struct {
	Tick          tick.Tick
	State         phase.State
	Counters      Counters
	PendingPlayer int
	Player        Player
	Timing        config.Timing
	Boss          Boss
	Cannons       []Cannon
	Hazards       Hazards
	Spots         []SpotKind
	Pools         int
}

func (v View) Raw() int      { return v.Counters.Get(RawHeld) }
func (v View) Held() int     { return v.Counters.Held() }
func (v View) Capacity() int { return v.Player.Capacity }

// Duration is the number of ticks a player action takes to complete.
func (v View) Duration(a Action) int {
	switch a.Kind {
	case Fish, Harpoon:
		return v.Player.AttemptTicks
	case Cook:
		return v.Timing.Cook
	case Deposit:
		return v.Timing.Deposit
	case Repair:
		return v.Timing.Repair
	case Douse:
		return v.Timing.Douse
	}
	return 0
}

// Propose wraps a at normal priority with its natural duration.
func (v View) Propose(a Action) []Proposal {
	return []Proposal{{Action: a, Delay: v.Duration(a), Priority: tick.Normal}}
}

// Policy is the parametrised decision rule behind every named preset.
type Policy struct {
	Label            string  `json:"name"`
	CookRatio        float64 `json:"cook_ratio"`
	FireManagement   bool    `json:"fire_management"`
	DepositFraction  float64 `json:"deposit_fraction"`
	PreferDoubleSpot bool    `json:"prefer_double_spot"`
	Note             string  `json:"note,omitempty"`
}

func (p *Policy) Name() string { return p.Label }

func (p *Policy) Fork() Strategy {
	cp := *p
	return &cp
}

// Decide proposes one action whenever the player is idle. Hazards come
// first when fire management is on; while surfaced the player fishes until
// the deposit threshold, cooking a CookRatio share of decisions; while
// submerged the player harpoons a spirit pool.
func (p *Policy) Decide(v View, rng *rand.Rand) []Proposal {
	if v.PendingPlayer > 0 || v.State.Terminal() {
		return nil
	}
	if p.FireManagement {
		if i := v.Hazards.FirstFire(); i >= 0 {
			return v.Propose(Action{Kind: Douse, Target: i})
		}
		if i := v.Hazards.FirstDamagedMast(); i >= 0 {
			return v.Propose(Action{Kind: Repair, Target: i})
		}
	}

	switch v.State.Stage {
	case phase.Surfaced:
		shouldCook := p.CookRatio > 0 && v.Raw() > 0 && rng.Float64() < p.CookRatio
		held := v.Held()
		switch {
		case held >= v.Capacity() && held > 0:
			return v.Propose(Action{Kind: Deposit, Target: emptiestCannon(v.Cannons)})
		case held > 0 && float64(held) >= p.DepositFraction*float64(v.Capacity()):
			if shouldCook {
				return v.Propose(Action{Kind: Cook})
			}
			return v.Propose(Action{Kind: Deposit, Target: emptiestCannon(v.Cannons)})
		case shouldCook:
			return v.Propose(Action{Kind: Cook})
		}
		return v.Propose(Action{Kind: Fish, Target: p.spot(v.Spots)})
	case phase.Submerged:
		return v.Propose(Action{Kind: Harpoon, Target: 0})
	}
	return nil
}

func (p *Policy) spot(spots []SpotKind) int {
	if p.PreferDoubleSpot {
		for i, s := range spots {
			if s == DoubleSpot {
				return i
			}
		}
	}
	return 0
}

func emptiestCannon(cs []Cannon) int {
	best := 0
	for i, c := range cs {
		if c.Loaded() < cs[best].Loaded() {
			best = i
		}
	}
	return best
}

// Idle never acts.
type Idle struct{}

func (Idle) Name() string                        { return "idle" }
func (i Idle) Fork() Strategy                    { return i }
func (Idle) Decide(View, *rand.Rand) []Proposal { return nil }

// Scripted replays fixed proposals keyed by the tick they are proposed at.
type Scripted struct {
	Label string
	Steps map[tick.Tick][]Proposal

	remaining map[tick.Tick][]Proposal
}

func (s *Scripted) Name() string {
	if s.Label == "" {
		return "scripted"
	}
	return s.Label
}

func (s *Scripted) Fork() Strategy {
	cp := &Scripted{Label: s.Label, Steps: s.Steps, remaining: make(map[tick.Tick][]Proposal, len(s.Steps))}
	for t, ps := range s.Steps {
		cp.remaining[t] = ps
	}
	return cp
}

func (s *Scripted) Decide(v View, _ *rand.Rand) []Proposal {
	if s.remaining == nil {
		return s.Steps[v.Tick]
	}
	ps := s.remaining[v.Tick]
	delete(s.remaining, v.Tick)
	return ps
}

func Balanced() *Policy {
	return &Policy{Label: "balanced", CookRatio: 0.5, FireManagement: true, DepositFraction: 0.7, PreferDoubleSpot: true,
		Note: "cook half, deposit at 70% inventory, fight hazards"}
}

func Aggressive() *Policy {
	return &Policy{Label: "aggressive", DepositFraction: 0.9, PreferDoubleSpot: true,
		Note: "raw fish only, deposit late"}
}

func FullCook() *Policy {
	return &Policy{Label: "full-cook", CookRatio: 1, FireManagement: true, DepositFraction: 0.8, PreferDoubleSpot: true,
		Note: "cook every fish for maximum cannon damage"}
}

func Firefighting() *Policy {
	return &Policy{Label: "firefighting", FireManagement: true, DepositFraction: 0.5,
		Note: "hazards first, small raw deposits"}
}

// Presets returns fresh copies of the built-in policies.
func Presets() []Strategy {
	return []Strategy{Balanced(), Aggressive(), FullCook(), Firefighting()}
}

func PolicyFromDef(d config.StrategyDef) *Policy {
	return &Policy{
		Label:            d.Name,
		CookRatio:        d.CookRatio,
		FireManagement:   d.FireManagement,
		DepositFraction:  d.DepositFraction,
		PreferDoubleSpot: d.PreferDoubleSpot,
		Note:             d.Note,
	}
}

var ErrUnknownStrategy = errors.New("unknown strategy")

// Registry resolves strategy names. File-defined strategies replace presets
// of the same name.
type Registry struct {
	byName map[string]Strategy
}

func NewRegistry(defs *config.StrategiesConfig) *Registry {
	r := &Registry{byName: map[string]Strategy{}}
	for _, s := range Presets() {
		r.byName[s.Name()] = s
	}
	r.byName[Idle{}.Name()] = Idle{}
	if defs != nil {
		for _, d := range defs.Strategies {
			if d.Name != "" {
				r.byName[d.Name] = PolicyFromDef(d)
			}
		}
	}
	return r
}

func (r *Registry) Get(name string) (Strategy, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Policies returns every registered policy, idle excluded, sorted by name.
func (r *Registry) Policies() []Strategy {
	var out []Strategy
	for _, n := range r.Names() {
		if p, ok := r.byName[n].(*Policy); ok {
			out = append(out, p)
		}
	}
	return out
}

// Resolve maps a comma-free selector to strategies: "all" is every policy,
// anything else a single registered name.
func (r *Registry) Resolve(selector string) ([]Strategy, error) {
	if selector == "" || selector == "all" {
		return r.Policies(), nil
	}
	s, err := r.Get(selector)
	if err != nil {
		return nil, err
	}
	return []Strategy{s}, nil
}
