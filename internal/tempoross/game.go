package tempoross

import (
	"math"
	"math/rand"

	"osrs_sim/internal/config"
	"osrs_sim/internal/phase"
)

// Game is the mutable world of one run: boss pools, cannons, hazards and
// the player's progress counters.
type Game struct {
	rules  *config.Rules
	player Player
	rng    *rand.Rand

	Boss     Boss
	Cannons  []Cannon
	Hazards  Hazards
	Spots    []SpotKind
	Pools    int
	Counters Counters
}

func newGame(rules *config.Rules, p Player, rng *rand.Rand) *Game {
	energy, essence := rules.BossPools(p.Config.GroupSize)
	g := &Game{
		rules:   rules,
		player:  p,
		rng:     rng,
		Boss:    Boss{Energy: energy, MaxEnergy: energy, Essence: essence, MaxEssence: essence},
		Cannons: make([]Cannon, rules.Layout.Cannons),
		Hazards: Hazards{
			DamagedMasts: make([]bool, rules.Layout.Masts),
			BurningTotem: make([]bool, rules.Layout.Totems),
		},
		Pools: rules.Layout.Pools,
	}
	for _, s := range rules.Layout.Spots {
		kind := NormalSpot
		if s == "double" {
			kind = DoubleSpot
		}
		g.Spots = append(g.Spots, kind)
	}
	return g
}

// applied describes what an action did. A rejected action changed nothing.
type applied struct {
	Rejected bool
	Reason   string
	Volley   bool
}

func rejected(reason string) applied { return applied{Rejected: true, Reason: reason} }

func inRange(i, n int) bool { return i >= 0 && i < n }

// apply executes a due action. Only malformed actions return an error.
func (g *Game) apply(a Action, stage phase.Stage) (applied, error) {
	switch a.Kind {
	case Fish:
		if !inRange(a.Target, len(g.Spots)) {
			return applied{}, ErrUnknownTarget
		}
		return g.fish(g.Spots[a.Target], stage), nil
	case Cook:
		return g.cook(), nil
	case Deposit:
		if !inRange(a.Target, len(g.Cannons)) {
			return applied{}, ErrUnknownTarget
		}
		return g.deposit(a.Target, stage), nil
	case Repair:
		if !inRange(a.Target, len(g.Hazards.DamagedMasts)) {
			return applied{}, ErrUnknownTarget
		}
		return g.clearHazard(g.Hazards.DamagedMasts, a.Target, Repairs, "mast intact"), nil
	case Douse:
		if !inRange(a.Target, len(g.Hazards.BurningTotem)) {
			return applied{}, ErrUnknownTarget
		}
		return g.clearHazard(g.Hazards.BurningTotem, a.Target, FiresDoused, "totem not burning"), nil
	case Harpoon:
		if !inRange(a.Target, g.Pools) {
			return applied{}, ErrUnknownTarget
		}
		return g.harpoon(stage), nil
	case FireCannons:
		return g.fireCannons(stage), nil
	}
	return applied{}, ErrUnknownAction
}

func (g *Game) fish(spot SpotKind, stage phase.Stage) applied {
	if stage != phase.Surfaced {
		return rejected("spots closed")
	}
	if g.Counters.Held() >= g.player.Capacity {
		return rejected("inventory full")
	}
	if g.rng.Float64() >= g.player.CatchChance {
		return applied{}
	}
	if r := g.player.Harpoon.AutoCookRatio; r > 0 && g.rng.Float64() < r {
		g.Counters.Add(CookedHeld, 1)
		g.Counters.Add(FishCooked, 1)
	} else {
		g.Counters.Add(RawHeld, 1)
	}
	g.Counters.Add(FishCaught, 1)

	if spot == DoubleSpot && g.rng.Float64() < g.rules.Catch.DoubleSpotChance && g.Counters.Held() < g.player.Capacity {
		g.Counters.Add(RawHeld, 1)
		g.Counters.Add(FishCaught, 1)
	}
	return applied{}
}

func (g *Game) cook() applied {
	if err := g.Counters.Take(RawHeld, 1); err != nil {
		return rejected(err.Error())
	}
	g.Counters.Add(CookedHeld, 1)
	g.Counters.Add(FishCooked, 1)
	return applied{}
}

func (g *Game) deposit(i int, stage phase.Stage) applied {
	if stage != phase.Surfaced {
		return rejected("cannons submerged")
	}
	c := &g.Cannons[i]
	space := g.rules.Cannon.Capacity - c.Loaded()
	raw := min(g.Counters.Get(RawHeld), space)
	cooked := min(g.Counters.Get(CookedHeld), space-raw)
	if raw+cooked <= 0 {
		return rejected("nothing to deposit")
	}
	if err := g.Counters.Take(RawHeld, raw); err != nil {
		return rejected(err.Error())
	}
	if err := g.Counters.Take(CookedHeld, cooked); err != nil {
		g.Counters.Add(RawHeld, raw)
		return rejected(err.Error())
	}
	c.Raw += raw
	c.Cooked += cooked
	g.Counters.Add(RawDeposited, raw)
	g.Counters.Add(CookedDeposited, cooked)
	return applied{Volley: g.loaded() >= g.rules.Cannon.FireThreshold}
}

func (g *Game) clearHazard(flags []bool, i int, tally Counter, reason string) applied {
	if !flags[i] {
		return rejected(reason)
	}
	flags[i] = false
	g.Counters.Add(tally, 1)
	return applied{}
}

func (g *Game) harpoon(stage phase.Stage) applied {
	if stage != phase.Submerged {
		return rejected("no spirit pool")
	}
	if g.rng.Float64() >= g.player.CatchChance {
		return applied{}
	}
	dealt := g.Boss.DamageEssence(g.rules.Boss.HarpoonDamage)
	if dealt > 0 {
		g.Counters.Add(SpiritHarpoons, 1)
		g.Counters.Add(EssenceDamage, int(math.Round(dealt)))
	}
	return applied{}
}

func (g *Game) fireCannons(stage phase.Stage) applied {
	if stage != phase.Surfaced {
		return rejected("boss submerged")
	}
	dmg := 0
	for i := range g.Cannons {
		c := &g.Cannons[i]
		dmg += c.Raw*g.rules.Cannon.RawDamage + c.Cooked*g.rules.Cannon.CookedDamage
		*c = Cannon{}
	}
	if dmg == 0 {
		return rejected("cannons empty")
	}
	dealt := g.Boss.DamageEnergy(float64(dmg))
	g.Counters.Add(EnergyDamage, int(math.Round(dealt)))
	return applied{}
}

func (g *Game) loaded() int {
	n := 0
	for _, c := range g.Cannons {
		n += c.Loaded()
	}
	return n
}

func (g *Game) clearCannons() {
	for i := range g.Cannons {
		g.Cannons[i] = Cannon{}
	}
}

// step advances the world by one tick after the tick's actions ran: storm
// hazards while surfaced, energy regeneration while submerged.
func (g *Game) step(s phase.State) {
	switch s.Stage {
	case phase.Surfaced:
		storm := g.rules.Storm[min(max(s.Storm, 0), len(g.rules.Storm)-1)]
		if g.rng.Float64() < storm.WaveChance {
			g.Counters.Add(WavesSurvived, 1)
		}
		for i, burning := range g.Hazards.BurningTotem {
			if !burning && g.rng.Float64() < storm.FireChance {
				g.Hazards.BurningTotem[i] = true
			}
		}
		for i, damaged := range g.Hazards.DamagedMasts {
			if !damaged && g.rng.Float64() < storm.MastChance {
				g.Hazards.DamagedMasts[i] = true
			}
		}
	case phase.Submerged:
		g.Boss.Regenerate(g.rules.Boss.EnergyRegenPerTick)
	}
}

// triggers reports the phase triggers raised by the current world state.
func (g *Game) triggers(s phase.State) []phase.Trigger {
	var out []phase.Trigger
	switch s.Stage {
	case phase.Surfaced:
		if g.Boss.Submerged() {
			out = append(out, phase.EnergyDepleted)
		}
	case phase.Submerged:
		if g.Boss.Defeated() {
			out = append(out, phase.EssenceDepleted)
		}
		if g.Boss.Energy >= g.Boss.MaxEnergy {
			out = append(out, phase.EnergyRestored)
		}
	}
	return out
}
