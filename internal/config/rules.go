package config

import (
	"errors"
	"fmt"
)

var ErrInvalidRules = errors.New("config: invalid rules")

// Rules is the read-only ruleset shared by every simulation run.
type Rules struct {
	MaxTicks     int          `yaml:"max_ticks"`
	LobbySeconds float64      `yaml:"lobby_seconds"`
	Boss         BossRules    `yaml:"boss"`
	Cannon       CannonRules  `yaml:"cannon"`
	Layout       Layout       `yaml:"layout"`
	Storm        []StormLevel `yaml:"storm"`
	Timing       Timing       `yaml:"timing"`
	Points       PointRules   `yaml:"points"`
	Permits      PermitRules  `yaml:"permits"`
	XP           XPRules      `yaml:"xp"`
	Catch        CatchRules   `yaml:"catch"`
}

type BossRules struct {
	SoloEnergy         float64 `yaml:"solo_energy"`
	SoloEssence        float64 `yaml:"solo_essence"`
	EnergyPerPlayer    Range   `yaml:"energy_per_player"`
	EssencePerPlayer   Range   `yaml:"essence_per_player"`
	MaxPlayers         int     `yaml:"max_players"`
	EnergyRegenPerTick float64 `yaml:"energy_regen_per_tick"`
	EnrageCycles       int     `yaml:"enrage_cycles"`
	HarpoonDamage      float64 `yaml:"harpoon_damage"`
}

// Range is a per-player value interpolated from small groups (From) to a
// full world (To).
type Range struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

type CannonRules struct {
	Capacity      int `yaml:"capacity"`
	RawDamage     int `yaml:"raw_damage"`
	CookedDamage  int `yaml:"cooked_damage"`
	FireThreshold int `yaml:"fire_threshold"`
	FireDelay     int `yaml:"fire_delay"`
}

type Layout struct {
	Cannons int      `yaml:"cannons"`
	Masts   int      `yaml:"masts"`
	Totems  int      `yaml:"totems"`
	Spots   []string `yaml:"spots"`
	Pools   int      `yaml:"pools"`
}

type StormLevel struct {
	Name       string  `yaml:"name"`
	WaveChance float64 `yaml:"wave_chance"`
	FireChance float64 `yaml:"fire_chance"`
	MastChance float64 `yaml:"mast_chance"`
}

type Timing struct {
	BaseAttempt int `yaml:"base_attempt"`
	Cook        int `yaml:"cook"`
	Deposit     int `yaml:"deposit"`
	Repair      int `yaml:"repair"`
	Douse       int `yaml:"douse"`
}

type PointRules struct {
	Fish          int `yaml:"fish"`
	Cook          int `yaml:"cook"`
	DepositRaw    int `yaml:"deposit_raw"`
	DepositCooked int `yaml:"deposit_cooked"`
	Repair        int `yaml:"repair"`
	Douse         int `yaml:"douse"`
	Wave          int `yaml:"wave"`
	SpiritHarpoon int `yaml:"spirit_harpoon"`
}

type PermitRules struct {
	Threshold int `yaml:"threshold"`
	Step      int `yaml:"step"`
}

type XPRules struct {
	FishingMin float64 `yaml:"fishing_min"`
	FishingMax float64 `yaml:"fishing_max"`
	Cooking    float64 `yaml:"cooking"`
}

type CatchRules struct {
	BaseRate         float64 `yaml:"base_rate"`
	MaxRate          float64 `yaml:"max_rate"`
	Denominator      float64 `yaml:"denominator"`
	DoubleSpotChance float64 `yaml:"double_spot_chance"`
	InventorySlots   int     `yaml:"inventory_slots"`
	Buckets          int     `yaml:"buckets"`
}

// DefaultRules returns the solo ruleset used when no rules file is present.
func DefaultRules() *Rules {
	return &Rules{
		MaxTicks:     2000,
		LobbySeconds: 30,
		Boss: BossRules{
			SoloEnergy:         266,
			SoloEssence:        250,
			EnergyPerPlayer:    Range{From: 2600, To: 1800},
			EssencePerPlayer:   Range{From: 2500, To: 1700},
			MaxPlayers:         40,
			EnergyRegenPerTick: 3,
			EnrageCycles:       3,
			HarpoonDamage:      10,
		},
		Cannon: CannonRules{Capacity: 40, RawDamage: 10, CookedDamage: 15, FireThreshold: 10, FireDelay: 1},
		Layout: Layout{Cannons: 2, Masts: 2, Totems: 4, Spots: []string{"normal", "double"}, Pools: 2},
		Storm: []StormLevel{
			{Name: "low", WaveChance: 0.01, FireChance: 0.005, MastChance: 0.005},
			{Name: "medium", WaveChance: 0.02, FireChance: 0.01, MastChance: 0.01},
			{Name: "high", WaveChance: 0.03, FireChance: 0.02, MastChance: 0.015},
		},
		Timing: Timing{BaseAttempt: 5, Cook: 3, Deposit: 2, Repair: 2, Douse: 2},
		Points: PointRules{
			Fish: 5, Cook: 10, DepositRaw: 20, DepositCooked: 65,
			Repair: 40, Douse: 40, Wave: 10, SpiritHarpoon: 55,
		},
		Permits: PermitRules{Threshold: 2000, Step: 700},
		XP:      XPRules{FishingMin: 65, FishingMax: 142, Cooking: 10},
		Catch: CatchRules{
			BaseRate: 170, MaxRate: 255, Denominator: 256,
			DoubleSpotChance: 0.5, InventorySlots: 28, Buckets: 4,
		},
	}
}

// Validate reports the first inconsistency found in r.
func (r *Rules) Validate() error {
	switch {
	case r.MaxTicks <= 0:
		return fmt.Errorf("%w: max_ticks must be positive, got %d", ErrInvalidRules, r.MaxTicks)
	case r.Boss.SoloEnergy <= 0 || r.Boss.SoloEssence <= 0:
		return fmt.Errorf("%w: boss pools must be positive", ErrInvalidRules)
	case r.Boss.EnrageCycles <= 0:
		return fmt.Errorf("%w: enrage_cycles must be positive", ErrInvalidRules)
	case r.Cannon.Capacity <= 0:
		return fmt.Errorf("%w: cannon capacity must be positive", ErrInvalidRules)
	case r.Cannon.FireDelay < 0:
		return fmt.Errorf("%w: cannon fire_delay must not be negative", ErrInvalidRules)
	case r.Layout.Cannons <= 0 || len(r.Layout.Spots) == 0 || r.Layout.Pools <= 0:
		return fmt.Errorf("%w: layout needs cannons, spots and pools", ErrInvalidRules)
	case r.Layout.Masts < 0 || r.Layout.Totems < 0:
		return fmt.Errorf("%w: masts and totems must not be negative", ErrInvalidRules)
	case len(r.Storm) == 0:
		return fmt.Errorf("%w: at least one storm level required", ErrInvalidRules)
	case r.Timing.BaseAttempt <= 1:
		return fmt.Errorf("%w: base_attempt must exceed 1", ErrInvalidRules)
	case r.Permits.Step <= 0:
		return fmt.Errorf("%w: permit step must be positive", ErrInvalidRules)
	case r.Catch.Denominator <= 0:
		return fmt.Errorf("%w: catch denominator must be positive", ErrInvalidRules)
	}
	for _, lvl := range r.Storm {
		for _, p := range []float64{lvl.WaveChance, lvl.FireChance, lvl.MastChance} {
			if p < 0 || p > 1 {
				return fmt.Errorf("%w: storm %q chance %v outside [0, 1]", ErrInvalidRules, lvl.Name, p)
			}
		}
	}
	for _, s := range r.Layout.Spots {
		if s != "normal" && s != "double" {
			return fmt.Errorf("%w: unknown spot type %q", ErrInvalidRules, s)
		}
	}
	return nil
}

// BossPools returns the starting energy and essence for a group of n players.
func (r *Rules) BossPools(n int) (energy, essence float64) {
	if n < 1 {
		n = 1
	}
	if r.Boss.MaxPlayers > 0 && n > r.Boss.MaxPlayers {
		n = r.Boss.MaxPlayers
	}
	if n == 1 {
		return r.Boss.SoloEnergy, r.Boss.SoloEssence
	}
	t := 0.0
	if span := r.Boss.MaxPlayers - 2; span > 0 {
		t = float64(n-2) / float64(span)
	}
	lerp := func(g Range) float64 { return g.From + (g.To-g.From)*t }
	return float64(n) * lerp(r.Boss.EnergyPerPlayer), float64(n) * lerp(r.Boss.EssencePerPlayer)
}

// PermitsFor converts a point total into reward permits.
func (r *Rules) PermitsFor(points int) int {
	if points < r.Permits.Threshold {
		return 0
	}
	return 1 + (points-r.Permits.Threshold)/r.Permits.Step
}
