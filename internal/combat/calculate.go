package combat

import (
	"errors"
	"fmt"
	"math"
)

var ErrNoWeapon = errors.New("weapon has no attack speed")

// Setup is one player loadout against an optional target.
type Setup struct {
	Levels Levels  `json:"levels"`
	Weapon Weapon  `json:"weapon"`
	Extra  Bonuses `json:"extra"`
	Gear   Gear    `json:"gear"`
	Stance string  `json:"stance,omitempty"`
	Prayer string  `json:"prayer,omitempty"`
	Potion string  `json:"potion,omitempty"`
	// Spell replaces the weapon's built-in max hit when casting with a
	// magic weapon.
	Spell  *Spell  `json:"spell,omitempty"`

	Target           *Monster `json:"target,omitempty"`
	OnTask           bool     `json:"on_task,omitempty"`
	DefenceReduction float64  `json:"defence_reduction,omitempty"`
	OverheadSeconds  float64  `json:"overhead_seconds,omitempty"`
}

type Result struct {
	Weapon     string     `json:"weapon"`
	Style      Style      `json:"style"`
	AttackType AttackType `json:"attack_type"`
	Stance     string     `json:"stance"`

	EffectiveAttack   int `json:"effective_attack"`
	EffectiveStrength int `json:"effective_strength"`
	AttackRoll        int `json:"attack_roll"`
	DefenceRoll       int `json:"defence_roll"`
	MinHit            int `json:"min_hit"`
	MaxHit            int `json:"max_hit"`
	// Splats lists the max hit of every hitsplat one attack produces.
	Splats []int `json:"splats"`

	HitChance       float64 `json:"hit_chance"`
	Speed           int     `json:"speed_ticks"`
	DamagePerAttack float64 `json:"damage_per_attack"`
	DPS             float64 `json:"dps"`

	KillTime     float64 `json:"kill_time,omitempty"`
	KillsPerHour float64 `json:"kills_per_hour,omitempty"`
}

// Calculate resolves a setup into rolls, max hit and DPS.
func Calculate(s Setup) (Result, error) {
	w := s.Weapon
	if w.Speed <= 0 {
		return Result{}, fmt.Errorf("%s: %w", w.Name, ErrNoWeapon)
	}
	style := w.Style()
	stance, err := LookupStance(style, s.Stance)
	if err != nil {
		return Result{}, err
	}
	pr, err := LookupPrayer(s.Prayer)
	if err != nil {
		return Result{}, err
	}
	boost, err := PotionBoost(s.Potion, s.Levels)
	if err != nil {
		return Result{}, err
	}

	var tg Target
	if s.Target != nil {
		tg = Target{Undead: s.Target.Undead, Dragon: s.Target.Dragon, OnTask: s.OnTask}
	}
	bonus := w.Bonuses.Add(s.Extra)
	voidAcc, voidDmg := s.Gear.Void(style)
	gearAcc, gearDmg := s.Gear.Multipliers(style, w.Type, tg)
	lv := s.Levels

	r := Result{
		Weapon:     w.Name,
		Style:      style,
		AttackType: w.Type,
		Stance:     stance.Name,
		Speed:      max(w.Speed+stance.SpeedDelta, 1),
	}

	switch style {
	case Melee:
		r.EffectiveAttack = EffectiveLevel(lv.Attack, boost.Attack, pr.Attack, stance.AttackBonus, false, voidAcc)
		r.EffectiveStrength = EffectiveLevel(lv.Strength, boost.Strength, pr.Strength, stance.StrBonus, false, voidDmg)
		r.AttackRoll = AttackRoll(r.EffectiveAttack, bonus.Attack(w.Type), gearAcc)
		r.MaxHit = MaxHit(r.EffectiveStrength, bonus.MeleeStrength, gearDmg)
	case Ranged:
		r.EffectiveAttack = EffectiveLevel(lv.Ranged, boost.Ranged, pr.RangedAtk, stance.AttackBonus, false, voidAcc)
		r.EffectiveStrength = EffectiveLevel(lv.Ranged, boost.Ranged, pr.RangedStr, stance.AttackBonus, false, voidDmg)
		r.AttackRoll = AttackRoll(r.EffectiveAttack, bonus.Ranged, gearAcc)
		r.MaxHit = MaxHit(r.EffectiveStrength, bonus.RangedStrength, gearDmg)
	case Magic:
		r.EffectiveAttack = EffectiveLevel(lv.Magic, boost.Magic, pr.MagicAtk, stance.AttackBonus, true, voidAcc)
		r.EffectiveStrength = r.EffectiveAttack
		r.AttackRoll = AttackRoll(r.EffectiveAttack, bonus.Magic, gearAcc)
		base := w.BaseMaxHit
		if s.Spell != nil {
			base = s.Spell.MaxHit
		}
		r.MaxHit = MagicMaxHit(base, bonus.MagicDamage, gearDmg*voidDmg)
	}

	if t := s.Target; t != nil {
		level := t.Defence
		if s.DefenceReduction > 0 {
			level = int(float64(level) * (1 - min(s.DefenceReduction, 1)))
		}
		if style == Magic {
			level = t.MagicLvl
		}
		r.DefenceRoll = DefenceRoll(level, t.DefenceBonus(w.Type))
	}

	key := normalizeKey(w.Name)
	if key == "twisted_bow" && s.Target != nil {
		acc, dmg := TwistedBow(s.Target.MagicLvl)
		r.AttackRoll = floor(float64(r.AttackRoll) * acc)
		r.MaxHit = floor(float64(r.MaxHit) * dmg)
	}

	r.HitChance = HitChance(r.AttackRoll, r.DefenceRoll)
	r.Splats = []int{r.MaxHit}
	r.DamagePerAttack = r.HitChance * float64(r.MaxHit) / 2

	switch key {
	case "osmumtens_fang":
		r.HitChance = FangHitChance(r.AttackRoll, r.DefenceRoll)
		r.MinHit, r.MaxHit = FangRange(r.MaxHit)
		r.Splats = []int{r.MaxHit}
		r.DamagePerAttack = r.HitChance * float64(r.MinHit+r.MaxHit) / 2
	case "scythe_of_vitur":
		size := 1
		if s.Target != nil {
			size = s.Target.Size
		}
		r.DamagePerAttack = ScytheDamage(r.HitChance, r.MaxHit, size)
		if size >= 2 {
			r.Splats = append(r.Splats, floor(float64(r.MaxHit)*0.5))
		}
		if size >= 3 {
			r.Splats = append(r.Splats, floor(float64(r.MaxHit)*0.25))
		}
	}

	r.DPS = DPS(r.DamagePerAttack, r.Speed)
	if s.Target != nil {
		r.KillTime = KillTime(s.Target.Hitpoints, r.DPS)
		r.KillsPerHour = KillsPerHour(r.KillTime, s.OverheadSeconds)
		if math.IsInf(r.KillTime, 1) {
			r.KillTime = 0
		}
	}
	return r, nil
}
