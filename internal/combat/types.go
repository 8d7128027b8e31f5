package combat

import (
	"fmt"
	"strings"
)

type Style string

const (
	Melee  Style = "melee"
	Ranged Style = "ranged"
	Magic  Style = "magic"
)

type AttackType string

const (
	Stab      AttackType = "stab"
	Slash     AttackType = "slash"
	Crush     AttackType = "crush"
	RangedAtk AttackType = "ranged"
	MagicAtk  AttackType = "magic"
)

func ParseAttackType(s string) (AttackType, error) {
	switch t := AttackType(strings.ToLower(strings.TrimSpace(s))); t {
	case Stab, Slash, Crush, RangedAtk, MagicAtk:
		return t, nil
	}
	return "", fmt.Errorf("unknown attack type %q", s)
}

// Style returns the combat style an attack type belongs to.
func (t AttackType) Style() Style {
	switch t {
	case RangedAtk:
		return Ranged
	case MagicAtk:
		return Magic
	}
	return Melee
}

// Bonuses are summed equipment stats. MagicDamage is a fraction (0.15 = 15%).
type Bonuses struct {
	Stab   int `json:"stab"`
	Slash  int `json:"slash"`
	Crush  int `json:"crush"`
	Ranged int `json:"ranged"`
	Magic  int `json:"magic"`

	MeleeStrength  int     `json:"melee_strength"`
	RangedStrength int     `json:"ranged_strength"`
	MagicDamage    float64 `json:"magic_damage"`
	Prayer         int     `json:"prayer"`
}

func (b Bonuses) Add(o Bonuses) Bonuses {
	return Bonuses{
		Stab:           b.Stab + o.Stab,
		Slash:          b.Slash + o.Slash,
		Crush:          b.Crush + o.Crush,
		Ranged:         b.Ranged + o.Ranged,
		Magic:          b.Magic + o.Magic,
		MeleeStrength:  b.MeleeStrength + o.MeleeStrength,
		RangedStrength: b.RangedStrength + o.RangedStrength,
		MagicDamage:    b.MagicDamage + o.MagicDamage,
		Prayer:         b.Prayer + o.Prayer,
	}
}

func (b Bonuses) Attack(t AttackType) int {
	switch t {
	case Stab:
		return b.Stab
	case Slash:
		return b.Slash
	case Crush:
		return b.Crush
	case RangedAtk:
		return b.Ranged
	case MagicAtk:
		return b.Magic
	}
	return 0
}

type Weapon struct {
	Name        string     `json:"name"`
	Speed       int        `json:"speed"`
	Type        AttackType `json:"attack_type"`
	Bonuses     Bonuses    `json:"bonuses"`
	TwoHanded   bool       `json:"two_handed,omitempty"`
	BaseMaxHit  int        `json:"base_max_hit,omitempty"`
	SpecialCost int        `json:"special_cost,omitempty"`
}

func (w Weapon) Style() Style { return w.Type.Style() }

type Spellbook string

const (
	Standard Spellbook = "standard"
	Ancients Spellbook = "ancients"
	Arceuus  Spellbook = "arceuus"
)

// Spell is a combat spell. MaxHit is the base max hit before magic damage
// bonuses.
type Spell struct {
	Name        string    `json:"name"`
	Book        Spellbook `json:"spellbook"`
	Level       int       `json:"magic_level"`
	MaxHit      int       `json:"base_max_hit"`
	MultiTarget bool      `json:"multi_target,omitempty"`
}

// Monster holds the defensive side of an NPC plus the flags gear bonuses
// key on.
type Monster struct {
	Name      string `json:"name"`
	Hitpoints int    `json:"hitpoints"`
	Defence   int    `json:"defence_level"`
	MagicLvl  int    `json:"magic_level"`
	Size      int    `json:"size"`

	StabDef   int `json:"stab_defence"`
	SlashDef  int `json:"slash_defence"`
	CrushDef  int `json:"crush_defence"`
	RangedDef int `json:"ranged_defence"`
	MagicDef  int `json:"magic_defence"`

	Undead bool `json:"undead,omitempty"`
	Demon  bool `json:"demon,omitempty"`
	Dragon bool `json:"dragon,omitempty"`
}

func (m Monster) DefenceBonus(t AttackType) int {
	switch t {
	case Stab:
		return m.StabDef
	case Slash:
		return m.SlashDef
	case Crush:
		return m.CrushDef
	case RangedAtk:
		return m.RangedDef
	case MagicAtk:
		return m.MagicDef
	}
	return 0
}

type Levels struct {
	Attack   int `json:"attack"`
	Strength int `json:"strength"`
	Ranged   int `json:"ranged"`
	Magic    int `json:"magic"`
}

func MaxedLevels() Levels { return Levels{Attack: 99, Strength: 99, Ranged: 99, Magic: 99} }

// Stance is the selected attack style's invisible level bonus.
type Stance struct {
	Name        string `json:"name"`
	Style       Style  `json:"style"`
	AttackBonus int    `json:"attack_bonus"`
	StrBonus    int    `json:"strength_bonus"`
	SpeedDelta  int    `json:"speed_delta,omitempty"`
}

var stances = map[Style][]Stance{
	Melee: {
		{Name: "accurate", Style: Melee, AttackBonus: 3},
		{Name: "aggressive", Style: Melee, StrBonus: 3},
		{Name: "controlled", Style: Melee, AttackBonus: 1, StrBonus: 1},
		{Name: "defensive", Style: Melee},
	},
	Ranged: {
		{Name: "accurate", Style: Ranged, AttackBonus: 3},
		{Name: "rapid", Style: Ranged, SpeedDelta: -1},
		{Name: "longrange", Style: Ranged},
	},
	Magic: {
		{Name: "accurate", Style: Magic, AttackBonus: 3},
		{Name: "autocast", Style: Magic},
		{Name: "defensive", Style: Magic},
	},
}

// LookupStance finds a stance by name for a style. An empty name picks the
// style's damage stance.
func LookupStance(style Style, name string) (Stance, error) {
	if name == "" {
		switch style {
		case Melee:
			name = "aggressive"
		case Ranged:
			name = "rapid"
		default:
			name = "autocast"
		}
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range stances[style] {
		if s.Name == name {
			return s, nil
		}
	}
	return Stance{}, fmt.Errorf("no %s stance %q", style, name)
}
