package data

import (
	"encoding/json"
	"fmt"
	"slices"

	"osrs_sim/internal/combat"
)

// itemRecord is the subset of an osrsreboxed-db item entry we read.
type itemRecord struct {
	Name            string `json:"name"`
	EquipableWeapon bool   `json:"equipable_weapon"`
	Equipment       *struct {
		AttackStab     int    `json:"attack_stab"`
		AttackSlash    int    `json:"attack_slash"`
		AttackCrush    int    `json:"attack_crush"`
		AttackMagic    int    `json:"attack_magic"`
		AttackRanged   int    `json:"attack_ranged"`
		MeleeStrength  int    `json:"melee_strength"`
		RangedStrength int    `json:"ranged_strength"`
		MagicDamage    int    `json:"magic_damage"`
		Prayer         int    `json:"prayer"`
		Slot           string `json:"slot"`
	} `json:"equipment"`
	Weapon *struct {
		AttackSpeed int    `json:"attack_speed"`
		WeaponType  string `json:"weapon_type"`
	} `json:"weapon"`
}

type monsterRecord struct {
	Name          string   `json:"name"`
	Hitpoints     int      `json:"hitpoints"`
	DefenceLevel  int      `json:"defence_level"`
	MagicLevel    int      `json:"magic_level"`
	DefenceStab   int      `json:"defence_stab"`
	DefenceSlash  int      `json:"defence_slash"`
	DefenceCrush  int      `json:"defence_crush"`
	DefenceRanged int      `json:"defence_ranged"`
	DefenceMagic  int      `json:"defence_magic"`
	Size          int      `json:"size"`
	Attributes    []string `json:"attributes"`
}

// weaponTypes maps osrsreboxed weapon_type to the attack it defaults to.
var weaponTypes = map[string]combat.AttackType{
	"stab_sword": combat.Stab, "slash_sword": combat.Slash, "2h_sword": combat.Slash,
	"axe": combat.Slash, "pickaxe": combat.Stab, "blunt": combat.Crush,
	"bludgeon": combat.Crush, "spear": combat.Stab, "spiked": combat.Crush,
	"scythe": combat.Slash, "whip": combat.Slash, "claw": combat.Slash,
	"polearm": combat.Slash, "polestaff": combat.Crush, "banner": combat.Stab,
	"bulwark": combat.Crush, "unarmed": combat.Crush, "salamander": combat.Slash,
	"bow": combat.RangedAtk, "crossbow": combat.RangedAtk, "thrown": combat.RangedAtk,
	"chinchompas": combat.RangedAtk, "gun": combat.RangedAtk,
	"staff": combat.MagicAtk, "powered_staff": combat.MagicAtk, "bladed_staff": combat.MagicAtk,
}

func (r itemRecord) weapon() (combat.Weapon, bool) {
	if !r.EquipableWeapon || r.Equipment == nil || r.Name == "" {
		return combat.Weapon{}, false
	}
	e := r.Equipment
	w := combat.Weapon{
		Name:      r.Name,
		Speed:     4,
		Type:      combat.Crush,
		TwoHanded: e.Slot == "2h",
		Bonuses: combat.Bonuses{
			Stab: e.AttackStab, Slash: e.AttackSlash, Crush: e.AttackCrush,
			Ranged: e.AttackRanged, Magic: e.AttackMagic,
			MeleeStrength: e.MeleeStrength, RangedStrength: e.RangedStrength,
			MagicDamage: float64(e.MagicDamage) / 100,
			Prayer:      e.Prayer,
		},
	}
	if r.Weapon != nil {
		if r.Weapon.AttackSpeed > 0 {
			w.Speed = r.Weapon.AttackSpeed
		}
		if t, ok := weaponTypes[r.Weapon.WeaponType]; ok {
			w.Type = t
		}
	}
	if w.Style() == combat.Melee {
		// pick the strongest melee bonus; ties favour stab then slash
		best := slices.Max([]int{e.AttackStab, e.AttackSlash, e.AttackCrush})
		switch best {
		case e.AttackStab:
			w.Type = combat.Stab
		case e.AttackSlash:
			w.Type = combat.Slash
		default:
			w.Type = combat.Crush
		}
	}
	return w, true
}

func power(w combat.Weapon) int {
	return max(w.Bonuses.MeleeStrength, w.Bonuses.RangedStrength, w.Bonuses.Magic)
}

func (r monsterRecord) monster() combat.Monster {
	has := func(a string) bool { return slices.Contains(r.Attributes, a) }
	return combat.Monster{
		Name:      r.Name,
		Hitpoints: r.Hitpoints,
		Defence:   r.DefenceLevel,
		MagicLvl:  r.MagicLevel,
		Size:      max(r.Size, 1),
		StabDef:   r.DefenceStab,
		SlashDef:  r.DefenceSlash,
		CrushDef:  r.DefenceCrush,
		RangedDef: r.DefenceRanged,
		MagicDef:  r.DefenceMagic,
		Undead:    has("undead"),
		Demon:     has("demon"),
		Dragon:    has("dragon"),
	}
}

// DecodeWeapons parses an items export keyed by item id. Duplicate names
// keep the most powerful version.
func DecodeWeapons(raw []byte) (map[string]combat.Weapon, error) {
	var items map[string]itemRecord
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	out := make(map[string]combat.Weapon)
	for _, id := range sortedKeys(items) {
		w, ok := items[id].weapon()
		if !ok {
			continue
		}
		key := Normalize(w.Name)
		if old, dup := out[key]; !dup || power(w) > power(old) {
			out[key] = w
		}
	}
	return out, nil
}

// DecodeMonsters parses a monsters export keyed by id. Duplicate names keep
// the version with the most hitpoints.
func DecodeMonsters(raw []byte) (map[string]combat.Monster, error) {
	var mons map[string]monsterRecord
	if err := json.Unmarshal(raw, &mons); err != nil {
		return nil, fmt.Errorf("decode monsters: %w", err)
	}
	out := make(map[string]combat.Monster)
	for _, id := range sortedKeys(mons) {
		r := mons[id]
		if r.Name == "" || r.Hitpoints <= 0 {
			continue
		}
		m := r.monster()
		key := Normalize(m.Name)
		if old, dup := out[key]; !dup || m.Hitpoints > old.Hitpoints {
			out[key] = m
		}
	}
	return out, nil
}
