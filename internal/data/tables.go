package data

import "osrs_sim/internal/combat"

// Attack speeds are the weapon's base speed; the rapid stance takes one
// tick off.

func melee(name string, speed int, t combat.AttackType, b combat.Bonuses) combat.Weapon {
	return combat.Weapon{Name: name, Speed: speed, Type: t, Bonuses: b}
}

func twoHanded(w combat.Weapon) combat.Weapon {
	w.TwoHanded = true
	return w
}

func bow(name string, speed, atk, str int) combat.Weapon {
	return combat.Weapon{Name: name, Speed: speed, Type: combat.RangedAtk, TwoHanded: true,
		Bonuses: combat.Bonuses{Ranged: atk, RangedStrength: str}}
}

func staff(name string, speed, atk, baseMax int, dmg float64, twoH bool) combat.Weapon {
	return combat.Weapon{Name: name, Speed: speed, Type: combat.MagicAtk, TwoHanded: twoH, BaseMaxHit: baseMax,
		Bonuses: combat.Bonuses{Magic: atk, MagicDamage: dmg}}
}

// Weapons is the built-in weapon table.
var Weapons = index(func(w combat.Weapon) string { return w.Name },
	melee("Ghrazi rapier", 4, combat.Stab, combat.Bonuses{Stab: 94, MeleeStrength: 89}),
	melee("Blade of saeldor", 4, combat.Slash, combat.Bonuses{Slash: 94, MeleeStrength: 89}),
	melee("Abyssal whip", 4, combat.Slash, combat.Bonuses{Slash: 82, MeleeStrength: 82}),
	melee("Dragon scimitar", 4, combat.Slash, combat.Bonuses{Slash: 67, MeleeStrength: 66}),
	melee("Osmumten's fang", 5, combat.Stab, combat.Bonuses{Stab: 105, MeleeStrength: 103}),
	twoHanded(melee("Scythe of vitur", 5, combat.Slash, combat.Bonuses{Slash: 110, MeleeStrength: 75})),
	melee("Dragon hunter lance", 4, combat.Stab, combat.Bonuses{Stab: 85, Slash: 65, Crush: 65, MeleeStrength: 70}),
	twoHanded(melee("Abyssal bludgeon", 4, combat.Crush, combat.Bonuses{Crush: 102, MeleeStrength: 85})),
	melee("Inquisitor's mace", 4, combat.Crush, combat.Bonuses{Crush: 95, MeleeStrength: 89, Prayer: 2}),
	withSpecial(twoHanded(melee("Armadyl godsword", 6, combat.Slash, combat.Bonuses{Slash: 132, Crush: 80, MeleeStrength: 132})), 50),
	withSpecial(twoHanded(melee("Saradomin godsword", 6, combat.Slash, combat.Bonuses{Slash: 132, Crush: 80, MeleeStrength: 132})), 50),
	melee("Arclight", 4, combat.Slash, combat.Bonuses{Stab: 38, Slash: 75, Crush: -2, MeleeStrength: 72}),

	bow("Toxic blowpipe", 3, 30, 20),
	bow("Twisted bow", 6, 70, 20),
	bow("Bow of faerdhinen", 5, 128, 106),
	bow("Zaryte crossbow", 6, 110, 0),
	bow("Dragon hunter crossbow", 6, 95, 0),
	bow("Armadyl crossbow", 6, 100, 0),

	staff("Trident of the swamp", 4, 25, 31, 0, true),
	staff("Sanguinesti staff", 4, 25, 34, 0, true),
	staff("Tumeken's shadow", 5, 35, 43, 0, true),
	staff("Harmonised nightmare staff", 4, 16, 0, 0.15, true),
	staff("Kodai wand", 5, 28, 0, 0.15, false),
)

func withSpecial(w combat.Weapon, cost int) combat.Weapon {
	w.SpecialCost = cost
	return w
}

type monsterRow struct {
	name                                       string
	hp, def, magic                             int
	stab, slash, crush, ranged, magicDef, size int
	undead, demon, dragon                      bool
}

func (r monsterRow) monster() combat.Monster {
	return combat.Monster{
		Name: r.name, Hitpoints: r.hp, Defence: r.def, MagicLvl: r.magic, Size: max(r.size, 1),
		StabDef: r.stab, SlashDef: r.slash, CrushDef: r.crush, RangedDef: r.ranged, MagicDef: r.magicDef,
		Undead: r.undead, Demon: r.demon, Dragon: r.dragon,
	}
}

var monsterRows = []monsterRow{
	{name: "General Graardor", hp: 255, def: 250, magic: 80, stab: 90, slash: 130, crush: 90, ranged: 70, magicDef: -18, size: 3},
	{name: "Commander Zilyana", hp: 255, def: 300, magic: 300, stab: 80, slash: 100, crush: 100, ranged: 80, magicDef: 150, size: 2},
	{name: "K'ril Tsutsaroth", hp: 255, def: 270, magic: 220, stab: 140, slash: 90, crush: 90, ranged: 95, magicDef: 55, size: 3, demon: true},
	{name: "Kree'arra", hp: 255, def: 260, magic: 200, stab: 60, slash: 120, crush: 60, ranged: 200, magicDef: 200, size: 3},
	{name: "Vorkath", hp: 750, def: 214, magic: 150, stab: 26, slash: 108, crush: 108, ranged: 26, magicDef: 240, size: 5, undead: true, dragon: true},
	{name: "King Black Dragon", hp: 255, def: 240, magic: 240, stab: 70, slash: 90, crush: 90, ranged: 70, magicDef: 60, size: 5, dragon: true},
	{name: "Zulrah green", hp: 500, def: 300, magic: 300, stab: 50, slash: 50, crush: 50, ranged: 0, magicDef: 300, size: 4},
	{name: "Zulrah blue", hp: 500, def: 300, magic: 300, ranged: 300, magicDef: 50, size: 4},
	{name: "Zulrah red", hp: 500, def: 300, magic: 300, stab: 50, slash: 50, crush: 50, magicDef: 50, size: 4},
	{name: "Kalphite Queen", hp: 255, def: 300, magic: 300, size: 5},
	{name: "Corporeal Beast", hp: 2000, def: 310, magic: 350, stab: 100, slash: 200, crush: 200, ranged: 200, magicDef: 200, size: 5},
	{name: "Abyssal Sire", hp: 400, def: 250, magic: 200, stab: 20, slash: 60, crush: 60, ranged: 50, magicDef: 100, size: 4, demon: true},
	{name: "Cerberus", hp: 600, def: 100, magic: 220, stab: 100, slash: 100, crush: 100, ranged: 100, magicDef: 100, size: 5, demon: true},
	{name: "Alchemical Hydra", hp: 1100, def: 180, magic: 1, size: 4},
	{name: "Abyssal demon", hp: 150, def: 135, magic: 1, stab: 20, slash: 20, crush: 20, ranged: 20, size: 1, demon: true},
	{name: "Vet'ion", hp: 255, def: 395, magic: 175, stab: 150, slash: 150, crush: 0, ranged: 200, magicDef: 200, size: 3, undead: true},
	{name: "Callisto", hp: 255, def: 440, magic: 175, stab: 50, slash: 135, crush: 135, ranged: 200, magicDef: 135, size: 3},
}

// Monsters is the built-in monster table.
var Monsters = func() Hardcoded[combat.Monster] {
	ms := make([]combat.Monster, len(monsterRows))
	for i, r := range monsterRows {
		ms[i] = r.monster()
	}
	return index(func(m combat.Monster) string { return m.Name }, ms...)
}()

func index[T any](name func(T) string, vs ...T) Hardcoded[T] {
	h := make(Hardcoded[T], len(vs))
	for _, v := range vs {
		h[Normalize(name(v))] = v
	}
	return h
}
