package data

import "osrs_sim/internal/combat"

func spell(book combat.Spellbook, name string, level, maxHit int) combat.Spell {
	return combat.Spell{Name: name, Book: book, Level: level, MaxHit: maxHit}
}

func multi(s combat.Spell) combat.Spell {
	s.MultiTarget = true
	return s
}

// Spells is the built-in combat spell table.
var Spells = index(func(s combat.Spell) string { return s.Name },
	spell(combat.Standard, "Wind strike", 1, 2),
	spell(combat.Standard, "Water strike", 5, 4),
	spell(combat.Standard, "Earth strike", 9, 6),
	spell(combat.Standard, "Fire strike", 13, 8),
	spell(combat.Standard, "Wind bolt", 17, 9),
	spell(combat.Standard, "Water bolt", 23, 10),
	spell(combat.Standard, "Earth bolt", 29, 11),
	spell(combat.Standard, "Fire bolt", 35, 12),
	spell(combat.Standard, "Wind blast", 41, 13),
	spell(combat.Standard, "Water blast", 47, 14),
	spell(combat.Standard, "Earth blast", 53, 15),
	spell(combat.Standard, "Fire blast", 59, 16),
	spell(combat.Standard, "Wind wave", 62, 17),
	spell(combat.Standard, "Water wave", 65, 18),
	spell(combat.Standard, "Earth wave", 70, 19),
	spell(combat.Standard, "Fire wave", 75, 20),
	spell(combat.Standard, "Wind surge", 81, 21),
	spell(combat.Standard, "Water surge", 85, 22),
	spell(combat.Standard, "Earth surge", 90, 23),
	spell(combat.Standard, "Fire surge", 95, 24),
	spell(combat.Standard, "Crumble undead", 39, 15),
	spell(combat.Standard, "Iban blast", 50, 25),
	spell(combat.Standard, "Magic dart", 50, 10),
	spell(combat.Standard, "Flames of Zamorak", 60, 20),
	spell(combat.Standard, "Claws of Guthix", 60, 20),
	spell(combat.Standard, "Saradomin strike", 60, 20),

	spell(combat.Ancients, "Smoke rush", 50, 13),
	spell(combat.Ancients, "Shadow rush", 52, 14),
	spell(combat.Ancients, "Blood rush", 56, 15),
	spell(combat.Ancients, "Ice rush", 58, 16),
	multi(spell(combat.Ancients, "Smoke burst", 62, 17)),
	multi(spell(combat.Ancients, "Shadow burst", 64, 18)),
	multi(spell(combat.Ancients, "Blood burst", 68, 21)),
	multi(spell(combat.Ancients, "Ice burst", 70, 22)),
	spell(combat.Ancients, "Smoke blitz", 74, 23),
	spell(combat.Ancients, "Shadow blitz", 76, 24),
	spell(combat.Ancients, "Blood blitz", 80, 25),
	spell(combat.Ancients, "Ice blitz", 82, 26),
	multi(spell(combat.Ancients, "Smoke barrage", 86, 27)),
	multi(spell(combat.Ancients, "Shadow barrage", 88, 28)),
	multi(spell(combat.Ancients, "Blood barrage", 92, 29)),
	multi(spell(combat.Ancients, "Ice barrage", 94, 30)),

	spell(combat.Arceuus, "Ghostly grasp", 35, 12),
	spell(combat.Arceuus, "Skeletal grasp", 56, 17),
	spell(combat.Arceuus, "Undead grasp", 79, 24),
)

// StrongestSpell returns the highest max hit spell in book castable at a
// magic level. Ties go to the lower level spell, then by name.
func StrongestSpell(level int, book combat.Spellbook) (combat.Spell, bool) {
	var (
		best  combat.Spell
		found bool
	)
	for _, s := range Spells {
		if s.Book != book || s.Level > level {
			continue
		}
		if !found || stronger(s, best) {
			best, found = s, true
		}
	}
	return best, found
}

func stronger(a, b combat.Spell) bool {
	if a.MaxHit != b.MaxHit {
		return a.MaxHit > b.MaxHit
	}
	if a.Level != b.Level {
		return a.Level < b.Level
	}
	return a.Name < b.Name
}
