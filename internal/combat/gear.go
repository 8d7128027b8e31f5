package combat

// Gear flags multiplicative set and amulet effects. Void is applied to the
// effective level; everything else multiplies rolls and max hits.
type Gear struct {
	VoidMelee  bool `json:"void_melee,omitempty"`
	VoidRanged bool `json:"void_ranged,omitempty"`
	VoidMagic  bool `json:"void_magic,omitempty"`
	EliteVoid  bool `json:"elite_void,omitempty"`

	SlayerHelm        bool `json:"slayer_helm,omitempty"`
	SlayerHelmImbued  bool `json:"slayer_helm_imbued,omitempty"`
	Salve             bool `json:"salve,omitempty"`
	SalveE            bool `json:"salve_e,omitempty"`
	SalveEI           bool `json:"salve_ei,omitempty"`
	DragonHunterLance bool `json:"dragon_hunter_lance,omitempty"`
	DragonHunterCbow  bool `json:"dragon_hunter_crossbow,omitempty"`
	Inquisitor        bool `json:"inquisitor,omitempty"`
	Obsidian          bool `json:"obsidian,omitempty"`
}

// Target carries the situational facts gear bonuses depend on.
type Target struct {
	Undead bool
	Dragon bool
	OnTask bool
}

// Void returns the accuracy and damage multipliers applied to effective
// levels. Magic void boosts accuracy only; elite adds 2.5% damage to ranged
// and magic.
func (g Gear) Void(s Style) (acc, dmg float64) {
	acc, dmg = 1, 1
	switch {
	case s == Melee && g.VoidMelee:
		acc, dmg = 1.1, 1.1
	case s == Ranged && g.VoidRanged:
		acc, dmg = 1.1, 1.1
		if g.EliteVoid {
			dmg += 0.025
		}
	case s == Magic && g.VoidMagic:
		acc = 1.45
		if g.EliteVoid {
			dmg = 1.025
		}
	}
	return acc, dmg
}

// Multipliers returns the non-void accuracy and damage multipliers. Salve
// and slayer helm do not stack; salve wins.
func (g Gear) Multipliers(s Style, t AttackType, tg Target) (acc, dmg float64) {
	acc, dmg = 1, 1
	both := func(a, d float64) {
		acc *= a
		dmg *= d
	}

	switch {
	case tg.Undead && g.SalveEI && s != Melee, tg.Undead && g.SalveE:
		both(1.2, 1.2)
	case tg.Undead && g.Salve:
		both(7.0/6, 7.0/6)
	case !tg.Undead && tg.OnTask && (g.SlayerHelmImbued || g.SlayerHelm && s == Melee):
		both(7.0/6, 7.0/6)
	}

	if tg.Dragon {
		switch {
		case g.DragonHunterLance && s == Melee:
			both(1.2, 1.2)
		case g.DragonHunterCbow && s == Ranged:
			both(1.3, 1.25)
		}
	}
	if g.Inquisitor && t == Crush {
		both(1.025, 1.025)
	}
	if g.Obsidian && s == Melee {
		both(1.1, 1.1)
	}
	return acc, dmg
}
