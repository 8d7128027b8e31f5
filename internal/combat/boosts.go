package combat

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Prayer multiplies base plus boosted levels before the stance bonus.
type Prayer struct {
	Name        string
	Attack      float64
	Strength    float64
	RangedAtk   float64
	RangedStr   float64
	MagicAtk    float64
	DrainPerMin int
}

func prayer(name string, atk, str, ratk, rstr, matk float64, drain int) Prayer {
	return Prayer{Name: name, Attack: atk, Strength: str, RangedAtk: ratk, RangedStr: rstr, MagicAtk: matk, DrainPerMin: drain}
}

var prayers = map[string]Prayer{
	"none":                prayer("none", 1, 1, 1, 1, 1, 0),
	"clarity_of_thought":  prayer("clarity_of_thought", 1.05, 1, 1, 1, 1, 3),
	"improved_reflexes":   prayer("improved_reflexes", 1.10, 1, 1, 1, 1, 6),
	"incredible_reflexes": prayer("incredible_reflexes", 1.15, 1, 1, 1, 1, 12),
	"burst_of_strength":   prayer("burst_of_strength", 1, 1.05, 1, 1, 1, 3),
	"superhuman_strength": prayer("superhuman_strength", 1, 1.10, 1, 1, 1, 6),
	"ultimate_strength":   prayer("ultimate_strength", 1, 1.15, 1, 1, 1, 12),
	"chivalry":            prayer("chivalry", 1.15, 1.18, 1, 1, 1, 24),
	"piety":               prayer("piety", 1.20, 1.23, 1, 1, 1, 24),
	"sharp_eye":           prayer("sharp_eye", 1, 1, 1.05, 1.05, 1, 3),
	"hawk_eye":            prayer("hawk_eye", 1, 1, 1.10, 1.10, 1, 6),
	"eagle_eye":           prayer("eagle_eye", 1, 1, 1.15, 1.15, 1, 12),
	"rigour":              prayer("rigour", 1, 1, 1.20, 1.23, 1, 24),
	"mystic_will":         prayer("mystic_will", 1, 1, 1, 1, 1.05, 3),
	"mystic_lore":         prayer("mystic_lore", 1, 1, 1, 1, 1.10, 6),
	"mystic_might":        prayer("mystic_might", 1, 1, 1, 1, 1.15, 12),
	"augury":              prayer("augury", 1, 1, 1, 1, 1.25, 24),
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(s)
	return s
}

func LookupPrayer(name string) (Prayer, error) {
	if name == "" {
		return prayers["none"], nil
	}
	p, ok := prayers[normalizeKey(name)]
	if !ok {
		return Prayer{}, fmt.Errorf("unknown prayer %q", name)
	}
	return p, nil
}

func PrayerNames() []string { return sortedKeys(prayers) }

// Boost is a flat level boost per skill.
type Boost struct {
	Attack   int `json:"attack"`
	Strength int `json:"strength"`
	Ranged   int `json:"ranged"`
	Magic    int `json:"magic"`
}

// potion computes the boost for a base level: flat + floor(level*pct).
type potion struct {
	flat   int
	pct    float64
	skills []string
}

var potions = map[string]potion{
	"none":            {},
	"super_combat":    {flat: 5, pct: 0.15, skills: []string{"attack", "strength"}},
	"super_attack":    {flat: 5, pct: 0.15, skills: []string{"attack"}},
	"super_strength":  {flat: 5, pct: 0.15, skills: []string{"strength"}},
	"ranging":         {flat: 4, pct: 0.10, skills: []string{"ranged"}},
	"divine_ranging":  {flat: 5, pct: 0.15, skills: []string{"ranged"}},
	"imbued_heart":    {flat: 1, pct: 0.10, skills: []string{"magic"}},
	"saturated_heart": {flat: 4, pct: 0.10, skills: []string{"magic"}},
}

// PotionBoost returns the named potion's boost for the given base levels.
func PotionBoost(name string, lv Levels) (Boost, error) {
	if name == "" {
		return Boost{}, nil
	}
	p, ok := potions[normalizeKey(name)]
	if !ok {
		return Boost{}, fmt.Errorf("unknown potion %q", name)
	}
	amount := func(base int) int { return p.flat + int(math.Floor(float64(base)*p.pct+1e-9)) }
	var b Boost
	for _, s := range p.skills {
		switch s {
		case "attack":
			b.Attack = amount(lv.Attack)
		case "strength":
			b.Strength = amount(lv.Strength)
		case "ranged":
			b.Ranged = amount(lv.Ranged)
		case "magic":
			b.Magic = amount(lv.Magic)
		}
	}
	return b, nil
}

func PotionNames() []string { return sortedKeys(potions) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
