package config

import "fmt"

const (
	MinFishingLevel = 35
	MaxFishingLevel = 99
)

type Player struct {
	FishingLevel  int    `yaml:"fishing_level" json:"fishing_level"`
	Harpoon       string `yaml:"harpoon" json:"harpoon"`
	SpiritAngler  bool   `yaml:"spirit_angler" json:"spirit_angler"`
	ImcandoHammer bool   `yaml:"imcando_hammer" json:"imcando_hammer"`
	GroupSize     int    `yaml:"group_size" json:"group_size"`
}

func DefaultPlayer() Player {
	return Player{FishingLevel: MaxFishingLevel, Harpoon: "dragon", GroupSize: 1}
}

// Normalize clamps levels into the minigame's entry range and fills blanks.
func (p Player) Normalize() Player {
	if p.FishingLevel < MinFishingLevel {
		p.FishingLevel = MinFishingLevel
	}
	if p.FishingLevel > MaxFishingLevel {
		p.FishingLevel = MaxFishingLevel
	}
	if p.Harpoon == "" {
		p.Harpoon = "regular"
	}
	if p.GroupSize < 1 {
		p.GroupSize = 1
	}
	return p
}

func (p Player) String() string {
	return fmt.Sprintf("lvl%d/%s/x%d", p.FishingLevel, p.Harpoon, p.GroupSize)
}
