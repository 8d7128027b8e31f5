package tempoross

type Boss struct {
	Energy     float64 `json:"energy"`
	MaxEnergy  float64 `json:"max_energy"`
	Essence    float64 `json:"essence"`
	MaxEssence float64 `json:"max_essence"`
}

func (b *Boss) Submerged() bool { return b.Energy <= 0 }
func (b *Boss) Defeated() bool  { return b.Essence <= 0 }

// DamageEnergy removes up to dmg energy and returns the amount removed.
func (b *Boss) DamageEnergy(dmg float64) float64 {
	dealt := min(dmg, b.Energy)
	b.Energy -= dealt
	return dealt
}

func (b *Boss) DamageEssence(dmg float64) float64 {
	dealt := min(dmg, b.Essence)
	b.Essence -= dealt
	return dealt
}

func (b *Boss) Regenerate(amount float64) float64 {
	gain := min(amount, b.MaxEnergy-b.Energy)
	b.Energy += gain
	return gain
}

type Cannon struct {
	Raw    int `json:"raw"`
	Cooked int `json:"cooked"`
}

func (c Cannon) Loaded() int { return c.Raw + c.Cooked }

type SpotKind int

const (
	NormalSpot SpotKind = iota
	DoubleSpot
)

func (k SpotKind) String() string {
	if k == DoubleSpot {
		return "double"
	}
	return "normal"
}

type Hazards struct {
	DamagedMasts []bool `json:"damaged_masts"`
	BurningTotem []bool `json:"burning_totems"`
}

func firstTrue(xs []bool) int {
	for i, x := range xs {
		if x {
			return i
		}
	}
	return -1
}

// FirstFire returns the lowest burning totem index, or -1.
func (h Hazards) FirstFire() int { return firstTrue(h.BurningTotem) }

// FirstDamagedMast returns the lowest damaged mast index, or -1.
func (h Hazards) FirstDamagedMast() int { return firstTrue(h.DamagedMasts) }

func (h Hazards) clone() Hazards {
	return Hazards{
		DamagedMasts: append([]bool(nil), h.DamagedMasts...),
		BurningTotem: append([]bool(nil), h.BurningTotem...),
	}
}
