package tempoross

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Counter int

const (
	FishCaught Counter = iota
	FishCooked
	RawHeld
	CookedHeld
	RawDeposited
	CookedDeposited
	Repairs
	FiresDoused
	WavesSurvived
	SpiritHarpoons
	EnergyDamage
	EssenceDamage
	counterCount
)

var counterNames = [counterCount]string{
	"fish_caught", "fish_cooked", "raw_held", "cooked_held",
	"raw_deposited", "cooked_deposited", "repairs", "fires_doused",
	"waves_survived", "spirit_harpoons", "energy_damage", "essence_damage",
}

func (c Counter) String() string {
	if c >= 0 && c < counterCount {
		return counterNames[c]
	}
	return fmt.Sprintf("counter(%d)", int(c))
}

var (
	ErrCounterUnderflow = errors.New("counter would go negative")
	ErrNegativeAmount   = errors.New("negative counter amount")
)

// Counters are the progress tallies of one run. The zero value is ready to
// use. Values never go negative: a Take larger than the current value is
// rejected and leaves the counter untouched.
type Counters struct {
	v [counterCount]int
}

func (c *Counters) Get(k Counter) int { return c.v[k] }

func (c *Counters) Add(k Counter, n int) error {
	if n < 0 {
		return fmt.Errorf("add %d to %s: %w", n, k, ErrNegativeAmount)
	}
	c.v[k] += n
	return nil
}

func (c *Counters) Take(k Counter, n int) error {
	if n < 0 {
		return fmt.Errorf("take %d from %s: %w", n, k, ErrNegativeAmount)
	}
	if c.v[k] < n {
		return fmt.Errorf("take %d from %s (have %d): %w", n, k, c.v[k], ErrCounterUnderflow)
	}
	c.v[k] -= n
	return nil
}

// Held is the number of fish currently carried.
func (c *Counters) Held() int { return c.v[RawHeld] + c.v[CookedHeld] }

func (c Counters) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, counterCount)
	for k := Counter(0); k < counterCount; k++ {
		m[k.String()] = c.v[k]
	}
	return json.Marshal(m)
}

func (c *Counters) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*c = Counters{}
	for k := Counter(0); k < counterCount; k++ {
		c.v[k] = m[k.String()]
	}
	return nil
}
