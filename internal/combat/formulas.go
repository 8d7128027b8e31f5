package combat

import "math"

// TickSeconds is the length of one game tick.
const TickSeconds = 0.6

func floor(x float64) int { return int(math.Floor(x + 1e-9)) }

// EffectiveLevel is floor((base+boost)*prayer) + stance + 8, scaled by void.
// Magic adds 9 instead of 8.
func EffectiveLevel(base, boost int, prayer float64, stance int, magic bool, void float64) int {
	add := 8
	if magic {
		add = 9
	}
	lvl := floor(float64(base+boost)*prayer) + stance + add
	return floor(float64(lvl) * void)
}

func AttackRoll(eff, bonus int, gear float64) int {
	return floor(float64(eff*(bonus+64)) * gear)
}

// DefenceRoll is the NPC defence roll. Pass the magic level as level for
// magic attacks.
func DefenceRoll(level, bonus int) int {
	if level < 0 {
		level = 0
	}
	return (level + 9) * (bonus + 64)
}

// MaxHit covers melee and ranged.
func MaxHit(effStr, strBonus int, gear float64) int {
	base := (effStr*(strBonus+64) + 320) / 640
	return floor(float64(base) * gear)
}

func MagicMaxHit(base int, magicDamage, gear float64) int {
	withBonus := floor(float64(base) * (1 + magicDamage))
	return floor(float64(withBonus) * gear)
}

func HitChance(atk, def int) float64 {
	if atk <= 0 {
		return 0
	}
	if atk > def {
		return 1 - float64(def+2)/float64(2*(atk+1))
	}
	return float64(atk) / float64(2*(def+1))
}

// DPS converts an expected damage per attack into damage per second.
func DPS(perAttack float64, speed int) float64 {
	if speed <= 0 {
		return 0
	}
	return perAttack / (float64(speed) * TickSeconds)
}

// KillTime is seconds to kill; +Inf when dps is not positive.
func KillTime(hp int, dps float64) float64 {
	if dps <= 0 {
		return math.Inf(1)
	}
	return float64(hp) / dps
}

func KillsPerHour(killTime, overhead float64) float64 {
	total := killTime + overhead
	if total <= 0 || math.IsInf(total, 1) {
		return 0
	}
	return 3600 / total
}

// FangHitChance rolls accuracy twice and hits if either roll does.
func FangHitChance(atk, def int) float64 {
	miss := 1 - HitChance(atk, def)
	return 1 - miss*miss
}

// FangRange clamps a max hit to the fang's 15%..85% window.
func FangRange(maxHit int) (lo, hi int) {
	return floor(float64(maxHit) * 0.15), floor(float64(maxHit) * 0.85)
}

// ScytheDamage returns expected damage per swing against a target of the
// given size. Each hit rolls accuracy independently.
func ScytheDamage(p float64, maxHit, size int) float64 {
	avg := p * float64(maxHit) / 2
	if size >= 2 {
		avg += p * float64(floor(float64(maxHit)*0.5)) / 2
	}
	if size >= 3 {
		avg += p * float64(floor(float64(maxHit)*0.25)) / 2
	}
	return avg
}

// TwistedBow returns the accuracy and damage multipliers against a target
// with the given magic level, capped at 250.
func TwistedBow(magic int) (acc, dmg float64) {
	m := min(max(magic, 0), 250)
	sq := func(x int) int { return x * x }
	a := 140 + floorDiv(3*m-10, 100) - sq(3*m/10-100)/100
	d := 250 + floorDiv(3*m-14, 100) - sq(3*m/10-140)/100
	a = min(a, 140)
	d = min(d, 250)
	return float64(a) / 100, float64(d) / 100
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
