package battle

import "math/rand"

// Dice abstracts every random roll a battle makes so tests can pin variance
// and crit outcomes exactly.
type Dice interface {
	// Variance returns a multiplier in [1-spread, 1+spread).
	Variance(spread float64) float64
	// Chance reports whether an independent roll with probability p hit.
	Chance(p float64) bool
}

type randDice struct {
	r *rand.Rand
}

// NewDice returns the production dice backed by its own rand source. Each
// session owns one; rolls happen under the session mutex.
func NewDice(seed int64) Dice {
	return &randDice{r: rand.New(rand.NewSource(seed))}
}

func (d *randDice) Variance(spread float64) float64 {
	return 1 - spread + d.r.Float64()*2*spread
}

func (d *randDice) Chance(p float64) bool {
	return d.r.Float64() < p
}
