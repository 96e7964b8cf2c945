package analysis

import "math/rand/v2"

// Flavor supplies the cosmetic randomness used by the stakeholder view.
// *rand.Rand satisfies it.
type Flavor interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewFlavor returns a deterministic Flavor for seed. A Flavor is not safe for
// concurrent use.
func NewFlavor(seed uint64) Flavor {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// between returns a value in [lo, hi].
func between(f Flavor, lo, hi int) int {
	return lo + f.IntN(hi-lo+1)
}

func pick(f Flavor, options []string) string {
	return options[f.IntN(len(options))]
}
