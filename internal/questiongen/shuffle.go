package questiongen

import (
	"math/rand/v2"
	"slices"
)

// shuffleOptions returns a Fisher-Yates permutation of options and the index
// of the previously correct option text within it. The input is not modified.
// Option texts must be distinct.
func shuffleOptions(r *rand.Rand, options []string, answer int) ([]string, int) {
	shuffled := slices.Clone(options)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if answer < 0 || answer >= len(options) {
		return shuffled, -1
	}
	return shuffled, slices.Index(shuffled, options[answer])
}
