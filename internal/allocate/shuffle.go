package allocate

import (
	"math/rand"

	"github.com/emberflow/ember/internal/domain"
)

// Shuffle reorders slices with a seeded PRNG, for callers that want day-to-day
// variety in presentation. This is the only randomness in the package: it is
// explicitly seeded, applied after selection, and never invoked by either
// strategy on its own.
func Shuffle(slices []domain.Slice, seed int64) {
	r := rand.New(rand.NewSource(seed)) // #nosec G404 -- presentation variety, not security
	r.Shuffle(len(slices), func(i, j int) {
		slices[i], slices[j] = slices[j], slices[i]
	})
}
