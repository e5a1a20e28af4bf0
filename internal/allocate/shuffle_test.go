package allocate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/ember/internal/domain"
)

func shuffleFixture() []domain.Slice {
	slices := make([]domain.Slice, 6)
	for i := range slices {
		slices[i] = domain.Slice{
			Unit:    &domain.WorkUnit{ID: "unit-" + string(rune('a'+i))},
			Minutes: (i + 1) * 10,
		}
	}
	return slices
}

func ids(slices []domain.Slice) []string {
	out := make([]string, len(slices))
	for i, sl := range slices {
		out[i] = sl.Unit.ID
	}
	return out
}

func TestShuffle_SameSeedSameOrder(t *testing.T) {
	t.Parallel()

	a := shuffleFixture()
	b := shuffleFixture()
	Shuffle(a, 42)
	Shuffle(b, 42)
	assert.Equal(t, ids(a), ids(b))
}

func TestShuffle_DifferentSeedsDiverge(t *testing.T) {
	t.Parallel()

	a := shuffleFixture()
	b := shuffleFixture()
	Shuffle(a, 1)
	Shuffle(b, 2)
	assert.NotEqual(t, ids(a), ids(b))
}

func TestShuffle_PreservesContents(t *testing.T) {
	t.Parallel()

	slices := shuffleFixture()
	Shuffle(slices, 7)
	require.Len(t, slices, 6)
	assert.ElementsMatch(t,
		[]string{"unit-a", "unit-b", "unit-c", "unit-d", "unit-e", "unit-f"},
		ids(slices))
}
