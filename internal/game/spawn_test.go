package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSpawnPoint_RespectsMinDistance(t *testing.T) {
	candidates := []Vec{{0, 0}, {5, 0}, {100, 0}, {0, 100}}
	subject := Vec{0, 0}
	rng := rand.New(rand.NewSource(1))

	// Run multiple times to catch randomness issues
	for i := 0; i < 50; i++ {
		p, ok := SelectSpawnPoint(candidates, subject, 50, rng)
		require.True(t, ok)
		assert.GreaterOrEqual(t, Distance(p, subject), 50.0)
	}
}

func TestSelectSpawnPoint_FallsBackToAllCandidates(t *testing.T) {
	candidates := []Vec{{1, 0}, {2, 0}}
	rng := rand.New(rand.NewSource(7))

	seen := make(map[Vec]bool)
	for i := 0; i < 50; i++ {
		p, ok := SelectSpawnPoint(candidates, Vec{0, 0}, 1000, rng)
		require.True(t, ok)
		seen[p] = true
	}
	assert.Len(t, seen, 2, "fallback should draw from every candidate")
}

func TestSelectSpawnPoint_NoCandidates(t *testing.T) {
	_, ok := SelectSpawnPoint(nil, Vec{}, 10, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestFleePoint(t *testing.T) {
	p := FleePoint(Vec{10, 0}, Vec{0, 0}, 5)
	assert.InDelta(t, 15, p.X, 0.001)
	assert.InDelta(t, 0, p.Y, 0.001)

	// Coincident threat still produces a point at the requested distance
	p = FleePoint(Vec{3, 3}, Vec{3, 3}, 4)
	assert.InDelta(t, 4, Distance(p, Vec{3, 3}), 0.001)
}

func TestIsFarEnough(t *testing.T) {
	assert.False(t, isFarEnough(Vec{550, 500}, Vec{500, 500}, 200))
	assert.True(t, isFarEnough(Vec{800, 800}, Vec{500, 500}, 200))
	assert.True(t, isFarEnough(Vec{700, 500}, Vec{500, 500}, 200), "boundary counts as far enough")
}
