package dice_test

import (
	"testing"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	mockdice "github.com/KirkDiggler/dungeon-raid-bot/internal/dice/mock"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSeededRollerReplays(t *testing.T) {
	a := dice.NewSeededRoller(42)
	b := dice.NewSeededRoller(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float(), b.Float())
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestBetween(t *testing.T) {
	tests := []struct {
		name      string
		ints      []int
		low, high int
		want      int
	}{
		{name: "low end", ints: []int{0}, low: 3, high: 7, want: 3},
		{name: "high end", ints: []int{4}, low: 3, high: 7, want: 7},
		{name: "collapsed range", low: 5, high: 5, want: 5},
		{name: "inverted range", low: 9, high: 2, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller(0)
			roller.SetInts(tt.ints...)
			assert.Equal(t, tt.want, dice.Between(roller, tt.low, tt.high))
		})
	}
}

func TestWeighted(t *testing.T) {
	roller := mockdice.NewManualMockRoller(0)

	roller.SetInts(0)
	assert.Equal(t, 1, dice.Weighted(roller, []int{0, 2, 3}), "first unit of weight belongs to index 1")

	roller.SetInts(2)
	assert.Equal(t, 2, dice.Weighted(roller, []int{0, 2, 3}))

	roller.SetInts(1)
	assert.Equal(t, 1, dice.Weighted(roller, []int{0, 0, 0}), "all zero weights fall back to uniform")

	assert.Equal(t, -1, dice.Weighted(roller, nil))
}

func TestWeightedNeverPicksZeroWeight(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		weights := rapid.SliceOfN(rapid.IntRange(0, 5), 1, 8).Draw(t, "weights")
		seed := rapid.Int64().Draw(t, "seed")

		idx := dice.Weighted(dice.NewSeededRoller(seed), weights)

		if idx < 0 || idx >= len(weights) {
			t.Fatalf("index %d out of range", idx)
		}
		total := 0
		for _, w := range weights {
			total += w
		}
		if total > 0 && weights[idx] == 0 {
			t.Fatalf("picked zero weight index %d from %v", idx, weights)
		}
	})
}

func TestShuffleIsPermutation(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6}
	dice.Shuffle(dice.NewSeededRoller(7), len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, values)
}

func TestManualMockRollerFallback(t *testing.T) {
	roller := mockdice.NewManualMockRoller(0.5)
	roller.SetFloats(0.1)

	assert.Equal(t, 0.1, roller.Float())
	assert.Equal(t, 0.5, roller.Float())
	assert.Equal(t, 2, roller.FloatCalls())
	assert.Equal(t, 0, roller.Intn(10))
}
