package equipment_test

import (
	"testing"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	mockdice "github.com/KirkDiggler/dungeon-raid-bot/internal/dice/mock"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

const attempts = 10_000

func outcomeRates(t *testing.T, set equipment.Set, level int, seed int64) map[equipment.Outcome]float64 {
	t.Helper()

	roller := dice.NewSeededRoller(seed)
	counts := make(map[equipment.Outcome]int)
	item := &equipment.Item{Set: set, Stats: stats.Block{Str: 10}}
	for i := 0; i < attempts; i++ {
		item.Reinforced = level
		counts[item.Reinforce(roller)]++
	}

	rates := make(map[equipment.Outcome]float64)
	for outcome, n := range counts {
		rates[outcome] = float64(n) / attempts
	}
	return rates
}

func TestReinforceEmpiricalRates(t *testing.T) {
	const tolerance = 0.02

	tests := []struct {
		name  string
		set   equipment.Set
		level int
		want  map[equipment.Outcome]float64
	}{
		{
			name:  "normal item below first checkpoint",
			level: 3,
			want: map[equipment.Outcome]float64{
				equipment.OutcomeSuccess: 0.75,
				equipment.OutcomeFailed:  0.25,
			},
		},
		{
			name:  "normal item at checkpoint ten",
			level: 10,
			want: map[equipment.Outcome]float64{
				equipment.OutcomeSuccess: 0.4,
				equipment.OutcomeFailed:  0.6,
			},
		},
		{
			name:  "normal item at twelve",
			level: 12,
			want: map[equipment.Outcome]float64{
				equipment.OutcomeSuccess:    0.3,
				equipment.OutcomeDestroyed:  0.7 * 0.2,
				equipment.OutcomeDowngraded: 0.7 * 0.8,
			},
		},
		{
			name:  "normal item at the floor",
			level: 20,
			want: map[equipment.Outcome]float64{
				equipment.OutcomeSuccess:    0.03,
				equipment.OutcomeDestroyed:  0.97 * 0.3,
				equipment.OutcomeDowngraded: 0.97 * 0.7,
			},
		},
		{
			name:  "legendary item at seven",
			set:   equipment.SetTiamat,
			level: 7,
			want: map[equipment.Outcome]float64{
				equipment.OutcomeSuccess:    0.5,
				equipment.OutcomeFailed:     0.4,
				equipment.OutcomeDestroyed:  0.1 * 0.3,
				equipment.OutcomeDowngraded: 0.1 * 0.7,
			},
		},
		{
			name:  "legendary item at checkpoint",
			set:   equipment.SetLeviathan,
			level: 5,
			want: map[equipment.Outcome]float64{
				equipment.OutcomeSuccess: 0.5,
				equipment.OutcomeFailed:  0.5,
			},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := outcomeRates(t, tt.set, tt.level, int64(1000+i))
			for _, outcome := range []equipment.Outcome{
				equipment.OutcomeSuccess, equipment.OutcomeFailed,
				equipment.OutcomeDowngraded, equipment.OutcomeDestroyed,
			} {
				assert.InDelta(t, tt.want[outcome], rates[outcome], tolerance, "outcome %s", outcome)
			}
		})
	}
}

func TestReinforceCountsAttemptsAndRefreshes(t *testing.T) {
	roller := mockdice.NewManualMockRoller(0.99)
	roller.SetFloats(0.0)
	item := &equipment.Item{Stats: stats.Block{Str: 10}}

	outcome := item.Reinforce(roller)

	assert.Equal(t, equipment.OutcomeSuccess, outcome)
	assert.Equal(t, 1, item.Reinforced)
	assert.Equal(t, 1, item.ReinforceAttempts)
	assert.Equal(t, 2, item.ReinforcedStats.Str)
}

func TestDestroyRefund(t *testing.T) {
	normal := &equipment.Item{ReinforceAttempts: 12}
	legendary := &equipment.Item{ReinforceAttempts: 12, Set: equipment.SetBehemoth}

	assert.Equal(t, 12, normal.DestroyRefund())
	assert.Equal(t, 12+equipment.LegendaryDestroyRefund, legendary.DestroyRefund())
}

func TestReinforceLevelNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		set := rapid.SampledFrom([]equipment.Set{equipment.SetNone, equipment.SetBehemoth}).Draw(t, "set")
		item := &equipment.Item{
			Set:        set,
			Reinforced: rapid.IntRange(0, equipment.DefaultMaxReinforcement).Draw(t, "start"),
			Stats:      stats.Block{Str: 5, Dex: 5},
		}
		roller := dice.NewSeededRoller(rapid.Int64().Draw(t, "seed"))

		for n := rapid.IntRange(1, 200).Draw(t, "attempts"); n > 0; n-- {
			if item.Reinforce(roller) == equipment.OutcomeDestroyed {
				return
			}
			if item.Reinforced < 0 {
				t.Fatalf("reinforcement dropped below zero")
			}
		}
	})
}
