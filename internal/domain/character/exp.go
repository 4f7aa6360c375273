package character

import "math"

const (
	// DefaultLevelCap is the highest level a player can reach
	DefaultLevelCap = 200

	// StatPointsPerLevel are granted on every level-up
	StatPointsPerLevel = 3
)

// ExpRequired is the experience needed to advance from level to level+1
func ExpRequired(level int) int {
	l := float64(level)
	return int(math.Round(
		math.Pow(l, 7)*0.000000005 +
			math.Pow(l, 6)*0.0000008 +
			math.Pow(l, 5)*0.000018 +
			math.Pow(l, 4)*0.0012 +
			math.Pow(l, 3)*0.6 +
			math.Pow(l, 2)*1.5 +
			l*12.2,
	))
}
