package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller is the single source of randomness for combat, reinforcement and loot.
// Injecting a seeded Roller makes a whole raid reproducible.
type Roller interface {
	// Float returns a number in [0.0, 1.0)
	Float() float64

	// Intn returns a number in [0, n). n must be > 0.
	Intn(n int) int
}
