package dice

import (
	"math/rand"
	"sync"
	"time"
)

// randomRoller implements Roller on top of math/rand.
// *rand.Rand is not safe for concurrent use, so calls are serialized.
type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller creates a roller seeded from the clock
func NewRandomRoller() Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller creates a roller that replays the same sequence for the same seed
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float implements Roller.Float
func (r *randomRoller) Float() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Intn implements Roller.Intn
func (r *randomRoller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}
