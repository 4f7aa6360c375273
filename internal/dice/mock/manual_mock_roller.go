package mockdice

import (
	"sync"
)

// ManualMockRoller implements dice.Roller with scripted results.
// Once a queue runs dry the fallback value is returned.
type ManualMockRoller struct {
	mu            sync.Mutex
	floats        []float64
	ints          []int
	fallbackFloat float64
	floatCalls    int
	intCalls      int
}

// NewManualMockRoller creates a roller that returns fallback once its float queue is empty
func NewManualMockRoller(fallback float64) *ManualMockRoller {
	return &ManualMockRoller{
		fallbackFloat: fallback,
	}
}

// SetFloats replaces the float queue
func (m *ManualMockRoller) SetFloats(floats ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.floats = floats
}

// SetInts replaces the int queue. Values are reduced modulo n when drawn.
func (m *ManualMockRoller) SetInts(ints ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints = ints
}

// FloatCalls returns how many floats have been drawn
func (m *ManualMockRoller) FloatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.floatCalls
}

// Float implements dice.Roller.Float
func (m *ManualMockRoller) Float() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.floatCalls++
	if len(m.floats) == 0 {
		return m.fallbackFloat
	}
	next := m.floats[0]
	m.floats = m.floats[1:]
	return next
}

// Intn implements dice.Roller.Intn
func (m *ManualMockRoller) Intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.intCalls++
	if len(m.ints) == 0 || n <= 0 {
		return 0
	}
	next := m.ints[0]
	m.ints = m.ints[1:]
	if next < 0 {
		next = -next
	}
	return next % n
}
