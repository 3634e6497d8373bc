package clock

import "time"

// Clock supplies the current time to the history store
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time
type RealClock struct{}

// NewRealClock creates a new RealClock
func NewRealClock() Clock {
	return &RealClock{}
}

// Now returns the current system time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// MockClock returns a fixed time that tests can move
type MockClock struct {
	current time.Time
}

// NewMockClock creates a new MockClock starting at the given time
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{current: startTime}
}

// Now returns the mock current time
func (m *MockClock) Now() time.Time {
	return m.current
}

// Set sets the mock current time
func (m *MockClock) Set(t time.Time) {
	m.current = t
}

// Advance moves the mock clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.current = m.current.Add(d)
}
