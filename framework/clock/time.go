package clock

import (
	"sync"
	"time"
)

// TimeProvider is the clock's time source.
type TimeProvider interface {
	Now() time.Time
}

// RealTime reads the system monotonic clock.
type RealTime struct{}

func (RealTime) Now() time.Time { return time.Now() }

// MockTime is a controllable time source for tests.
type MockTime struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockTime(start time.Time) *MockTime {
	return &MockTime{now: start}
}

func (m *MockTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the mock to t, which may be in the past.
func (m *MockTime) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
