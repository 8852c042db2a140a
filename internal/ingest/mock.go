package ingest

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// mockIDs carry the synthetic prefix the registry recognizes for
// counter-based display names.
var mockIDs = [...]string{
	"280000AABBCC0001",
	"280000AABBCC0002",
	"280000AABBCC0003",
}

var mockBaseTemps = [...]float64{23, 24, 22}

const mockLineInterval = time.Second

// MockSource fabricates sensor lines so the whole pipeline runs without an
// attached microcontroller. One line per interval, with a slow upward drift
// and per-reading jitter.
type MockSource struct {
	mu       sync.Mutex
	counter  int
	lastLine time.Time
	lastCmd  string
	closed   bool
	now      func() time.Time
}

func NewMockSource() *MockSource {
	return &MockSource{now: time.Now}
}

func (m *MockSource) ReadLine() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", fmt.Errorf("mock source closed")
	}
	if m.now().Sub(m.lastLine) < mockLineInterval {
		return "", nil
	}
	m.lastLine = m.now()
	m.counter++

	parts := make([]string, 0, len(mockIDs))
	for i, id := range mockIDs {
		temp := mockBaseTemps[i] + (rand.Float64()-0.5) + float64(m.counter)*0.01
		parts = append(parts, fmt.Sprintf("%s:%.2f", id, temp))
	}
	return strings.Join(parts, ","), nil
}

// WriteCommand records the command; a RESCAN acknowledges on the next line.
func (m *MockSource) WriteCommand(cmd string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("mock source closed")
	}
	m.lastCmd = cmd
	return nil
}

// LastCommand returns the most recent command written to the source.
func (m *MockSource) LastCommand() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCmd
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
