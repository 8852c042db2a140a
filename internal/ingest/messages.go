package ingest

import (
	"sync"
	"time"

	"temperature_monitor/internal/models"
)

// DefaultMessageCap bounds the diagnostic buffer; oldest entries are evicted.
const DefaultMessageCap = 100

// MessageBuffer is the bounded serial-monitor buffer. Every rejected token,
// firmware diagnostic and transport fault lands here so an operator can audit
// what was dropped and why. Oldest-evicted at fixed capacity.
type MessageBuffer struct {
	mu   sync.Mutex
	max  int
	msgs []models.Diagnostic
	now  func() time.Time
}

func NewMessageBuffer(max int) *MessageBuffer {
	if max <= 0 {
		max = DefaultMessageCap
	}
	return &MessageBuffer{max: max, now: time.Now}
}

// Add appends one diagnostic, evicting the oldest entry when full.
func (b *MessageBuffer) Add(severity, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.msgs = append(b.msgs, models.Diagnostic{
		Timestamp: b.now(),
		Severity:  severity,
		Text:      text,
	})
	if len(b.msgs) > b.max {
		b.msgs = append(b.msgs[:0], b.msgs[len(b.msgs)-b.max:]...)
	}
}

// All returns a copy of the buffered messages, oldest first.
func (b *MessageBuffer) All() []models.Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Diagnostic, len(b.msgs))
	copy(out, b.msgs)
	return out
}

// Filtered returns buffered messages matching one severity.
func (b *MessageBuffer) Filtered(severity string) []models.Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Diagnostic
	for _, m := range b.msgs {
		if m.Severity == severity {
			out = append(out, m)
		}
	}
	return out
}

// Clear drops all buffered messages.
func (b *MessageBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = nil
}
