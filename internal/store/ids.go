package store

import (
	"forcemap/internal/domain"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for nodes created without one
type IDGenerator interface {
	// Next returns a fresh identifier
	Next() domain.NodeID
	// Observe tells the generator an identifier is in use
	Observe(id domain.NodeID)
}

// CounterIDs generates increasing integer identifiers starting at 1. It skips
// past every integer identifier it has observed, so nodes added after a
// restore never reuse a loaded identifier.
type CounterIDs struct {
	next int64
}

// NewCounterIDs creates a counter generator
func NewCounterIDs() *CounterIDs {
	return &CounterIDs{next: 1}
}

// Next returns the next integer identifier
func (c *CounterIDs) Next() domain.NodeID {
	if c.next < 1 {
		c.next = 1
	}
	id := domain.IntID(c.next)
	c.next++
	return id
}

// Observe advances the counter past id when id is an integer
func (c *CounterIDs) Observe(id domain.NodeID) {
	if n, ok := id.Int(); ok && n >= c.next {
		c.next = n + 1
	}
}

// UUIDIDs generates time-ordered UUIDv7 string identifiers
type UUIDIDs struct{}

// NewUUIDIDs creates a UUID generator
func NewUUIDIDs() *UUIDIDs {
	return &UUIDIDs{}
}

// Next returns a new UUIDv7, falling back to a random v4
func (UUIDIDs) Next() domain.NodeID {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.StringID(uuid.NewString())
	}
	return domain.StringID(id.String())
}

// Observe is a no-op; UUIDs do not collide with loaded identifiers
func (UUIDIDs) Observe(domain.NodeID) {}

// NewIDGenerator returns the generator named by kind ("counter" or "uuid")
func NewIDGenerator(kind string) IDGenerator {
	if kind == "uuid" {
		return NewUUIDIDs()
	}
	return NewCounterIDs()
}
