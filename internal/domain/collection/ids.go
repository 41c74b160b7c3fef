package collection

import (
	"sync"
	"time"
)

// IDGenerator issues ids from the wall clock in milliseconds. When the clock
// has not advanced past the previous id the next id is previous+1, so ids
// are strictly increasing for the lifetime of the generator.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id and the creation timestamp it was derived from
func (g *IDGenerator) Next() (int64, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	at := g.now()
	id := at.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id, at
}

// Default is shared by repositories that are not given their own generator
var Default = NewIDGenerator(time.Now)
