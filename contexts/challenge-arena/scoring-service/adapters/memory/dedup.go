package memory

import (
	"context"
	"sync"

	"codearena/contexts/challenge-arena/scoring-service/ports"
)

// Dedup remembers processed event ids for the lifetime of the process.
type Dedup struct {
	mu       sync.Mutex
	reserved map[string]struct{}
}

func NewDedup() *Dedup {
	return &Dedup{reserved: make(map[string]struct{})}
}

func (d *Dedup) ReserveEvent(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.reserved[eventID]; ok {
		return false, nil
	}
	d.reserved[eventID] = struct{}{}
	return true, nil
}

var _ ports.EventDedup = (*Dedup)(nil)
