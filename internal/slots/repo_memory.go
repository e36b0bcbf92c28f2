package slots

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu    sync.Mutex
	slots map[string]Slot
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{slots: make(map[string]Slot)}
}

func (r *MemoryRepo) Insert(ctx context.Context, s Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[s.ID] = s
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return Slot{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) ListWindow(ctx context.Context, date time.Time, startTime, endTime string) ([]Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Slot
	for _, s := range r.slots {
		if !s.IsAvailable {
			continue
		}
		if !sameDay(s.Date, date) {
			continue
		}
		if s.StartTime >= endTime || s.EndTime <= startTime {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// SetAvailable flips availability directly; tests use it to simulate booked slots.
func (r *MemoryRepo) SetAvailable(id string, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[id]; ok {
		s.IsAvailable = available
		r.slots[id] = s
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
