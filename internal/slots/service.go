package slots

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"studiovault/pkg/timeutil"

	"github.com/google/uuid"
)

// Repository abstracts slot persistence.
//
// ListWindow returns available slots on the date that OVERLAP the window:
// a slot matches when it starts before the window ends and ends after it
// starts, so partial overlaps count. It filters by availability, date, and
// time window ONLY. Location filtering happens in application code on the
// result: stored location areas come from free-form data entry, so the
// database cannot match them reliably.
type Repository interface {
	Insert(ctx context.Context, s Slot) error
	Get(ctx context.Context, id string) (Slot, error)
	ListWindow(ctx context.Context, date time.Time, startTime, endTime string) ([]Slot, error)
}

var (
	ErrNotFound        = errors.New("slot not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreateSlotRequest struct {
	Date         string   `json:"date"` // "2006-01-02"
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Price        int64    `json:"price"`
	Equipment    []string `json:"equipment,omitempty"`
	LocationArea string   `json:"location_area"`
}

func (s *Service) CreateSlot(ctx context.Context, studioID string, req CreateSlotRequest) (Slot, error) {
	if studioID == "" || req.Price <= 0 || req.LocationArea == "" {
		return Slot{}, ErrInvalidArgument
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return Slot{}, ErrInvalidArgument
	}
	start, err := timeutil.NormalizeTimeTo24h(req.StartTime)
	if err != nil {
		return Slot{}, ErrInvalidArgument
	}
	end, err := timeutil.NormalizeTimeTo24h(req.EndTime)
	if err != nil {
		return Slot{}, ErrInvalidArgument
	}
	if start >= end {
		return Slot{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	slot := Slot{
		ID:           uuid.NewString(),
		StudioID:     studioID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Price:        req.Price,
		IsAvailable:  true,
		Equipment:    req.Equipment,
		LocationArea: req.LocationArea,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, slot); err != nil {
		return Slot{}, err
	}
	return slot, nil
}

func (s *Service) Get(ctx context.Context, id string) (Slot, error) {
	if id == "" {
		return Slot{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, id)
}

// FindMatchingStudios returns studios with at least one available slot
// overlapping the requested window at a matching location. Start/end accept
// 12-hour, 24-hour, or already-normalized inputs.
func (s *Service) FindMatchingStudios(ctx context.Context, dateStr, startRaw, endRaw, location string) ([]StudioMatch, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, ErrInvalidArgument
	}
	start, err := timeutil.NormalizeTimeTo24h(startRaw)
	if err != nil {
		return nil, ErrInvalidArgument
	}
	end, err := timeutil.NormalizeTimeTo24h(endRaw)
	if err != nil {
		return nil, ErrInvalidArgument
	}
	if start >= end {
		return nil, ErrInvalidArgument
	}

	candidates, err := s.repo.ListWindow(ctx, date, start, end)
	if err != nil {
		return nil, err
	}

	byStudio := make(map[string]*StudioMatch)
	var order []string
	for _, slot := range candidates {
		if location != "" && !matchesLocation(slot.LocationArea, location) {
			continue
		}
		m, ok := byStudio[slot.StudioID]
		if !ok {
			m = &StudioMatch{StudioID: slot.StudioID, LocationArea: slot.LocationArea}
			byStudio[slot.StudioID] = m
			order = append(order, slot.StudioID)
		}
		m.Slots = append(m.Slots, slot)
	}

	out := make([]StudioMatch, 0, len(order))
	for _, id := range order {
		m := byStudio[id]
		sort.Slice(m.Slots, func(i, j int) bool { return m.Slots[i].StartTime < m.Slots[j].StartTime })
		out = append(out, *m)
	}
	return out, nil
}

// matchesLocation is intentionally fuzzy to tolerate inconsistent data entry:
// exact match, or a case/whitespace-insensitive prefix match against the
// "<area> - <sub-area>" convention ("makati" matches "Makati - Poblacion").
func matchesLocation(stored, query string) bool {
	if stored == query {
		return true
	}
	ns := normalizeLocation(stored)
	nq := normalizeLocation(query)
	if ns == "" || nq == "" {
		return false
	}
	return ns == nq || strings.HasPrefix(ns, nq)
}

func normalizeLocation(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
