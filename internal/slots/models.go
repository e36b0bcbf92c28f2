package slots

import "time"

// Slot is one bookable hour block at a studio. Times-of-day are stored as
// canonical "HH:mm:ss" strings in UTC; Date is the UTC calendar day.
//
// Invariant: is_available is false iff the slot is referenced by a booking in
// a non-terminal state (pending or approved). Only booking transitions flip
// the flag, always inside the transaction that changes the booking status.
type Slot struct {
	ID       string `json:"id" db:"id"`
	StudioID string `json:"studio_id" db:"studio_id"`

	Date      time.Time `json:"date" db:"date"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`

	// Price in minor units (centavos).
	Price int64 `json:"price" db:"price"`

	IsAvailable bool `json:"is_available" db:"is_available"`

	// Equipment tags, e.g. ["reformer", "tower"]. Stored as JSONB.
	Equipment []string `json:"equipment,omitempty" db:"equipment"`

	// LocationArea is denormalized from the studio profile,
	// "<area> - <sub-area>" convention.
	LocationArea string `json:"location_area" db:"location_area"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StartAt returns the slot's start instant in UTC.
func (s Slot) StartAt() time.Time {
	return combine(s.Date, s.StartTime)
}

// EndAt returns the slot's end instant in UTC.
func (s Slot) EndAt() time.Time {
	return combine(s.Date, s.EndTime)
}

func combine(date time.Time, hms string) time.Time {
	t, err := time.Parse("15:04:05", hms)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// StudioMatch groups a studio's available slots for a search window.
type StudioMatch struct {
	StudioID     string `json:"studio_id"`
	LocationArea string `json:"location_area"`
	Slots        []Slot `json:"slots"`
}
