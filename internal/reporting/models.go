package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// BookingsSummaryRequest requests aggregated booking metrics. StudioID is
// optional; empty means platform-wide.

type BookingsSummaryRequest struct {
	Range    TimeRange `json:"range"`
	StudioID string    `json:"studio_id,omitempty"`
}

type BookingsSummary struct {
	StudioID string `json:"studio_id,omitempty"`

	TotalBookings     int `json:"total_bookings"`
	PendingBookings   int `json:"pending_bookings"`
	ApprovedBookings  int `json:"approved_bookings"`
	CompletedBookings int `json:"completed_bookings"`
	RejectedBookings  int `json:"rejected_bookings"`
	ExpiredBookings   int `json:"expired_bookings"`
	CancelledBookings int `json:"cancelled_bookings"`

	// Revenue figures count completed bookings only, in centavos.
	GrossRevenue    int64 `json:"gross_revenue"`
	PlatformRevenue int64 `json:"platform_revenue"`
}

// EarningsSummaryRequest requests one profile's money flow, derived from
// immutable wallet ledger entries.

type EarningsSummaryRequest struct {
	ProfileID string    `json:"profile_id"`
	Range     TimeRange `json:"range"`
}

type EarningsSummary struct {
	ProfileID string `json:"profile_id"`

	TotalCredits int64 `json:"total_credits"`
	TotalDebits  int64 `json:"total_debits"`
	NetDelta     int64 `json:"net_delta"`

	// EscrowHeld is what entered the pending bucket; EscrowReleased is what
	// matured out of it into available.
	EscrowHeld     int64 `json:"escrow_held"`
	EscrowReleased int64 `json:"escrow_released"`
}
