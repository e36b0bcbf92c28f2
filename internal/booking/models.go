package booking

import "time"

// Status is the booking lifecycle state. Transitions are governed by the
// table in fsm.go; nothing else mutates status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

const (
	// CompletionLag is how long after a session's end time the sweep waits
	// before auto-completing an approved booking.
	CompletionLag = time.Hour
	// UnlockHold is how long provider earnings stay in the pending bucket
	// after completion before they become withdrawable.
	UnlockHold = 24 * time.Hour
	// CancelRefundCutoff is the minimum notice before session start for a
	// cancellation to be refunded.
	CancelRefundCutoff = 24 * time.Hour
)

// Breakdown is the money split fixed at creation time, in centavos.
// WalletDeduction is the portion the client paid from their wallet; the
// remainder of Total was paid out of band and evidenced by payment proof.
type Breakdown struct {
	StudioFee       int64 `json:"studio_fee"`
	ServiceFee      int64 `json:"service_fee"`
	PlatformFee     int64 `json:"platform_fee"`
	WalletDeduction int64 `json:"wallet_deduction"`
}

func (b Breakdown) Total() int64 {
	return b.StudioFee + b.ServiceFee + b.PlatformFee
}

type Booking struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	// InstructorID is empty for studio-only sessions; the service fee then
	// falls to the studio.
	InstructorID string `json:"instructor_id,omitempty"`
	StudioID     string `json:"studio_id"`
	// BookedSlotIDs lists every reserved slot; the first is the primary
	// slot whose start time anchors the cancellation refund cutoff.
	// Completion anchors on the latest end time across all slots.
	BookedSlotIDs   []string   `json:"booked_slot_ids"`
	Status          Status     `json:"status"`
	Breakdown       Breakdown  `json:"breakdown"`
	PaymentProofURL string     `json:"payment_proof_url,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	FundsUnlocked   bool       `json:"funds_unlocked"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PrimarySlotID returns the slot whose start time anchors the cancellation
// refund cutoff.
func (b Booking) PrimarySlotID() string {
	if len(b.BookedSlotIDs) == 0 {
		return ""
	}
	return b.BookedSlotIDs[0]
}

// shares splits provider earnings for escrow postings. The studio always
// earns the studio fee; the service fee goes to the instructor when one is
// attached, otherwise it stays with the studio. The platform fee is never
// escrowed to a profile.
func (b Booking) shares() (studio, instructor int64) {
	studio = b.Breakdown.StudioFee
	instructor = b.Breakdown.ServiceFee
	if b.InstructorID == "" {
		studio += instructor
		instructor = 0
	}
	return studio, instructor
}
