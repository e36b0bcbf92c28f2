package wallet

import "time"

// The wallet keeps two balances per profile: pending (escrowed until the
// 24-hour post-session hold matures) and available (spendable).
//
// Money invariants:
// - No balance column update without a ledger entry in the same transaction
// - Ledger is append-only (immutable)
// - All money operations must be executed in a DB transaction
type Bucket string

const (
	BucketAvailable Bucket = "available"
	BucketPending   Bucket = "pending"
)

// LedgerEntry is an immutable append-only row. Each row represents a signed
// amount posted to one bucket of one profile's balance.
type LedgerEntry struct {
	ID        string `json:"id" db:"id"`
	ProfileID string `json:"profile_id" db:"profile_id"`

	// Type categorizes the ledger entry. Keep stable.
	Type EntryType `json:"type" db:"type"`

	Bucket Bucket `json:"bucket" db:"bucket"`

	// Amount is signed, in minor units (centavos). Credits are positive,
	// debits are negative.
	Amount int64 `json:"amount" db:"amount"`

	// ExternalRef is optional: booking_id, top_up_id, etc.
	ExternalRef string `json:"external_ref,omitempty" db:"external_ref"`

	// IdempotencyKey is required for safe retries of money-posting operations.
	IdempotencyKey string `json:"idempotency_key" db:"idempotency_key"`

	// Metadata is optional JSON for audit/debug (stored as JSONB).
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EntryType string

const (
	EntryTypeCredit  EntryType = "credit"  // top-up approval, refund
	EntryTypeDebit   EntryType = "debit"   // wallet deduction at booking
	EntryTypeHold    EntryType = "hold"    // escrow credit at completion
	EntryTypeRelease EntryType = "release" // escrow release at unlock
)

// Balance is the projected pair of balances for a profile.
type Balance struct {
	ProfileID string    `json:"profile_id"`
	Available int64     `json:"available_balance"`
	Pending   int64     `json:"pending_balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TopUp is a client request to add spendable funds, backed by an uploaded
// payment screenshot an admin reviews. Approval credits the available balance
// directly; there is no pending stage for top-ups.
type TopUp struct {
	ID     string      `json:"id" db:"id"`
	UserID string      `json:"user_id" db:"user_id"`
	Amount int64       `json:"amount" db:"amount"`
	Status TopUpStatus `json:"status" db:"status"`

	PaymentProofURL string `json:"payment_proof_url,omitempty" db:"payment_proof_url"`
	RejectionReason string `json:"rejection_reason,omitempty" db:"rejection_reason"`

	DecidedBy string     `json:"decided_by,omitempty" db:"decided_by"`
	DecidedAt *time.Time `json:"decided_at,omitempty" db:"decided_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type TopUpStatus string

const (
	TopUpStatusPending  TopUpStatus = "pending"
	TopUpStatusApproved TopUpStatus = "approved"
	TopUpStatusRejected TopUpStatus = "rejected"
)
