package profile

import (
	"time"

	"studiovault/internal/rbac"
)

// Profile is a marketplace account: customer, instructor, studio, or admin.
// Balance columns are projections of the append-only wallet ledger; no code may
// mutate them without writing a ledger entry in the same transaction.
type Profile struct {
	ID          string    `json:"id" db:"id"`
	Role        rbac.Role `json:"role" db:"role"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Email       string    `json:"email" db:"email"`

	// LocationArea uses the "<area> - <sub-area>" convention, e.g. "Makati - Poblacion".
	LocationArea string `json:"location_area,omitempty" db:"location_area"`

	// AvailableBalance is spendable; PendingBalance is escrowed until the
	// 24-hour post-session hold matures. Minor units (centavos).
	AvailableBalance int64 `json:"available_balance" db:"available_balance"`
	PendingBalance   int64 `json:"pending_balance" db:"pending_balance"`

	IsSuspended bool `json:"is_suspended" db:"is_suspended"`

	// CustomFeePercent overrides the default service fee percentage when set
	// (decimal string, e.g. "7.5").
	CustomFeePercent string `json:"custom_fee_percent,omitempty" db:"custom_fee_percent"`

	IsFoundingPartner bool `json:"is_founding_partner" db:"is_founding_partner"`

	// DocumentExpiresAt applies to instructors (certification documents).
	DocumentExpiresAt *time.Time `json:"document_expires_at,omitempty" db:"document_expires_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
