package pricing

// Amounts are expressed in minor units (centavos) using int64. Percentages are
// decimal strings so "7.5" survives config and storage without float drift.

// Quote is the priced breakdown for a booking.
//
// StudioFee goes to the studio at completion; ServiceFee goes to the
// instructor (or to the studio when no instructor is attached); PlatformFee is
// retained by the marketplace.
type Quote struct {
	StudioFee   int64 `json:"studio_fee"`
	ServiceFee  int64 `json:"service_fee"`
	PlatformFee int64 `json:"platform_fee"`

	// Total is what the client pays: studio + service + platform.
	Total int64 `json:"total"`
}

// QuoteRequest carries the inputs the fee computation needs. Profile-derived
// fields are plain values so the computation stays pure.
type QuoteRequest struct {
	// SlotPrices are the per-slot prices of every slot in the booking.
	SlotPrices []int64

	// CustomFeePercent, when non-empty, overrides the default service fee
	// percentage (decimal string, e.g. "7.5").
	CustomFeePercent string

	// FoundingPartner halves the platform fee.
	FoundingPartner bool
}
