package pricing

import (
	"testing"

	"studiovault/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(config.FeeConfig{ServiceFeePercent: "10", PlatformFeePercent: "5"})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return s
}

func TestQuote_DefaultPercentages(t *testing.T) {
	s := newTestService(t)

	q, err := s.Quote(QuoteRequest{SlotPrices: []int64{100000}}) // PHP 1000.00
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.StudioFee != 100000 {
		t.Fatalf("studio fee = %d", q.StudioFee)
	}
	if q.ServiceFee != 10000 {
		t.Fatalf("service fee = %d", q.ServiceFee)
	}
	if q.PlatformFee != 5000 {
		t.Fatalf("platform fee = %d", q.PlatformFee)
	}
	if q.Total != 115000 {
		t.Fatalf("total = %d", q.Total)
	}
}

func TestQuote_MultiSlotSums(t *testing.T) {
	s := newTestService(t)

	q, err := s.Quote(QuoteRequest{SlotPrices: []int64{50000, 50000, 25000}})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.StudioFee != 125000 {
		t.Fatalf("studio fee = %d", q.StudioFee)
	}
}

func TestQuote_CustomFeeOverride(t *testing.T) {
	s := newTestService(t)

	q, err := s.Quote(QuoteRequest{SlotPrices: []int64{100000}, CustomFeePercent: "7.5"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.ServiceFee != 7500 {
		t.Fatalf("service fee = %d, want 7500", q.ServiceFee)
	}
}

func TestQuote_FoundingPartnerHalvesPlatformFee(t *testing.T) {
	s := newTestService(t)

	q, err := s.Quote(QuoteRequest{SlotPrices: []int64{100000}, FoundingPartner: true})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.PlatformFee != 2500 {
		t.Fatalf("platform fee = %d, want 2500", q.PlatformFee)
	}
}

func TestQuote_RoundsToMinorUnits(t *testing.T) {
	s := newTestService(t)

	// 10% of 333 centavos is 33.3; round half-up to 33.
	q, err := s.Quote(QuoteRequest{SlotPrices: []int64{333}})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.ServiceFee != 33 {
		t.Fatalf("service fee = %d, want 33", q.ServiceFee)
	}
}

func TestQuote_RejectsInvalidInput(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Quote(QuoteRequest{}); err != ErrInvalidQuoteReq {
		t.Fatalf("expected ErrInvalidQuoteReq, got %v", err)
	}
	if _, err := s.Quote(QuoteRequest{SlotPrices: []int64{0}}); err != ErrInvalidQuoteReq {
		t.Fatalf("expected ErrInvalidQuoteReq for zero price, got %v", err)
	}
	if _, err := s.Quote(QuoteRequest{SlotPrices: []int64{100}, CustomFeePercent: "abc"}); err != ErrInvalidPercent {
		t.Fatalf("expected ErrInvalidPercent, got %v", err)
	}
	if _, err := NewService(config.FeeConfig{ServiceFeePercent: "101", PlatformFeePercent: "5"}); err == nil {
		t.Fatalf("expected percent >100 to be rejected")
	}
}
