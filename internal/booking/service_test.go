package booking

import (
	"errors"
	"testing"
	"time"
)

func TestValidateCreate(t *testing.T) {
	ok := CreateRequest{SlotIDs: []string{"s1", "s2"}, WalletDeduction: 1000}
	if err := validateCreate("client-1", ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name     string
		clientID string
		req      CreateRequest
	}{
		{"missing client", "", ok},
		{"no slots", "client-1", CreateRequest{}},
		{"empty slot id", "client-1", CreateRequest{SlotIDs: []string{""}}},
		{"duplicate slot", "client-1", CreateRequest{SlotIDs: []string{"s1", "s1"}}},
		{"negative deduction", "client-1", CreateRequest{SlotIDs: []string{"s1"}, WalletDeduction: -1}},
	}
	for _, tc := range cases {
		if err := validateCreate(tc.clientID, tc.req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
}

func TestBreakdownTotal(t *testing.T) {
	b := Breakdown{StudioFee: 100000, ServiceFee: 10000, PlatformFee: 5000, WalletDeduction: 50000}
	if got := b.Total(); got != 115000 {
		t.Fatalf("Total() = %d, want 115000", got)
	}
}

func TestShares(t *testing.T) {
	b := Booking{
		InstructorID: "instructor-1",
		Breakdown:    Breakdown{StudioFee: 100000, ServiceFee: 10000, PlatformFee: 5000},
	}
	studio, instructor := b.shares()
	if studio != 100000 || instructor != 10000 {
		t.Fatalf("shares() = %d/%d, want 100000/10000", studio, instructor)
	}

	b.InstructorID = ""
	studio, instructor = b.shares()
	if studio != 110000 || instructor != 0 {
		t.Fatalf("shares() without instructor = %d/%d, want 110000/0", studio, instructor)
	}
}

func TestPaidAmount(t *testing.T) {
	b := Booking{Breakdown: Breakdown{StudioFee: 100000, ServiceFee: 10000, PlatformFee: 5000, WalletDeduction: 30000}}

	if got := paidAmount(b); got != 30000 {
		t.Fatalf("paidAmount without proof = %d, want wallet deduction 30000", got)
	}

	b.PaymentProofURL = "https://proofs.example/x.jpg"
	if got := paidAmount(b); got != 115000 {
		t.Fatalf("paidAmount with proof = %d, want total 115000", got)
	}
}

func TestPrimarySlotID(t *testing.T) {
	if got := (Booking{}).PrimarySlotID(); got != "" {
		t.Fatalf("expected empty primary slot, got %q", got)
	}
	b := Booking{BookedSlotIDs: []string{"s1", "s2"}}
	if got := b.PrimarySlotID(); got != "s1" {
		t.Fatalf("expected s1, got %q", got)
	}
}

func TestLifecycleWindows(t *testing.T) {
	// These constants anchor sweep cutoffs and refund policy; a change
	// here must be deliberate.
	if CompletionLag != time.Hour {
		t.Fatalf("CompletionLag = %v", CompletionLag)
	}
	if UnlockHold != 24*time.Hour {
		t.Fatalf("UnlockHold = %v", UnlockHold)
	}
	if CancelRefundCutoff != 24*time.Hour {
		t.Fatalf("CancelRefundCutoff = %v", CancelRefundCutoff)
	}
}
