package models

import "testing"

func TestIsValidEscrowTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{EscrowStatusPendingPayment, EscrowStatusPaymentProcessing, true},
		{EscrowStatusPendingPayment, EscrowStatusFunded, true},
		{EscrowStatusPaymentProcessing, EscrowStatusFunded, true},
		{EscrowStatusFunded, EscrowStatusReleasePending, true},
		{EscrowStatusReleasePending, EscrowStatusReleased, true},

		// Failure branches
		{EscrowStatusPendingPayment, EscrowStatusFailed, true},
		{EscrowStatusPaymentProcessing, EscrowStatusFailed, true},
		{EscrowStatusFunded, EscrowStatusRefunded, true},
		{EscrowStatusFunded, EscrowStatusDisputed, true},

		// Compensating edge: payout failure reverts to funded for retry
		{EscrowStatusReleasePending, EscrowStatusFunded, true},

		// Invalid transitions
		{EscrowStatusPendingPayment, EscrowStatusReleased, false},
		{EscrowStatusPendingPayment, EscrowStatusReleasePending, false},
		{EscrowStatusFunded, EscrowStatusFailed, false},
		{EscrowStatusReleased, EscrowStatusFunded, false},
		{EscrowStatusReleased, EscrowStatusRefunded, false},
		{EscrowStatusRefunded, EscrowStatusFunded, false},
		{EscrowStatusFailed, EscrowStatusFunded, false},
		{"nonexistent", EscrowStatusFunded, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidEscrowTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidEscrowTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestEscrowTerminalStatusesHaveNoTransitions(t *testing.T) {
	terminal := []string{EscrowStatusReleased, EscrowStatusRefunded, EscrowStatusFailed}
	for _, status := range terminal {
		transitions := ValidEscrowTransitions[status]
		if len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}
}

func TestComputeEscrowAmounts(t *testing.T) {
	tests := []struct {
		name       string
		gross      int64
		feePercent int
		wantFee    int64
		wantNet    int64
	}{
		{"fifteen percent on 1.15M", 1150000, 15, 172500, 977500},
		{"exact division", 100000, 10, 10000, 90000},
		{"rounds half up", 333, 15, 50, 283}, // 49.95 -> 50
		{"small amount", 1, 15, 0, 1},
		{"zero fee", 500000, 0, 0, 500000},
		{"full fee", 500000, 100, 500000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEscrowAmounts(tt.gross, tt.feePercent)
			if got.PlatformFee != tt.wantFee {
				t.Errorf("PlatformFee = %d, want %d", got.PlatformFee, tt.wantFee)
			}
			if got.Creator != tt.wantNet {
				t.Errorf("Creator = %d, want %d", got.Creator, tt.wantNet)
			}
			if got.Creator+got.PlatformFee != got.Gross {
				t.Errorf("Creator+PlatformFee = %d, want gross %d", got.Creator+got.PlatformFee, got.Gross)
			}
		})
	}
}

func TestComputeEscrowAmountsSumInvariant(t *testing.T) {
	for gross := int64(0); gross < 10000; gross += 37 {
		for _, pct := range []int{0, 5, 10, 15, 20, 50, 100} {
			a := ComputeEscrowAmounts(gross, pct)
			if a.Creator+a.PlatformFee != gross {
				t.Fatalf("sum invariant broken: gross=%d pct=%d fee=%d creator=%d", gross, pct, a.PlatformFee, a.Creator)
			}
		}
	}
}

func TestEscrowReleaseRetryCycle(t *testing.T) {
	// A failed payout compensates release_pending back to funded; the same
	// escrow must then be claimable again for the retry.
	steps := []struct{ from, to string }{
		{EscrowStatusFunded, EscrowStatusReleasePending},
		{EscrowStatusReleasePending, EscrowStatusFunded},
		{EscrowStatusFunded, EscrowStatusReleasePending},
		{EscrowStatusReleasePending, EscrowStatusReleased},
	}
	for i, s := range steps {
		if !IsValidEscrowTransition(s.from, s.to) {
			t.Errorf("step %d: transition %s -> %s must be valid", i, s.from, s.to)
		}
	}
}
