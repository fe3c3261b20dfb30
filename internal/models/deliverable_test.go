package models

import "testing"

func TestIsValidDeliverableTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{DeliverableStatusPending, DeliverableStatusUploaded, true},
		{DeliverableStatusUploaded, DeliverableStatusInReview, true},
		{DeliverableStatusUploaded, DeliverableStatusApproved, true},
		{DeliverableStatusUploaded, DeliverableStatusRejected, true},
		{DeliverableStatusUploaded, DeliverableStatusChangesRequested, true},
		{DeliverableStatusInReview, DeliverableStatusApproved, true},
		{DeliverableStatusInReview, DeliverableStatusChangesRequested, true},
		{DeliverableStatusInReview, DeliverableStatusRejected, true},

		// Re-upload loop
		{DeliverableStatusChangesRequested, DeliverableStatusUploaded, true},
		{DeliverableStatusChangesRequested, DeliverableStatusApproved, false},
		{DeliverableStatusChangesRequested, DeliverableStatusRejected, false},

		// Invalid transitions
		{DeliverableStatusPending, DeliverableStatusApproved, false},
		{DeliverableStatusPending, DeliverableStatusInReview, false},
		{DeliverableStatusApproved, DeliverableStatusUploaded, false},
		{DeliverableStatusApproved, DeliverableStatusRejected, false},
		{DeliverableStatusRejected, DeliverableStatusUploaded, false},
		{DeliverableStatusRejected, DeliverableStatusApproved, false},
		{"nonexistent", DeliverableStatusUploaded, false},
		{DeliverableStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidDeliverableTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidDeliverableTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestDeliverableTerminalStatusesHaveNoTransitions(t *testing.T) {
	terminal := []string{DeliverableStatusApproved, DeliverableStatusRejected}
	for _, status := range terminal {
		transitions := ValidDeliverableTransitions[status]
		if len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}
}

func TestAllDeliverableStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{
		DeliverableStatusPending, DeliverableStatusUploaded, DeliverableStatusInReview,
		DeliverableStatusChangesRequested, DeliverableStatusApproved, DeliverableStatusRejected,
	}

	for _, status := range allStatuses {
		if _, ok := ValidDeliverableTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidDeliverableTransitions map", status)
		}
	}
}

func TestAcceptsUpload(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		revCount int
		maxRev   int
		expected bool
	}{
		{"first upload from pending", DeliverableStatusPending, 0, 2, true},
		{"re-upload with revisions left", DeliverableStatusChangesRequested, 1, 2, true},
		{"re-upload at the cap", DeliverableStatusChangesRequested, 2, 2, false},
		{"uploaded does not accept", DeliverableStatusUploaded, 1, 2, false},
		{"in_review does not accept", DeliverableStatusInReview, 1, 2, false},
		{"approved is terminal", DeliverableStatusApproved, 1, 2, false},
		{"rejected is terminal", DeliverableStatusRejected, 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Deliverable{Status: tt.status, RevisionCount: tt.revCount, MaxRevisions: tt.maxRev}
			if got := d.AcceptsUpload(); got != tt.expected {
				t.Errorf("AcceptsUpload() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNextVersionTracksRevisionCount(t *testing.T) {
	d := Deliverable{Status: DeliverableStatusPending, MaxRevisions: 2}

	// First upload: version 1, revision_count becomes 1.
	if v := d.NextVersion(); v != 1 {
		t.Fatalf("first NextVersion() = %d, want 1", v)
	}
	d.RevisionCount = d.NextVersion()
	d.Status = DeliverableStatusUploaded
	if d.RevisionCount != 1 {
		t.Fatalf("revision_count after first upload = %d, want 1", d.RevisionCount)
	}

	// Brand requests changes, creator re-uploads: version 2 = new revision_count.
	d.Status = DeliverableStatusChangesRequested
	if !d.AcceptsUpload() {
		t.Fatal("expected re-upload to be allowed with revisions left")
	}
	if v := d.NextVersion(); v != 2 {
		t.Fatalf("second NextVersion() = %d, want 2", v)
	}
	d.RevisionCount = d.NextVersion()
	d.Status = DeliverableStatusUploaded
	if d.RevisionCount != 2 {
		t.Fatalf("revision_count after revision = %d, want 2", d.RevisionCount)
	}

	// Cap reached: a third upload attempt is refused.
	d.Status = DeliverableStatusChangesRequested
	if d.AcceptsUpload() {
		t.Fatal("expected upload past max_revisions to be refused")
	}
}

func TestValidRating(t *testing.T) {
	if !ValidRating(nil) {
		t.Error("missing rating must be accepted")
	}
	for _, r := range []int{1, 3, 5} {
		v := r
		if !ValidRating(&v) {
			t.Errorf("rating %d must be accepted", r)
		}
	}
	for _, r := range []int{0, -1, 6} {
		v := r
		if ValidRating(&v) {
			t.Errorf("rating %d must be rejected", r)
		}
	}
}
