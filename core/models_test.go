package core

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint([]byte("daily papers page"))
	b := Fingerprint([]byte("daily papers page"))
	if a != b {
		t.Fatalf("same content produced different fingerprints: %s vs %s", a, b)
	}

	c := Fingerprint([]byte("daily papers page, updated"))
	if a == c {
		t.Fatal("different content produced identical fingerprints")
	}

	// BLAKE2b-256 hex digest is 64 characters
	if len(a) != 64 {
		t.Fatalf("expected 64-char digest, got %d", len(a))
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Status("archived").Valid() {
		t.Error("unknown status reported valid")
	}
	if Status("").Valid() {
		t.Error("empty status reported valid")
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusFailed, StatusPending, true},

		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusProcessing, false},
		{StatusFailed, StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusCompleted.Terminal() {
		t.Error("completed should be terminal")
	}
	// Failed is not terminal: retry can reset it to pending.
	if StatusFailed.Terminal() {
		t.Error("failed should not be terminal")
	}
}

func TestPaperRetryable(t *testing.T) {
	p := &Paper{Status: StatusFailed, RetryCount: 2}
	if !p.Retryable(3) {
		t.Error("failed paper under budget should be retryable")
	}
	if p.Retryable(2) {
		t.Error("paper at retry budget should not be retryable")
	}

	p.Status = StatusCompleted
	if p.Retryable(3) {
		t.Error("completed paper should never be retryable")
	}
}
