package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/paperreader/paperbot/storage"
)

func TestFingerprintRoundTrip(t *testing.T) {
	_, fingerprintRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	_, err = fingerprintRepo.GetFingerprint(ctx, "2026-08-30")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for unseen window, got %v", err)
	}

	if err := fingerprintRepo.PutFingerprint(ctx, "2026-08-30", "abc123"); err != nil {
		t.Fatalf("Failed to put fingerprint: %v", err)
	}

	got, err := fingerprintRepo.GetFingerprint(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("Failed to get fingerprint: %v", err)
	}
	if got != "abc123" {
		t.Fatalf("Expected abc123, got %q", got)
	}

	// Windows are independent
	_, err = fingerprintRepo.GetFingerprint(ctx, "2026-08-31")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for other window, got %v", err)
	}

	// Replacement within a window
	if err := fingerprintRepo.PutFingerprint(ctx, "2026-08-30", "def456"); err != nil {
		t.Fatalf("Failed to replace fingerprint: %v", err)
	}
	got, err = fingerprintRepo.GetFingerprint(ctx, "2026-08-30")
	if err != nil || got != "def456" {
		t.Fatalf("Expected def456, got %q (err=%v)", got, err)
	}
}
