package utils

import (
	"strings"
	"testing"
)

func TestGenerateTransactionReference(t *testing.T) {
	ref, err := GenerateTransactionReference()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(ref, "TXN-") {
		t.Errorf("reference %q should start with TXN-", ref)
	}
	if len(ref) != len("TXN-")+referenceLength {
		t.Errorf("reference %q has length %d, want %d", ref, len(ref), len("TXN-")+referenceLength)
	}
	for _, r := range ref[4:] {
		if !strings.ContainsRune(letterBytes, r) {
			t.Errorf("reference %q contains unexpected character %q", ref, r)
		}
	}
}

func TestGenerateTransactionReferenceUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref, err := GenerateTransactionReference()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = true
	}
}
