package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindMatching(t *testing.T) {
	err := E(KindConflict, "%s is taken", "a@x.com")

	if !errors.Is(err, &Error{Kind: KindConflict}) {
		t.Error("kind-only matcher should match any conflict error")
	}
	if errors.Is(err, &Error{Kind: KindNotFound}) {
		t.Error("conflict error should not match a not-found matcher")
	}
	if err.Error() != "a@x.com is taken" {
		t.Errorf("Error() = %q, want %q", err.Error(), "a@x.com is taken")
	}
}

func TestErrorSentinels(t *testing.T) {
	if !errors.Is(ErrAccountNotFound, ErrAccountNotFound) {
		t.Error("sentinel should match itself")
	}
	if errors.Is(ErrAccountNotFound, ErrVerificationNotFound) {
		t.Error("distinct not-found sentinels should not match each other")
	}

	// Wrapped errors still resolve to their kind.
	wrapped := fmt.Errorf("lookup: %w", ErrTokenExpired)
	if KindOf(wrapped) != KindTokenExpired {
		t.Errorf("KindOf(wrapped) = %q, want %q", KindOf(wrapped), KindTokenExpired)
	}
}

func TestKindOf_UntypedError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("untyped errors should report KindInternal")
	}
}
