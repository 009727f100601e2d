package auth

import "testing"

func TestHashID_Deterministic(t *testing.T) {
	t.Parallel()

	a := HashID("alice@registry")
	b := HashID("alice@registry")

	if a != b {
		t.Fatalf("same input produced different ids: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHashID_DistinctInputs(t *testing.T) {
	t.Parallel()

	if HashID("alice@registry") == HashID("bob@registry") {
		t.Fatal("different emails mapped to the same id")
	}
}

func TestHashID_DoesNotExposeInput(t *testing.T) {
	t.Parallel()

	id := HashID("carol@example.org")
	if id == "carol@example.org" {
		t.Fatal("id must not be the raw input")
	}
}
