package crypto_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/taskcrate/backend/internal/common/crypto"
)

func TestUUIDGenerator(t *testing.T) {
	gen := crypto.NewUUIDGenerator()

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("expected a parseable uuid, got %q: %v", first, err)
	}

	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first == second {
		t.Error("expected successive ids to differ")
	}
}
