package commonerrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	commonerrors "github.com/taskcrate/backend/internal/common/errors"
)

func TestDomainError_WithCauseMatchesTemplate(t *testing.T) {
	cause := errors.New("connection refused")
	err := commonerrors.ErrDatabaseError.WithCause(cause)

	if !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Error("expected wrapped error to match its template")
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to unwrap to its cause")
	}
	if err.HTTPStatus() != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", err.HTTPStatus())
	}
	if err.Message() != commonerrors.ErrDatabaseError.Message() {
		t.Error("expected message to survive wrapping")
	}
}

func TestAsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("load config: %w", commonerrors.ErrMissingRequiredEnv)

	de, ok := commonerrors.AsDomainError(wrapped)
	if !ok {
		t.Fatal("expected a domain error through fmt wrapping")
	}
	if de.Code() != "MISSING_REQUIRED_ENV" {
		t.Errorf("unexpected code %s", de.Code())
	}

	if _, ok := commonerrors.AsDomainError(errors.New("plain")); ok {
		t.Error("expected plain error to not match")
	}
}
