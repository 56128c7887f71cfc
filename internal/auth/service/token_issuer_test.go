package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/taskcrate/backend/internal/auth/service"
	"github.com/taskcrate/backend/internal/common/clock"
	"github.com/taskcrate/backend/internal/common/jwtverify"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := service.NewTokenIssuer(
		testJWTSecret,
		&mockIDGenerator{},
		15*time.Minute,
		clock.NewMockClock(time.Now()),
	)

	user := userdomain.User{ID: 1, Username: "testuser", Role: userdomain.RoleUser}
	token, err := issuer.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Username != "testuser" {
		t.Errorf("expected subject testuser, got %s", claims.Username)
	}
	if claims.JTI == "" {
		t.Error("expected jti claim to be set")
	}
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	past := clock.NewMockClock(time.Now().Add(-2 * time.Hour))
	issuer := service.NewTokenIssuer(testJWTSecret, &mockIDGenerator{}, 15*time.Minute, past)

	token, err := issuer.IssueAccessToken(userdomain.User{ID: 1, Username: "testuser"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = issuer.ParseToken(token)
	if !errors.Is(err, jwtverify.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := service.NewTokenIssuer(testJWTSecret, &mockIDGenerator{}, 15*time.Minute, clock.NewMockClock(time.Now()))
	other := service.NewTokenIssuer("another-secret-key-also-32-bytes-minimum", &mockIDGenerator{}, 15*time.Minute, clock.NewMockClock(time.Now()))

	token, err := issuer.IssueAccessToken(userdomain.User{ID: 1, Username: "testuser"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = other.ParseToken(token)
	if !errors.Is(err, jwtverify.ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestTokenIssuer_MalformedToken(t *testing.T) {
	issuer := service.NewTokenIssuer(testJWTSecret, &mockIDGenerator{}, 15*time.Minute, clock.NewMockClock(time.Now()))

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.ParseToken(token); !errors.Is(err, jwtverify.ErrTokenMalformed) {
			t.Errorf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}
