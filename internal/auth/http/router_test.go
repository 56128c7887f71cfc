package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	authhttp "github.com/taskcrate/backend/internal/auth/http"
	"github.com/taskcrate/backend/internal/auth/service"
	"github.com/taskcrate/backend/internal/common/clock"
	"github.com/taskcrate/backend/internal/common/jwtverify"
	"github.com/taskcrate/backend/internal/common/logger"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
	userrepo "github.com/taskcrate/backend/internal/user/repository"
)

const testJWTSecret = "test-secret-key-must-be-at-least-32-bytes-long"

type fakeUserStore struct {
	users       map[string]userdomain.User
	next        int64
	sawDeadline bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]userdomain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, username, passwordHash string, role userdomain.Role) (userdomain.User, error) {
	_, s.sawDeadline = ctx.Deadline()
	if _, ok := s.users[username]; ok {
		return userdomain.User{}, userrepo.ErrUsernameAlreadyExists
	}
	s.next++
	user := userdomain.User{
		ID:           userdomain.ID(s.next),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	s.users[username] = user
	return user, nil
}

func (s *fakeUserStore) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	user, ok := s.users[username]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type staticIDGenerator struct{}

func (staticIDGenerator) NewID() (string, error) { return "test-jti", nil }

func setupAuthHandler(t *testing.T) (http.Handler, *fakeUserStore) {
	t.Helper()

	store := newFakeUserStore()
	log, _ := logger.New("", "test", "info")
	issuer := service.NewTokenIssuer(testJWTSecret, staticIDGenerator{}, 15*time.Minute, clock.NewMockClock(time.Now()))
	auth := service.NewAuthService(store, fakeHasher{}, issuer, log)
	authGate := jwtverify.Middleware(testJWTSecret, store, log)

	return authhttp.NewHandler(auth, authGate, 5*time.Second, log), store
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	rec := postJSON(t, handler, "/register/", `{"username":"testuser","password":"password123","role":"user"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["username"] != "testuser" {
		t.Errorf("expected username testuser, got %v", body["username"])
	}
	if body["role"] != "user" {
		t.Errorf("expected role user, got %v", body["role"])
	}
	if _, ok := body["id"]; !ok {
		t.Error("expected id in response")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not contain password material")
	}
}

func TestRegisterEndpoint_RequestDeadline(t *testing.T) {
	handler, store := setupAuthHandler(t)

	rec := postJSON(t, handler, "/register/", `{"username":"testuser","password":"password123","role":"user"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !store.sawDeadline {
		t.Error("expected request context to carry a deadline")
	}
}

func TestRegisterEndpoint_InvalidJSON(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	rec := postJSON(t, handler, "/register/", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "INVALID_JSON" {
		t.Errorf("expected code INVALID_JSON, got %v", body["code"])
	}
}

func TestRegisterEndpoint_InvalidRole(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	rec := postJSON(t, handler, "/register/", `{"username":"testuser","password":"password123","role":"owner"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterEndpoint_DuplicateUsername(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	payload := `{"username":"testuser","password":"password123","role":"user"}`
	if rec := postJSON(t, handler, "/register/", payload); rec.Code != http.StatusOK {
		t.Fatalf("first register: expected 200, got %d", rec.Code)
	}

	rec := postJSON(t, handler, "/register/", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "USERNAME_TAKEN" {
		t.Errorf("expected code USERNAME_TAKEN, got %v", body["code"])
	}
}

func TestTokenEndpoint(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	postJSON(t, handler, "/register/", `{"username":"testuser","password":"password123","role":"user"}`)

	rec := postForm(t, handler, "/token", url.Values{
		"username": {"testuser"},
		"password": {"password123"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["access_token"] == "" || body["access_token"] == nil {
		t.Error("expected access_token in response")
	}
	if body["token_type"] != "bearer" {
		t.Errorf("expected token_type bearer, got %v", body["token_type"])
	}
}

func TestTokenEndpoint_BadCredentials(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	postJSON(t, handler, "/register/", `{"username":"testuser","password":"password123","role":"user"}`)

	testCases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "testuser", "wrongpass123"},
		{"unknown user", "nobody", "password123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(t, handler, "/token", url.Values{
				"username": {tc.username},
				"password": {tc.password},
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if body := decodeBody(t, rec); body["message"] != "incorrect username or password" {
				t.Errorf("unexpected message %v", body["message"])
			}
		})
	}
}

func TestTokenEndpoint_MissingFields(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	rec := postForm(t, handler, "/token", url.Values{"username": {"testuser"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCurrentUserEndpoint(t *testing.T) {
	handler, store := setupAuthHandler(t)

	postJSON(t, handler, "/register/", `{"username":"testuser","password":"password123","role":"user"}`)
	loginRec := postForm(t, handler, "/token", url.Values{
		"username": {"testuser"},
		"password": {"password123"},
	})
	token := decodeBody(t, loginRec)["access_token"].(string)

	t.Run("without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("with garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("with valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if body := decodeBody(t, rec); body["username"] != "testuser" {
			t.Errorf("expected username testuser, got %v", body["username"])
		}
	})

	t.Run("token for deleted account", func(t *testing.T) {
		delete(store.users, "testuser")

		req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
