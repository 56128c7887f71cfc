package jwtverify

import (
	"context"
	"net/http"
	"strings"

	commonhttp "github.com/taskcrate/backend/internal/common/http"
	"github.com/taskcrate/backend/internal/common/logger"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

// UserResolver re-checks that the identity embedded in a token still
// exists. Tokens are stateless, so this lookup is the only thing that
// invalidates a token for a deleted account.
type UserResolver interface {
	FindByUsername(ctx context.Context, username string) (userdomain.User, error)
}

type contextKey string

const userKey contextKey = "auth_user"

func Middleware(secret string, resolver UserResolver, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.Warnf("auth failed path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.WriteErrorCode(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "could not validate credentials")
				return
			}

			tokenString := strings.TrimPrefix(raw, "Bearer ")
			claims, err := ParseToken(tokenString, secretBytes)
			if err != nil {
				log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
				commonhttp.WriteErrorCode(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "could not validate credentials")
				return
			}

			user, err := resolver.FindByUsername(r.Context(), claims.Username)
			if err != nil {
				log.Warnf("auth failed path=%s: user %q no longer resolvable: %v", r.URL.Path, claims.Username, err)
				commonhttp.WriteErrorCode(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(userdomain.User)
	return user, ok
}
