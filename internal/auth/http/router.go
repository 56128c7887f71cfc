package http

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskcrate/backend/internal/auth/service"
	commonhttp "github.com/taskcrate/backend/internal/common/http"
	"github.com/taskcrate/backend/internal/common/jwtverify"
	"github.com/taskcrate/backend/internal/common/logger"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=user admin"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Handler struct {
	auth     *service.AuthService
	validate *validator.Validate
	log      *logger.Logger
}

// NewHandler wires the public auth routes plus the token-gated
// current-user route. authGate is the shared bearer-token middleware;
// every handler runs under a per-request deadline.
func NewHandler(
	auth *service.AuthService,
	authGate func(http.Handler) http.Handler,
	requestTimeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		auth:     auth,
		validate: validator.New(),
		log:      log,
	}

	withTimeout := commonhttp.WithTimeout(requestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/register/", withTimeout(commonhttp.RequireMethod(http.MethodPost)(h.register)))
	mux.HandleFunc("/token", withTimeout(commonhttp.RequireMethod(http.MethodPost)(h.token)))
	mux.Handle("/users/me/", authGate(withTimeout(commonhttp.RequireMethod(http.MethodGet)(h.currentUser))))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.log.Warnf("register failed: invalid payload: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     userdomain.Role(req.Role),
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// token accepts form-encoded credentials, the OAuth2 password-grant
// shape the original clients send.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Warnf("login failed: invalid form body: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidForm, "invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "username and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorCode(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "could not validate credentials")
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// toUserResponse is the public view; the password hash never leaves
// the service layer.
func toUserResponse(user userdomain.User) userResponse {
	return userResponse{
		ID:       int64(user.ID),
		Username: user.Username,
		Role:     string(user.Role),
	}
}
