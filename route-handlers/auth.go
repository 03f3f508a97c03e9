package routehandlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/coreybb/tasknest/auth"
	"github.com/coreybb/tasknest/datastore"
	"github.com/coreybb/tasknest/webutil"
)

type AuthHandler struct {
	Service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{Service: service}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	session, err := h.Service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		return authError(err, "signup failed")
	}

	webutil.RespondWithJSON(w, http.StatusCreated, session)
	return nil
}

func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	session, err := h.Service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		return authError(err, "signin failed")
	}

	webutil.RespondWithJSON(w, http.StatusOK, session)
	return nil
}

// HandleMe returns the public view of the bearer's account.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) error {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("Authorization header required")
	}

	user, err := h.Service.CurrentUser(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFoundWrap("User not found", err)
		}
		return fmt.Errorf("failed to load user %d: %w", id.UserID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

func authError(err error, op string) error {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		return webutil.ErrBadRequestWrap("Email and password required", err)
	case errors.Is(err, auth.ErrEmailTaken):
		return webutil.ErrConflict("User already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return webutil.ErrUnauthorized("Invalid credentials")
	default:
		return webutil.ErrInternalServerWrap(op, err)
	}
}
