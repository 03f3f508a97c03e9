package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/coreybb/tasknest/auth"
	"github.com/coreybb/tasknest/webutil"
)

// CredentialVerifier turns a bearer token into an identity.
type CredentialVerifier interface {
	VerifyCredential(token string) (auth.Identity, error)
}

// Authenticate verifies an Authorization: Bearer header when one is sent and
// stores the identity on the request context. A bad credential is always
// rejected with 403. A missing one is rejected with 401 only when required.
func Authenticate(verifier CredentialVerifier, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get(webutil.HeaderAuthorization))
			if header == "" {
				if required {
					webutil.RespondWithError(w, http.StatusUnauthorized, "Authorization header required")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				webutil.RespondWithError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			identity, err := verifier.VerifyCredential(token)
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "Token expired"
				}
				slog.Warn("Rejected bearer credential",
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
					"error", err,
				)
				webutil.RespondWithError(w, http.StatusForbidden, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(webutil.BearerPrefix) || !strings.EqualFold(header[:len(webutil.BearerPrefix)], webutil.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(webutil.BearerPrefix):])
	return token, token != ""
}

// CORS allows the single-page client, served from another origin in
// development, to call the API with a bearer header.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{webutil.HeaderAuthorization, webutil.HeaderContentType},
		MaxAge:         300,
	})
}

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}
