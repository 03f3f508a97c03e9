package routehandlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coreybb/tasknest/auth"
	"github.com/coreybb/tasknest/webutil"
)

const (
	paramID        = "id"
	queryUserID    = "userId"
	msgUserIDReq   = "userId required"
	msgOwnerClash  = "userId does not match the authenticated user"
	msgBadUserID   = "Invalid userId"
	msgBadIDFormat = "Invalid ID format"
)

// resolveOwner decides whose data a request touches. A verified bearer
// identity wins; otherwise the claimed userId (query or body) is used. A
// claim that contradicts the bearer identity is rejected.
func resolveOwner(r *http.Request, claimed int64) (int64, error) {
	id, authenticated := auth.IdentityFromContext(r.Context())
	switch {
	case authenticated && claimed != 0 && claimed != id.UserID:
		return 0, webutil.ErrForbidden(msgOwnerClash)
	case authenticated:
		return id.UserID, nil
	case claimed != 0:
		return claimed, nil
	default:
		return 0, webutil.ErrBadRequest(msgUserIDReq)
	}
}

// ownerFromQuery resolves the owner from the bearer identity or ?userId=.
func ownerFromQuery(r *http.Request) (int64, error) {
	claimed, err := queryUserIDParam(r)
	if err != nil {
		return 0, err
	}
	return resolveOwner(r, claimed)
}

// optionalOwner is like ownerFromQuery but reports 0 when nobody is named,
// meaning the lookup is not scoped.
func optionalOwner(r *http.Request) (int64, error) {
	claimed, err := queryUserIDParam(r)
	if err != nil {
		return 0, err
	}
	if _, ok := auth.IdentityFromContext(r.Context()); !ok && claimed == 0 {
		return 0, nil
	}
	return resolveOwner(r, claimed)
}

func queryUserIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(queryUserID))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, webutil.ErrBadRequest(msgBadUserID)
	}
	return id, nil
}

func bodyUserID(id *int64) (int64, error) {
	if id == nil {
		return 0, nil
	}
	if *id <= 0 {
		return 0, webutil.ErrBadRequest(msgBadUserID)
	}
	return *id, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, paramID), 10, 64)
	if err != nil || id <= 0 {
		return 0, webutil.ErrBadRequest(msgBadIDFormat)
	}
	return id, nil
}
