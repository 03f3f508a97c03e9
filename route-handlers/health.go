package routehandlers

import (
	"context"
	"net/http"

	"github.com/coreybb/tasknest/webutil"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	DB Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{DB: db}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) error {
	if err := h.DB.PingContext(r.Context()); err != nil {
		return webutil.ErrServiceUnavailableWrap("Database unavailable", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}
