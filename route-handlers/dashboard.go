package routehandlers

import (
	"net/http"

	"github.com/coreybb/tasknest/datastore"
	"github.com/coreybb/tasknest/webutil"
)

type DashboardHandler struct {
	Repo *datastore.DashboardRepository
}

func NewDashboardHandler(repo *datastore.DashboardRepository) *DashboardHandler {
	return &DashboardHandler{Repo: repo}
}

// HandleGetDashboard returns {activeTodos, reminders} for the resolved owner.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) error {
	ownerID, err := ownerFromQuery(r)
	if err != nil {
		return err
	}

	dashboard, err := h.Repo.GetDashboard(r.Context(), ownerID)
	if err != nil {
		return webutil.ErrInternalServerWrap("Failed to load dashboard", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, dashboard)
	return nil
}
