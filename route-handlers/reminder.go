package routehandlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreybb/tasknest/datastore"
	"github.com/coreybb/tasknest/models"
	"github.com/coreybb/tasknest/webutil"
)

type ReminderHandler struct {
	Repo *datastore.ReminderRepository
}

func NewReminderHandler(repo *datastore.ReminderRepository) *ReminderHandler {
	return &ReminderHandler{Repo: repo}
}

// dueDate arrives as a string so a malformed value is a 400 with a useful
// message rather than a decode failure.
type createReminderRequest struct {
	Message string `json:"message"`
	DueDate string `json:"dueDate"`
	UserID  *int64 `json:"userId,omitempty"`
}

const msgReminderFields = "message, dueDate, and userId required"

func (h *ReminderHandler) HandleCreateReminder(w http.ResponseWriter, r *http.Request) error {
	var req createReminderRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.DueDate) == "" {
		return webutil.ErrBadRequest(msgReminderFields)
	}
	claimed, err := bodyUserID(req.UserID)
	if err != nil {
		return err
	}
	ownerID, err := resolveOwner(r, claimed)
	if err != nil {
		return err
	}
	dueDate, err := models.ParseDate(req.DueDate)
	if err != nil {
		return webutil.ErrBadRequestWrap("Invalid dueDate, expected YYYY-MM-DD", err)
	}

	reminder := models.Reminder{
		UserID:    ownerID,
		CreatedAt: time.Now().UTC(),
		Message:   req.Message,
		DueDate:   dueDate,
	}
	if err := h.Repo.CreateReminder(r.Context(), &reminder); err != nil {
		if errors.Is(err, datastore.ErrUnknownOwner) {
			return webutil.ErrBadRequestWrap("Unknown userId", err)
		}
		return webutil.ErrInternalServerWrap("Failed to add reminder", err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, reminder)
	return nil
}

func (h *ReminderHandler) HandleGetReminders(w http.ResponseWriter, r *http.Request) error {
	ownerID, err := ownerFromQuery(r)
	if err != nil {
		return err
	}

	reminders, err := h.Repo.GetRemindersByUserID(r.Context(), ownerID)
	if err != nil {
		return webutil.ErrInternalServerWrap("Failed to fetch reminders", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, reminders)
	return nil
}

func (h *ReminderHandler) HandleGetReminder(w http.ResponseWriter, r *http.Request) error {
	reminderID, err := pathID(r)
	if err != nil {
		return err
	}
	ownerID, err := optionalOwner(r)
	if err != nil {
		return err
	}

	reminder, err := h.Repo.GetReminderByID(r.Context(), reminderID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFoundWrap("Reminder not found", err)
		}
		return fmt.Errorf("failed to retrieve reminder %d: %w", reminderID, err)
	}
	if ownerID != 0 && reminder.UserID != ownerID {
		return webutil.ErrNotFound("Reminder not found")
	}

	webutil.RespondWithJSON(w, http.StatusOK, reminder)
	return nil
}
