package routehandlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coreybb/tasknest/datastore"
	"github.com/coreybb/tasknest/models"
	"github.com/coreybb/tasknest/webutil"
)

type TodoHandler struct {
	Repo *datastore.TodoRepository
}

func NewTodoHandler(repo *datastore.TodoRepository) *TodoHandler {
	return &TodoHandler{Repo: repo}
}

type createTodoRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    *int64 `json:"userId,omitempty"`
}

type updateTodoRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (h *TodoHandler) HandleGetTodos(w http.ResponseWriter, r *http.Request) error {
	ownerID, err := ownerFromQuery(r)
	if err != nil {
		return err
	}

	todos, err := h.Repo.GetTodosByUserID(r.Context(), ownerID)
	if err != nil {
		return webutil.ErrInternalServerWrap("Failed to retrieve todos", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, todos)
	return nil
}

func (h *TodoHandler) HandleGetTodo(w http.ResponseWriter, r *http.Request) error {
	todo, err := h.loadScoped(r)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, todo)
	return nil
}

func (h *TodoHandler) HandleCreateTodo(w http.ResponseWriter, r *http.Request) error {
	var req createTodoRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	claimed, err := bodyUserID(req.UserID)
	if err != nil {
		return err
	}
	ownerID, err := resolveOwner(r, claimed)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.Title) == "" {
		return webutil.ErrBadRequest("title required")
	}

	todo := models.Todo{
		UserID:    ownerID,
		CreatedAt: time.Now().UTC(),
		Title:     req.Title,
		Completed: req.Completed,
	}
	if err := h.Repo.CreateTodo(r.Context(), &todo); err != nil {
		if errors.Is(err, datastore.ErrUnknownOwner) {
			return webutil.ErrBadRequestWrap("Unknown userId", err)
		}
		return webutil.ErrInternalServerWrap("Failed to create todo", err)
	}

	slog.InfoContext(r.Context(), "Todo created", "todo_id", todo.ID, "user_id", todo.UserID)
	webutil.RespondWithJSON(w, http.StatusCreated, todo)
	return nil
}

// HandleUpdateTodo applies a partial update and returns the stored todo.
func (h *TodoHandler) HandleUpdateTodo(w http.ResponseWriter, r *http.Request) error {
	current, err := h.loadScoped(r)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return webutil.ErrBadRequest("title cannot be empty")
	}

	updated, err := h.Repo.UpdateTodo(r.Context(), current.ID, models.TodoPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFoundWrap("Todo not found", err)
		}
		return webutil.ErrInternalServerWrap("Failed to update todo", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, updated)
	return nil
}

// HandleDeleteTodo answers 204, or 404 when the todo is already gone.
func (h *TodoHandler) HandleDeleteTodo(w http.ResponseWriter, r *http.Request) error {
	current, err := h.loadScoped(r)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteTodo(r.Context(), current.ID); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFoundWrap("Todo not found", err)
		}
		return webutil.ErrInternalServerWrap("Failed to delete todo", err)
	}

	slog.InfoContext(r.Context(), "Todo deleted", "todo_id", current.ID, "user_id", current.UserID)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// loadScoped fetches the todo named in the path. A todo owned by someone
// other than the resolved owner is reported as missing.
func (h *TodoHandler) loadScoped(r *http.Request) (*models.Todo, error) {
	todoID, err := pathID(r)
	if err != nil {
		return nil, err
	}
	ownerID, err := optionalOwner(r)
	if err != nil {
		return nil, err
	}

	todo, err := h.Repo.GetTodoByID(r.Context(), todoID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return nil, webutil.ErrNotFoundWrap("Todo not found", err)
		}
		return nil, fmt.Errorf("failed to retrieve todo %d: %w", todoID, err)
	}
	if ownerID != 0 && todo.UserID != ownerID {
		return nil, webutil.ErrNotFound("Todo not found")
	}
	return todo, nil
}
