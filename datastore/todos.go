package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/coreybb/tasknest/models"
)

type TodoRepository struct {
	db *DB
}

func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = "id, user_id, created_at, title, completed"

func (r *TodoRepository) CreateTodo(ctx context.Context, todo *models.Todo) error {
	if todo.UserID <= 0 {
		return fmt.Errorf("invalid todo owner ID: %d", todo.UserID)
	}
	if strings.TrimSpace(todo.Title) == "" {
		return fmt.Errorf("todo title cannot be empty")
	}
	if todo.CreatedAt.IsZero() {
		return fmt.Errorf("todo CreatedAt timestamp must be set")
	}

	query := `
		INSERT INTO todos (user_id, created_at, title, completed)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, todo.UserID, todo.CreatedAt, todo.Title, todo.Completed).Scan(&todo.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to insert todo for user %d: %w", todo.UserID, ErrUnknownOwner)
		}
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) GetTodoByID(ctx context.Context, todoID int64) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	var t models.Todo
	err := r.db.QueryRowContext(ctx, query, todoID).Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.Title, &t.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %d not found: %w", todoID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get todo by ID: %w", err)
	}
	return &t, nil
}

func (r *TodoRepository) GetTodosByUserID(ctx context.Context, userID int64) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos for user %d: %w", userID, err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo row for user %d: %w", userID, err)
		}
		todos = append(todos, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo rows for user %d: %w", userID, err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

// UpdateTodo applies the non-nil fields of patch and returns the stored row.
func (r *TodoRepository) UpdateTodo(ctx context.Context, todoID int64, patch models.TodoPatch) (*models.Todo, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("todo title cannot be empty")
	}
	if patch.IsEmpty() {
		return r.GetTodoByID(ctx, todoID)
	}

	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Completed != nil {
		args = append(args, *patch.Completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}
	args = append(args, todoID)

	query := fmt.Sprintf(
		`UPDATE todos SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), todoColumns,
	)

	var t models.Todo
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.Title, &t.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %d not found for update: %w", todoID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update todo %d: %w", todoID, err)
	}
	return &t, nil
}

// DeleteTodo removes the row. Deleting a missing ID is an error, not a no-op.
func (r *TodoRepository) DeleteTodo(ctx context.Context, todoID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, todoID)
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", todoID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for todo %d: %w", todoID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("todo %d not found for delete: %w", todoID, ErrNotFound)
	}
	return nil
}
