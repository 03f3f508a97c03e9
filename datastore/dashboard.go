package datastore

import (
	"context"
	"fmt"

	"github.com/coreybb/tasknest/models"
)

// DashboardRepository computes per-user aggregates. Nothing is cached.
type DashboardRepository struct {
	db *DB
}

func NewDashboardRepository(db *DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) GetDashboard(ctx context.Context, userID int64) (models.Dashboard, error) {
	var d models.Dashboard

	activeQuery := `SELECT COUNT(*) FROM todos WHERE user_id = $1 AND completed = $2`
	if err := r.db.QueryRowContext(ctx, activeQuery, userID, false).Scan(&d.ActiveTodos); err != nil {
		return models.Dashboard{}, fmt.Errorf("failed to count active todos for user %d: %w", userID, err)
	}

	reminderQuery := `SELECT COUNT(*) FROM reminders WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, reminderQuery, userID).Scan(&d.Reminders); err != nil {
		return models.Dashboard{}, fmt.Errorf("failed to count reminders for user %d: %w", userID, err)
	}

	return d, nil
}
