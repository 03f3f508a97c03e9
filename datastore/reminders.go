package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/coreybb/tasknest/models"
)

type ReminderRepository struct {
	db *DB
}

func NewReminderRepository(db *DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

const reminderColumns = "id, user_id, created_at, message, due_date"

func (r *ReminderRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	if reminder.UserID <= 0 {
		return fmt.Errorf("invalid reminder owner ID: %d", reminder.UserID)
	}
	if strings.TrimSpace(reminder.Message) == "" {
		return fmt.Errorf("reminder message cannot be empty")
	}
	if reminder.DueDate.IsZero() {
		return fmt.Errorf("reminder due date must be set")
	}
	if reminder.CreatedAt.IsZero() {
		return fmt.Errorf("reminder CreatedAt timestamp must be set")
	}

	query := `
		INSERT INTO reminders (user_id, created_at, message, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		reminder.UserID,
		reminder.CreatedAt,
		reminder.Message,
		reminder.DueDate,
	).Scan(&reminder.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to insert reminder for user %d: %w", reminder.UserID, ErrUnknownOwner)
		}
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) GetReminderByID(ctx context.Context, reminderID int64) (*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	var rem models.Reminder
	err := r.db.QueryRowContext(ctx, query, reminderID).Scan(&rem.ID, &rem.UserID, &rem.CreatedAt, &rem.Message, &rem.DueDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reminder %d not found: %w", reminderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reminder by ID: %w", err)
	}
	return &rem, nil
}

func (r *ReminderRepository) GetRemindersByUserID(ctx context.Context, userID int64) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = $1 ORDER BY due_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders for user %d: %w", userID, err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.CreatedAt, &rem.Message, &rem.DueDate); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row for user %d: %w", userID, err)
		}
		reminders = append(reminders, rem)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rows for user %d: %w", userID, err)
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	return reminders, nil
}
