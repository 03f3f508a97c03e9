package models

import "time"

// Reminder is read-only once created.
type Reminder struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Message   string    `json:"message"`
	DueDate   Date      `json:"dueDate"`
}
