package models

// Dashboard is the per-user aggregate shown on the client landing page.
type Dashboard struct {
	ActiveTodos int64 `json:"activeTodos"`
	Reminders   int64 `json:"reminders"`
}
