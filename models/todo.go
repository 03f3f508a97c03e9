package models

import "time"

type Todo struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// TodoPatch carries the fields of a partial todo update. Nil means unchanged.
type TodoPatch struct {
	Title     *string
	Completed *bool
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}
