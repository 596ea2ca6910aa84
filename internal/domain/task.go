package domain

import "time"

type Task struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	IsCompleted bool      `db:"is_completed" json:"is_completed"`
	InsertedAt  time.Time `db:"inserted_at" json:"inserted_at"`
}

// Summary counts an owner's tasks by state
type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

func Summarize(tasks []*Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	return s
}
