package model

import "time"

const TaskStatusPending = "pending"

type Task struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TypeHint    string     `json:"type_hint"`
	Urgency     int        `json:"urgency"` // 1..10
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      string     `json:"status"`
	ContactID   *int       `json:"contact_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
