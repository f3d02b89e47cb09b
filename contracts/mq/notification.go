package mq

import "time"

type DigestItem struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
	Score     int    `json:"score"`
	NavRef    string `json:"nav_ref"`
}

type NotificationCreatedPayload struct {
	UserID    int          `json:"user_id"`
	Channel   string       `json:"channel"` // EMAIL / PUSH
	Title     string       `json:"title"`
	Message   string       `json:"message"`
	Items     []DigestItem `json:"items"`
	CreatedAt time.Time    `json:"created_at"`
}
