package mq

import "time"

const (
	RoutingDigestRequested     = "priority.digest_requested"
	RoutingNotificationCreated = "notification.created"
)

// DigestRequestedPayload asks the worker to rank a user's items and send the top
// ones as a notification. RequestedAt is the "now" the ranking uses.
type DigestRequestedPayload struct {
	UserID      int       `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
	Limit       int       `json:"limit,omitempty"`
	Channel     string    `json:"channel,omitempty"` // EMAIL / PUSH, default PUSH
}
