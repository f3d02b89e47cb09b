package model

import "time"

const (
	RSVPPending  = "pending"
	RSVPAccepted = "accepted"
	RSVPDeclined = "declined"
)

type CalendarEvent struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartAt      time.Time `json:"start_at"`
	Location     string    `json:"location"`
	RSVPRequired bool      `json:"rsvp_required"`
	RSVPStatus   string    `json:"rsvp_status"`
}

// AwaitingRSVP reports whether the user still owes the organizer an answer.
func (e CalendarEvent) AwaitingRSVP() bool {
	return e.RSVPRequired && (e.RSVPStatus == "" || e.RSVPStatus == RSVPPending)
}
