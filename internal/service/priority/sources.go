package priority

import (
	"context"
	"time"

	"focusboard/internal/model"
)

// Each source is satisfied by the matching repository in internal/repository.
type MessageSource interface {
	ListPendingMessages(ctx context.Context, userID int, since time.Time, limit int) ([]model.Message, error)
}

type TaskSource interface {
	ListPendingTasks(ctx context.Context, userID int, since time.Time, limit int) ([]model.Task, error)
}

type EventSource interface {
	ListUpcomingEvents(ctx context.Context, userID int, from, until time.Time, limit int) ([]model.CalendarEvent, error)
}

type DateSource interface {
	ListUpcomingDates(ctx context.Context, userID int, from, until, now time.Time, limit int) ([]model.ExtractedDate, error)
}

type ClientSource interface {
	ListClientContacts(ctx context.Context, userID int) ([]model.Contact, error)
}

// DismissalSource reports the composite ids the user hid for the day containing now.
type DismissalSource interface {
	Dismissed(ctx context.Context, userID int, now time.Time) (map[string]struct{}, error)
}

// Sources groups the record stores. A nil source contributes nothing.
type Sources struct {
	Messages MessageSource
	Tasks    TaskSource
	Events   EventSource
	Dates    DateSource
	Clients  ClientSource
}

const (
	sourceMessages   = "messages"
	sourceTasks      = "tasks"
	sourceEvents     = "events"
	sourceDates      = "extracted_dates"
	sourceClients    = "clients"
	sourceDismissals = "dismissals"
)
