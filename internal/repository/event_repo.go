package repository

import (
	"context"
	"time"

	"focusboard/internal/model"
	"focusboard/pkg/otel"

	"go.uber.org/zap"
)

type EventRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewEventRepository(db Querier, logger *zap.Logger) *EventRepository {
	return &EventRepository{db: db, logger: logger}
}

const listUpcomingEventsSQL = `
        SELECT id, user_id, title, COALESCE(description, ''), start_at,
               COALESCE(location, ''), rsvp_required, COALESCE(rsvp_status, '')
        FROM calendar_events
        WHERE user_id = $1
          AND start_at >= $2
          AND start_at < $3
          AND archived = FALSE
        ORDER BY start_at ASC
        LIMIT $4
    `

// ListUpcomingEvents returns non-archived events starting in [from, until).
func (r *EventRepository) ListUpcomingEvents(ctx context.Context, userID int, from, until time.Time, limit int) ([]model.CalendarEvent, error) {
	r.logger.Debug("Listing upcoming events",
		zap.Int("user_id", userID),
		zap.Time("from", from),
		zap.Time("until", until),
	)

	events := []model.CalendarEvent{}
	err := otel.Query(ctx, "SELECT", "calendar_events", listUpcomingEventsSQL, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, listUpcomingEventsSQL, userID, from, until, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e model.CalendarEvent
			if err := rows.Scan(
				&e.ID,
				&e.UserID,
				&e.Title,
				&e.Description,
				&e.StartAt,
				&e.Location,
				&e.RSVPRequired,
				&e.RSVPStatus,
			); err != nil {
				return err
			}
			events = append(events, e)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list upcoming events",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}

	r.logger.Info("Upcoming events listed",
		zap.Int("user_id", userID),
		zap.Int("count", len(events)),
	)
	return events, nil
}
