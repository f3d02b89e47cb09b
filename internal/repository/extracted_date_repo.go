package repository

import (
	"context"
	"time"

	"focusboard/internal/model"
	"focusboard/pkg/otel"

	"go.uber.org/zap"
)

type ExtractedDateRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewExtractedDateRepository(db Querier, logger *zap.Logger) *ExtractedDateRepository {
	return &ExtractedDateRepository{db: db, logger: logger}
}

// date and time are stored as the extractor wrote them (text). Rows whose date is
// not in YYYY-MM-DD form are still returned so the scorer can fall back to today.
const listUpcomingDatesSQL = `
        SELECT id, user_id, date_type, date, COALESCE(time, ''), title,
               COALESCE(description, ''), COALESCE(priority, 0), contact_id,
               is_recurring, COALESCE(related_entity, ''), COALESCE(confidence, 1.0)
        FROM extracted_dates
        WHERE user_id = $1
          AND (date BETWEEN $2 AND $3 OR date !~ '^\d{4}-\d{2}-\d{2}$')
          AND acknowledged = FALSE
          AND hidden = FALSE
          AND (snoozed_until IS NULL OR snoozed_until <= $4)
        ORDER BY date ASC
        LIMIT $5
    `

// ListUpcomingDates returns unacknowledged, visible, unsnoozed extracted dates
// between from and until (inclusive, compared by calendar day).
func (r *ExtractedDateRepository) ListUpcomingDates(ctx context.Context, userID int, from, until, now time.Time, limit int) ([]model.ExtractedDate, error) {
	r.logger.Debug("Listing upcoming extracted dates",
		zap.Int("user_id", userID),
		zap.Time("from", from),
		zap.Time("until", until),
	)

	fromDay := from.Format(time.DateOnly)
	untilDay := until.Format(time.DateOnly)

	dates := []model.ExtractedDate{}
	err := otel.Query(ctx, "SELECT", "extracted_dates", listUpcomingDatesSQL, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, listUpcomingDatesSQL, userID, fromDay, untilDay, now, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				d        model.ExtractedDate
				dateType string
			)
			if err := rows.Scan(
				&d.ID,
				&d.UserID,
				&dateType,
				&d.Date,
				&d.Time,
				&d.Title,
				&d.Description,
				&d.Priority,
				&d.ContactID,
				&d.IsRecurring,
				&d.RelatedEntity,
				&d.Confidence,
			); err != nil {
				return err
			}
			d.DateType = model.ParseDateType(dateType)
			dates = append(dates, d)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list upcoming extracted dates",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}

	r.logger.Info("Upcoming extracted dates listed",
		zap.Int("user_id", userID),
		zap.Int("count", len(dates)),
	)
	return dates, nil
}
