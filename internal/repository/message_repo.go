package repository

import (
	"context"
	"time"

	"focusboard/internal/model"
	"focusboard/pkg/otel"

	"go.uber.org/zap"
)

type MessageRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewMessageRepository(db Querier, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{db: db, logger: logger}
}

const listPendingMessagesSQL = `
        SELECT
            r.id,
            r.user_id,
            r.subject,
            LEFT(r.body, 200),
            r.sender,
            r.received_at,
            r.is_read,
            r.needs_action,
            r.contact_id,
            COALESCE(m.category, ''),
            COALESCE(m.priority, 0),
            COALESCE(m.summary, ''),
            COALESCE(m.quick_action, ''),
            COALESCE(m.signal_strength, ''),
            COALESCE(m.reply_worthiness, '')
        FROM emails_raw r
        LEFT JOIN emails_metadata m ON r.id = m.email_id
        WHERE r.user_id = $1
          AND (r.is_read = FALSE OR r.needs_action = TRUE)
          AND r.archived = FALSE
          AND r.received_at >= $2
        ORDER BY r.received_at DESC
        LIMIT $3
    `

// ListPendingMessages returns unread or action-flagged, non-archived messages
// received since the given moment, joined with their classification.
func (r *MessageRepository) ListPendingMessages(ctx context.Context, userID int, since time.Time, limit int) ([]model.Message, error) {
	r.logger.Debug("Listing pending messages",
		zap.Int("user_id", userID),
		zap.Time("since", since),
		zap.Int("limit", limit),
	)

	messages := []model.Message{}
	err := otel.Query(ctx, "SELECT", "emails_raw", listPendingMessagesSQL, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, listPendingMessagesSQL, userID, since, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				m                             model.Message
				category, signal, replyWorthy string
			)
			if err := rows.Scan(
				&m.ID,
				&m.UserID,
				&m.Subject,
				&m.Snippet,
				&m.Sender,
				&m.ReceivedAt,
				&m.IsRead,
				&m.NeedsAction,
				&m.ContactID,
				&category,
				&m.AIPriority,
				&m.Summary,
				&m.QuickAction,
				&signal,
				&replyWorthy,
			); err != nil {
				return err
			}
			m.Category = model.ParseCategory(category)
			m.SignalStrength = model.ParseSignalStrength(signal)
			m.ReplyWorthiness = model.ParseReplyWorthiness(replyWorthy)
			messages = append(messages, m)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list pending messages",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}

	r.logger.Info("Pending messages listed",
		zap.Int("user_id", userID),
		zap.Int("count", len(messages)),
	)
	return messages, nil
}
