package repository

import (
	"context"

	"focusboard/internal/model"
	"focusboard/pkg/otel"

	"go.uber.org/zap"
)

type ContactRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewContactRepository(db Querier, logger *zap.Logger) *ContactRepository {
	return &ContactRepository{db: db, logger: logger}
}

const listClientContactsSQL = `
        SELECT id, name, COALESCE(client_tier, '')
        FROM contacts
        WHERE user_id = $1
          AND is_client = TRUE
          AND active = TRUE
    `

// ListClientContacts returns the user's active contacts flagged as clients.
func (r *ContactRepository) ListClientContacts(ctx context.Context, userID int) ([]model.Contact, error) {
	r.logger.Debug("Listing client contacts", zap.Int("user_id", userID))

	contacts := []model.Contact{}
	err := otel.Query(ctx, "SELECT", "contacts", listClientContactsSQL, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, listClientContactsSQL, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				c    model.Contact
				tier string
			)
			if err := rows.Scan(&c.ID, &c.Name, &tier); err != nil {
				return err
			}
			c.Tier = model.ParseClientTier(tier)
			contacts = append(contacts, c)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list client contacts",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}

	r.logger.Info("Client contacts listed",
		zap.Int("user_id", userID),
		zap.Int("count", len(contacts)),
	)
	return contacts, nil
}
