// Package dismissal keeps the per-user "not today" list in redis. Entries expire at
// the end of the user's local day.
package dismissal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store struct {
	rdb    redis.Cmdable
	logger *zap.Logger
}

func NewStore(rdb redis.Cmdable, logger *zap.Logger) *Store {
	return &Store{rdb: rdb, logger: logger}
}

func dayKey(userID int, now time.Time) string {
	return fmt.Sprintf("dismissed:%d:%s", userID, now.Format(time.DateOnly))
}

// endOfDay is midnight after now, in now's location.
func endOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// Dismiss hides one composite item id for the rest of the day containing now.
func (s *Store) Dismiss(ctx context.Context, userID int, itemID string, now time.Time) error {
	key := dayKey(userID, now)

	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, itemID)
	pipe.ExpireAt(ctx, key, endOfDay(now))
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("Failed to dismiss item",
			zap.Int("user_id", userID),
			zap.String("item_id", itemID),
			zap.Error(err),
		)
		return fmt.Errorf("dismiss %s: %w", itemID, err)
	}

	s.logger.Info("Item dismissed for today",
		zap.Int("user_id", userID),
		zap.String("item_id", itemID),
	)
	return nil
}

// Dismissed returns the ids hidden for the day containing now.
func (s *Store) Dismissed(ctx context.Context, userID int, now time.Time) (map[string]struct{}, error) {
	ids, err := s.rdb.SMembers(ctx, dayKey(userID, now)).Result()
	if err != nil {
		return nil, fmt.Errorf("load dismissed items: %w", err)
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Restore undoes a dismissal.
func (s *Store) Restore(ctx context.Context, userID int, itemID string, now time.Time) error {
	if err := s.rdb.SRem(ctx, dayKey(userID, now), itemID).Err(); err != nil {
		return fmt.Errorf("restore %s: %w", itemID, err)
	}
	return nil
}
