package repository

import (
	"context"
	"time"

	"focusboard/internal/model"
	"focusboard/pkg/otel"

	"go.uber.org/zap"
)

type TaskRepository struct {
	db     Querier
	logger *zap.Logger
}

func NewTaskRepository(db Querier, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const listPendingTasksSQL = `
        SELECT id, user_id, title, COALESCE(description, ''), COALESCE(type_hint, ''),
               COALESCE(urgency, 0), due_date, status, contact_id, created_at
        FROM tasks
        WHERE user_id = $1
          AND status = 'pending'
          AND created_at >= $2
        ORDER BY created_at DESC
        LIMIT $3
    `

// ListPendingTasks returns pending tasks created since the given moment.
func (r *TaskRepository) ListPendingTasks(ctx context.Context, userID int, since time.Time, limit int) ([]model.Task, error) {
	r.logger.Debug("Listing pending tasks",
		zap.Int("user_id", userID),
		zap.Time("since", since),
		zap.Int("limit", limit),
	)

	tasks := []model.Task{}
	err := otel.Query(ctx, "SELECT", "tasks", listPendingTasksSQL, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, listPendingTasksSQL, userID, since, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t model.Task
			if err := rows.Scan(
				&t.ID,
				&t.UserID,
				&t.Title,
				&t.Description,
				&t.TypeHint,
				&t.Urgency,
				&t.Deadline,
				&t.Status,
				&t.ContactID,
				&t.CreatedAt,
			); err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list pending tasks",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}

	r.logger.Info("Pending tasks listed",
		zap.Int("user_id", userID),
		zap.Int("count", len(tasks)),
	)
	return tasks, nil
}
