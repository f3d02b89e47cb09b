package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"focusboard/internal/model"
)

var since = time.Date(2026, 10, 5, 14, 0, 0, 0, time.UTC)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func intPtr(v int) *int { return &v }

func TestListPendingMessages(t *testing.T) {
	pool := newMockPool(t)
	repo := NewMessageRepository(pool, zap.NewNop())
	received := since.Add(48 * time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "subject", "snippet", "sender", "received_at", "is_read",
		"needs_action", "contact_id", "category", "priority", "summary", "quick_action",
		"signal_strength", "reply_worthiness",
	}).
		AddRow(1, 7, "Invoice", "Please pay", "billing@acme.io", received, false,
			true, intPtr(3), "Finance", 8, "Invoice due", "pay", "high", "must-reply").
		AddRow(2, 7, "Sale!", "50% off", "shop@example.com", received, false,
			false, (*int)(nil), "crypto", 0, "", "", "", "")

	pool.ExpectQuery("FROM emails_raw").
		WithArgs(7, since, 100).
		WillReturnRows(rows)

	got, err := repo.ListPendingMessages(context.Background(), 7, since, 100)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.CategoryFinance, got[0].Category)
	assert.Equal(t, model.SignalHigh, got[0].SignalStrength)
	assert.Equal(t, model.ReplyMust, got[0].ReplyWorthiness)
	assert.Equal(t, 8, got[0].AIPriority)
	require.NotNil(t, got[0].ContactID)
	assert.Equal(t, 3, *got[0].ContactID)

	assert.Equal(t, model.CategoryUnknown, got[1].Category)
	assert.Equal(t, model.SignalUnknown, got[1].SignalStrength)
	assert.Equal(t, model.ReplyUnknown, got[1].ReplyWorthiness)
	assert.Nil(t, got[1].ContactID)

	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListPendingMessagesQueryError(t *testing.T) {
	pool := newMockPool(t)
	repo := NewMessageRepository(pool, zap.NewNop())

	pool.ExpectQuery("FROM emails_raw").
		WithArgs(7, since, 100).
		WillReturnError(errors.New("connection refused"))

	got, err := repo.ListPendingMessages(context.Background(), 7, since, 100)
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListPendingTasks(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTaskRepository(pool, zap.NewNop())
	due := since.Add(10 * 24 * time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "title", "description", "type_hint", "urgency", "due_date",
		"status", "contact_id", "created_at",
	}).
		AddRow(11, 7, "Sign renewal", "", "decide", 9, &due, "pending", intPtr(3), since).
		AddRow(12, 7, "Tidy desk", "", "", 0, (*time.Time)(nil), "pending", (*int)(nil), since)

	pool.ExpectQuery("FROM tasks").
		WithArgs(7, since, 50).
		WillReturnRows(rows)

	got, err := repo.ListPendingTasks(context.Background(), 7, since, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Deadline)
	assert.Equal(t, due, *got[0].Deadline)
	assert.Equal(t, 9, got[0].Urgency)
	assert.Nil(t, got[1].Deadline)
	assert.Equal(t, model.TaskStatusPending, got[1].Status)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListPendingTasksRowError(t *testing.T) {
	pool := newMockPool(t)
	repo := NewTaskRepository(pool, zap.NewNop())

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "title", "description", "type_hint", "urgency", "due_date",
		"status", "contact_id", "created_at",
	}).
		AddRow(11, 7, "Sign renewal", "", "", 5, (*time.Time)(nil), "pending", (*int)(nil), since).
		RowError(0, errors.New("broken row"))

	pool.ExpectQuery("FROM tasks").
		WithArgs(7, since, 50).
		WillReturnRows(rows)

	_, err := repo.ListPendingTasks(context.Background(), 7, since, 50)
	assert.Error(t, err)
}

func TestListUpcomingEvents(t *testing.T) {
	pool := newMockPool(t)
	repo := NewEventRepository(pool, zap.NewNop())
	from := since
	until := since.Add(7 * 24 * time.Hour)
	start := since.Add(26 * time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "title", "description", "start_at", "location",
		"rsvp_required", "rsvp_status",
	}).AddRow(4, 7, "Offsite", "", start, "Lisbon", true, "pending")

	pool.ExpectQuery("FROM calendar_events").
		WithArgs(7, from, until, 100).
		WillReturnRows(rows)

	got, err := repo.ListUpcomingEvents(context.Background(), 7, from, until, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lisbon", got[0].Location)
	assert.True(t, got[0].AwaitingRSVP())
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListUpcomingDates(t *testing.T) {
	pool := newMockPool(t)
	repo := NewExtractedDateRepository(pool, zap.NewNop())
	now := since
	until := now.Add(7 * 24 * time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "date_type", "date", "time", "title", "description", "priority",
		"contact_id", "is_recurring", "related_entity", "confidence",
	}).
		AddRow(5, 7, "birthday", "2026-10-08", "", "Dana's birthday", "", 5,
			(*int)(nil), true, "Dana", 0.85).
		AddRow(6, 7, "Payment Due", "soon-ish", "25:00", "Water bill", "", 0,
			intPtr(2), false, "", 1.0)

	pool.ExpectQuery("FROM extracted_dates").
		WithArgs(7, "2026-10-05", "2026-10-12", now, 100).
		WillReturnRows(rows)

	got, err := repo.ListUpcomingDates(context.Background(), 7, now, until, now, 100)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.DateBirthday, got[0].DateType)
	assert.True(t, got[0].IsRecurring)
	assert.Equal(t, "Dana", got[0].RelatedEntity)

	assert.Equal(t, model.DatePaymentDue, got[1].DateType)
	assert.Equal(t, "soon-ish", got[1].Date)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListClientContacts(t *testing.T) {
	pool := newMockPool(t)
	repo := NewContactRepository(pool, zap.NewNop())

	rows := pgxmock.NewRows([]string{"id", "name", "client_tier"}).
		AddRow(1, "Acme", "VIP").
		AddRow(2, "Globex", "platinum")

	pool.ExpectQuery("FROM contacts").
		WithArgs(7).
		WillReturnRows(rows)

	got, err := repo.ListClientContacts(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []model.Contact{
		{ID: 1, Name: "Acme", Tier: model.TierVIP},
		{ID: 2, Name: "Globex", Tier: model.TierUnknown},
	}, got)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListClientContactsEmpty(t *testing.T) {
	pool := newMockPool(t)
	repo := NewContactRepository(pool, zap.NewNop())

	pool.ExpectQuery("FROM contacts").
		WithArgs(7).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "client_tier"}))

	got, err := repo.ListClientContacts(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
