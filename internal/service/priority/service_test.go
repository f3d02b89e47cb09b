package priority

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"focusboard/internal/model"
	"focusboard/internal/scoring"
	"focusboard/pkg/circuitbreaker"
)

// Monday afternoon.
var now = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

var errDown = errors.New("store unavailable")

type fakeMessages struct {
	items []model.Message
	err   error
	calls atomic.Int32
}

func (f *fakeMessages) ListPendingMessages(_ context.Context, _ int, _ time.Time, _ int) ([]model.Message, error) {
	f.calls.Add(1)
	return f.items, f.err
}

type fakeTasks struct {
	items []model.Task
	err   error
	since time.Time
	limit int
}

func (f *fakeTasks) ListPendingTasks(_ context.Context, _ int, since time.Time, limit int) ([]model.Task, error) {
	f.since, f.limit = since, limit
	return f.items, f.err
}

// panickingTasks 模拟来源内部的 bug：写 nil map
type panickingTasks struct {
	counts map[int]int
	calls  atomic.Int32
}

func (f *panickingTasks) ListPendingTasks(_ context.Context, userID int, _ time.Time, _ int) ([]model.Task, error) {
	f.calls.Add(1)
	f.counts[userID]++
	return nil, nil
}

type fakeEvents struct {
	items []model.CalendarEvent
	err   error
	until time.Time
}

func (f *fakeEvents) ListUpcomingEvents(_ context.Context, _ int, _, until time.Time, _ int) ([]model.CalendarEvent, error) {
	f.until = until
	return f.items, f.err
}

type fakeDates struct {
	items []model.ExtractedDate
	err   error
}

func (f *fakeDates) ListUpcomingDates(_ context.Context, _ int, _, _, _ time.Time, _ int) ([]model.ExtractedDate, error) {
	return f.items, f.err
}

type fakeClients struct {
	items []model.Contact
	err   error
}

func (f *fakeClients) ListClientContacts(_ context.Context, _ int) ([]model.Contact, error) {
	return f.items, f.err
}

type fakeDismissals struct {
	ids map[string]struct{}
	err error
}

func (f *fakeDismissals) Dismissed(_ context.Context, _ int, _ time.Time) (map[string]struct{}, error) {
	return f.ids, f.err
}

func intPtr(v int) *int { return &v }

func sampleSources() (Sources, *fakeMessages, *fakeTasks) {
	deadline := now.Add(-2 * time.Hour)
	msgs := &fakeMessages{items: []model.Message{{
		ID:              1,
		Subject:         "Q3 numbers",
		Sender:          "alice@example.com",
		ReceivedAt:      now.Add(-time.Hour),
		Category:        model.CategoryWork,
		SignalStrength:  model.SignalHigh,
		ReplyWorthiness: model.ReplyMust,
	}}}
	tasks := &fakeTasks{items: []model.Task{
		{ID: 10, Title: "Overdue report", Urgency: 5, Deadline: &deadline, Status: model.TaskStatusPending, CreatedAt: now.Add(-time.Hour)},
		{ID: 11, Title: "Client follow-up", Urgency: 5, ContactID: intPtr(3), Status: model.TaskStatusPending, CreatedAt: now.Add(-time.Hour)},
	}}
	return Sources{
		Messages: msgs,
		Tasks:    tasks,
		Events: &fakeEvents{items: []model.CalendarEvent{
			{ID: 20, Title: "Offsite", StartAt: now.Add(5 * 24 * time.Hour)},
		}},
		Dates: &fakeDates{items: []model.ExtractedDate{
			{ID: 30, DateType: model.DateBirthday, Date: "2026-10-22", Title: "Birthday", Priority: 5, RelatedEntity: "Dana", Confidence: 0.9},
		}},
		Clients: &fakeClients{items: []model.Contact{{ID: 3, Name: "Acme", Tier: model.TierVIP}}},
	}, msgs, tasks
}

func newService(sources Sources, opts ...Option) *Service {
	return NewService(sources, scoring.NewScorer(scoring.DefaultConfig()), zap.NewNop(), opts...)
}

func TestGetTopPriorityItems(t *testing.T) {
	sources, _, _ := sampleSources()
	svc := newService(sources)

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{Limit: 10})

	assert.Equal(t, Stats{
		TotalCandidates:          5,
		MessagesConsidered:       1,
		TasksConsidered:          2,
		EventsConsidered:         1,
		ExtractedDatesConsidered: 1,
		ProcessingTimeMs:         res.Stats.ProcessingTimeMs,
	}, res.Stats)
	assert.Equal(t, now, res.LastUpdated)
	require.Len(t, res.Items, 5)

	// overdue task 100, message 82, birthday 69, vip task 60, event 56
	var ids []string
	for _, it := range res.Items {
		ids = append(ids, it.ID)
		assert.Greater(t, it.Score, 0)
		assert.LessOrEqual(t, it.Score, 100)
		assert.NotEmpty(t, it.Rationale)
	}
	assert.Equal(t, []string{"task-10", "message-1", "date-30", "task-11", "event-20"}, ids)
	assert.Equal(t, "Acme", res.Items[3].ClientName)
}

func TestGetTopPriorityItemsDefaultLimit(t *testing.T) {
	sources, _, _ := sampleSources()
	svc := newService(sources)

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{})

	assert.Len(t, res.Items, 3)
	assert.Equal(t, 5, res.Stats.TotalCandidates)
}

func TestGetTopPriorityItemsUsesWindows(t *testing.T) {
	sources, _, tasks := sampleSources()
	events := sources.Events.(*fakeEvents)
	svc := newService(sources)

	svc.GetTopPriorityItems(context.Background(), 7, now, Options{})

	assert.Equal(t, now.Add(-14*24*time.Hour), tasks.since)
	assert.Equal(t, 100, tasks.limit)
	assert.Equal(t, now.Add(7*24*time.Hour), events.until)
}

func TestGetTopPriorityItemsAllSourcesDown(t *testing.T) {
	svc := newService(Sources{
		Messages: &fakeMessages{err: errDown},
		Tasks:    &fakeTasks{err: errDown},
		Events:   &fakeEvents{err: errDown},
		Dates:    &fakeDates{err: errDown},
		Clients:  &fakeClients{err: errDown},
	}, WithDismissals(&fakeDismissals{err: errDown}))

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{})

	assert.Empty(t, res.Items)
	assert.Zero(t, res.Stats.TotalCandidates)
	assert.Zero(t, res.Stats.MessagesConsidered)
	assert.Zero(t, res.Stats.TasksConsidered)
	assert.Zero(t, res.Stats.EventsConsidered)
	assert.Zero(t, res.Stats.ExtractedDatesConsidered)
}

func TestGetTopPriorityItemsOneSourceDown(t *testing.T) {
	sources, _, _ := sampleSources()
	sources.Messages = &fakeMessages{err: errDown}
	svc := newService(sources)

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{Limit: 10})

	assert.Len(t, res.Items, 4)
	assert.Zero(t, res.Stats.MessagesConsidered)
	assert.Equal(t, 4, res.Stats.TotalCandidates)
	for _, it := range res.Items {
		assert.NotEqual(t, model.KindMessage, it.Kind)
	}
}

func TestGetTopPriorityItemsClientSourceDownIsNeutral(t *testing.T) {
	sources, _, _ := sampleSources()
	sources.Clients = &fakeClients{err: errDown}
	svc := newService(sources)

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{Limit: 10})

	for _, it := range res.Items {
		assert.Equal(t, 1.0, it.Factors.Client, it.ID)
		assert.Empty(t, it.ClientName)
	}
}

func TestGetTopPriorityItemsNilSources(t *testing.T) {
	svc := newService(Sources{})

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{})

	assert.Empty(t, res.Items)
	assert.Zero(t, res.Stats.TotalCandidates)
}

func TestGetTopPriorityItemsSkipsDismissed(t *testing.T) {
	sources, _, _ := sampleSources()
	svc := newService(sources, WithDismissals(&fakeDismissals{
		ids: map[string]struct{}{"task-10": {}, "message-1": {}},
	}))

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{Limit: 2})

	require.Len(t, res.Items, 2)
	assert.Equal(t, "date-30", res.Items[0].ID)
	assert.Equal(t, "task-11", res.Items[1].ID)
	// dismissed items still count as considered
	assert.Equal(t, 5, res.Stats.TotalCandidates)
}

func TestGetTopPriorityItemsDismissalStoreDown(t *testing.T) {
	sources, _, _ := sampleSources()
	svc := newService(sources, WithDismissals(&fakeDismissals{err: errDown}))

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{})

	require.Len(t, res.Items, 3)
	assert.Equal(t, "task-10", res.Items[0].ID)
}

func TestGetTopPriorityItemsFridayCleanup(t *testing.T) {
	svc := newService(Sources{
		Tasks: &fakeTasks{items: []model.Task{
			{ID: 1, Title: "Old chore", Urgency: 5, Status: model.TaskStatusPending, CreatedAt: now.Add(-6 * 24 * time.Hour)},
		}},
	})

	res := svc.GetTopPriorityItems(context.Background(), 7, now, Options{DayContext: scoring.DayFriday})

	require.Len(t, res.Items, 1)
	assert.Equal(t, "End-of-week cleanup: Pending for 6 days and at risk of slipping", res.Items[0].Rationale)
}

func TestGetTopPriorityItemsTimeContextDefaultsFromNow(t *testing.T) {
	sources, _, _ := sampleSources()
	svc := newService(sources)
	morning := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	res := svc.GetTopPriorityItems(context.Background(), 7, morning, Options{Limit: 10})

	for _, it := range res.Items {
		if it.Kind == model.KindTask {
			assert.Equal(t, 1.2, it.Factors.TimeOfDay)
		}
	}
}

func TestSourceBreakerOpensAfterRepeatedFailures(t *testing.T) {
	msgs := &fakeMessages{err: errDown}
	st := DefaultSettings()
	st.Breaker = circuitbreaker.Config{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Hour, HalfOpenMaxRequests: 1}
	svc := newService(Sources{Messages: msgs}, WithSettings(st))

	for i := 0; i < 4; i++ {
		svc.GetTopPriorityItems(context.Background(), 7, now, Options{})
	}

	assert.Equal(t, int32(2), msgs.calls.Load())
	assert.Equal(t, "open", svc.BreakerStates()[sourceMessages])
	assert.Equal(t, "closed", svc.BreakerStates()[sourceTasks])
}

func TestGetTopPriorityItemsPanickingSourceIsDegraded(t *testing.T) {
	sources, _, _ := sampleSources()
	tasks := &panickingTasks{}
	sources.Tasks = tasks
	st := DefaultSettings()
	st.Breaker = circuitbreaker.Config{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Hour, HalfOpenMaxRequests: 1}
	svc := newService(sources, WithSettings(st))

	var res Result
	require.NotPanics(t, func() {
		res = svc.GetTopPriorityItems(context.Background(), 7, now, Options{Limit: 10})
	})

	assert.Zero(t, res.Stats.TasksConsidered)
	assert.Equal(t, 3, res.Stats.TotalCandidates)
	for _, it := range res.Items {
		assert.NotEqual(t, model.KindTask, it.Kind)
	}

	// panic 计入熔断失败次数
	svc.GetTopPriorityItems(context.Background(), 7, now, Options{Limit: 10})
	svc.GetTopPriorityItems(context.Background(), 7, now, Options{Limit: 10})
	assert.Equal(t, int32(2), tasks.calls.Load())
	assert.Equal(t, "open", svc.BreakerStates()[sourceTasks])
}

func TestClientLookup(t *testing.T) {
	lookup := clientLookup([]model.Contact{
		{ID: 1, Name: "Acme", Tier: model.TierVIP},
		{ID: 2, Name: "Globex", Tier: model.TierLow},
	})

	assert.Equal(t, model.ClientInfo{Name: "Acme", Tier: model.TierVIP}, lookup[1])
	assert.Len(t, lookup, 2)
	assert.NotNil(t, clientLookup(nil))
}
