// Package priority answers "what should I focus on now" for one user by fetching
// candidates from every source, scoring them and returning the top few.
package priority

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"focusboard/internal/model"
	"focusboard/internal/scoring"
	"focusboard/pkg/circuitbreaker"
	"focusboard/pkg/logger"
	"focusboard/pkg/metrics"
	"focusboard/pkg/otel"
)

// Settings bounds the candidate windows.
type Settings struct {
	MaxCandidateAge time.Duration
	ForwardWindow   time.Duration
	FetchLimit      int
	Breaker         circuitbreaker.Config
}

func DefaultSettings() Settings {
	return Settings{
		MaxCandidateAge: 14 * 24 * time.Hour,
		ForwardWindow:   7 * 24 * time.Hour,
		FetchLimit:      100,
		Breaker:         circuitbreaker.DefaultConfig(),
	}
}

// Options are the per-call knobs. Empty contexts are derived from now.
type Options struct {
	Limit int
	// IncludeAIReasoning is accepted for API compatibility and currently ignored.
	IncludeAIReasoning bool
	TimeContext        scoring.TimeContext
	DayContext         scoring.DayContext
}

type Stats struct {
	TotalCandidates          int   `json:"total_candidates"`
	MessagesConsidered       int   `json:"messages_considered"`
	TasksConsidered          int   `json:"tasks_considered"`
	EventsConsidered         int   `json:"events_considered"`
	ExtractedDatesConsidered int   `json:"extracted_dates_considered"`
	ProcessingTimeMs         int64 `json:"processing_time_ms"`
}

type Result struct {
	Items       []scoring.ScoredItem `json:"items"`
	Stats       Stats                `json:"stats"`
	LastUpdated time.Time            `json:"last_updated"`
}

type Service struct {
	sources    Sources
	dismissals DismissalSource
	scorer     *scoring.Scorer
	settings   Settings
	breakers   map[string]*circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

type Option func(*Service)

func WithSettings(st Settings) Option {
	return func(s *Service) { s.settings = st }
}

func WithDismissals(d DismissalSource) Option {
	return func(s *Service) { s.dismissals = d }
}

func NewService(sources Sources, scorer *scoring.Scorer, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		sources:  sources,
		scorer:   scorer,
		settings: DefaultSettings(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.breakers = make(map[string]*circuitbreaker.CircuitBreaker)
	for _, name := range []string{sourceMessages, sourceTasks, sourceEvents, sourceDates, sourceClients, sourceDismissals} {
		s.breakers[name] = circuitbreaker.NewCircuitBreaker(name, s.settings.Breaker,
			circuitbreaker.WithStateListener(s.onBreakerChange))
		metrics.SetBreakerState(name, int(circuitbreaker.StateClosed))
	}
	return s
}

func (s *Service) onBreakerChange(source string, from, to circuitbreaker.State) {
	metrics.SetBreakerState(source, int(to))
	s.logger.Warn("Source circuit breaker changed state",
		zap.String("source", source),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}

// BreakerStates reports each source breaker's state, for readiness output.
func (s *Service) BreakerStates() map[string]string {
	out := make(map[string]string, len(s.breakers))
	for name, cb := range s.breakers {
		out[name] = cb.GetState().String()
	}
	return out
}

type candidates struct {
	messages  []model.Message
	tasks     []model.Task
	events    []model.CalendarEvent
	dates     []model.ExtractedDate
	clients   model.ClientLookup
	dismissed map[string]struct{}
}

// GetTopPriorityItems never fails: an unavailable source contributes nothing, and a
// candidate that cannot be scored is skipped. With every source down the result is
// empty with zero counts.
func (s *Service) GetTopPriorityItems(ctx context.Context, userID int, now time.Time, opts Options) Result {
	start := time.Now()
	ctx, span := otel.StartSpan(ctx, "priority.GetTopPriorityItems")
	defer span.End()
	log := logger.WithTrace(ctx, s.logger).With(zap.Int("user_id", userID))

	log.Debug("Ranking priority items",
		zap.Time("now", now),
		zap.Int("limit", opts.Limit),
		zap.String("time_context", string(opts.TimeContext)),
		zap.String("day_context", string(opts.DayContext)),
	)

	c := s.fetch(ctx, log, userID, now)
	sc := scoring.NewContext(now, opts.TimeContext, opts.DayContext, c.clients)

	var items []scoring.ScoredItem
	items = append(items, s.collect(log, scoring.ScoreAll(s.scorer, c.messages, sc))...)
	items = append(items, s.collect(log, scoring.ScoreAll(s.scorer, c.tasks, sc))...)
	items = append(items, s.collect(log, scoring.ScoreAll(s.scorer, c.events, sc))...)
	items = append(items, s.collect(log, scoring.ScoreAll(s.scorer, c.dates, sc))...)

	if len(c.dismissed) > 0 {
		kept := items[:0]
		for _, it := range items {
			if _, hidden := c.dismissed[it.ID]; !hidden {
				kept = append(kept, it)
			}
		}
		items = kept
	}

	ranked := s.scorer.Rank(items, opts.Limit, sc.Day)

	stats := Stats{
		MessagesConsidered:       len(c.messages),
		TasksConsidered:          len(c.tasks),
		EventsConsidered:         len(c.events),
		ExtractedDatesConsidered: len(c.dates),
	}
	stats.TotalCandidates = stats.MessagesConsidered + stats.TasksConsidered +
		stats.EventsConsidered + stats.ExtractedDatesConsidered

	elapsed := time.Since(start)
	stats.ProcessingTimeMs = elapsed.Milliseconds()
	metrics.RecordRanking(elapsed, len(ranked))

	span.SetAttributes(
		attribute.Int("user_id", userID),
		attribute.Int("candidates", stats.TotalCandidates),
		attribute.Int("ranked", len(ranked)),
	)
	log.Info("Priority items ranked",
		zap.Int("candidates", stats.TotalCandidates),
		zap.Int("returned", len(ranked)),
		zap.Duration("elapsed", elapsed),
	)

	return Result{Items: ranked, Stats: stats, LastUpdated: now}
}

func (s *Service) collect(log *zap.Logger, b scoring.Batch) []scoring.ScoredItem {
	for _, f := range b.Failures {
		metrics.IncrementScoringFailure(string(f.Kind))
		log.Warn("Skipping candidate that failed to score",
			zap.String("kind", string(f.Kind)),
			zap.Int("candidate_id", f.CandidateID),
			zap.Error(f.Err),
		)
	}
	for _, m := range b.Malformed {
		log.Warn("Malformed candidate field, using fallback",
			zap.String("kind", string(m.Kind)),
			zap.Int("candidate_id", m.CandidateID),
			zap.Error(m.Err),
		)
	}
	if b.Dropped > 0 {
		log.Debug("Dropped zero-score candidates", zap.Int("count", b.Dropped))
	}
	return b.Items
}

// fetch runs every source concurrently. The goroutines never return an error, so
// each one finishes and a failing source leaves its slot empty.
func (s *Service) fetch(ctx context.Context, log *zap.Logger, userID int, now time.Time) candidates {
	st := s.settings
	since := now.Add(-st.MaxCandidateAge)
	until := now.Add(st.ForwardWindow)

	var c candidates
	g, gctx := errgroup.WithContext(ctx)

	if src := s.sources.Messages; src != nil {
		g.Go(func() error {
			c.messages = guard(gctx, s, log, sourceMessages, func(ctx context.Context) ([]model.Message, error) {
				return src.ListPendingMessages(ctx, userID, since, st.FetchLimit)
			})
			return nil
		})
	}
	if src := s.sources.Tasks; src != nil {
		g.Go(func() error {
			c.tasks = guard(gctx, s, log, sourceTasks, func(ctx context.Context) ([]model.Task, error) {
				return src.ListPendingTasks(ctx, userID, since, st.FetchLimit)
			})
			return nil
		})
	}
	if src := s.sources.Events; src != nil {
		g.Go(func() error {
			c.events = guard(gctx, s, log, sourceEvents, func(ctx context.Context) ([]model.CalendarEvent, error) {
				return src.ListUpcomingEvents(ctx, userID, now, until, st.FetchLimit)
			})
			return nil
		})
	}
	if src := s.sources.Dates; src != nil {
		g.Go(func() error {
			c.dates = guard(gctx, s, log, sourceDates, func(ctx context.Context) ([]model.ExtractedDate, error) {
				return src.ListUpcomingDates(ctx, userID, now, until, now, st.FetchLimit)
			})
			return nil
		})
	}
	if src := s.sources.Clients; src != nil {
		g.Go(func() error {
			contacts := guard(gctx, s, log, sourceClients, func(ctx context.Context) ([]model.Contact, error) {
				return src.ListClientContacts(ctx, userID)
			})
			c.clients = clientLookup(contacts)
			return nil
		})
	}
	if src := s.dismissals; src != nil {
		g.Go(func() error {
			c.dismissed = guardOne(gctx, s, log, sourceDismissals, func(ctx context.Context) (map[string]struct{}, error) {
				return src.Dismissed(ctx, userID, now)
			})
			return nil
		})
	}

	_ = g.Wait()
	return c
}

// guard runs one source fetch behind its circuit breaker and turns any failure into
// an empty list.
func guard[T any](ctx context.Context, s *Service, log *zap.Logger, source string, fn func(context.Context) ([]T, error)) []T {
	out := guardOne(ctx, s, log, source, fn)
	metrics.AddCandidates(source, len(out))
	return out
}

func guardOne[T any](ctx context.Context, s *Service, log *zap.Logger, source string, fn func(context.Context) (T, error)) T {
	ctx, span := otel.StartSpan(ctx, "priority.fetch."+source)
	defer span.End()

	var out T
	err := s.breakers[source].ExecuteContext(ctx, func(ctx context.Context) (err error) {
		// 来源 panic 按失败处理，熔断器才能释放半开名额
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("source %s panicked: %v", source, r)
			}
		}()
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		reason := "error"
		if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
			reason = "breaker_open"
		}
		metrics.IncrementSourceFailure(source, reason)
		span.RecordError(err)
		log.Warn("Candidate source unavailable, continuing without it",
			zap.String("source", source),
			zap.String("reason", reason),
			zap.Error(err),
		)
		var zero T
		return zero
	}
	return out
}

// clientLookup is rebuilt on every call so tier changes apply immediately.
func clientLookup(contacts []model.Contact) model.ClientLookup {
	lookup := make(model.ClientLookup, len(contacts))
	for _, c := range contacts {
		lookup[c.ID] = model.ClientInfo{Name: c.Name, Tier: c.Tier}
	}
	return lookup
}
