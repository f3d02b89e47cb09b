package scoring

import (
	"errors"
	"fmt"
	"time"

	"focusboard/internal/model"
)

// ErrUnknownCandidate is returned for a Candidate outside the four known variants.
var ErrUnknownCandidate = errors.New("unknown candidate variant")

// MomentumFunc rates thread activity around a candidate. It is a pluggable hook;
// the default is neutral for every kind.
type MomentumFunc func(c model.Candidate, now time.Time) float64

// NeutralMomentum returns 1.0 for every candidate.
func NeutralMomentum(model.Candidate, time.Time) float64 { return 1 }

type Option func(*Scorer)

// WithMomentum replaces the neutral momentum factor.
func WithMomentum(fn MomentumFunc) Option {
	return func(s *Scorer) {
		if fn != nil {
			s.momentum = fn
		}
	}
}

// Scorer applies a Config to candidates. It holds no per-call state.
type Scorer struct {
	cfg      Config
	momentum MomentumFunc
}

func NewScorer(cfg Config, opts ...Option) *Scorer {
	s := &Scorer{cfg: cfg.Clone(), momentum: NeutralMomentum}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns a copy of the configuration the scorer was built with.
func (s *Scorer) Config() Config {
	return s.cfg.Clone()
}

// Rank orders items with the scorer's own configuration.
func (s *Scorer) Rank(items []ScoredItem, limit int, dc DayContext) []ScoredItem {
	return s.cfg.Rank(items, limit, dc)
}

// Score dispatches on the candidate variant.
func (s *Scorer) Score(c model.Candidate, sc Context) (ScoredItem, error) {
	switch v := c.(type) {
	case model.Message:
		return s.scoreMessage(v, sc), nil
	case model.Task:
		return s.scoreTask(v, sc), nil
	case model.CalendarEvent:
		return s.scoreEvent(v, sc), nil
	case model.ExtractedDate:
		return s.scoreExtractedDate(v, sc), nil
	default:
		return ScoredItem{}, fmt.Errorf("%w: %T", ErrUnknownCandidate, c)
	}
}

// Issue records one candidate that failed to score or needed a fallback.
type Issue struct {
	Kind        model.Kind
	CandidateID int
	Err         error
}

// Batch is the outcome of scoring one candidate list.
type Batch struct {
	Items []ScoredItem
	// Dropped counts items that scored but rounded to zero.
	Dropped   int
	Failures  []Issue
	Malformed []Issue
}

// ScoreAll scores every candidate independently. A failing candidate is recorded
// in Failures and skipped; the rest of the list is unaffected.
func ScoreAll[C model.Candidate](s *Scorer, candidates []C, sc Context) Batch {
	var b Batch
	for _, c := range candidates {
		if any(c) == nil {
			b.Failures = append(b.Failures, Issue{Err: ErrUnknownCandidate})
			continue
		}
		item, err := s.scoreSafe(c, sc)
		if err != nil {
			b.Failures = append(b.Failures, Issue{Kind: c.Kind(), CandidateID: c.CandidateID(), Err: err})
			continue
		}
		for _, w := range item.Warnings {
			b.Malformed = append(b.Malformed, Issue{Kind: c.Kind(), CandidateID: c.CandidateID(), Err: errors.New(w)})
		}
		if item.Score <= 0 {
			b.Dropped++
			continue
		}
		b.Items = append(b.Items, item)
	}
	return b
}

func (s *Scorer) scoreSafe(c model.Candidate, sc Context) (item ScoredItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while scoring: %v", r)
		}
	}()
	return s.Score(c, sc)
}

// finish computes the score from the factors and fills the shared fields.
func (s *Scorer) finish(item ScoredItem, c model.Candidate, sc Context) ScoredItem {
	item.Kind = c.Kind()
	item.SourceID = c.CandidateID()
	item.ID = CompositeID(item.Kind, item.SourceID)
	item.NavRef = navRef(item.Kind, item.SourceID)
	item.Factors.Momentum = s.momentum(c, sc.Now)
	item.Factors.TimeOfDay = s.cfg.timeOfDay(sc.Time, columnFor(item.Kind))
	item.Score = finalScore(item.Factors.Product(), lookup(s.cfg.ScoreScale, item.Kind), s.cfg.MaxScore)
	if item.Deadline != nil {
		item.TimeRemaining = timeRemaining(item.Deadline.Sub(sc.Now))
	}
	return item
}

func (s *Scorer) clientFactor(contactID *int, sc Context) (float64, model.ClientInfo, bool) {
	if contactID == nil {
		return 1, model.ClientInfo{}, false
	}
	info, ok := sc.Clients[*contactID]
	if !ok {
		return 1, model.ClientInfo{}, false
	}
	return lookup(s.cfg.ClientWeights, info.Tier), info, true
}
