package scoring

import (
	"math"
	"time"
)

type DeadlineBucket string

const (
	DeadlineOverdue     DeadlineBucket = "overdue"
	DeadlineCritical    DeadlineBucket = "critical"
	DeadlineUrgent      DeadlineBucket = "urgent"
	DeadlineSoon        DeadlineBucket = "soon"
	DeadlineApproaching DeadlineBucket = "approaching"
	DeadlineNormal      DeadlineBucket = "normal"
	// DeadlineNone marks items with no due moment (messages, undated tasks).
	DeadlineNone DeadlineBucket = "none"
)

type StalenessBucket string

const (
	StalenessVeryStale StalenessBucket = "very_stale"
	StalenessStale     StalenessBucket = "stale"
	StalenessAging     StalenessBucket = "aging"
	StalenessFresh     StalenessBucket = "fresh"
	// StalenessNone marks kinds staleness does not apply to (events, extracted dates).
	StalenessNone StalenessBucket = "none"
)

// Factors is the full multiplicative chain behind a score. Score is always derived
// from Product, so the recorded values are exactly the ones used.
type Factors struct {
	Base       float64 `json:"base"`
	Category   float64 `json:"category"`
	Signal     float64 `json:"signal"`
	Reply      float64 `json:"reply"`
	Deadline   float64 `json:"deadline"`
	Client     float64 `json:"client"`
	Staleness  float64 `json:"staleness"`
	Recurrence float64 `json:"recurrence"`
	Confidence float64 `json:"confidence"`
	Momentum   float64 `json:"momentum"`
	TimeOfDay  float64 `json:"time_of_day"`
}

func neutralFactors(base float64) Factors {
	return Factors{
		Base:       base,
		Category:   1,
		Signal:     1,
		Reply:      1,
		Deadline:   1,
		Client:     1,
		Staleness:  1,
		Recurrence: 1,
		Confidence: 1,
		Momentum:   1,
		TimeOfDay:  1,
	}
}

func (f Factors) Product() float64 {
	return f.Base * f.Category * f.Signal * f.Reply * f.Deadline * f.Client *
		f.Staleness * f.Recurrence * f.Confidence * f.Momentum * f.TimeOfDay
}

// finalScore scales, rounds and clamps a raw product into [0, max].
func finalScore(raw, scale, max float64) int {
	s := math.Round(raw * scale)
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > max {
		s = max
	}
	return int(s)
}

func (c Config) deadlineBucket(hoursUntil float64) DeadlineBucket {
	d := c.Deadline
	switch {
	case hoursUntil < 0:
		return DeadlineOverdue
	case hoursUntil <= d.CriticalHours:
		return DeadlineCritical
	case hoursUntil <= d.UrgentHours:
		return DeadlineUrgent
	case hoursUntil <= d.SoonHours:
		return DeadlineSoon
	case hoursUntil <= d.ApproachingHours:
		return DeadlineApproaching
	default:
		return DeadlineNormal
	}
}

func (c Config) stalenessBucket(age time.Duration) StalenessBucket {
	s := c.Staleness
	switch {
	case age > s.VeryStaleAfter:
		return StalenessVeryStale
	case age > s.StaleAfter:
		return StalenessStale
	case age > s.AgingAfter:
		return StalenessAging
	default:
		return StalenessFresh
	}
}

// priorityScale maps a 1..10 priority onto the base weight; 0 means "not set",
// other out-of-range values clamp into 1..10.
func (c Config) priorityScale(v int) float64 {
	switch {
	case v == 0:
		return 1
	case v < 1:
		v = 1
	case v > 10:
		v = 10
	}
	return c.PriorityScaleBase + c.PriorityScaleStep*float64(v)
}

func (c Config) timeOfDay(tc TimeContext, col TimeColumn) float64 {
	row, ok := c.TimeOfDay[tc]
	if !ok {
		return 1
	}
	return lookup(row, col)
}
