// Package scoring turns message, task, calendar and extracted-date candidates into
// one comparable ranking. Every function here is pure: the clock, the client lookup
// and the weight tables are all passed in.
package scoring

import (
	"maps"
	"time"

	"focusboard/internal/model"
)

// Config holds every weight the scorers read. DefaultConfig returns a fresh value;
// the scorer never writes to it, so a Config can be shared between goroutines.
type Config struct {
	// BaseWeights is the starting weight per kind: message < task < extracted date < event.
	BaseWeights map[model.Kind]float64
	// ScoreScale converts the raw product into the 0..100 range.
	ScoreScale map[model.Kind]float64
	MaxScore   float64

	// PriorityScaleBase + PriorityScaleStep*v scales the base by a candidate's own
	// 1..10 priority (message AI priority, task urgency, date priority). v=5 is neutral.
	PriorityScaleBase float64
	PriorityScaleStep float64

	CategoryWeights map[model.Category]float64
	DateTypeWeights map[model.DateType]float64
	SignalWeights   map[model.SignalStrength]float64
	ReplyWeights    map[model.ReplyWorthiness]float64
	ClientWeights   map[model.ClientTier]float64

	Deadline  DeadlineConfig
	Staleness StalenessConfig

	RecurringFactor        float64
	LowConfidenceThreshold float64
	LowConfidenceFactor    float64

	TimeOfDay map[TimeContext]map[TimeColumn]float64

	// DefaultDateHour is used when an extracted date has no time, or an unparseable one.
	DefaultDateHour int

	DefaultLimit             int
	FridayStalenessThreshold float64
	FridayPrefix             string
}

// DeadlineConfig defines the proximity buckets. Hours are inclusive upper bounds.
type DeadlineConfig struct {
	CriticalHours    float64
	UrgentHours      float64
	SoonHours        float64
	ApproachingHours float64
	Factors          map[DeadlineBucket]float64
}

// StalenessConfig defines the age buckets. Ages are exclusive lower bounds.
type StalenessConfig struct {
	AgingAfter     time.Duration
	StaleAfter     time.Duration
	VeryStaleAfter time.Duration
	Factors        map[StalenessBucket]float64
}

const day = 24 * time.Hour

func DefaultConfig() Config {
	return Config{
		BaseWeights: map[model.Kind]float64{
			model.KindMessage:       6,
			model.KindTask:          10,
			model.KindExtractedDate: 12,
			model.KindEvent:         14,
		},
		ScoreScale: map[model.Kind]float64{
			model.KindMessage:       5,
			model.KindTask:          4,
			model.KindExtractedDate: 4,
			model.KindEvent:         4,
		},
		MaxScore:          100,
		PriorityScaleBase: 0.6,
		PriorityScaleStep: 0.08,
		CategoryWeights: map[model.Category]float64{
			model.CategoryTimeSensitive: 1.4,
			model.CategoryWork:          1.3,
			model.CategoryFinance:       1.2,
			model.CategoryPersonal:      1.1,
			model.CategoryTravel:        1.1,
			model.CategoryNotification:  0.8,
			model.CategorySocial:        0.7,
			model.CategoryNewsletter:    0.5,
			model.CategoryProductUpdate: 0.5,
			model.CategoryPromotion:     0.4,
			model.CategoryOther:         1.0,
			model.CategoryUnknown:       1.0,
		},
		DateTypeWeights: map[model.DateType]float64{
			model.DateDeadline:    1.5,
			model.DatePaymentDue:  1.5,
			model.DateExpiration:  1.3,
			model.DateAppointment: 1.3,
			model.DateFollowUp:    1.2,
			model.DateBirthday:    1.1,
			model.DateAnniversary: 1.1,
			model.DateEvent:       1.1,
			model.DateReminder:    1.0,
			model.DateRecurring:   0.8,
			model.DateOther:       0.8,
			model.DateUnknown:     1.0,
		},
		SignalWeights: map[model.SignalStrength]float64{
			model.SignalHigh:    1.5,
			model.SignalMedium:  1.0,
			model.SignalLow:     0.4,
			model.SignalNoise:   0.01,
			model.SignalUnknown: 1.0,
		},
		ReplyWeights: map[model.ReplyWorthiness]float64{
			model.ReplyMust:     1.4,
			model.ReplyShould:   1.2,
			model.ReplyOptional: 1.0,
			model.ReplyNone:     0.8,
			model.ReplyUnknown:  1.0,
		},
		ClientWeights: map[model.ClientTier]float64{
			model.TierVIP:     1.5,
			model.TierHigh:    1.25,
			model.TierMedium:  1.0,
			model.TierLow:     0.8,
			model.TierUnknown: 1.0,
		},
		Deadline: DeadlineConfig{
			CriticalHours:    4,
			UrgentHours:      24,
			SoonHours:        48,
			ApproachingHours: 72,
			Factors: map[DeadlineBucket]float64{
				DeadlineOverdue:     3.0,
				DeadlineCritical:    2.5,
				DeadlineUrgent:      2.0,
				DeadlineSoon:        1.6,
				DeadlineApproaching: 1.3,
				DeadlineNormal:      1.0,
				DeadlineNone:        1.0,
			},
		},
		Staleness: StalenessConfig{
			AgingAfter:     1 * day,
			StaleAfter:     3 * day,
			VeryStaleAfter: 5 * day,
			Factors: map[StalenessBucket]float64{
				StalenessVeryStale: 1.5,
				StalenessStale:     1.3,
				StalenessAging:     1.15,
				StalenessFresh:     1.0,
				StalenessNone:      1.0,
			},
		},
		RecurringFactor:        0.7,
		LowConfidenceThreshold: 0.7,
		LowConfidenceFactor:    0.85,
		TimeOfDay: map[TimeContext]map[TimeColumn]float64{
			TimeMorning:   {ColumnMessage: 1.1, ColumnTask: 1.2, ColumnEventLike: 0.9},
			TimeAfternoon: {ColumnMessage: 1.0, ColumnTask: 1.0, ColumnEventLike: 1.0},
			TimeEvening:   {ColumnMessage: 0.9, ColumnTask: 0.8, ColumnEventLike: 1.2},
		},
		DefaultDateHour:          9,
		DefaultLimit:             3,
		FridayStalenessThreshold: 1.2,
		FridayPrefix:             "End-of-week cleanup: ",
	}
}

// Clone returns a deep copy, so the copy and the original share no maps.
func (c Config) Clone() Config {
	out := c
	out.BaseWeights = maps.Clone(c.BaseWeights)
	out.ScoreScale = maps.Clone(c.ScoreScale)
	out.CategoryWeights = maps.Clone(c.CategoryWeights)
	out.DateTypeWeights = maps.Clone(c.DateTypeWeights)
	out.SignalWeights = maps.Clone(c.SignalWeights)
	out.ReplyWeights = maps.Clone(c.ReplyWeights)
	out.ClientWeights = maps.Clone(c.ClientWeights)
	out.Deadline.Factors = maps.Clone(c.Deadline.Factors)
	out.Staleness.Factors = maps.Clone(c.Staleness.Factors)
	if c.TimeOfDay != nil {
		out.TimeOfDay = make(map[TimeContext]map[TimeColumn]float64, len(c.TimeOfDay))
		for tc, row := range c.TimeOfDay {
			out.TimeOfDay[tc] = maps.Clone(row)
		}
	}
	return out
}

// lookup returns m[key], or 1.0 when the key is absent.
func lookup[K comparable](m map[K]float64, key K) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return 1.0
}
