package scoring

import (
	"fmt"
	"time"

	"focusboard/internal/model"
)

func (s *Scorer) scoreExtractedDate(d model.ExtractedDate, sc Context) ScoredItem {
	cfg := s.cfg
	f := neutralFactors(lookup(cfg.BaseWeights, model.KindExtractedDate) * cfg.priorityScale(d.Priority))
	f.Category = lookup(cfg.DateTypeWeights, d.DateType)
	if d.IsRecurring {
		f.Recurrence = cfg.RecurringFactor
	}
	if d.Confidence < cfg.LowConfidenceThreshold {
		f.Confidence = cfg.LowConfidenceFactor
	}

	due, warnings := cfg.dueMoment(d, sc.Now)
	until := due.Sub(sc.Now)
	bucket := cfg.deadlineBucket(until.Hours())
	f.Deadline = lookup(cfg.Deadline.Factors, bucket)

	item := ScoredItem{
		Title:           d.Title,
		Description:     d.Description,
		Factors:         f,
		DeadlineBucket:  bucket,
		StalenessBucket: StalenessNone,
		Deadline:        &due,
		PrimaryDate:     due,
		SuggestedAction: dateAction(d.DateType),
		Warnings:        warnings,
	}
	item = s.finish(item, d, sc)
	item.Rationale = explain(rationaleInput{item: item, candidate: d, until: until})
	return item
}

// dueMoment combines the stored date and time in now's location. An unparseable
// date becomes today at DefaultDateHour; a missing or unparseable time becomes
// DefaultDateHour on the given date.
func (c Config) dueMoment(d model.ExtractedDate, now time.Time) (time.Time, []string) {
	var warnings []string
	loc := now.Location()

	day, err := time.ParseInLocation("2006-01-02", d.Date, loc)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("unparseable date %q, using today", d.Date))
		y, m, dd := now.Date()
		day = time.Date(y, m, dd, 0, 0, 0, 0, loc)
	}

	hour, minute, sec := c.DefaultDateHour, 0, 0
	if d.Time != "" {
		if t, ok := parseClock(d.Time); ok {
			hour, minute, sec = t.Hour(), t.Minute(), t.Second()
		} else {
			warnings = append(warnings, fmt.Sprintf("unparseable time %q, using %02d:00", d.Time, c.DefaultDateHour))
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, sec, 0, loc), warnings
}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateAction(t model.DateType) SuggestedAction {
	switch t {
	case model.DateAppointment, model.DateEvent:
		return ActionAttend
	case model.DateFollowUp:
		return ActionRespond
	case model.DateExpiration:
		return ActionSchedule
	default:
		return ActionReview
	}
}
