package scoring

import "focusboard/internal/model"

func (s *Scorer) scoreEvent(e model.CalendarEvent, sc Context) ScoredItem {
	cfg := s.cfg
	f := neutralFactors(lookup(cfg.BaseWeights, model.KindEvent))

	until := e.StartAt.Sub(sc.Now)
	bucket := cfg.deadlineBucket(until.Hours())
	f.Deadline = lookup(cfg.Deadline.Factors, bucket)

	start := e.StartAt
	action := ActionAttend
	if e.AwaitingRSVP() {
		action = ActionRespond
	}

	item := ScoredItem{
		Title:           e.Title,
		Description:     e.Description,
		Factors:         f,
		DeadlineBucket:  bucket,
		StalenessBucket: StalenessNone,
		Deadline:        &start,
		PrimaryDate:     start,
		SuggestedAction: action,
	}
	item = s.finish(item, e, sc)
	item.Rationale = explain(rationaleInput{item: item, candidate: e, until: until})
	return item
}
