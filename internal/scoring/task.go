package scoring

import (
	"strings"
	"time"

	"focusboard/internal/model"
)

func (s *Scorer) scoreTask(t model.Task, sc Context) ScoredItem {
	cfg := s.cfg
	f := neutralFactors(lookup(cfg.BaseWeights, model.KindTask) * cfg.priorityScale(t.Urgency))

	clientFactor, client, hasClient := s.clientFactor(t.ContactID, sc)
	f.Client = clientFactor

	age := sc.Now.Sub(t.CreatedAt)
	staleness := cfg.stalenessBucket(age)
	f.Staleness = lookup(cfg.Staleness.Factors, staleness)

	bucket := DeadlineNone
	primary := t.CreatedAt
	var until time.Duration
	if t.Deadline != nil {
		until = t.Deadline.Sub(sc.Now)
		bucket = cfg.deadlineBucket(until.Hours())
		primary = *t.Deadline
	}
	f.Deadline = lookup(cfg.Deadline.Factors, bucket)

	item := ScoredItem{
		Title:           t.Title,
		Description:     t.Description,
		Factors:         f,
		DeadlineBucket:  bucket,
		StalenessBucket: staleness,
		Deadline:        t.Deadline,
		PrimaryDate:     primary,
		SuggestedAction: taskAction(t.TypeHint),
	}
	if hasClient {
		item.ClientName = client.Name
		item.ClientTier = client.Tier
	}
	item = s.finish(item, t, sc)
	item.Rationale = explain(rationaleInput{
		item:      item,
		candidate: t,
		until:     until,
		age:       age,
		client:    client,
		hasClient: hasClient,
	})
	return item
}

func taskAction(typeHint string) SuggestedAction {
	switch strings.ToLower(strings.TrimSpace(typeHint)) {
	case "decide", "decision", "approval":
		return ActionDecide
	case "schedule", "meeting", "call":
		return ActionSchedule
	case "reply", "respond", "email":
		return ActionRespond
	default:
		return ActionReview
	}
}
