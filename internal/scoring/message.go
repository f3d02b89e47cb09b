package scoring

import "focusboard/internal/model"

func (s *Scorer) scoreMessage(m model.Message, sc Context) ScoredItem {
	cfg := s.cfg
	f := neutralFactors(lookup(cfg.BaseWeights, model.KindMessage) * cfg.priorityScale(m.AIPriority))
	f.Category = lookup(cfg.CategoryWeights, m.Category)
	f.Signal = lookup(cfg.SignalWeights, m.SignalStrength)
	f.Reply = lookup(cfg.ReplyWeights, m.ReplyWorthiness)

	clientFactor, client, hasClient := s.clientFactor(m.ContactID, sc)
	f.Client = clientFactor

	age := sc.Now.Sub(m.ReceivedAt)
	staleness := cfg.stalenessBucket(age)
	f.Staleness = lookup(cfg.Staleness.Factors, staleness)
	f.Deadline = lookup(cfg.Deadline.Factors, DeadlineNone)

	item := ScoredItem{
		Title:           m.Subject,
		Description:     m.Snippet,
		AISummary:       m.Summary,
		Factors:         f,
		DeadlineBucket:  DeadlineNone,
		StalenessBucket: staleness,
		Sender:          m.Sender,
		PrimaryDate:     m.ReceivedAt,
		SuggestedAction: messageAction(m),
	}
	if hasClient {
		item.ClientName = client.Name
		item.ClientTier = client.Tier
	}
	item = s.finish(item, m, sc)
	item.Rationale = explain(rationaleInput{
		item:      item,
		candidate: m,
		age:       age,
		client:    client,
		hasClient: hasClient,
	})
	return item
}

func messageAction(m model.Message) SuggestedAction {
	switch {
	case m.ReplyWorthiness == model.ReplyMust || m.ReplyWorthiness == model.ReplyShould:
		return ActionRespond
	case m.SignalStrength == model.SignalNoise,
		m.Category == model.CategoryPromotion,
		m.Category == model.CategoryNewsletter:
		return ActionArchive
	default:
		return ActionReview
	}
}
