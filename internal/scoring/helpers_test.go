package scoring

import (
	"time"

	"focusboard/internal/model"
)

// Monday 2026-10-19 14:00 UTC: afternoon, weekday, so time-of-day is neutral.
var testNow = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func afternoon(clients model.ClientLookup) Context {
	return NewContext(testNow, TimeAfternoon, DayWeekday, clients)
}

func baseTask() model.Task {
	return model.Task{
		ID:        1,
		UserID:    7,
		Title:     "Send contract draft",
		Urgency:   5,
		Status:    model.TaskStatusPending,
		CreatedAt: testNow.Add(-2 * time.Hour),
	}
}

func baseDate() model.ExtractedDate {
	return model.ExtractedDate{
		ID:         1,
		UserID:     7,
		DateType:   model.DateBirthday,
		Date:       testNow.AddDate(0, 0, 10).Format("2006-01-02"),
		Title:      "Birthday",
		Priority:   5,
		Confidence: 0.95,
	}
}

func baseMessage() model.Message {
	return model.Message{
		ID:              1,
		UserID:          7,
		Subject:         "Quarterly numbers",
		Sender:          "alice@example.com",
		ReceivedAt:      testNow.Add(-30 * time.Minute),
		Category:        model.CategoryWork,
		SignalStrength:  model.SignalMedium,
		ReplyWorthiness: model.ReplyOptional,
	}
}

func mustScore(s *Scorer, c model.Candidate, sc Context) ScoredItem {
	item, err := s.Score(c, sc)
	if err != nil {
		panic(err)
	}
	return item
}
