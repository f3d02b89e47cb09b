package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"focusboard/internal/model"
)

func TestRationaleRules(t *testing.T) {
	s := NewScorer(DefaultConfig())
	clients := model.ClientLookup{1: {Name: "Acme", Tier: model.TierVIP}}

	overdueTask := baseTask()
	overdueTask.Deadline = timePtr(testNow.Add(-3 * time.Hour))

	vipTask := baseTask()
	vipTask.ContactID = intPtr(1)

	staleTask := baseTask()
	staleTask.CreatedAt = testNow.Add(-4 * 24 * time.Hour)

	soonTask := baseTask()
	soonTask.Deadline = timePtr(testNow.Add(36 * time.Hour))

	vipMessage := baseMessage()
	vipMessage.ContactID = intPtr(1)

	payment := baseDate()
	payment.DateType = model.DatePaymentDue
	payment.RelatedEntity = "City Water"

	urgentDate := baseDate()
	urgentDate.DateType = model.DateDeadline
	urgentDate.Date = "2026-10-20"

	plainMessage := baseMessage()

	tests := []struct {
		name string
		c    model.Candidate
		want string
	}{
		{"overdue task", overdueTask, "Overdue by 3 hours: Send contract draft"},
		{"vip task", vipTask, "For VIP client Acme"},
		{"vip message", vipMessage, "From VIP client Acme"},
		{"stale task", staleTask, "Pending for 4 days and at risk of slipping"},
		{"task due soon", soonTask, "Due in 36 hours: Send contract draft"},
		{"payment", payment, "Payment to City Water due in 10 days"},
		{"urgent date", urgentDate, "Urgent: deadline in 19 hours"},
		{"plain message", plainMessage, "New message worth a look"},
		{"plain task", baseTask(), "Pending task: Send contract draft"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustScore(s, tt.c, afternoon(clients))
			assert.Equal(t, tt.want, got.Rationale)
		})
	}
}

func TestRationaleNeverEmpty(t *testing.T) {
	s := NewScorer(DefaultConfig())
	candidates := []model.Candidate{
		model.Message{ID: 1, ReceivedAt: testNow},
		model.Task{ID: 2, CreatedAt: testNow},
		model.CalendarEvent{ID: 3, StartAt: testNow.Add(100 * time.Hour)},
		model.ExtractedDate{ID: 4, Date: "2026-11-30", DateType: model.DateUnknown},
	}
	for _, c := range candidates {
		item := mustScore(s, c, afternoon(nil))
		assert.NotEmpty(t, item.Rationale, "kind %s", c.Kind())
	}
}
