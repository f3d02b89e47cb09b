package scoring

import (
	"fmt"
	"time"

	"focusboard/internal/model"
)

type rationaleInput struct {
	item      ScoredItem
	candidate model.Candidate
	// until is the signed gap from now to the item's deadline; zero without one.
	until     time.Duration
	age       time.Duration
	client    model.ClientInfo
	hasClient bool
}

type rationaleRule func(in rationaleInput) (string, bool)

// rationaleRules is ordered from most to least specific; the first match wins.
var rationaleRules = []rationaleRule{
	overdueRationale,
	imminentRationale,
	vipRationale,
	stalenessRationale,
	kindRationale,
}

func explain(in rationaleInput) string {
	for _, rule := range rationaleRules {
		if text, ok := rule(in); ok {
			return text
		}
	}
	return defaultRationale(in)
}

func overdueRationale(in rationaleInput) (string, bool) {
	if in.item.DeadlineBucket != DeadlineOverdue {
		return "", false
	}
	ago := humanizeDuration(in.until)
	switch in.item.Kind {
	case model.KindEvent:
		return fmt.Sprintf("Started %s ago: %s", ago, in.item.Title), true
	default:
		return fmt.Sprintf("Overdue by %s: %s", ago, in.item.Title), true
	}
}

func imminentRationale(in rationaleInput) (string, bool) {
	b := in.item.DeadlineBucket
	if b != DeadlineCritical && b != DeadlineUrgent {
		return "", false
	}
	left := humanizeDuration(in.until)
	switch in.item.Kind {
	case model.KindEvent:
		return fmt.Sprintf("Starts in %s: %s", left, in.item.Title), true
	case model.KindExtractedDate:
		d := in.candidate.(model.ExtractedDate)
		return fmt.Sprintf("Urgent: %s in %s", dateLabel(d.DateType), left), true
	default:
		return fmt.Sprintf("Urgent: due in %s", left), true
	}
}

func vipRationale(in rationaleInput) (string, bool) {
	if !in.hasClient || in.client.Tier != model.TierVIP {
		return "", false
	}
	if in.item.Kind == model.KindMessage {
		return fmt.Sprintf("From VIP client %s", in.client.Name), true
	}
	return fmt.Sprintf("For VIP client %s", in.client.Name), true
}

func stalenessRationale(in rationaleInput) (string, bool) {
	b := in.item.StalenessBucket
	if b != StalenessStale && b != StalenessVeryStale {
		return "", false
	}
	days := plural(wholeDays(in.age), "day")
	if m, ok := in.candidate.(model.Message); ok {
		if m.ReplyWorthiness == model.ReplyMust || m.ReplyWorthiness == model.ReplyShould {
			return fmt.Sprintf("Waiting %s for your reply", days), true
		}
		return fmt.Sprintf("Sitting in your inbox for %s", days), true
	}
	return fmt.Sprintf("Pending for %s and at risk of slipping", days), true
}

func kindRationale(in rationaleInput) (string, bool) {
	switch c := in.candidate.(type) {
	case model.Message:
		return messageRationale(c)
	case model.Task:
		return taskRationale(in, c)
	case model.CalendarEvent:
		return eventRationale(in, c)
	case model.ExtractedDate:
		return dateRationale(in, c)
	default:
		return "", false
	}
}

func messageRationale(m model.Message) (string, bool) {
	sender := m.Sender
	if sender == "" {
		sender = "A contact"
	}
	switch {
	case m.ReplyWorthiness == model.ReplyMust:
		return fmt.Sprintf("%s is waiting for your reply", sender), true
	case m.ReplyWorthiness == model.ReplyShould:
		return fmt.Sprintf("%s would appreciate a reply", sender), true
	case m.Category == model.CategoryTimeSensitive:
		return fmt.Sprintf("Time-sensitive message from %s", sender), true
	case m.SignalStrength == model.SignalHigh:
		return fmt.Sprintf("Direct message from %s", sender), true
	default:
		return "", false
	}
}

func taskRationale(in rationaleInput, t model.Task) (string, bool) {
	switch {
	case in.item.DeadlineBucket == DeadlineSoon || in.item.DeadlineBucket == DeadlineApproaching:
		return fmt.Sprintf("Due in %s: %s", humanizeDuration(in.until), t.Title), true
	case t.Urgency >= 8:
		return fmt.Sprintf("High-urgency task (%d/10)", t.Urgency), true
	default:
		return "", false
	}
}

func eventRationale(in rationaleInput, e model.CalendarEvent) (string, bool) {
	when := humanizeDuration(in.until)
	switch {
	case e.AwaitingRSVP():
		return fmt.Sprintf("RSVP needed: %s starts in %s", e.Title, when), true
	case e.Location != "":
		return fmt.Sprintf("Coming up in %s at %s", when, e.Location), true
	default:
		return fmt.Sprintf("Coming up in %s: %s", when, e.Title), true
	}
}

func dateRationale(in rationaleInput, d model.ExtractedDate) (string, bool) {
	when := humanizeDuration(in.until)
	switch d.DateType {
	case model.DateDeadline:
		return fmt.Sprintf("Deadline in %s: %s", when, d.Title), true
	case model.DatePaymentDue:
		if d.RelatedEntity != "" {
			return fmt.Sprintf("Payment to %s due in %s", d.RelatedEntity, when), true
		}
		return fmt.Sprintf("Payment due in %s: %s", when, d.Title), true
	case model.DateBirthday:
		who := d.RelatedEntity
		if who == "" {
			who = d.Title
		}
		if who == "" {
			return fmt.Sprintf("A birthday is coming up in %s", when), true
		}
		return fmt.Sprintf("%s's birthday is in %s", who, when), true
	case model.DateAnniversary:
		return fmt.Sprintf("Anniversary in %s: %s", when, d.Title), true
	case model.DateExpiration:
		return fmt.Sprintf("%s expires in %s", d.Title, when), true
	case model.DateAppointment:
		return fmt.Sprintf("Appointment in %s: %s", when, d.Title), true
	case model.DateFollowUp:
		return fmt.Sprintf("Follow up on %s within %s", d.Title, when), true
	case model.DateEvent:
		return fmt.Sprintf("Event in %s: %s", when, d.Title), true
	case model.DateReminder:
		return fmt.Sprintf("Reminder: %s", d.Title), true
	default:
		return "", false
	}
}

func defaultRationale(in rationaleInput) string {
	switch in.item.Kind {
	case model.KindMessage:
		return "New message worth a look"
	case model.KindTask:
		return fmt.Sprintf("Pending task: %s", in.item.Title)
	case model.KindEvent:
		return fmt.Sprintf("Upcoming event: %s", in.item.Title)
	default:
		return fmt.Sprintf("Date found in your email: %s", in.item.Title)
	}
}

var dateLabels = map[model.DateType]string{
	model.DateDeadline:    "deadline",
	model.DatePaymentDue:  "payment",
	model.DateBirthday:    "birthday",
	model.DateAnniversary: "anniversary",
	model.DateExpiration:  "expiration",
	model.DateAppointment: "appointment",
	model.DateFollowUp:    "follow-up",
	model.DateEvent:       "event",
	model.DateReminder:    "reminder",
	model.DateRecurring:   "recurring date",
}

func dateLabel(t model.DateType) string {
	if l, ok := dateLabels[t]; ok {
		return l
	}
	return "date"
}
