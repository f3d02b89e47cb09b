package model

// DateType is the classifier's label for a date found in message content.
type DateType string

const (
	DateDeadline    DateType = "deadline"
	DatePaymentDue  DateType = "payment_due"
	DateBirthday    DateType = "birthday"
	DateAnniversary DateType = "anniversary"
	DateExpiration  DateType = "expiration"
	DateAppointment DateType = "appointment"
	DateFollowUp    DateType = "follow_up"
	DateEvent       DateType = "event"
	DateReminder    DateType = "reminder"
	DateRecurring   DateType = "recurring"
	DateOther       DateType = "other"
	DateUnknown     DateType = "unknown"
)

var dateTypes = map[DateType]struct{}{
	DateDeadline: {}, DatePaymentDue: {}, DateBirthday: {}, DateAnniversary: {},
	DateExpiration: {}, DateAppointment: {}, DateFollowUp: {}, DateEvent: {},
	DateReminder: {}, DateRecurring: {}, DateOther: {},
}

func ParseDateType(s string) DateType {
	t := DateType(normalizeLabel(s))
	if _, ok := dateTypes[t]; ok {
		return t
	}
	return DateUnknown
}

// ExtractedDate is a date an upstream extractor found in message content.
// Date and Time are kept as stored strings; parsing happens at scoring time so a
// malformed value degrades one field instead of dropping the row.
type ExtractedDate struct {
	ID            int      `json:"id"`
	UserID        int      `json:"user_id"`
	DateType      DateType `json:"date_type"`
	Date          string   `json:"date"`           // YYYY-MM-DD
	Time          string   `json:"time,omitempty"` // HH:MM or HH:MM:SS
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      int      `json:"priority"` // 1..10
	ContactID     *int     `json:"contact_id,omitempty"`
	IsRecurring   bool     `json:"is_recurring"`
	RelatedEntity string   `json:"related_entity,omitempty"`
	Confidence    float64  `json:"confidence"` // 0..1
}
