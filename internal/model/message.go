package model

import (
	"strings"
	"time"
)

// Category is the classifier's topical label for a message.
type Category string

const (
	CategoryTimeSensitive Category = "time_sensitive"
	CategoryWork          Category = "work"
	CategoryFinance       Category = "finance"
	CategoryPersonal      Category = "personal"
	CategoryTravel        Category = "travel"
	CategoryNotification  Category = "notification"
	CategorySocial        Category = "social"
	CategoryNewsletter    Category = "newsletter"
	CategoryProductUpdate Category = "product_update"
	CategoryPromotion     Category = "promotion"
	CategoryOther         Category = "other"
	CategoryUnknown       Category = "unknown"
)

var categories = map[Category]struct{}{
	CategoryTimeSensitive: {}, CategoryWork: {}, CategoryFinance: {}, CategoryPersonal: {},
	CategoryTravel: {}, CategoryNotification: {}, CategorySocial: {}, CategoryNewsletter: {},
	CategoryProductUpdate: {}, CategoryPromotion: {}, CategoryOther: {},
}

// ParseCategory normalizes classifier output. Unrecognized labels map to CategoryUnknown.
func ParseCategory(s string) Category {
	c := Category(normalizeLabel(s))
	if _, ok := categories[c]; ok {
		return c
	}
	return CategoryUnknown
}

// SignalStrength estimates whether a message is personal traffic or background noise.
type SignalStrength string

const (
	SignalHigh    SignalStrength = "high"
	SignalMedium  SignalStrength = "medium"
	SignalLow     SignalStrength = "low"
	SignalNoise   SignalStrength = "noise"
	SignalUnknown SignalStrength = "unknown"
)

func ParseSignalStrength(s string) SignalStrength {
	switch v := SignalStrength(normalizeLabel(s)); v {
	case SignalHigh, SignalMedium, SignalLow, SignalNoise:
		return v
	default:
		return SignalUnknown
	}
}

// ReplyWorthiness estimates whether the sender expects an answer.
type ReplyWorthiness string

const (
	ReplyMust     ReplyWorthiness = "must_reply"
	ReplyShould   ReplyWorthiness = "should_reply"
	ReplyOptional ReplyWorthiness = "optional"
	ReplyNone     ReplyWorthiness = "none"
	ReplyUnknown  ReplyWorthiness = "unknown"
)

func ParseReplyWorthiness(s string) ReplyWorthiness {
	switch v := ReplyWorthiness(normalizeLabel(s)); v {
	case ReplyMust, ReplyShould, ReplyOptional, ReplyNone:
		return v
	default:
		return ReplyUnknown
	}
}

// Message is an unread or action-flagged email joined with its classification.
type Message struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Subject     string    `json:"subject"`
	Snippet     string    `json:"snippet"`
	Sender      string    `json:"sender"`
	ReceivedAt  time.Time `json:"received_at"`
	Category    Category  `json:"category"`
	AIPriority  int       `json:"ai_priority"` // 0 = not scored, otherwise 1..10
	IsRead      bool      `json:"is_read"`
	NeedsAction bool      `json:"needs_action"`
	ContactID   *int      `json:"contact_id,omitempty"`

	Summary         string          `json:"summary,omitempty"`
	QuickAction     string          `json:"quick_action,omitempty"`
	SignalStrength  SignalStrength  `json:"signal_strength"`
	ReplyWorthiness ReplyWorthiness `json:"reply_worthiness"`
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
