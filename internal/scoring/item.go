package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"focusboard/internal/model"
)

type SuggestedAction string

const (
	ActionRespond  SuggestedAction = "respond"
	ActionReview   SuggestedAction = "review"
	ActionDecide   SuggestedAction = "decide"
	ActionSchedule SuggestedAction = "schedule"
	ActionArchive  SuggestedAction = "archive"
	ActionAttend   SuggestedAction = "attend"
)

// ScoredItem is one ranked entry. Score is in (0, 100] for every emitted item.
type ScoredItem struct {
	ID              string           `json:"id"`
	Kind            model.Kind       `json:"kind"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	AISummary       string           `json:"ai_summary,omitempty"`
	Rationale       string           `json:"rationale"`
	SuggestedAction SuggestedAction  `json:"suggested_action,omitempty"`
	Score           int              `json:"score"`
	Factors         Factors          `json:"factors"`
	DeadlineBucket  DeadlineBucket   `json:"deadline_bucket"`
	StalenessBucket StalenessBucket  `json:"staleness_bucket"`
	Deadline        *time.Time       `json:"deadline,omitempty"`
	TimeRemaining   string           `json:"time_remaining,omitempty"`
	ClientName      string           `json:"client_name,omitempty"`
	ClientTier      model.ClientTier `json:"client_tier,omitempty"`
	Sender          string           `json:"sender,omitempty"`
	SourceID        int              `json:"source_id"`
	NavRef          string           `json:"nav_ref"`
	PrimaryDate     time.Time        `json:"primary_date"`

	// Warnings lists fields that were malformed and replaced with a fallback.
	Warnings []string `json:"-"`
}

var kindSlug = map[model.Kind]string{
	model.KindMessage:       "message",
	model.KindTask:          "task",
	model.KindEvent:         "event",
	model.KindExtractedDate: "date",
}

var navPrefix = map[model.Kind]string{
	model.KindMessage:       "/inbox",
	model.KindTask:          "/tasks",
	model.KindEvent:         "/calendar",
	model.KindExtractedDate: "/dates",
}

// CompositeID is the stable cross-kind identifier, e.g. "task-42".
func CompositeID(k model.Kind, id int) string {
	return fmt.Sprintf("%s-%d", kindSlug[k], id)
}

func navRef(k model.Kind, id int) string {
	return fmt.Sprintf("%s/%d", navPrefix[k], id)
}

// ParseCompositeID is the inverse of CompositeID.
func ParseCompositeID(s string) (model.Kind, int, error) {
	slug, rawID, ok := strings.Cut(s, "-")
	if !ok {
		return "", 0, fmt.Errorf("malformed item id %q", s)
	}
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("malformed item id %q", s)
	}
	for k, v := range kindSlug {
		if v == slug {
			return k, id, nil
		}
	}
	return "", 0, fmt.Errorf("unknown item kind %q", slug)
}
