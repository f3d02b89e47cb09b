package scoring

import (
	"fmt"
	"strings"
	"time"

	"focusboard/internal/model"
)

type TimeContext string

const (
	TimeMorning   TimeContext = "morning"
	TimeAfternoon TimeContext = "afternoon"
	TimeEvening   TimeContext = "evening"
)

type DayContext string

const (
	DayWeekday DayContext = "weekday"
	DayWeekend DayContext = "weekend"
	DayFriday  DayContext = "friday"
)

// TimeColumn selects the time-of-day multiplier column for a kind.
type TimeColumn string

const (
	ColumnMessage   TimeColumn = "message"
	ColumnTask      TimeColumn = "task"
	ColumnEventLike TimeColumn = "event"
)

func columnFor(k model.Kind) TimeColumn {
	switch k {
	case model.KindMessage:
		return ColumnMessage
	case model.KindTask:
		return ColumnTask
	default:
		return ColumnEventLike
	}
}

// TimeContextAt derives the time of day from t's hour in t's location.
func TimeContextAt(t time.Time) TimeContext {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return TimeMorning
	case h >= 12 && h < 17:
		return TimeAfternoon
	default:
		return TimeEvening
	}
}

// DayContextAt derives the day context from t's weekday in t's location.
func DayContextAt(t time.Time) DayContext {
	switch t.Weekday() {
	case time.Friday:
		return DayFriday
	case time.Saturday, time.Sunday:
		return DayWeekend
	default:
		return DayWeekday
	}
}

// ParseTimeContext accepts "" (meaning "derive from the clock") or a known value.
func ParseTimeContext(s string) (TimeContext, error) {
	switch v := TimeContext(strings.ToLower(strings.TrimSpace(s))); v {
	case "", TimeMorning, TimeAfternoon, TimeEvening:
		return v, nil
	default:
		return "", fmt.Errorf("unknown time context %q", s)
	}
}

// ParseDayContext accepts "" (meaning "derive from the clock") or a known value.
func ParseDayContext(s string) (DayContext, error) {
	switch v := DayContext(strings.ToLower(strings.TrimSpace(s))); v {
	case "", DayWeekday, DayWeekend, DayFriday:
		return v, nil
	default:
		return "", fmt.Errorf("unknown day context %q", s)
	}
}

// Context is everything a scorer needs besides the candidate itself.
type Context struct {
	Now     time.Time
	Time    TimeContext
	Day     DayContext
	Clients model.ClientLookup
}

// NewContext fills empty time and day contexts from now.
func NewContext(now time.Time, tc TimeContext, dc DayContext, clients model.ClientLookup) Context {
	if tc == "" {
		tc = TimeContextAt(now)
	}
	if dc == "" {
		dc = DayContextAt(now)
	}
	if clients == nil {
		clients = model.ClientLookup{}
	}
	return Context{Now: now, Time: tc, Day: dc, Clients: clients}
}
