package scoring

import (
	"cmp"
	"slices"
	"strings"

	"focusboard/internal/model"
)

var kindOrder = func() map[model.Kind]int {
	m := make(map[model.Kind]int, len(model.Kinds))
	for i, k := range model.Kinds {
		m[k] = i
	}
	return m
}()

// compareItems orders by score descending, then kind (task, extracted date, event,
// message), then earlier primary date, then smaller source id.
func compareItems(a, b ScoredItem) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(kindOrder[a.Kind], kindOrder[b.Kind]); c != 0 {
		return c
	}
	if c := a.PrimaryDate.Compare(b.PrimaryDate); c != 0 {
		return c
	}
	return cmp.Compare(a.SourceID, b.SourceID)
}

// Rank drops non-positive scores, sorts, truncates to limit (DefaultLimit when
// limit <= 0) and applies the Friday cleanup note. The input slice is not modified.
func (c Config) Rank(items []ScoredItem, limit int, dc DayContext) []ScoredItem {
	if limit <= 0 {
		limit = c.DefaultLimit
	}

	ranked := make([]ScoredItem, 0, len(items))
	for _, it := range items {
		if it.Score > 0 {
			ranked = append(ranked, it)
		}
	}
	slices.SortFunc(ranked, compareItems)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if dc == DayFriday {
		for i := range ranked {
			if ranked[i].Factors.Staleness > c.FridayStalenessThreshold &&
				!strings.HasPrefix(ranked[i].Rationale, c.FridayPrefix) {
				ranked[i].Rationale = c.FridayPrefix + ranked[i].Rationale
			}
		}
	}
	return ranked
}
