package core

import "time"

// RecentWindow is how far back a material counts as a recent addition.
const RecentWindow = 30 * 24 * time.Hour

// Stats summarizes a snapshot of the catalog.
type Stats struct {
	TotalCount           int            `json:"totalCount"`
	ConditionCounts      map[string]int `json:"conditionCounts"`
	CategoryCounts       map[string]int `json:"categoryCounts"`
	KindCounts           map[string]int `json:"typeCounts"`
	RecentAdditionsCount int            `json:"recentAdditionsCount"`
}

// ComputeStats groups records by exact condition, category and kind. A
// record is recent when it was added strictly after now minus RecentWindow.
func ComputeStats(records []*Record, now time.Time) Stats {
	s := Stats{
		TotalCount:      len(records),
		ConditionCounts: make(map[string]int),
		CategoryCounts:  make(map[string]int),
		KindCounts:      make(map[string]int),
	}
	cutoff := now.Add(-RecentWindow)
	for _, r := range records {
		s.ConditionCounts[r.Condition]++
		s.CategoryCounts[r.Category]++
		s.KindCounts[string(r.Kind())]++
		if r.DateAdded.After(cutoff) {
			s.RecentAdditionsCount++
		}
	}
	return s
}
