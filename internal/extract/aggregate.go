package extract

import (
	"sort"
	"time"

	"github.com/claimline/claimline/internal/model"
)

// Aggregate sorts claims by the named policy and computes the timeline
// envelope. Zero input claims yields an empty result whose date range
// collapses to today — a documented default, not a computation over an
// empty set.
func Aggregate(claims []model.ClaimItem, policy model.SortPolicy) model.TimelineResult {
	if len(claims) == 0 {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		return model.TimelineResult{
			Claims:    []model.ClaimItem{},
			DateRange: model.DateRange{Start: today, End: today},
			Metadata:  model.TimelineMetadata{TotalClaims: 0, ClaimTypes: []string{}},
		}
	}

	sorted := make([]model.ClaimItem, len(claims))
	copy(sorted, claims)
	sort.SliceStable(sorted, func(i, j int) bool {
		if policy == model.SortNewestFirst {
			return sorted[i].StartDate.After(sorted[j].StartDate)
		}
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	rangeStart := sorted[0].StartDate
	rangeEnd := sorted[0].EndDate
	for _, claim := range sorted[1:] {
		if claim.StartDate.Before(rangeStart) {
			rangeStart = claim.StartDate
		}
		if claim.EndDate.After(rangeEnd) {
			rangeEnd = claim.EndDate
		}
	}

	seen := make(map[string]bool)
	var types []string
	for _, claim := range sorted {
		if !seen[claim.Type] {
			seen[claim.Type] = true
			types = append(types, claim.Type)
		}
	}

	return model.TimelineResult{
		Claims:    sorted,
		DateRange: model.DateRange{Start: rangeStart, End: rangeEnd},
		Metadata: model.TimelineMetadata{
			TotalClaims: len(sorted),
			ClaimTypes:  types,
		},
	}
}
