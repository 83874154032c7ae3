package extract

import (
	"fmt"
	"sort"
	"time"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
	"github.com/claimline/claimline/internal/resolve"
)

// heuristicColor marks records recovered by the last-resort tier
const heuristicColor = "#95A5A6"

// heuristicStrategy is the last tier before giving up: it walks the
// whole tree for objects carrying date-like and name-like values,
// regardless of where they sit, and normalizes whatever it finds.
type heuristicStrategy struct {
	parser model.ParserConfig
}

func newHeuristicStrategy(parser model.ParserConfig) *heuristicStrategy {
	return &heuristicStrategy{parser: parser}
}

func (s *heuristicStrategy) Tier() Tier {
	return TierHeuristic
}

func (s *heuristicStrategy) CanHandle(doc any) bool {
	claims := s.collect(doc, "record", nil)
	return len(claims) > 0
}

func (s *heuristicStrategy) Extract(doc any) ([]model.ClaimItem, []string, error) {
	claims := s.collect(doc, "record", nil)
	if len(claims) == 0 {
		return nil, nil, errs.NewValidation("heuristic extraction found no records with usable dates", nil)
	}
	warnings := []string{fmt.Sprintf("heuristic extraction recovered %d records", len(claims))}
	return claims, warnings, nil
}

// collect recursively gathers claims from arrays of objects anywhere in
// the tree. The nearest enclosing key names the claim type.
func (s *heuristicStrategy) collect(value any, typeName string, claims []model.ClaimItem) []model.ClaimItem {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			claims = s.collect(child, key, claims)
		}
	case []any:
		for i, element := range v {
			record, ok := element.(map[string]any)
			if !ok {
				continue
			}
			if claim, ok := s.claimFromRecord(record, typeName, i); ok {
				claims = append(claims, claim)
			}
		}
	}
	return claims
}

// claimFromRecord builds a claim from any object exposing at least one
// date-like value. The first date becomes the start, the second (if
// any) the end; the first non-date string becomes the display name.
func (s *heuristicStrategy) claimFromRecord(record map[string]any, typeName string, index int) (model.ClaimItem, bool) {
	var dates []time.Time
	var name string
	var id string

	for _, key := range sortedRecordKeys(record) {
		raw := resolve.Stringify(record[key])
		if raw == "" {
			continue
		}
		if ts, ok := resolve.ParseDateString(raw, s.parser.DateFormat); ok {
			dates = append(dates, ts)
			continue
		}
		switch {
		case key == "id" || key == "claimId":
			id = raw
		case name == "":
			name = raw
		}
	}

	if len(dates) == 0 {
		return model.ClaimItem{}, false
	}

	start := dates[0]
	end := start
	if len(dates) > 1 {
		end = dates[1]
	}
	if end.Before(start) {
		start, end = end, start
	}

	if id == "" {
		id = fmt.Sprintf("%s_%d", typeName, index)
	}
	if name == "" {
		name = fmt.Sprintf("%s Claim %d", typeName, index+1)
	}

	return model.ClaimItem{
		ID:          id,
		Type:        typeName,
		StartDate:   start,
		EndDate:     end,
		DisplayName: name,
		Color:       heuristicColor,
		Details:     map[string]string{},
	}, true
}

// sortedRecordKeys keeps heuristic output deterministic across runs.
func sortedRecordKeys(record map[string]any) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
