package extract

import (
	"strings"
	"testing"

	"github.com/claimline/claimline/internal/model"
	"github.com/claimline/claimline/internal/resolve"
)

func newTestRegistry() *Registry {
	return NewRegistry(model.DefaultClaimTypes(), defaultParser())
}

func TestClassify_FixedSchema(t *testing.T) {
	d := doc(t, `{"rxTba": [{"id": "a", "dos": "2024-01-15", "dayssupply": 30}]}`)

	if tier := newTestRegistry().Classify(d); tier != TierFixedSchema {
		t.Errorf("Expected FIXED_SCHEMA, got %s", tier)
	}
}

func TestClassify_ConfigurableSchema(t *testing.T) {
	// Claim arrays under unrecognized paths with inferable fields.
	d := doc(t, `{"visits": [{
		"id": "v1",
		"startDate": "2024-01-01",
		"endDate": "2024-01-05",
		"description": "Checkup"
	}]}`)

	if tier := newTestRegistry().Classify(d); tier != TierConfigurable {
		t.Errorf("Expected CONFIGURABLE_SCHEMA, got %s", tier)
	}
}

func TestClassify_Heuristic(t *testing.T) {
	// Records buried too deep for discovery, but carrying dates.
	d := doc(t, `{"wrapper": {"inner": {"things": [{
		"when": "2024-01-01",
		"what": "something"
	}]}}}`)

	if tier := newTestRegistry().Classify(d); tier != TierHeuristic {
		t.Errorf("Expected HEURISTIC, got %s", tier)
	}
}

func TestClassify_None(t *testing.T) {
	cases := []string{
		`{"meta": {"version": 2}}`,
		`{"rows": [1, 2, 3]}`,
		`"scalar"`,
		`{"records": [{"note": "no dates here"}]}`,
	}
	for _, raw := range cases {
		if tier := newTestRegistry().Classify(doc(t, raw)); tier != TierNone {
			t.Errorf("Expected NONE for %s, got %s", raw, tier)
		}
	}
}

func TestRegistryExtract_FixedTier(t *testing.T) {
	d := doc(t, `{"rxTba": [{"id": "a", "dos": "2024-01-15", "dayssupply": 30}]}`)

	claims, tier, _, err := newTestRegistry().Extract(d)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tier != TierFixedSchema {
		t.Errorf("Expected FIXED_SCHEMA, got %s", tier)
	}
	if len(claims) != 1 {
		t.Errorf("Expected 1 claim, got %d", len(claims))
	}
}

func TestRegistryExtract_FallsBackToConfigurable(t *testing.T) {
	d := doc(t, `{"encounters": [{
		"claimid": "e1",
		"dos": "2024-02-01",
		"dayssupply": 14,
		"medication": "Metformin"
	}]}`)

	claims, tier, warnings, err := newTestRegistry().Extract(d)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tier != TierConfigurable {
		t.Errorf("Expected CONFIGURABLE_SCHEMA, got %s", tier)
	}
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Type != "encounters" {
		t.Errorf("Expected discovered type 'encounters', got %q", claims[0].Type)
	}
	if claims[0].ID != "e1" {
		t.Errorf("Expected inferred id field, got %q", claims[0].ID)
	}
	if resolve.ISODate(claims[0].EndDate) != "2024-02-15" {
		t.Errorf("Expected dayssupply calculation 2024-02-15, got %s", resolve.ISODate(claims[0].EndDate))
	}
	if claims[0].DisplayName != "Metformin" {
		t.Errorf("Expected inferred display name 'Metformin', got %q", claims[0].DisplayName)
	}

	// The fixed tier's failure shows up as a transition diagnostic.
	found := false
	for _, warning := range warnings {
		if strings.Contains(warning, "trying next tier") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a tier transition warning, got %v", warnings)
	}
}

func TestRegistryExtract_FallsBackToHeuristic(t *testing.T) {
	d := doc(t, `{"outer": {"deep": {"records": [{
		"id": "r1",
		"from": "2024-05-01",
		"to": "2024-05-10",
		"note": "Therapy"
	}]}}}`)

	claims, tier, _, err := newTestRegistry().Extract(d)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tier != TierHeuristic {
		t.Errorf("Expected HEURISTIC, got %s", tier)
	}
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Type != "records" {
		t.Errorf("Expected nearest enclosing key as type, got %q", claims[0].Type)
	}
	if resolve.ISODate(claims[0].StartDate) != "2024-05-01" {
		t.Errorf("Expected start 2024-05-01, got %s", resolve.ISODate(claims[0].StartDate))
	}
	if resolve.ISODate(claims[0].EndDate) != "2024-05-10" {
		t.Errorf("Expected end 2024-05-10, got %s", resolve.ISODate(claims[0].EndDate))
	}
	if claims[0].Color != heuristicColor {
		t.Errorf("Expected heuristic color, got %q", claims[0].Color)
	}
}

func TestRegistryExtract_AllTiersFail(t *testing.T) {
	d := doc(t, `{"meta": {"version": 2}}`)

	_, tier, _, err := newTestRegistry().Extract(d)
	if err == nil {
		t.Fatal("Expected error when no tier can extract, got nil")
	}
	if tier != TierNone {
		t.Errorf("Expected NONE, got %s", tier)
	}
}

func TestConfigurableStrategy_IgnoresDatelessArrays(t *testing.T) {
	d := doc(t, `{
		"visits": [{"dos": "2024-01-01", "name": "visit"}],
		"codes": [{"code": "A1"}]
	}`)

	strategy := newConfigurableStrategy(defaultParser())
	claims, warnings, err := strategy.Extract(d)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim from the date-bearing array, got %d", len(claims))
	}
	found := false
	for _, warning := range warnings {
		if strings.Contains(warning, "codes") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a warning about the ignored array, got %v", warnings)
	}
}

func TestHeuristicStrategy_SingleDateCollapses(t *testing.T) {
	d := doc(t, `{"events": [{"date": "2024-04-01", "label": "Vaccination"}]}`)

	strategy := newHeuristicStrategy(defaultParser())
	claims, _, err := strategy.Extract(d)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if !claims[0].StartDate.Equal(claims[0].EndDate) {
		t.Errorf("Expected single date to collapse start==end, got %s..%s",
			claims[0].StartDate, claims[0].EndDate)
	}
	if claims[0].DisplayName != "Vaccination" {
		t.Errorf("Expected first non-date string as name, got %q", claims[0].DisplayName)
	}
}
