package extract

import (
	"strings"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
	"github.com/claimline/claimline/internal/resolve"
	"github.com/claimline/claimline/internal/validate"
)

// discoveredPalette colors discovered claim types in rotation
var discoveredPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#F7B801", "#A569BD", "#2ECC71",
}

// startKeyCandidates are tried in order when inferring which record key
// carries the start date. Matching is case-insensitive.
var startKeyCandidates = []string{
	"dos", "dateofservice", "startdate", "start", "srvcstart", "filldate", "date",
}

// endKeyCandidates mirror startKeyCandidates for end dates
var endKeyCandidates = []string{
	"enddate", "end", "srvcend", "dateend",
}

// nameKeyCandidates are tried in order when inferring the display field
var nameKeyCandidates = []string{
	"medication", "description", "displayname", "name", "title", "label", "provider",
}

// configurableStrategy handles documents that expose array-of-object
// shapes resembling claim records under arbitrary paths. It compiles an
// ad-hoc type configuration per discovered array by inspecting the
// first record, then reuses the standard extractor.
type configurableStrategy struct {
	parser model.ParserConfig
}

func newConfigurableStrategy(parser model.ParserConfig) *configurableStrategy {
	return &configurableStrategy{parser: parser}
}

func (s *configurableStrategy) Tier() Tier {
	return TierConfigurable
}

func (s *configurableStrategy) CanHandle(doc any) bool {
	for _, path := range validate.DiscoverArrays(doc) {
		if _, ok := s.inferConfig(doc, path, 0); ok {
			return true
		}
	}
	return false
}

func (s *configurableStrategy) Extract(doc any) ([]model.ClaimItem, []string, error) {
	paths := validate.DiscoverArrays(doc)
	if len(paths) == 0 {
		return nil, nil, errs.NewValidation("no claim-like arrays discovered in document", nil)
	}

	var configs []model.ClaimTypeConfig
	var warnings []string
	for i, path := range paths {
		cfg, ok := s.inferConfig(doc, path, i)
		if !ok {
			warnings = append(warnings, "discovered array "+path+" has no date-bearing records, ignored")
			continue
		}
		configs = append(configs, cfg)
	}
	if len(configs) == 0 {
		return nil, warnings, errs.NewValidation("discovered arrays contain no date-bearing records", nil)
	}

	claims, extractWarnings, err := NewExtractor(configs, s.parser).Extract(doc)
	warnings = append(warnings, extractWarnings...)
	return claims, warnings, err
}

// inferConfig builds a claim type configuration for one discovered
// array by inspecting its first record.
func (s *configurableStrategy) inferConfig(doc any, path string, ordinal int) (model.ClaimTypeConfig, bool) {
	arr, _ := resolve.Resolve(doc, path, nil).([]any)
	if len(arr) == 0 {
		return model.ClaimTypeConfig{}, false
	}
	record, ok := arr[0].(map[string]any)
	if !ok {
		return model.ClaimTypeConfig{}, false
	}

	startKey := findDateKey(record, startKeyCandidates)
	if startKey == "" {
		return model.ClaimTypeConfig{}, false
	}

	name := path
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		name = path[idx+1:]
	}

	cfg := model.ClaimTypeConfig{
		Name:      name,
		ArrayPath: path,
		Color:     discoveredPalette[ordinal%len(discoveredPalette)],
		IDField:   findKey(record, []string{"id", "claimid"}),
		StartDate: model.DateFieldConfig{Kind: model.DateKindField, Path: startKey},
	}

	if endKey := findDateKey(record, endKeyCandidates); endKey != "" {
		cfg.EndDate = model.DateFieldConfig{
			Kind: model.DateKindField,
			Path: endKey,
			// A record with a start but a blank end still normalizes.
			Fallbacks: []string{startKey},
		}
	} else if supplyKey := findKey(record, []string{"dayssupply", "days_supply", "supply"}); supplyKey != "" {
		cfg.EndDate = model.DateFieldConfig{
			Kind: model.DateKindCalculation,
			Calculation: &model.CalculationConfig{
				BaseField:   startKey,
				Op:          model.CalcOpAdd,
				OperandPath: supplyKey,
				Unit:        model.UnitDays,
			},
		}
	} else {
		cfg.EndDate = model.DateFieldConfig{Kind: model.DateKindField, Path: startKey}
	}

	if nameKey := findKey(record, nameKeyCandidates); nameKey != "" {
		cfg.DisplayName = model.FieldConfig{Path: nameKey}
		cfg.DisplayFields = []model.DisplayFieldConfig{{Label: nameKey, Path: nameKey}}
	}
	return cfg, true
}

// findKey returns the record's actual key matching any candidate,
// case-insensitively, in candidate order.
func findKey(record map[string]any, candidates []string) string {
	for _, candidate := range candidates {
		for key := range record {
			if strings.EqualFold(key, candidate) {
				return key
			}
		}
	}
	return ""
}

// findDateKey is findKey restricted to keys whose value parses as a date.
func findDateKey(record map[string]any, candidates []string) string {
	for _, candidate := range candidates {
		for key, value := range record {
			if !strings.EqualFold(key, candidate) {
				continue
			}
			if _, ok := resolve.ParseDateString(resolve.Stringify(value), ""); ok {
				return key
			}
		}
	}
	return ""
}
