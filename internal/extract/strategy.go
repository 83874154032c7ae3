package extract

import (
	"fmt"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
	"github.com/claimline/claimline/internal/validate"
)

// Tier classifies a document's schema fit. Classification is terminal
// per document: exactly one tier applies.
type Tier string

const (
	TierUnclassified Tier = "UNCLASSIFIED"
	TierFixedSchema  Tier = "FIXED_SCHEMA"
	TierConfigurable Tier = "CONFIGURABLE_SCHEMA"
	TierHeuristic    Tier = "HEURISTIC"
	TierNone         Tier = "NONE"
)

// Strategy is one extraction variant in the fallback chain
type Strategy interface {
	// Tier identifies the strategy in classifications and reports
	Tier() Tier

	// CanHandle checks whether the document fits this strategy's schema
	// expectations. It must not error; a panic-free false is the answer
	// for anything unusable.
	CanHandle(doc any) bool

	// Extract runs the variant against the document
	Extract(doc any) ([]model.ClaimItem, []string, error)
}

// Registry tries strategies in declared order, falling back on any
// raised failure so schema drift degrades instead of hard-failing.
// Conforming documents succeed at tier one with no heuristics applied.
type Registry struct {
	strategies []Strategy
}

// NewRegistry builds the standard three-tier chain: the fixed built-in
// (or user-supplied) configuration, discovered configurable schemas,
// then minimal heuristics.
func NewRegistry(configs []model.ClaimTypeConfig, parser model.ParserConfig) *Registry {
	return &Registry{
		strategies: []Strategy{
			newFixedStrategy(configs, parser),
			newConfigurableStrategy(parser),
			newHeuristicStrategy(parser),
		},
	}
}

// Classify returns the tier of the first strategy that can handle the
// document, or TierNone. It always returns exactly one defined tier and
// never raises.
func (r *Registry) Classify(doc any) Tier {
	for _, strategy := range r.strategies {
		if strategy.CanHandle(doc) {
			return strategy.Tier()
		}
	}
	return TierNone
}

// Extract attempts each tier in order. Tier transitions are reported as
// non-fatal diagnostics in the returned warnings; if every tier fails,
// the last raised failure propagates.
func (r *Registry) Extract(doc any) ([]model.ClaimItem, Tier, []string, error) {
	var warnings []string
	var lastErr error

	for _, strategy := range r.strategies {
		claims, strategyWarnings, err := strategy.Extract(doc)
		warnings = append(warnings, strategyWarnings...)
		if err == nil {
			return claims, strategy.Tier(), warnings, nil
		}
		lastErr = err
		warnings = append(warnings, fmt.Sprintf(
			"strategy %s failed (%s), trying next tier", strategy.Tier(), errs.UserMessage(err)))
	}

	return nil, TierNone, warnings, lastErr
}

// fixedStrategy validates against the configured claim-array locations
// and extracts with the configured types. This is the tier conforming
// exports hit.
type fixedStrategy struct {
	validator *validate.Validator
	extractor *Extractor
}

func newFixedStrategy(configs []model.ClaimTypeConfig, parser model.ParserConfig) *fixedStrategy {
	return &fixedStrategy{
		validator: validate.NewValidator(configs),
		extractor: NewExtractor(configs, parser),
	}
}

func (s *fixedStrategy) Tier() Tier {
	return TierFixedSchema
}

func (s *fixedStrategy) CanHandle(doc any) bool {
	return s.validator.Validate(doc) == nil
}

func (s *fixedStrategy) Extract(doc any) ([]model.ClaimItem, []string, error) {
	if err := s.validator.Validate(doc); err != nil {
		return nil, nil, err
	}
	return s.extractor.Extract(doc)
}
