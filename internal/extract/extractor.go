// Package extract turns validated claims documents into normalized
// ClaimItem records and aggregates them into timeline results. The
// tiered strategy registry that picks an extractor variant per document
// also lives here.
package extract

import (
	"fmt"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
	"github.com/claimline/claimline/internal/resolve"
)

// Extractor produces ClaimItems for a set of claim type configurations.
// The configuration is immutable for the extractor's lifetime; separate
// parses through the same extractor are independent.
type Extractor struct {
	configs       []model.ClaimTypeConfig
	globalFormat  string
	onDateFailure model.DateFailurePolicy
}

// NewExtractor creates an extractor over the given type configurations.
func NewExtractor(configs []model.ClaimTypeConfig, parser model.ParserConfig) *Extractor {
	policy := parser.OnDateFailure
	if policy == "" {
		policy = model.DateFailureRaise
	}
	return &Extractor{
		configs:       configs,
		globalFormat:  parser.DateFormat,
		onDateFailure: policy,
	}
}

// Extract walks every configured claim type and returns the records it
// could normalize plus non-fatal warnings (fallback field uses, skipped
// elements).
//
// Failure policy: an element whose dates do not resolve is skipped, not
// fatal — unless it leaves its claim type with zero extracted records,
// in which case a single DateError aggregating one message per failing
// element is returned for the type.
func (e *Extractor) Extract(doc any) ([]model.ClaimItem, []string, error) {
	var claims []model.ClaimItem
	var warnings []string

	for _, cfg := range e.configs {
		typeClaims, typeWarnings, err := e.extractType(doc, cfg)
		warnings = append(warnings, typeWarnings...)
		if err != nil {
			return nil, warnings, err
		}
		claims = append(claims, typeClaims...)
	}
	return claims, warnings, nil
}

func (e *Extractor) extractType(doc any, cfg model.ClaimTypeConfig) ([]model.ClaimItem, []string, error) {
	arr, ok := resolve.Resolve(doc, cfg.ArrayPath, nil).([]any)
	if !ok {
		return nil, nil, nil // Location absent; the validator decides whether that matters
	}

	var claims []model.ClaimItem
	var warnings []string
	var elementErrors []string

	for i, element := range arr {
		record, ok := element.(map[string]any)
		if !ok {
			elementErrors = append(elementErrors, fmt.Sprintf("element %d is not an object", i))
			continue
		}

		claim, claimWarnings, err := e.extractClaim(record, cfg, i)
		warnings = append(warnings, claimWarnings...)
		if err != nil {
			elementErrors = append(elementErrors, errs.UserMessage(err))
			warnings = append(warnings, fmt.Sprintf("skipped %s[%d]: %s", cfg.Name, i, errs.UserMessage(err)))
			continue
		}
		claims = append(claims, claim)
	}

	if len(claims) == 0 && len(elementErrors) > 0 {
		return nil, warnings, errs.NewDateTypeFailure(cfg.Name, elementErrors)
	}
	return claims, warnings, nil
}

func (e *Extractor) extractClaim(record map[string]any, cfg model.ClaimTypeConfig, index int) (model.ClaimItem, []string, error) {
	var warnings []string

	start, startWarnings, err := resolve.ResolveDate(record, cfg.StartDate, e.globalFormat, cfg.Name, index)
	warnings = append(warnings, startWarnings...)
	if err != nil {
		// Start dates are identity-bearing: even under the fallback
		// policy there is nothing sensible to substitute.
		return model.ClaimItem{}, warnings, err
	}

	end, endWarnings, err := resolve.ResolveDate(record, cfg.EndDate, e.globalFormat, cfg.Name, index)
	warnings = append(warnings, endWarnings...)
	if err != nil {
		if e.onDateFailure != model.DateFailureFallback {
			return model.ClaimItem{}, warnings, err
		}
		end = start
		warnings = append(warnings, fmt.Sprintf(
			"%s[%d]: end date unresolvable, substituted start date", cfg.Name, index))
	}

	if end.Before(start) {
		start, end = end, start
	}

	id := resolve.Stringify(resolve.Resolve(record, cfg.IDField, nil))
	generated := id == ""
	if generated {
		id = fmt.Sprintf("%s_%d", cfg.Name, index)
	}

	displayName := resolve.Stringify(resolve.Resolve(record, cfg.DisplayName.Path, nil))
	if displayName == "" {
		displayName = cfg.DisplayName.DefaultValue
	}
	if displayName == "" {
		if generated {
			displayName = fmt.Sprintf("%s Claim %d", cfg.Name, index+1)
		} else {
			displayName = fmt.Sprintf("%s Claim %s", cfg.Name, id)
		}
	}

	details := make(map[string]string, len(cfg.DisplayFields))
	for _, field := range cfg.DisplayFields {
		value := resolve.Resolve(record, field.Path, nil)
		if value == nil && field.DefaultValue != "" {
			value = field.DefaultValue
		}
		text := resolve.ForDisplay(value, field.Kind)
		if text == "" {
			continue
		}
		label := field.Label
		if label == "" {
			label = field.Path
		}
		details[label] = text
	}

	return model.ClaimItem{
		ID:          id,
		Type:        cfg.Name,
		StartDate:   start,
		EndDate:     end,
		DisplayName: displayName,
		Color:       cfg.Color,
		Details:     details,
	}, warnings, nil
}
