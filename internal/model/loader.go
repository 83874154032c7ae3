package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// claimTypesFile is the on-disk shape of a user claim-type configuration
type claimTypesFile struct {
	ClaimTypes []ClaimTypeConfig `json:"claimTypes" yaml:"claimTypes"`
}

// LoadClaimTypes reads a user-supplied claim-type configuration from a
// JSON or YAML file, normalizes it and checks the invariants the engine
// relies on. The returned slice replaces the built-in defaults wholesale.
func LoadClaimTypes(path string) ([]ClaimTypeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claim types: %w", err)
	}

	var file claimTypesFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse claim types yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse claim types json: %w", err)
		}
	}

	if len(file.ClaimTypes) == 0 {
		return nil, fmt.Errorf("claim type configuration %s defines no claim types", path)
	}

	configs := make([]ClaimTypeConfig, len(file.ClaimTypes))
	for i, cfg := range file.ClaimTypes {
		normalized, err := NormalizeClaimType(cfg)
		if err != nil {
			return nil, fmt.Errorf("claim type %d (%s): %w", i, cfg.Name, err)
		}
		configs[i] = normalized
	}
	return configs, nil
}

// NormalizeClaimType fills in inferable date kinds and validates the
// fields the extractor depends on.
func NormalizeClaimType(cfg ClaimTypeConfig) (ClaimTypeConfig, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return cfg, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(cfg.ArrayPath) == "" {
		return cfg, fmt.Errorf("arrayPath is required")
	}
	if !hexColorPattern.MatchString(cfg.Color) {
		return cfg, fmt.Errorf("color %q is not a hex color", cfg.Color)
	}

	var err error
	if cfg.StartDate, err = normalizeDateField(cfg.StartDate); err != nil {
		return cfg, fmt.Errorf("startDate: %w", err)
	}
	if cfg.EndDate, err = normalizeDateField(cfg.EndDate); err != nil {
		return cfg, fmt.Errorf("endDate: %w", err)
	}
	return cfg, nil
}

// normalizeDateField infers a missing Kind from which variant fields are
// populated, then checks the selected variant is complete.
func normalizeDateField(dc DateFieldConfig) (DateFieldConfig, error) {
	if dc.Kind == "" {
		switch {
		case dc.Calculation != nil:
			dc.Kind = DateKindCalculation
		case dc.Value != "":
			dc.Kind = DateKindFixed
		default:
			dc.Kind = DateKindField
		}
	}

	switch dc.Kind {
	case DateKindField:
		if dc.Path == "" {
			return dc, fmt.Errorf("field strategy requires a path")
		}
	case DateKindCalculation:
		if dc.Calculation == nil {
			return dc, fmt.Errorf("calculation strategy requires a calculation block")
		}
		if dc.Calculation.BaseField == "" {
			return dc, fmt.Errorf("calculation requires a baseField")
		}
		if dc.Calculation.Op != CalcOpAdd && dc.Calculation.Op != CalcOpSubtract {
			return dc, fmt.Errorf("calculation op must be add or subtract, got %q", dc.Calculation.Op)
		}
		switch dc.Calculation.Unit {
		case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		default:
			return dc, fmt.Errorf("calculation unit %q is not days, weeks, months or years", dc.Calculation.Unit)
		}
	case DateKindFixed:
		if dc.Value == "" {
			return dc, fmt.Errorf("fixed strategy requires a value")
		}
	default:
		return dc, fmt.Errorf("unknown date kind %q", dc.Kind)
	}
	return dc, nil
}
