package model

import "time"

// SortPolicy is the named ordering applied to aggregated timelines
type SortPolicy string

const (
	// SortOldestFirst orders claims by ascending start date. This is the
	// default and the policy the aggregation properties are tested against.
	SortOldestFirst SortPolicy = "oldest-first"
	// SortNewestFirst orders claims by descending start date.
	SortNewestFirst SortPolicy = "newest-first"
)

// DateFailurePolicy controls what happens when every date-resolution
// strategy for a field is exhausted
type DateFailurePolicy string

const (
	// DateFailureRaise records the element as failed; the failure escalates
	// only when it leaves the claim type with zero extracted records.
	DateFailureRaise DateFailurePolicy = "raise"
	// DateFailureFallback substitutes the resolved start date for a failed
	// end date. A failed start date still skips the record.
	DateFailureFallback DateFailurePolicy = "fallback"
)

// ParserConfig holds the engine-facing settings
type ParserConfig struct {
	DateFormat    string            `json:"date_format" yaml:"date_format"` // Global primary date layout name, e.g. "YYYY-MM-DD"
	OnDateFailure DateFailurePolicy `json:"on_date_failure" yaml:"on_date_failure"`
	Sort          SortPolicy        `json:"sort" yaml:"sort"`
	TypesFile     string            `json:"types_file,omitempty" yaml:"types_file,omitempty"` // Optional user claim-type configuration file
}

// CacheConfig holds parse-result cache settings
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	Dir       string        `json:"dir" yaml:"dir"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl"`
}

// ConcurrencyConfig holds batch-processing settings
type ConcurrencyConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

// OutputConfig holds rendering settings
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer"`
}

// Config is the complete claimline configuration. It is built once from
// defaults, config file, environment and flags, then passed explicitly
// into pipeline construction. Updating it concurrently with an in-flight
// parse on the same pipeline is the caller's problem to synchronize.
type Config struct {
	Parser      ParserConfig      `json:"parser" yaml:"parser"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency"`
	Output      OutputConfig      `json:"output" yaml:"output"`
}

// DefaultConfig returns the standard claimline configuration
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			DateFormat:    "YYYY-MM-DD",
			OnDateFailure: DateFailureRaise,
			Sort:          SortOldestFirst,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Resolved to ~/.claimline/cache at startup
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

// DefaultClaimTypes returns the built-in fixed-schema claim type set:
// pharmacy claims to be adjudicated (rxTba), pharmacy claim history
// (rxHistory) and medical claim history (medHistory.claims).
func DefaultClaimTypes() []ClaimTypeConfig {
	return []ClaimTypeConfig{
		{
			Name:      "rxTba",
			ArrayPath: "rxTba",
			Color:     "#FF6B6B",
			IDField:   "id",
			StartDate: DateFieldConfig{
				Kind:      DateKindField,
				Path:      "dos",
				Fallbacks: []string{"dateOfService", "fillDate"},
			},
			EndDate: DateFieldConfig{
				Kind: DateKindCalculation,
				Calculation: &CalculationConfig{
					BaseField:   "dos",
					Op:          CalcOpAdd,
					OperandPath: "dayssupply",
					Unit:        UnitDays,
				},
			},
			DisplayName: FieldConfig{Path: "medication"},
			DisplayFields: []DisplayFieldConfig{
				{Label: "Medication", Path: "medication"},
				{Label: "Dosage", Path: "dosage"},
				{Label: "Days Supply", Path: "dayssupply", Kind: DisplayNumber},
				{Label: "Quantity", Path: "quantity", Kind: DisplayNumber},
			},
		},
		{
			Name:      "rxHistory",
			ArrayPath: "rxHistory",
			Color:     "#4ECDC4",
			IDField:   "id",
			StartDate: DateFieldConfig{
				Kind:      DateKindField,
				Path:      "dos",
				Fallbacks: []string{"fillDate", "dateFilled"},
			},
			EndDate: DateFieldConfig{
				Kind: DateKindCalculation,
				Calculation: &CalculationConfig{
					BaseField:   "dos",
					Op:          CalcOpAdd,
					OperandPath: "dayssupply",
					Unit:        UnitDays,
				},
			},
			DisplayName: FieldConfig{Path: "medication"},
			DisplayFields: []DisplayFieldConfig{
				{Label: "Medication", Path: "medication"},
				{Label: "Fill Date", Path: "fillDate", Kind: DisplayDate},
				{Label: "Days Supply", Path: "dayssupply", Kind: DisplayNumber},
			},
		},
		{
			Name:      "medHistory",
			ArrayPath: "medHistory.claims",
			Color:     "#45B7D1",
			IDField:   "claimId",
			StartDate: DateFieldConfig{
				Kind:      DateKindField,
				Path:      "lines[0].srvcStart",
				Fallbacks: []string{"srvcStart", "serviceStart"},
			},
			EndDate: DateFieldConfig{
				Kind:      DateKindField,
				Path:      "lines[0].srvcEnd",
				Fallbacks: []string{"srvcEnd", "serviceEnd", "lines[0].srvcStart", "srvcStart"},
			},
			DisplayName: FieldConfig{Path: "lines[0].description"},
			DisplayFields: []DisplayFieldConfig{
				{Label: "Provider", Path: "provider"},
				{Label: "Charged", Path: "lines[0].chargedAmount", Kind: DisplayCurrency},
				{Label: "Service", Path: "lines[0].description"},
			},
		},
	}
}
