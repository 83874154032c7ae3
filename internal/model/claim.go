package model

import "time"

// ClaimItem is a single normalized claim record on the timeline
type ClaimItem struct {
	ID          string            `json:"id"`                // Explicit id field or generated "{type}_{index}"
	Type        string            `json:"type"`              // Claim type name (e.g. "rxTba")
	StartDate   time.Time         `json:"startDate"`         // Start of the claim period
	EndDate     time.Time         `json:"endDate"`           // End of the claim period, never before StartDate
	DisplayName string            `json:"displayName"`       // Human-readable label
	Color       string            `json:"color"`             // Hex color attached from the type config
	Details     map[string]string `json:"details,omitempty"` // Presentation fields, never nil
}

// Duration returns the length of the claim period in whole days.
func (c ClaimItem) Duration() int {
	return int(c.EndDate.Sub(c.StartDate).Hours() / 24)
}

// FieldConfig addresses a single value inside a claim record
type FieldConfig struct {
	Path         string `json:"path" yaml:"path"`                                     // Path expression, e.g. "lines[0].description"
	DefaultValue string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"` // Used when the path resolves to nothing
	Required     bool   `json:"required,omitempty" yaml:"required,omitempty"`         // Missing + required is an error
}

// DateKind selects the date resolution strategy
type DateKind string

const (
	DateKindField       DateKind = "field"       // Read and parse a date from a path
	DateKindCalculation DateKind = "calculation" // Derive from a base date and an operand
	DateKindFixed       DateKind = "fixed"       // Literal date string from configuration
)

// CalcOp is the arithmetic operation of a calculated date
type CalcOp string

const (
	CalcOpAdd      CalcOp = "add"
	CalcOpSubtract CalcOp = "subtract"
)

// CalcUnit is the unit a calculation operand is expressed in
type CalcUnit string

const (
	UnitDays   CalcUnit = "days"
	UnitWeeks  CalcUnit = "weeks"
	UnitMonths CalcUnit = "months"
	UnitYears  CalcUnit = "years"
)

// DateFieldConfig is a tagged variant describing how to obtain a date
type DateFieldConfig struct {
	Kind DateKind `json:"kind" yaml:"kind"`

	// Kind == field
	Path      string   `json:"path,omitempty" yaml:"path,omitempty"`
	Fallbacks []string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"` // Tried in declared order
	Format    string   `json:"format,omitempty" yaml:"format,omitempty"`       // Overrides the global format

	// Kind == calculation
	Calculation *CalculationConfig `json:"calculation,omitempty" yaml:"calculation,omitempty"`

	// Kind == fixed
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// CalculationConfig derives a date from a base field plus an offset.
// The operand is either a literal number or a path to a numeric field;
// OperandPath wins when both are set. The derived date is never parsed
// independently of its base.
type CalculationConfig struct {
	BaseField   string   `json:"baseField" yaml:"baseField"`
	Op          CalcOp   `json:"op" yaml:"op"`
	Operand     float64  `json:"operand,omitempty" yaml:"operand,omitempty"`
	OperandPath string   `json:"operandPath,omitempty" yaml:"operandPath,omitempty"`
	Unit        CalcUnit `json:"unit" yaml:"unit"`
}

// DisplayKind selects how a presentation field is rendered
type DisplayKind string

const (
	DisplayText     DisplayKind = "text"
	DisplayDate     DisplayKind = "date"
	DisplayCurrency DisplayKind = "currency"
	DisplayNumber   DisplayKind = "number"
)

// DisplayFieldConfig is a presentation field collected into ClaimItem details
type DisplayFieldConfig struct {
	Label        string      `json:"label" yaml:"label"`
	Path         string      `json:"path" yaml:"path"`
	DefaultValue string      `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Kind         DisplayKind `json:"kind,omitempty" yaml:"kind,omitempty"` // Defaults to text
}

// ClaimTypeConfig describes one claim type: where its records live and
// how each record becomes a ClaimItem. Configs are built once at load
// time and treated as immutable for the lifetime of a parser.
type ClaimTypeConfig struct {
	Name          string               `json:"name" yaml:"name"`
	ArrayPath     string               `json:"arrayPath" yaml:"arrayPath"` // Location of the source array, may be nested ("medHistory.claims")
	Color         string               `json:"color" yaml:"color"`
	IDField       string               `json:"idField,omitempty" yaml:"idField,omitempty"`
	StartDate     DateFieldConfig      `json:"startDate" yaml:"startDate"`
	EndDate       DateFieldConfig      `json:"endDate" yaml:"endDate"`
	DisplayName   FieldConfig          `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	DisplayFields []DisplayFieldConfig `json:"displayFields,omitempty" yaml:"displayFields,omitempty"`
}
