package resolve

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
)

// namedLayout pairs a user-facing format name with its Go layout
type namedLayout struct {
	Name   string
	Layout string
}

// supportedLayouts are tried strictly, in order, when the primary format
// does not match. Names are what users see in error suggestions.
var supportedLayouts = []namedLayout{
	{"YYYY-MM-DD", "2006-01-02"},
	{"MM/DD/YYYY", "01/02/2006"},
	{"YYYY/MM/DD", "2006/01/02"},
	{"MM-DD-YYYY", "01-02-2006"},
	{"YYYY-MM-DD HH:MM:SS", "2006-01-02 15:04:05"},
	{"RFC3339", time.RFC3339},
}

// flexibleLayouts are the last-resort permissive attempts
var flexibleLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006-1-2",
	"1/2/2006",
}

// SupportedFormats lists the format names for diagnostics.
func SupportedFormats() []string {
	names := make([]string, len(supportedLayouts))
	for i, l := range supportedLayouts {
		names[i] = l.Name
	}
	return names
}

// layoutFor maps a format name to its Go layout. Unknown names are
// assumed to already be Go layouts so configs can carry custom ones.
func layoutFor(name string) string {
	if name == "" {
		return supportedLayouts[0].Layout
	}
	for _, l := range supportedLayouts {
		if strings.EqualFold(l.Name, name) {
			return l.Layout
		}
	}
	return name
}

// ParseDateString tries the primary format strictly, then each other
// supported format strictly, then the permissive last resorts. Absence
// of a result is not an error; the caller decides whether that is fatal.
func ParseDateString(text, primaryFormat string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	primary := layoutFor(primaryFormat)
	if ts, err := time.Parse(primary, text); err == nil {
		return ts, true
	}
	for _, l := range supportedLayouts {
		if l.Layout == primary {
			continue
		}
		if ts, err := time.Parse(l.Layout, text); err == nil {
			return ts, true
		}
	}
	for _, layout := range flexibleLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts, true
		}
	}
	// Epoch seconds or milliseconds sometimes show up in exports.
	if epoch, err := strconv.ParseInt(text, 10, 64); err == nil && epoch > 0 {
		if epoch > 1e12 {
			return time.UnixMilli(epoch).UTC(), true
		}
		if epoch > 1e9 {
			return time.Unix(epoch, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

// ResolveDate obtains a date for one record using the configured
// strategy. Fallback path uses are returned as warnings, not errors.
// Exhausted resolution wraps into a DateError carrying the claim
// context and the supported-format list.
func ResolveDate(doc any, dc model.DateFieldConfig, globalFormat, claimType string, claimIndex int) (time.Time, []string, error) {
	switch dc.Kind {
	case model.DateKindField:
		return resolveFieldDate(doc, dc, globalFormat, claimType, claimIndex)
	case model.DateKindCalculation:
		return resolveCalculatedDate(doc, dc, globalFormat, claimType, claimIndex)
	case model.DateKindFixed:
		ts, ok := ParseDateString(dc.Value, firstNonEmpty(dc.Format, globalFormat))
		if !ok {
			return time.Time{}, nil, errs.NewDate(
				fmt.Sprintf("fixed date %q is not parseable", dc.Value),
				claimType, claimIndex, "(fixed)", dc.Value, SupportedFormats(), nil)
		}
		return ts, nil, nil
	default:
		return time.Time{}, nil, errs.NewDate(
			fmt.Sprintf("unknown date strategy %q", dc.Kind),
			claimType, claimIndex, dc.Path, "", SupportedFormats(), nil)
	}
}

func resolveFieldDate(doc any, dc model.DateFieldConfig, globalFormat, claimType string, claimIndex int) (time.Time, []string, error) {
	format := firstNonEmpty(dc.Format, globalFormat)

	primary := Stringify(Resolve(doc, dc.Path, nil))
	if ts, ok := ParseDateString(primary, format); ok {
		return ts, nil, nil
	}

	var warnings []string
	for _, fallback := range dc.Fallbacks {
		raw := Stringify(Resolve(doc, fallback, nil))
		if ts, ok := ParseDateString(raw, format); ok {
			warnings = append(warnings, fmt.Sprintf(
				"%s[%d]: field %s missing or unparseable, used fallback %s",
				claimType, claimIndex, dc.Path, fallback))
			return ts, warnings, nil
		}
	}

	return time.Time{}, nil, errs.NewDate(
		fmt.Sprintf("field %s has no parseable date (tried %d fallbacks)", dc.Path, len(dc.Fallbacks)),
		claimType, claimIndex, dc.Path, primary, SupportedFormats(), nil)
}

func resolveCalculatedDate(doc any, dc model.DateFieldConfig, globalFormat, claimType string, claimIndex int) (time.Time, []string, error) {
	calc := dc.Calculation
	if calc == nil {
		return time.Time{}, nil, errs.NewDate(
			"calculation strategy without a calculation block",
			claimType, claimIndex, "", "", SupportedFormats(), nil)
	}

	baseCfg := model.DateFieldConfig{Kind: model.DateKindField, Path: calc.BaseField, Format: dc.Format}
	base, warnings, err := ResolveDate(doc, baseCfg, globalFormat, claimType, claimIndex)
	if err != nil {
		return time.Time{}, warnings, errs.NewDate(
			fmt.Sprintf("calculation base field %s did not resolve", calc.BaseField),
			claimType, claimIndex, calc.BaseField, "", SupportedFormats(), err)
	}

	operand := calc.Operand
	if calc.OperandPath != "" {
		value := Resolve(doc, calc.OperandPath, nil)
		n, ok := ToNumber(value)
		if !ok {
			return time.Time{}, warnings, errs.NewDate(
				fmt.Sprintf("calculation operand %s is not numeric", calc.OperandPath),
				claimType, claimIndex, calc.OperandPath, Stringify(value), SupportedFormats(), nil)
		}
		operand = n
	}

	derived, err := applyOffset(base, calc.Op, operand, calc.Unit)
	if err != nil {
		return time.Time{}, warnings, errs.NewDate(
			err.Error(), claimType, claimIndex, calc.BaseField, "", SupportedFormats(), err)
	}
	return derived, warnings, nil
}

// applyOffset shifts a base date by the operand in the given unit. The
// derived date is never re-parsed; it is pure calendar arithmetic.
func applyOffset(base time.Time, op model.CalcOp, operand float64, unit model.CalcUnit) (time.Time, error) {
	n := int(math.Round(operand))
	if op == model.CalcOpSubtract {
		n = -n
	} else if op != model.CalcOpAdd {
		return time.Time{}, fmt.Errorf("unknown calculation op %q", op)
	}

	switch unit {
	case model.UnitDays:
		return base.AddDate(0, 0, n), nil
	case model.UnitWeeks:
		return base.AddDate(0, 0, 7*n), nil
	case model.UnitMonths:
		return base.AddDate(0, n, 0), nil
	case model.UnitYears:
		return base.AddDate(n, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown calculation unit %q", unit)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
