package resolve

import (
	"fmt"
	"time"

	"github.com/claimline/claimline/internal/model"
)

// displayDateLayout is what presentation fields render dates as; the
// engine boundary itself serializes dates as ISO-8601.
const displayDateLayout = "Jan 2, 2006"

// ForDisplay renders a resolved value for a presentation field. Pure
// formatting, no side effects; unknown kinds fall back to text.
func ForDisplay(value any, kind model.DisplayKind) string {
	switch kind {
	case model.DisplayDate:
		raw := Stringify(value)
		if ts, ok := ParseDateString(raw, ""); ok {
			return ts.Format(displayDateLayout)
		}
		return raw
	case model.DisplayCurrency:
		if n, ok := ToNumber(value); ok {
			return fmt.Sprintf("$%.2f", n)
		}
		return Stringify(value)
	case model.DisplayNumber:
		if n, ok := ToNumber(value); ok {
			return Stringify(n)
		}
		return Stringify(value)
	default:
		return Stringify(value)
	}
}

// ISODate serializes a date value the way the engine hands it to the
// presentation collaborator.
func ISODate(ts time.Time) string {
	return ts.Format("2006-01-02")
}
