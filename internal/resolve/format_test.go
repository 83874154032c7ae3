package resolve

import (
	"testing"
	"time"

	"github.com/claimline/claimline/internal/model"
)

func TestForDisplay_Text(t *testing.T) {
	if got := ForDisplay("Aspirin 81mg", model.DisplayText); got != "Aspirin 81mg" {
		t.Errorf("Expected 'Aspirin 81mg', got %q", got)
	}
	if got := ForDisplay(nil, model.DisplayText); got != "" {
		t.Errorf("Expected empty for nil, got %q", got)
	}
}

func TestForDisplay_Date(t *testing.T) {
	if got := ForDisplay("2024-01-15", model.DisplayDate); got != "Jan 15, 2024" {
		t.Errorf("Expected 'Jan 15, 2024', got %q", got)
	}
	// Unparseable dates fall through as raw text
	if got := ForDisplay("soon", model.DisplayDate); got != "soon" {
		t.Errorf("Expected raw text 'soon', got %q", got)
	}
}

func TestForDisplay_Currency(t *testing.T) {
	if got := ForDisplay(125.5, model.DisplayCurrency); got != "$125.50" {
		t.Errorf("Expected '$125.50', got %q", got)
	}
	if got := ForDisplay("99", model.DisplayCurrency); got != "$99.00" {
		t.Errorf("Expected '$99.00', got %q", got)
	}
	if got := ForDisplay("n/a", model.DisplayCurrency); got != "n/a" {
		t.Errorf("Expected 'n/a' fallthrough, got %q", got)
	}
}

func TestForDisplay_Number(t *testing.T) {
	if got := ForDisplay(float64(30), model.DisplayNumber); got != "30" {
		t.Errorf("Expected '30', got %q", got)
	}
	if got := ForDisplay("12.50", model.DisplayNumber); got != "12.5" {
		t.Errorf("Expected '12.5', got %q", got)
	}
}

func TestISODate(t *testing.T) {
	ts := time.Date(2024, 2, 14, 13, 45, 0, 0, time.UTC)
	if got := ISODate(ts); got != "2024-02-14" {
		t.Errorf("Expected '2024-02-14', got %q", got)
	}
}
