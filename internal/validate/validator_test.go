package validate

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
)

func doc(t *testing.T, raw string) any {
	t.Helper()
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.Fatalf("Failed to parse test document: %v", err)
	}
	return parsed
}

func newTestValidator() *Validator {
	return NewValidator(model.DefaultClaimTypes())
}

func TestValidate_ConformingDocument(t *testing.T) {
	d := doc(t, `{
		"rxTba": [{"id": "rx1", "dos": "2024-01-15"}],
		"medHistory": {"claims": [{"claimId": "m1"}]}
	}`)

	if err := newTestValidator().Validate(d); err != nil {
		t.Fatalf("Expected valid document, got %v", err)
	}
}

func TestValidate_SingleLocationSuffices(t *testing.T) {
	d := doc(t, `{"rxHistory": [{"id": "h1"}]}`)

	if err := newTestValidator().Validate(d); err != nil {
		t.Fatalf("Expected valid document, got %v", err)
	}
}

func TestValidate_EmptyArrayIsValid(t *testing.T) {
	d := doc(t, `{"rxTba": []}`)

	if err := newTestValidator().Validate(d); err != nil {
		t.Fatalf("Expected empty claim array to validate, got %v", err)
	}
}

func TestValidate_TopLevelNotObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"text"`, `42`, `null`} {
		err := newTestValidator().Validate(doc(t, raw))
		var structErr *errs.StructureError
		if !errors.As(err, &structErr) {
			t.Errorf("Expected StructureError for %s, got %v", raw, err)
		}
	}
}

func TestValidate_NoRecognizedLocations(t *testing.T) {
	d := doc(t, `{"patients": [{"name": "x"}]}`)

	err := newTestValidator().Validate(d)
	var structErr *errs.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("Expected StructureError, got %v", err)
	}
	if len(structErr.MissingFields) != 3 {
		t.Errorf("Expected 3 recognized locations reported, got %v", structErr.MissingFields)
	}
	if structErr.ExpectedShape == "" {
		t.Error("Expected the shape template to be attached")
	}
}

func TestValidate_LocationWrongType(t *testing.T) {
	d := doc(t, `{"rxTba": "not an array"}`)

	err := newTestValidator().Validate(d)
	var structErr *errs.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("Expected StructureError, got %v", err)
	}
}

func TestValidate_NonObjectElement(t *testing.T) {
	d := doc(t, `{"rxTba": [{"id": "rx1"}, "stray"]}`)

	err := newTestValidator().Validate(d)
	var structErr *errs.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("Expected StructureError, got %v", err)
	}
	if structErr.Details["element"] != "1" {
		t.Errorf("Expected offending element index 1, got %q", structErr.Details["element"])
	}
}

func TestValidate_NestedContainerAbsent(t *testing.T) {
	// medHistory absent entirely is fine when another location is present.
	d := doc(t, `{"rxTba": [{"id": "rx1"}]}`)
	if err := newTestValidator().Validate(d); err != nil {
		t.Fatalf("Expected valid document, got %v", err)
	}
}

func TestValidate_NestedContainerMissingArray(t *testing.T) {
	// medHistory exists but has no claims array: recognized yet malformed.
	d := doc(t, `{"rxTba": [{"id": "rx1"}], "medHistory": {"note": "x"}}`)

	err := newTestValidator().Validate(d)
	var structErr *errs.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("Expected StructureError, got %v", err)
	}
}

func TestDiscoverArrays(t *testing.T) {
	d := doc(t, `{
		"visits": [{"date": "2024-01-01"}],
		"wrapper": {"claims": [{"id": "c1"}]},
		"scalars": [1, 2, 3],
		"empty": [],
		"meta": {"version": 2}
	}`)

	got := DiscoverArrays(d)
	want := []string{"visits", "wrapper.claims"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDiscoverArrays_NonObject(t *testing.T) {
	if got := DiscoverArrays([]any{"x"}); got != nil {
		t.Errorf("Expected nil for non-object document, got %v", got)
	}
}
