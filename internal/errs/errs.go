// Package errs defines the typed failure taxonomy for claim parsing.
// Failure values are immutable: a layer that wants to add context wraps
// the previous failure as its cause instead of mutating it.
package errs

import (
	"fmt"
	"strings"
)

// Code identifies the failure class on the wire and in logs
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"  // Malformed or unrecognized input
	CodeStructure  Code = "STRUCTURE_ERROR"   // Document shape mismatch
	CodeDate       Code = "DATE_ERROR"        // Exhausted date resolution
	CodeFileAccess Code = "FILE_ACCESS_ERROR" // OS-level read failure
)

// ParseError is the base failure value carried by every variant
type ParseError struct {
	Message     string
	Code        Code
	Details     map[string]string
	FilePath    string
	Cause       error    // Wrapped original cause, never discarded
	Suggestions []string // Actionable recovery hints
	Context     map[string]string
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.FilePath != "" {
		sb.WriteString(" (")
		sb.WriteString(e.FilePath)
		sb.WriteString(")")
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// WithFile returns a copy of the error bound to a source file path.
func (e *ParseError) WithFile(path string) *ParseError {
	clone := *e
	clone.FilePath = path
	return &clone
}

// NewValidation builds a generic malformed-input failure.
func NewValidation(message string, cause error) *ParseError {
	return &ParseError{
		Message: message,
		Code:    CodeValidation,
		Cause:   cause,
		Suggestions: []string{
			"Verify the file contains valid JSON",
			"Check for truncated output from the export tool",
		},
	}
}

// StructureError reports a document whose shape exposes none of the
// recognized claim-array locations, or exposes one with the wrong type.
type StructureError struct {
	ParseError
	MissingFields []string
	ExpectedShape string
}

// NewStructure builds a structure failure for the given missing locations.
func NewStructure(message string, missing []string) *StructureError {
	return &StructureError{
		ParseError: ParseError{
			Message: message,
			Code:    CodeStructure,
			Details: map[string]string{"missing": strings.Join(missing, ", ")},
			Suggestions: []string{
				"Ensure the document is an object with at least one claim array",
				fmt.Sprintf("Recognized locations: %s", strings.Join(missing, ", ")),
				"Supply a custom claim-type configuration if the export uses different paths",
			},
		},
		MissingFields: missing,
		ExpectedShape: expectedShapeTemplate,
	}
}

// expectedShapeTemplate is the canned description returned with every
// structure failure so callers can show users what a conforming
// document looks like.
const expectedShapeTemplate = `{
  "rxTba": [ { "id": "...", "dos": "YYYY-MM-DD", "dayssupply": 30, "medication": "..." } ],
  "rxHistory": [ { "id": "...", "dos": "YYYY-MM-DD", "dayssupply": 30 } ],
  "medHistory": { "claims": [ { "claimId": "...", "lines": [ { "srvcStart": "YYYY-MM-DD", "srvcEnd": "YYYY-MM-DD" } ] } ] }
}`

// DateError reports exhausted date resolution with enough context to
// say exactly which record and field failed.
type DateError struct {
	ParseError
	ClaimType        string
	ClaimIndex       int // -1 when the failure is type-level
	Field            string
	Value            string
	ExpectedFormat   string
	SupportedFormats []string
	Errors           []string // One message per failing element for type-level failures
}

// NewDate builds a date failure for one field of one record.
func NewDate(message, claimType string, index int, field, value string, supported []string, cause error) *DateError {
	details := map[string]string{
		"claimType": claimType,
		"field":     field,
	}
	if value != "" {
		details["value"] = value
	}
	return &DateError{
		ParseError: ParseError{
			Message: message,
			Code:    CodeDate,
			Details: details,
			Cause:   cause,
			Suggestions: []string{
				fmt.Sprintf("Use one of the supported date formats: %s", strings.Join(supported, ", ")),
				"Example: \"dos\": \"2024-01-15\"",
				"Configure a fallback path or a fixed date for this field",
			},
			Context: map[string]string{
				"claimType": claimType,
				"field":     field,
			},
		},
		ClaimType:        claimType,
		ClaimIndex:       index,
		Field:            field,
		Value:            value,
		SupportedFormats: supported,
	}
}

// NewDateTypeFailure aggregates element failures for a claim type that
// produced zero records. One message per failing element is retained
// under Errors; Details carries the joined form for display.
func NewDateTypeFailure(claimType string, elementErrors []string) *DateError {
	err := NewDate(
		fmt.Sprintf("no record of type %s has a resolvable date (%d failures)", claimType, len(elementErrors)),
		claimType, -1, "", "", nil, nil,
	)
	err.Errors = elementErrors
	err.Details["errors"] = strings.Join(elementErrors, "; ")
	err.Context["errorCount"] = fmt.Sprintf("%d", len(elementErrors))
	return err
}
