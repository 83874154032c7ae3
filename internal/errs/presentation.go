package errs

import (
	"errors"
	"fmt"
)

// UserMessage translates any taxonomy value into user-facing text. It is
// a pure mapping so failure semantics and failure display stay
// independently testable. Non-taxonomy errors pass through unchanged.
func UserMessage(err error) string {
	var dateErr *DateError
	if errors.As(err, &dateErr) {
		if dateErr.ClaimIndex >= 0 {
			return fmt.Sprintf("record %d of type %s has unparseable date %q in field %s",
				dateErr.ClaimIndex, dateErr.ClaimType, dateErr.Value, dateErr.Field)
		}
		return fmt.Sprintf("no usable dates found for claim type %s (%d records failed)",
			dateErr.ClaimType, len(dateErr.Errors))
	}

	var structErr *StructureError
	if errors.As(err, &structErr) {
		return fmt.Sprintf("the document does not look like a claims export: %s", structErr.Message)
	}

	var accessErr *FileAccessError
	if errors.As(err, &accessErr) {
		return accessErr.Message
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Message
	}
	return err.Error()
}

// RecoverySuggestions returns the actionable hints attached to a
// taxonomy value, or nil for foreign errors.
func RecoverySuggestions(err error) []string {
	var dateErr *DateError
	if errors.As(err, &dateErr) {
		return dateErr.Suggestions
	}
	var structErr *StructureError
	if errors.As(err, &structErr) {
		return structErr.Suggestions
	}
	var accessErr *FileAccessError
	if errors.As(err, &accessErr) {
		return accessErr.Suggestions
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Suggestions
	}
	return nil
}
