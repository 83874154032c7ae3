// Package resolve implements generic field resolution over decoded JSON
// trees: path-expression evaluation, multi-strategy date resolution and
// presentation formatting. Centralizing this keeps the extractor
// variants from growing their own fragile traversal logic.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
)

// Segment is one step of a compiled path expression: either an object
// field name or an array index.
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

// ParsePath compiles a dotted/bracketed path expression such as
// "lines[0].description" into an ordered segment list.
func ParsePath(path string) ([]Segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty path expression")
	}

	var segments []Segment
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("path %q has an empty segment", path)
		}

		for part != "" {
			open := strings.IndexByte(part, '[')
			if open == -1 {
				segments = append(segments, Segment{Field: part})
				break
			}
			if open > 0 {
				segments = append(segments, Segment{Field: part[:open]})
			}
			closing := strings.IndexByte(part, ']')
			if closing < open {
				return nil, fmt.Errorf("path %q has an unclosed bracket", path)
			}
			idx, err := strconv.Atoi(part[open+1 : closing])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("path %q has an invalid array index %q", path, part[open+1:closing])
			}
			segments = append(segments, Segment{Index: idx, IsIndex: true})
			part = part[closing+1:]
			if strings.HasPrefix(part, "[") {
				continue
			}
			if part != "" && !strings.HasPrefix(part, "[") {
				return nil, fmt.Errorf("path %q has trailing characters after bracket", path)
			}
		}
	}
	return segments, nil
}

// Resolve walks the path over a generic JSON tree and returns def the
// instant any segment is missing, null or type-mismatched. It never
// fails for absent data; a malformed path expression also yields def.
func Resolve(doc any, path string, def any) any {
	segments, err := ParsePath(path)
	if err != nil {
		return def
	}
	return resolveSegments(doc, segments, def)
}

func resolveSegments(doc any, segments []Segment, def any) any {
	current := doc
	for _, seg := range segments {
		if current == nil {
			return def
		}
		if seg.IsIndex {
			arr, ok := current.([]any)
			if !ok || seg.Index >= len(arr) {
				return def
			}
			current = arr[seg.Index]
			continue
		}
		obj, ok := current.(map[string]any)
		if !ok {
			return def
		}
		next, found := obj[seg.Field]
		if !found {
			return def
		}
		current = next
	}
	if current == nil {
		return def
	}
	return current
}

// ResolveRequired resolves a configured field, falling back to its
// default value, and fails when the field is marked required and
// nothing resolves.
func ResolveRequired(doc any, cfg model.FieldConfig) (any, error) {
	value := Resolve(doc, cfg.Path, nil)
	if value == nil && cfg.DefaultValue != "" {
		value = cfg.DefaultValue
	}
	if value == nil && cfg.Required {
		err := errs.NewValidation(fmt.Sprintf("required field %q is missing", cfg.Path), nil)
		err.Details = map[string]string{"path": cfg.Path}
		err.Suggestions = []string{
			fmt.Sprintf("Add %q to each record, or remove the required flag", cfg.Path),
		}
		return nil, err
	}
	return value, nil
}

// Stringify renders a scalar JSON value as display text. Composite
// values render as empty so callers skip them.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// ToNumber coerces a scalar JSON value to a float64 operand.
func ToNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
