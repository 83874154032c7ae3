// Package validate implements the permissive structural check a decoded
// claims document must pass before extraction. It is shape-level only:
// field completeness inside records is the extractor's concern.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
)

// Validator checks documents against a set of recognized claim-array
// locations. It never partially succeeds: validation is pass/fail.
type Validator struct {
	locations []string
}

// NewValidator creates a validator for the array locations of the given
// claim type configurations.
func NewValidator(configs []model.ClaimTypeConfig) *Validator {
	locations := make([]string, 0, len(configs))
	for _, cfg := range configs {
		locations = append(locations, cfg.ArrayPath)
	}
	return &Validator{locations: locations}
}

// Validate accepts a document exposing any of the recognized claim-array
// locations, where every present location is a true array (empty is
// valid) whose elements, if any, are objects. Everything else raises a
// StructureError; nil error means the document passed.
func (v *Validator) Validate(doc any) error {
	obj, ok := doc.(map[string]any)
	if !ok || obj == nil {
		return errs.NewStructure("top-level value is not an object", v.locations)
	}

	found := 0
	for _, location := range v.locations {
		present, err := v.checkLocation(obj, location)
		if err != nil {
			return err
		}
		if present {
			found++
		}
	}

	if found == 0 {
		return errs.NewStructure(
			fmt.Sprintf("none of the recognized claim arrays are present (looked for %s)",
				strings.Join(v.locations, ", ")),
			v.locations)
	}
	return nil
}

// checkLocation reports whether the location is present, and rejects a
// present location of the wrong shape. For nested locations such as
// "medHistory.claims", a container object that exists without its
// nested array is a rejection, not an absence.
func (v *Validator) checkLocation(obj map[string]any, location string) (bool, error) {
	segments := strings.Split(location, ".")

	var current any = obj
	for i, segment := range segments {
		container, ok := current.(map[string]any)
		if !ok {
			// A parent key exists but is not an object; the location is
			// recognized yet malformed.
			return false, v.shapeFailure(location, strings.Join(segments[:i], "."))
		}
		next, exists := container[segment]
		if !exists {
			if i == 0 {
				return false, nil // Location simply absent, not an error
			}
			return false, v.shapeFailure(location, strings.Join(segments[:i], "."))
		}
		current = next
	}

	arr, ok := current.([]any)
	if !ok {
		return false, v.shapeFailure(location, location)
	}
	for i, element := range arr {
		if _, ok := element.(map[string]any); !ok {
			err := errs.NewStructure(
				fmt.Sprintf("element %d of %s is not an object", i, location),
				v.locations)
			err.Details["element"] = fmt.Sprintf("%d", i)
			return false, err
		}
	}
	return true, nil
}

func (v *Validator) shapeFailure(location, at string) error {
	err := errs.NewStructure(
		fmt.Sprintf("claim array location %s has the wrong shape at %q", location, at),
		v.locations)
	err.Details["location"] = location
	return err
}

// DiscoverArrays walks a document one container level deep and returns
// the paths of every array-of-objects it exposes, in encounter order of
// sorted keys. The configurable-schema tier builds ad-hoc type configs
// from these.
func DiscoverArrays(doc any) []string {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}

	var paths []string
	for _, key := range sortedKeys(obj) {
		value := obj[key]
		if isObjectArray(value) {
			paths = append(paths, key)
			continue
		}
		nested, ok := value.(map[string]any)
		if !ok {
			continue
		}
		for _, nestedKey := range sortedKeys(nested) {
			if isObjectArray(nested[nestedKey]) {
				paths = append(paths, key+"."+nestedKey)
			}
		}
	}
	return paths
}

func isObjectArray(value any) bool {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 {
		return false
	}
	for _, element := range arr {
		if _, ok := element.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	// Deterministic order keeps discovered configs and reports stable.
	sort.Strings(keys)
	return keys
}
