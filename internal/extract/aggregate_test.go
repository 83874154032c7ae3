package extract

import (
	"reflect"
	"testing"
	"time"

	"github.com/claimline/claimline/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleClaims() []model.ClaimItem {
	return []model.ClaimItem{
		{ID: "b", Type: "rxHistory", StartDate: day(2024, 3, 1), EndDate: day(2024, 3, 15)},
		{ID: "a", Type: "rxTba", StartDate: day(2024, 1, 15), EndDate: day(2024, 2, 14)},
		{ID: "c", Type: "medHistory", StartDate: day(2024, 2, 1), EndDate: day(2024, 6, 30)},
	}
}

func TestAggregate_SortOldestFirst(t *testing.T) {
	result := Aggregate(sampleClaims(), model.SortOldestFirst)

	got := []string{result.Claims[0].ID, result.Claims[1].ID, result.Claims[2].ID}
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestAggregate_SortNewestFirst(t *testing.T) {
	result := Aggregate(sampleClaims(), model.SortNewestFirst)

	got := []string{result.Claims[0].ID, result.Claims[1].ID, result.Claims[2].ID}
	want := []string{"b", "c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestAggregate_DateRangeSpansAllClaims(t *testing.T) {
	result := Aggregate(sampleClaims(), model.SortOldestFirst)

	if !result.DateRange.Start.Equal(day(2024, 1, 15)) {
		t.Errorf("Expected range start 2024-01-15, got %s", result.DateRange.Start)
	}
	// The latest end belongs to a claim that is neither first nor last.
	if !result.DateRange.End.Equal(day(2024, 6, 30)) {
		t.Errorf("Expected range end 2024-06-30, got %s", result.DateRange.End)
	}
}

func TestAggregate_Metadata(t *testing.T) {
	result := Aggregate(sampleClaims(), model.SortOldestFirst)

	if result.Metadata.TotalClaims != 3 {
		t.Errorf("Expected 3 total claims, got %d", result.Metadata.TotalClaims)
	}
	want := []string{"rxTba", "medHistory", "rxHistory"}
	if !reflect.DeepEqual(result.Metadata.ClaimTypes, want) {
		t.Errorf("Expected types in first-appearance order %v, got %v", want, result.Metadata.ClaimTypes)
	}
}

func TestAggregate_StableForEqualStarts(t *testing.T) {
	claims := []model.ClaimItem{
		{ID: "first", StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 2)},
		{ID: "second", StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 3)},
	}
	result := Aggregate(claims, model.SortOldestFirst)
	if result.Claims[0].ID != "first" || result.Claims[1].ID != "second" {
		t.Errorf("Expected stable order for equal start dates, got %s then %s",
			result.Claims[0].ID, result.Claims[1].ID)
	}
}

func TestAggregate_Empty(t *testing.T) {
	result := Aggregate(nil, model.SortOldestFirst)

	if result.Claims == nil || len(result.Claims) != 0 {
		t.Errorf("Expected empty non-nil claims slice, got %v", result.Claims)
	}
	if result.Metadata.TotalClaims != 0 {
		t.Errorf("Expected 0 total claims, got %d", result.Metadata.TotalClaims)
	}
	if len(result.Metadata.ClaimTypes) != 0 {
		t.Errorf("Expected no claim types, got %v", result.Metadata.ClaimTypes)
	}
	if !result.DateRange.Start.Equal(result.DateRange.End) {
		t.Errorf("Expected collapsed date range, got %s..%s",
			result.DateRange.Start, result.DateRange.End)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !result.DateRange.Start.Equal(today) {
		t.Errorf("Expected range to collapse to today, got %s", result.DateRange.Start)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	claims := sampleClaims()
	Aggregate(claims, model.SortOldestFirst)
	if claims[0].ID != "b" {
		t.Errorf("Expected input order untouched, got %s first", claims[0].ID)
	}
}
