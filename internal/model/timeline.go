package model

import (
	"time"

	"github.com/google/uuid"
)

// DateRange spans the earliest start and the latest end across all claims
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TimelineMetadata summarizes an aggregated timeline
type TimelineMetadata struct {
	TotalClaims int      `json:"totalClaims"`
	ClaimTypes  []string `json:"claimTypes"` // Distinct types in order of first appearance
}

// TimelineResult is the complete normalized output of one parse.
// Claims are ordered by the configured sort policy; the result is
// constructed once and handed off whole to the presentation side.
type TimelineResult struct {
	Claims    []ClaimItem      `json:"claims"`
	DateRange DateRange        `json:"dateRange"`
	Metadata  TimelineMetadata `json:"metadata"`
}

// ParseMeta carries provenance for a parse run
type ParseMeta struct {
	RunID    uuid.UUID `json:"run_id"`             // Unique id for this parse
	Source   string    `json:"source"`             // File the document came from
	Strategy string    `json:"strategy"`           // Strategy tier that produced the result
	ParsedAt time.Time `json:"parsed_at"`          // When the parse occurred
	Warnings []string  `json:"warnings,omitempty"` // Non-fatal diagnostics (fallback fields, tier transitions)
}

// Report wraps a timeline result with its parse provenance.
// This is the unit rendered to JSON and Markdown outputs.
type Report struct {
	Meta     ParseMeta      `json:"meta"`
	Timeline TimelineResult `json:"timeline"`
}
