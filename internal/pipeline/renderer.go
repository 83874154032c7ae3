package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/claimline/claimline/internal/model"
	"github.com/claimline/claimline/internal/resolve"
)

// Renderer writes reports to JSON and Markdown outputs
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new Renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to the given path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown
// timeline to the given path.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var sb strings.Builder

	sb.WriteString("# Claims Timeline\n\n")
	fmt.Fprintf(&sb, "**Source:** %s\n", report.Meta.Source)
	fmt.Fprintf(&sb, "**Parsed:** %s\n", report.Meta.ParsedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&sb, "**Strategy:** %s\n\n", report.Meta.Strategy)

	tl := report.Timeline
	fmt.Fprintf(&sb, "## Summary\n\n")
	fmt.Fprintf(&sb, "- **Claims:** %d\n", tl.Metadata.TotalClaims)
	if len(tl.Metadata.ClaimTypes) > 0 {
		fmt.Fprintf(&sb, "- **Types:** %s\n", strings.Join(tl.Metadata.ClaimTypes, ", "))
	}
	fmt.Fprintf(&sb, "- **Range:** %s to %s\n\n",
		resolve.ISODate(tl.DateRange.Start), resolve.ISODate(tl.DateRange.End))

	if len(tl.Claims) > 0 {
		sb.WriteString("## Claims\n\n")
		sb.WriteString("| Start | End | Type | Name |\n")
		sb.WriteString("|-------|-----|------|------|\n")
		for _, claim := range tl.Claims {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				resolve.ISODate(claim.StartDate), resolve.ISODate(claim.EndDate),
				claim.Type, escapeCell(claim.DisplayName))
		}
		sb.WriteString("\n")

		sb.WriteString("## Details\n\n")
		for _, claim := range tl.Claims {
			fmt.Fprintf(&sb, "### %s\n\n", claim.DisplayName)
			fmt.Fprintf(&sb, "- **ID:** %s\n", claim.ID)
			fmt.Fprintf(&sb, "- **Type:** %s\n", claim.Type)
			fmt.Fprintf(&sb, "- **Duration:** %d days\n", claim.Duration())
			for _, label := range sortedDetailLabels(claim.Details) {
				fmt.Fprintf(&sb, "- **%s:** %s\n", label, claim.Details[label])
			}
			sb.WriteString("\n")
		}
	}

	if len(report.Meta.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, warning := range report.Meta.Warnings {
			fmt.Fprintf(&sb, "- %s\n", warning)
		}
		sb.WriteString("\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&sb, "---\n\n*Generated by claimline (run %s)*\n", report.Meta.RunID)
	}

	return sb.String()
}

// RenderSummary prints a short report summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	tl := report.Timeline
	fmt.Printf("\n%s\n", report.Meta.Source)
	fmt.Printf("  Strategy: %s\n", report.Meta.Strategy)
	fmt.Printf("  Claims:   %d", tl.Metadata.TotalClaims)
	if len(tl.Metadata.ClaimTypes) > 0 {
		fmt.Printf(" (%s)", strings.Join(tl.Metadata.ClaimTypes, ", "))
	}
	fmt.Println()
	fmt.Printf("  Range:    %s to %s\n",
		resolve.ISODate(tl.DateRange.Start), resolve.ISODate(tl.DateRange.End))
	if len(report.Meta.Warnings) > 0 {
		fmt.Printf("  Warnings: %d\n", len(report.Meta.Warnings))
	}
}

func sortedDetailLabels(details map[string]string) []string {
	labels := make([]string, 0, len(details))
	for label := range details {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func escapeCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
