// Package cli provides CLI output utilities for Bhraman.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/pkg/utils"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat converts a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteResults writes scored places to w in the given format.
func WriteResults(w io.Writer, results []models.ScoredPlace, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	fmt.Fprintf(w, "\nFound %d results\n\n", len(results))
	for i, r := range results {
		writeOneResult(w, i+1, r)
	}
	return nil
}

func writeOneResult(w io.Writer, rank int, r models.ScoredPlace) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | Score: %.3f", rank, r.Score)
	if r.DistanceKm != nil {
		fmt.Fprintf(w, " | Distance: %.2f km", *r.DistanceKm)
	}
	if r.RouteDistanceKm != nil {
		fmt.Fprintf(w, " | Off-route: %.2f km", *r.RouteDistanceKm)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "ID: %s\n", r.ID)
	fmt.Fprintf(w, "Name: %s", r.Name)
	if r.Category != "" {
		fmt.Fprintf(w, " (%s)", r.Category)
	}
	fmt.Fprintln(w)
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	if r.Description != "" {
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(r.Description, 200))
	}
	fmt.Fprintln(w)
}

// WriteRouteResults writes route suggestions with their narration.
func WriteRouteResults(w io.Writer, results []models.ScoredPlace, narration string, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"suggestions": results,
			"narration":   narration,
		})
	}
	if err := WriteResults(w, results, OutputText); err != nil {
		return err
	}
	if narration != "" {
		fmt.Fprintf(w, "Narration: %s\n", narration)
	}
	return nil
}
