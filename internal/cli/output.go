// Package cli implements the crime360 command tree and its output writers.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const separator = "─────────────────────────────────────────────────────────"

func formatFor(asJSON bool) OutputFormat {
	if asJSON {
		return OutputJSON
	}
	return OutputText
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes an incident search response to w.
func WriteSearchResults(w io.Writer, resp *models.SearchResponse[models.Incident], format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	fmt.Fprintf(w, "\nFound %d incidents in %dms (showing %d)\n\n", resp.Total, resp.TookMs, len(resp.Hits))
	if len(resp.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n\n", strings.Join(resp.Suggestions, ", "))
	}
	for _, hit := range resp.Hits {
		inc := hit.Source
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "%s [%s] %s | %s | %s | %s | Score: %.2f\n",
			inc.CaseNumber, inc.Dataset, inc.Type, inc.Status, inc.Priority, inc.Date, hit.Score)
		fmt.Fprintf(w, "Area: %s | Officer: %s\n", inc.Location.Area, inc.Officer)
		fmt.Fprintf(w, "Complainant: %s | Accused: %s\n", inc.Complainant.Name, inc.Accused.Name)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(inc.Description, 200))
	}
	return nil
}

// WritePersonResults writes a face similarity response to w.
func WritePersonResults(w io.Writer, resp *models.SearchResponse[models.Person], format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	fmt.Fprintf(w, "\nFound %d matching persons in %dms\n\n", resp.Total, resp.TookMs)
	for _, hit := range resp.Hits {
		p := hit.Source
		fmt.Fprintln(w, separator)
		fmt.Fprintf(w, "%s [%s] %s | Similarity: %.4f\n", p.PersonID, p.Dataset, p.Name, hit.Score)
		fmt.Fprintf(w, "Status: %s | Risk: %s | Last seen: %s\n", p.Status, p.RiskLevel, p.LastSeen)
		if len(p.Aliases) > 0 {
			fmt.Fprintf(w, "Aliases: %s\n", strings.Join(p.Aliases, ", "))
		}
		if len(p.Charges) > 0 {
			fmt.Fprintf(w, "Charges: %s\n", strings.Join(p.Charges, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteFrequencyTable writes one frequency table to w.
func WriteFrequencyTable(w io.Writer, table models.FrequencyTable, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, table)
	}
	writeTable(w, string(table.Field), table)
	return nil
}

func writeTable(w io.Writer, title string, table models.FrequencyTable) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, b := range table.Buckets {
		fmt.Fprintf(w, "  %-24s %d\n", b.Key, b.Count)
	}
}

// WriteDashboard writes a dashboard snapshot to w.
func WriteDashboard(w io.Writer, d *models.DashboardSnapshot, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, d)
	}
	fmt.Fprintf(w, "\nTotal incidents: %d\n", d.TotalCount)
	if d.DateRange != nil {
		fmt.Fprintf(w, "Range: %s .. %s\n", d.DateRange.From, d.DateRange.To)
	}
	if d.ResolutionTime.Available {
		fmt.Fprintf(w, "Average resolution: %.1f days over %d cases\n", d.ResolutionTime.AvgDays, d.ResolutionTime.Cases)
	} else {
		fmt.Fprintln(w, "Average resolution: n/a")
	}
	fmt.Fprintln(w, separator)
	writeTable(w, "By type", d.ByType)
	writeTable(w, "By status", d.ByStatus)
	writeTable(w, "By priority", d.ByPriority)
	writeTable(w, "By location", d.ByLocation)
	fmt.Fprintln(w, "Daily:")
	for _, b := range d.Daily {
		fmt.Fprintf(w, "  %-24s %d\n", b.Date, b.Count)
	}
	fmt.Fprintln(w, "Top keywords:")
	for _, k := range d.TopKeywords {
		fmt.Fprintf(w, "  %-24s %d\n", k.Keyword, k.Count)
	}
	return nil
}

// WriteHeatmap writes heatmap points and their summaries to w.
func WriteHeatmap(w io.Writer, hm *models.Heatmap, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, hm)
	}
	fmt.Fprintf(w, "\n%d incidents plotted\n", hm.Total)
	fmt.Fprintln(w, separator)
	for _, p := range hm.Points {
		fmt.Fprintf(w, "  %9.4f %9.4f  weight %d  %s\n", p.Lat, p.Lon, p.Weight, p.Type)
	}
	writeTable(w, "By type", hm.ByType)
	writeTable(w, "By priority", hm.ByPriority)
	writeTable(w, "By status", hm.ByStatus)
	return nil
}
