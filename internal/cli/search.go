package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/crime360/internal/app"
	"github.com/hyperjump/crime360/internal/export"
	"github.com/hyperjump/crime360/internal/models"
)

var (
	searchStatus    string
	searchType      string
	searchPriority  string
	searchFrom      string
	searchTo        string
	searchNear      string
	searchRadius    float64
	searchSort      string
	searchOffset    int
	searchSize      int
	searchRelevance bool
	exportOut       string
)

var searchCmd = &cobra.Command{
	Use:   "search [term...]",
	Short: "Search incidents",
	Long: `Search incidents by case-insensitive substring with optional filters.

Examples:
  crime360 search theft
  crime360 search --status Pending,Resolved --priority High
  crime360 search --near 12.9716,77.5946 --radius 5 --sort priority:desc,date
  crime360 search fraud --from 2025-01-08 --to 2025-01-10 --json`,
	RunE: runSearch,
}

var exportCmd = &cobra.Command{
	Use:   "export [term...]",
	Short: "Export one page of search results as an XLSX workbook",
	Long: `Run a search and write the requested page of incidents to a spreadsheet.

Examples:
  crime360 export --out theft.xlsx theft
  crime360 export --out pending.xlsx --status Pending --size 100`,
	RunE: runExport,
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&searchStatus, "status", "", "comma-separated case statuses")
	cmd.Flags().StringVar(&searchType, "type", "", "comma-separated incident types")
	cmd.Flags().StringVar(&searchPriority, "priority", "", "comma-separated priorities")
	cmd.Flags().StringVar(&searchFrom, "from", "", "earliest filing date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&searchTo, "to", "", "latest filing date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&searchNear, "near", "", "centre point as lat,lon")
	cmd.Flags().Float64Var(&searchRadius, "radius", 10, "radius in km around --near")
	cmd.Flags().StringVar(&searchSort, "sort", "", "sort keys as field[:asc|desc], comma-separated")
	cmd.Flags().IntVar(&searchOffset, "offset", 0, "number of hits to skip")
	cmd.Flags().IntVarP(&searchSize, "size", "n", 0, "page size (0 uses the configured default)")
	cmd.Flags().BoolVar(&searchRelevance, "relevance", false, "order text matches by keyword relevance")
}

func init() {
	addQueryFlags(searchCmd)
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	addQueryFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "incidents.xlsx", "output workbook path")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, err := buildSearchQuery(args)
	if err != nil {
		return err
	}
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		resp, err := rt.Search.Search(ctx, query)
		if err != nil {
			return err
		}
		return WriteSearchResults(cmd.OutOrStdout(), resp, formatFor(jsonOutput))
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	query, err := buildSearchQuery(args)
	if err != nil {
		return err
	}
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		resp, err := rt.Search.Search(ctx, query)
		if err != nil {
			return err
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		if err := export.WriteIncidentsXLSX(f, resp.Hits); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d of %d incidents to %s\n", len(resp.Hits), resp.Total, exportOut)
		return nil
	})
}

// buildSearchQuery assembles a query from positional terms and the query flags.
func buildSearchQuery(args []string) (*models.SearchQuery, error) {
	query := &models.SearchQuery{
		Query:     strings.Join(args, " "),
		From:      searchOffset,
		Size:      searchSize,
		Relevance: searchRelevance,
	}
	for _, s := range splitList(searchStatus) {
		query.Filters.Status = append(query.Filters.Status, models.CaseStatus(s))
	}
	query.Filters.Type = splitList(searchType)
	for _, p := range splitList(searchPriority) {
		query.Filters.Priority = append(query.Filters.Priority, models.Priority(p))
	}

	dateRange, err := parseDateRange(searchFrom, searchTo)
	if err != nil {
		return nil, err
	}
	query.Filters.DateRange = dateRange

	if searchNear != "" {
		center, err := parsePoint(searchNear)
		if err != nil {
			return nil, err
		}
		query.Filters.Location = &models.GeoFilter{Center: center, RadiusKm: searchRadius}
	}

	sort, err := parseSort(searchSort)
	if err != nil {
		return nil, err
	}
	query.Sort = sort
	return query, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseDateRange returns nil when both bounds are empty.
func parseDateRange(from, to string) (*models.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	f, err := models.ParseDate(from)
	if err != nil {
		return nil, err
	}
	t, err := models.ParseDate(to)
	if err != nil {
		return nil, err
	}
	return &models.DateRange{From: f, To: t}, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func parsePoint(s string) (models.GeoPoint, error) {
	vals, err := parseFloats(s)
	if err != nil {
		return models.GeoPoint{}, err
	}
	if len(vals) != 2 {
		return models.GeoPoint{}, fmt.Errorf("point %q: expected lat,lon", s)
	}
	return models.GeoPoint{Lat: vals[0], Lon: vals[1]}, nil
}

// parseSort reads "field[:order],..." into sort keys. Fields and orders are checked by the engine.
func parseSort(s string) ([]models.SortSpec, error) {
	var specs []models.SortSpec
	for _, part := range splitList(s) {
		field, order, _ := strings.Cut(part, ":")
		if strings.TrimSpace(field) == "" {
			return nil, fmt.Errorf("sort key %q has no field", part)
		}
		specs = append(specs, models.SortSpec{
			Field: models.Field(strings.TrimSpace(field)),
			Order: models.SortOrder(strings.ToLower(strings.TrimSpace(order))),
		})
	}
	return specs, nil
}
