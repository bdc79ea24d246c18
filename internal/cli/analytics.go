package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperjump/crime360/internal/app"
	"github.com/hyperjump/crime360/internal/models"
)

var (
	analyticsFrom string
	analyticsTo   string
	heatmapBounds string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print the dashboard snapshot",
	Long: `Print incident counts by type, status, priority and area, the daily series,
top keywords and average resolution time, optionally for a date range.

Examples:
  crime360 analytics
  crime360 analytics --from 2025-01-08 --to 2025-01-10`,
	Args: cobra.NoArgs,
	RunE: runAnalytics,
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <field>",
	Short: "Count incidents per value of one field",
	Long: `Count incidents per distinct value of a field, in first-seen order.

Examples:
  crime360 aggregate type
  crime360 aggregate location.area --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAggregate,
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "List incident points for a map viewport",
	Long: `List incident coordinates weighted by priority, optionally limited to a box
given as top-left and bottom-right corners.

Examples:
  crime360 heatmap
  crime360 heatmap --bounds 13.1,77.5,12.9,77.7`,
	Args: cobra.NoArgs,
	RunE: runHeatmap,
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsFrom, "from", "", "earliest filing date (YYYY-MM-DD)")
	analyticsCmd.Flags().StringVar(&analyticsTo, "to", "", "latest filing date (YYYY-MM-DD)")
	analyticsCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	aggregateCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	heatmapCmd.Flags().StringVar(&heatmapBounds, "bounds", "", "top_left_lat,top_left_lon,bottom_right_lat,bottom_right_lon")
	heatmapCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	dateRange, err := parseDateRange(analyticsFrom, analyticsTo)
	if err != nil {
		return err
	}
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		snap, err := rt.Analytics.Snapshot(ctx, dateRange)
		if err != nil {
			return err
		}
		return WriteDashboard(cmd.OutOrStdout(), snap, formatFor(jsonOutput))
	})
}

func runAggregate(cmd *cobra.Command, args []string) error {
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		table, err := rt.Analytics.AggregateBy(args[0])
		if err != nil {
			return err
		}
		return WriteFrequencyTable(cmd.OutOrStdout(), table, formatFor(jsonOutput))
	})
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	bounds, err := parseBoundsFlag(heatmapBounds)
	if err != nil {
		return err
	}
	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		hm, err := rt.Analytics.Heatmap(ctx, bounds)
		if err != nil {
			return err
		}
		return WriteHeatmap(cmd.OutOrStdout(), hm, formatFor(jsonOutput))
	})
}

func parseBoundsFlag(s string) (*models.Bounds, error) {
	if s == "" {
		return nil, nil
	}
	vals, err := parseFloats(s)
	if err != nil {
		return nil, err
	}
	if len(vals) != 4 {
		return nil, fmt.Errorf("bounds %q: expected four numbers", s)
	}
	return &models.Bounds{
		TopLeft:     models.GeoPoint{Lat: vals[0], Lon: vals[1]},
		BottomRight: models.GeoPoint{Lat: vals[2], Lon: vals[3]},
	}, nil
}
