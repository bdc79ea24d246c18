package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperjump/crime360/internal/app"
	"github.com/hyperjump/crime360/internal/models"
)

var (
	facesFeatures  string
	facesImage     string
	facesThreshold float64
)

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "Find persons whose stored features resemble a probe",
	Long: `Rank persons by cosine similarity to a probe feature vector.

The probe is either given directly with --features or extracted from an image file.

Examples:
  crime360 faces --features 0.8,0.6,0.4,0.2,0.1
  crime360 faces --image suspect.jpg --threshold 0.9 --json`,
	RunE: runFaces,
}

func init() {
	facesCmd.Flags().StringVar(&facesFeatures, "features", "", "comma-separated probe vector")
	facesCmd.Flags().StringVar(&facesImage, "image", "", "image file to extract the probe from")
	facesCmd.Flags().Float64Var(&facesThreshold, "threshold", 0, "minimum similarity in [0,1] (default from config)")
	facesCmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
}

func runFaces(cmd *cobra.Command, args []string) error {
	if (facesFeatures == "") == (facesImage == "") {
		return errors.New("exactly one of --features or --image is required")
	}
	var probe []float64
	var image []byte
	var err error
	if facesFeatures != "" {
		if probe, err = parseFloats(facesFeatures); err != nil {
			return err
		}
	} else {
		if image, err = os.ReadFile(facesImage); err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
	}

	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		threshold := rt.Config.Faces.DefaultThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = facesThreshold
		}
		var resp *models.SearchResponse[models.Person]
		if image != nil {
			resp, err = rt.MatchImage(ctx, image, threshold)
		} else {
			resp, err = rt.Search.SearchBySimilarity(ctx, probe, threshold)
		}
		if err != nil {
			return err
		}
		return WritePersonResults(cmd.OutOrStdout(), resp, formatFor(jsonOutput))
	})
}
