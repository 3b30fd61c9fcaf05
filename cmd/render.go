package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/choromap/internal/pipeline"
)

var (
	renderDataset    string
	renderBoundaries string
	renderOutput     string
	renderPalette    string
	renderK          int
	renderScatter    string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the bivariate choropleth map",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		applyRenderFlags()
		if cfg.Inputs.Dataset == "" || cfg.Inputs.Boundaries == "" {
			return eris.New("both --dataset and --boundaries are required (flags or config)")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		summary, err := pipeline.New(cfg, st).Run(ctx)
		if err != nil {
			return eris.Wrap(err, "render")
		}

		zap.L().Info("map rendered",
			zap.Int("counties", summary.Counties),
			zap.Int("dropped", summary.Dropped),
			zap.String("output", summary.OutputPath),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

// applyRenderFlags copies set flags over the loaded config.
func applyRenderFlags() {
	if renderDataset != "" {
		cfg.Inputs.Dataset = renderDataset
	}
	if renderBoundaries != "" {
		cfg.Inputs.Boundaries = renderBoundaries
	}
	if renderOutput != "" {
		cfg.Output.Path = renderOutput
	}
	if renderPalette != "" {
		cfg.Classify.Palette = renderPalette
	}
	if renderK > 0 {
		cfg.Classify.K = renderK
	}
	if renderScatter != "" {
		cfg.Output.ScatterPath = renderScatter
	}
}

func init() {
	renderCmd.Flags().StringVar(&renderDataset, "dataset", "", "county indicator table (CSV or XLSX)")
	renderCmd.Flags().StringVar(&renderBoundaries, "boundaries", "", "county boundary file (GeoJSON or shapefile)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output PNG path (default from config)")
	renderCmd.Flags().StringVar(&renderPalette, "palette", "", "built-in palette name")
	renderCmd.Flags().IntVar(&renderK, "k", 0, "classes per axis (default from config)")
	renderCmd.Flags().StringVar(&renderScatter, "scatter", "", "also write a diagnostic scatter plot to this path")
	rootCmd.AddCommand(renderCmd)
}
