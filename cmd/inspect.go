package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/choromap/internal/pipeline"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show class breaks and per-county assignments without rendering",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRenderFlags()
		if cfg.Inputs.Dataset == "" || cfg.Inputs.Boundaries == "" {
			return eris.New("both --dataset and --boundaries are required (flags or config)")
		}

		summary, err := pipeline.New(cfg, nil).Classify(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "inspect")
		}

		if inspectJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		formatSummary(os.Stdout, summary)
		return nil
	},
}

// formatSummary writes a tabular view of the classification to w.
func formatSummary(out io.Writer, s *pipeline.Summary) {
	fmt.Fprintf(out, "Counties: %d (dropped %d)\n", s.Counties, s.Dropped)
	if len(s.UnmatchedRecords) > 0 {
		fmt.Fprintf(out, "No boundary for: %s\n", strings.Join(s.UnmatchedRecords, ", "))
	}
	if len(s.UnmatchedBoundaries) > 0 {
		fmt.Fprintf(out, "No record for:   %s\n", strings.Join(s.UnmatchedBoundaries, ", "))
	}
	fmt.Fprintf(out, "Palette:  %s (%dx%d)\n", s.Palette, s.K, s.K)
	fmt.Fprintf(out, "X breaks: %s\n", pipeline.FormatBreaks(s.XBreaks))
	fmt.Fprintf(out, "Y breaks: %s\n\n", pipeline.FormatBreaks(s.YBreaks))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTY\tX\tY\tBIN\tCOLOR")
	fmt.Fprintln(w, "------\t-\t-\t---\t-----")
	for _, a := range s.Assignments {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%d,%d\t%s\n",
			a.County, a.X, a.Y, a.BinX, a.BinY, a.Color)
	}
	_ = w.Flush()
}

func init() {
	inspectCmd.Flags().StringVar(&renderDataset, "dataset", "", "county indicator table (CSV or XLSX)")
	inspectCmd.Flags().StringVar(&renderBoundaries, "boundaries", "", "county boundary file (GeoJSON or shapefile)")
	inspectCmd.Flags().StringVar(&renderPalette, "palette", "", "built-in palette name")
	inspectCmd.Flags().IntVar(&renderK, "k", 0, "classes per axis (default from config)")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(inspectCmd)
}
