package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/choromap/internal/classify"
)

var palettesFile string

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List the built-in bivariate palettes",
	Long:  "Lists the built-in bivariate palettes. With --file, validates a custom YAML palette instead and prints it in the same format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if palettesFile != "" {
			p, err := classify.LoadPaletteFile(palettesFile)
			if err != nil {
				return err
			}
			return formatPalette(os.Stdout, p)
		}
		return formatPalettes(os.Stdout, classify.BuiltinPalettes())
	},
}

func formatPalettes(out io.Writer, names []string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tCOLORS")
	fmt.Fprintln(w, "----\t----\t------")
	for _, name := range names {
		p, err := classify.LoadPalette(name)
		if err != nil {
			return err
		}
		writePaletteRow(w, p)
	}
	return w.Flush()
}

func formatPalette(out io.Writer, p *classify.Palette) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tCOLORS")
	fmt.Fprintln(w, "----\t----\t------")
	writePaletteRow(w, p)
	return w.Flush()
}

func writePaletteRow(w io.Writer, p *classify.Palette) {
	fmt.Fprintf(w, "%s\t%dx%d\t", p.Name, p.K, p.K)
	for i, c := range p.Colors {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, classify.HexString(c))
	}
	fmt.Fprintln(w)
}

func init() {
	palettesCmd.Flags().StringVar(&palettesFile, "file", "", "validate and print a custom YAML palette file")
	rootCmd.AddCommand(palettesCmd)
}
