// Package pipeline orchestrates the load, join, classify, and render stages
// that turn a county indicator table and a boundary file into a choropleth
// map.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/choromap/internal/boundary"
	"github.com/sells-group/choromap/internal/classify"
	"github.com/sells-group/choromap/internal/config"
	"github.com/sells-group/choromap/internal/dataset"
	"github.com/sells-group/choromap/internal/join"
	"github.com/sells-group/choromap/internal/render"
	"github.com/sells-group/choromap/internal/store"
)

// Pipeline wires the stages together. The store is optional; a nil store
// skips run persistence.
type Pipeline struct {
	cfg   *config.Config
	store store.Store
}

// New creates a Pipeline.
func New(cfg *config.Config, st store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, store: st}
}

// Summary reports what a run produced.
type Summary struct {
	RunID               string             `json:"run_id,omitempty"`
	Counties            int                `json:"counties"`
	Dropped             int                `json:"dropped"`
	UnmatchedRecords    []string           `json:"unmatched_records,omitempty"`
	UnmatchedBoundaries []string           `json:"unmatched_boundaries,omitempty"`
	K                   int                `json:"k"`
	Palette             string             `json:"palette"`
	XBreaks             []float64          `json:"x_breaks"`
	YBreaks             []float64          `json:"y_breaks"`
	OutputPath          string             `json:"output_path,omitempty"`
	ScatterPath         string             `json:"scatter_path,omitempty"`
	Assignments         []store.Assignment `json:"assignments"`
}

// classified carries the intermediate state between classification and
// rendering.
type classified struct {
	rows    []join.Row
	cls     *classify.Classifier
	pal     *classify.Palette
	summary *Summary
}

// Classify loads both inputs, joins them, and fits the bivariate classes
// without rendering. The inspect command stops here.
func (p *Pipeline) Classify(ctx context.Context) (*Summary, error) {
	c, err := p.classify(ctx)
	if err != nil {
		return nil, err
	}
	return c.summary, nil
}

func (p *Pipeline) classify(ctx context.Context) (*classified, error) {
	var (
		records []dataset.Record
		bounds  []boundary.Boundary
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = loadDataset(gCtx, p.cfg.Inputs)
		return err
	})
	g.Go(func() error {
		var err error
		bounds, err = loadBoundaries(gCtx, p.cfg.Inputs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	policy, err := join.ParsePolicy(p.cfg.Join.Policy)
	if err != nil {
		return nil, err
	}
	joined, err := join.Join(records, bounds, join.Options{
		Policy:    policy,
		Normalize: p.cfg.Join.Normalize,
	})
	if err != nil {
		return nil, err
	}

	xs := make([]float64, len(joined.Rows))
	ys := make([]float64, len(joined.Rows))
	for i, row := range joined.Rows {
		xs[i] = row.Unemployment
		ys[i] = row.DiplomaOrLess
	}

	cls, err := classify.Fit(xs, ys, p.cfg.Classify.K)
	if err != nil {
		return nil, err
	}

	pal, err := p.loadPalette()
	if err != nil {
		return nil, err
	}
	if pal.K != cls.K() {
		return nil, eris.Errorf("pipeline: palette %s has %d classes per axis, classification uses %d",
			pal.Name, pal.K, cls.K())
	}

	assignments := make([]store.Assignment, len(joined.Rows))
	for i, row := range joined.Rows {
		pair := cls.Assign(row.Unemployment, row.DiplomaOrLess)
		assignments[i] = store.Assignment{
			County: row.County,
			X:      row.Unemployment,
			Y:      row.DiplomaOrLess,
			BinX:   pair.X,
			BinY:   pair.Y,
			Color:  classify.HexString(pal.Color(pair)),
		}
	}

	dropped := len(joined.UnmatchedRecords) + len(joined.UnmatchedBoundaries)
	return &classified{
		rows: joined.Rows,
		cls:  cls,
		pal:  pal,
		summary: &Summary{
			Counties:            len(joined.Rows),
			Dropped:             dropped,
			UnmatchedRecords:    joined.UnmatchedRecords,
			UnmatchedBoundaries: joined.UnmatchedBoundaries,
			K:                   cls.K(),
			Palette:             pal.Name,
			XBreaks:             cls.XBreaks(),
			YBreaks:             cls.YBreaks(),
			Assignments:         assignments,
		},
	}, nil
}

// Run executes the full pipeline and writes the map image.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	log := zap.L().With(zap.String("component", "pipeline"))
	log.Info("starting run",
		zap.String("dataset", p.cfg.Inputs.Dataset),
		zap.String("boundaries", p.cfg.Inputs.Boundaries))

	var run *store.Run
	if p.store != nil {
		var err error
		run, err = p.store.CreateRun(ctx, store.RunParams{
			DatasetPath:  p.cfg.Inputs.Dataset,
			BoundaryPath: p.cfg.Inputs.Boundaries,
			Palette:      p.cfg.Classify.Palette,
			K:            p.cfg.Classify.K,
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
	}

	summary, err := p.run(ctx)
	if p.store != nil && run != nil {
		if err != nil {
			if failErr := p.store.FailRun(ctx, run.ID, err); failErr != nil {
				log.Warn("failed to record run failure", zap.Error(failErr))
			}
		} else {
			summary.RunID = run.ID
			if saveErr := p.store.SaveAssignments(ctx, run.ID, summary.Assignments); saveErr != nil {
				log.Warn("failed to save assignments", zap.Error(saveErr))
			}
			if doneErr := p.store.CompleteRun(ctx, run.ID, summary.OutputPath, summary.Counties, summary.Dropped); doneErr != nil {
				log.Warn("failed to complete run", zap.Error(doneErr))
			}
		}
	}
	if err != nil {
		return nil, err
	}

	log.Info("run complete",
		zap.Int("counties", summary.Counties),
		zap.Int("dropped", summary.Dropped),
		zap.String("output", summary.OutputPath))
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context) (*Summary, error) {
	c, err := p.classify(ctx)
	if err != nil {
		return nil, err
	}

	background, err := classify.ParseHexColor(p.cfg.Map.Background)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: map background")
	}
	borders, err := classify.ParseHexColor(p.cfg.Map.BordersColor)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: border color")
	}

	counties := make([]render.County, len(c.rows))
	for i, row := range c.rows {
		pair := c.cls.Assign(row.Unemployment, row.DiplomaOrLess)
		counties[i] = render.County{
			Boundary: row.Boundary,
			Fill:     c.pal.Color(pair),
		}
	}

	img, err := render.Map(counties, c.pal, render.MapOptions{
		Title:        p.cfg.Map.Title,
		Width:        p.cfg.Map.Width,
		Ratio:        p.cfg.Map.Ratio,
		Background:   background,
		BordersWidth: p.cfg.Map.BordersWidth,
		BordersColor: borders,
		Labels:       p.cfg.Map.Labels,
		Legend: render.LegendOptions{
			Top:    p.cfg.Legend.Top,
			Right:  p.cfg.Legend.Right,
			BoxW:   p.cfg.Legend.BoxW,
			XLabel: p.cfg.Legend.XLabel,
			YLabel: p.cfg.Legend.YLabel,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := render.WritePNG(p.cfg.Output.Path, img); err != nil {
		return nil, err
	}
	c.summary.OutputPath = p.cfg.Output.Path

	if p.cfg.Output.ScatterPath != "" {
		points := make([]render.ScatterPoint, len(c.rows))
		for i, row := range c.rows {
			points[i] = render.ScatterPoint{
				X:    row.Unemployment,
				Y:    row.DiplomaOrLess,
				Pair: c.cls.Assign(row.Unemployment, row.DiplomaOrLess),
			}
		}
		if err := render.Scatter(p.cfg.Output.ScatterPath, points, c.pal, render.ScatterOptions{
			Title:  p.cfg.Map.Title,
			XLabel: dataset.ColUnemployment,
			YLabel: dataset.ColDiploma,
		}); err != nil {
			return nil, err
		}
		c.summary.ScatterPath = p.cfg.Output.ScatterPath
	}

	return c.summary, nil
}

// EncodeCounties returns the joined boundaries as GeoJSON with each county's
// raw values, bins, and fill color attached as feature properties.
func (p *Pipeline) EncodeCounties(ctx context.Context) ([]byte, error) {
	c, err := p.classify(ctx)
	if err != nil {
		return nil, err
	}

	bounds := make([]boundary.Boundary, len(c.rows))
	extra := make(map[string]map[string]interface{}, len(c.rows))
	for i, row := range c.rows {
		bounds[i] = row.Boundary
		a := c.summary.Assignments[i]
		extra[row.Boundary.Name] = map[string]interface{}{
			dataset.ColUnemployment: a.X,
			dataset.ColDiploma:      a.Y,
			"bin_x":                 a.BinX,
			"bin_y":                 a.BinY,
			"color":                 a.Color,
		}
	}

	nameProperty := p.cfg.Inputs.NameProperty
	if nameProperty == "" {
		nameProperty = boundary.DefaultNameProperty
	}
	return boundary.EncodeGeoJSON(bounds, nameProperty, extra)
}

// Palette returns the configured palette.
func (p *Pipeline) Palette() (*classify.Palette, error) {
	return p.loadPalette()
}

func (p *Pipeline) loadPalette() (*classify.Palette, error) {
	if p.cfg.Classify.PaletteFile != "" {
		return classify.LoadPaletteFile(p.cfg.Classify.PaletteFile)
	}
	return classify.LoadPalette(p.cfg.Classify.Palette)
}

func loadDataset(_ context.Context, inputs config.InputsConfig) ([]dataset.Record, error) {
	if inputs.Dataset == "" {
		return nil, eris.New("pipeline: no dataset configured")
	}
	switch ext := strings.ToLower(filepath.Ext(inputs.Dataset)); ext {
	case ".csv":
		return dataset.ReadCSV(inputs.Dataset)
	case ".xlsx":
		return dataset.ReadXLSX(inputs.Dataset, dataset.XLSXOptions{SheetName: inputs.SheetName})
	default:
		return nil, eris.Errorf("pipeline: unsupported dataset format %q", ext)
	}
}

func loadBoundaries(_ context.Context, inputs config.InputsConfig) ([]boundary.Boundary, error) {
	if inputs.Boundaries == "" {
		return nil, eris.New("pipeline: no boundary file configured")
	}
	nameProperty := inputs.NameProperty
	if nameProperty == "" {
		nameProperty = boundary.DefaultNameProperty
	}
	switch ext := strings.ToLower(filepath.Ext(inputs.Boundaries)); ext {
	case ".geojson", ".json":
		return boundary.ReadGeoJSON(inputs.Boundaries, nameProperty)
	case ".shp":
		return boundary.ReadShapefile(inputs.Boundaries, nameProperty)
	default:
		return nil, eris.Errorf("pipeline: unsupported boundary format %q", ext)
	}
}

// FormatBreaks renders class break values for display.
func FormatBreaks(breaks []float64) string {
	parts := make([]string, len(breaks))
	for i, b := range breaks {
		parts[i] = fmt.Sprintf("%.3f", b)
	}
	return strings.Join(parts, ", ")
}
