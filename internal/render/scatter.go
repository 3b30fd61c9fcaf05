package render

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/sells-group/choromap/internal/classify"
)

// ScatterPoint is one county in indicator space.
type ScatterPoint struct {
	X    float64
	Y    float64
	Pair classify.Pair
}

// ScatterOptions controls the diagnostic scatter plot.
type ScatterOptions struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int
}

// Scatter writes a scatter plot of the raw indicator values, one series per
// class so the chart legend mirrors the bivariate palette.
func Scatter(path string, points []ScatterPoint, pal *classify.Palette, opts ScatterOptions) error {
	if len(points) == 0 {
		return eris.New("render: no points to plot")
	}

	byClass := make(map[classify.Pair][]ScatterPoint)
	for _, p := range points {
		byClass[p.Pair] = append(byClass[p.Pair], p)
	}

	pairs := make([]classify.Pair, 0, len(byClass))
	for pair := range byClass {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Index(pal.K) < pairs[j].Index(pal.K)
	})

	series := make([]chart.Series, 0, len(pairs))
	for _, pair := range pairs {
		pts := byClass[pair]
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i] = p.X
			ys[i] = p.Y
		}
		c := pal.Color(pair)
		series = append(series, chart.ContinuousSeries{
			Name: fmt.Sprintf("bin %d-%d", pair.X, pair.Y),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A},
			},
			XValues: xs,
			YValues: ys,
		})
	}

	width := opts.Width
	if width <= 0 {
		width = 800
	}
	height := opts.Height
	if height <= 0 {
		height = 600
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Name: opts.XLabel},
		YAxis:  chart.YAxis{Name: opts.YLabel},
		Series: series,
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return eris.Wrapf(err, "render: scatter %s", path)
	}

	zap.L().Info("wrote scatter plot",
		zap.String("component", "render"),
		zap.String("path", path),
		zap.Int("classes", len(series)))
	return nil
}
