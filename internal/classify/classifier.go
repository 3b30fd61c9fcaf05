package classify

import (
	"github.com/rotisserie/eris"
)

// Pair is a bivariate class assignment: bin indices for the x and y series,
// each in [0, k).
type Pair struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Index returns the row-major position of the pair in a k-by-k palette,
// counting from the low-x/low-y corner.
func (p Pair) Index(k int) int { return p.X + k*p.Y }

// Classifier holds fitted break points for two series and assigns class
// pairs. Fitting is deterministic: identical input yields identical breaks
// and therefore identical assignments.
type Classifier struct {
	k       int
	xBreaks []float64
	yBreaks []float64
}

// Fit computes quantile breaks for both series. The series must be non-empty
// and of equal length.
func Fit(xs, ys []float64, k int) (*Classifier, error) {
	if len(xs) != len(ys) {
		return nil, eris.Errorf("classify: series length mismatch: %d vs %d", len(xs), len(ys))
	}

	xb, err := Breaks(xs, k)
	if err != nil {
		return nil, eris.Wrap(err, "classify: fit x series")
	}
	yb, err := Breaks(ys, k)
	if err != nil {
		return nil, eris.Wrap(err, "classify: fit y series")
	}

	return &Classifier{k: k, xBreaks: xb, yBreaks: yb}, nil
}

// K returns the class count per axis.
func (c *Classifier) K() int { return c.k }

// XBreaks returns the fitted break points for the x series.
func (c *Classifier) XBreaks() []float64 { return c.xBreaks }

// YBreaks returns the fitted break points for the y series.
func (c *Classifier) YBreaks() []float64 { return c.yBreaks }

// Assign returns the class pair for an (x, y) value pair.
func (c *Classifier) Assign(x, y float64) Pair {
	return Pair{X: Bin(x, c.xBreaks), Y: Bin(y, c.yBreaks)}
}
