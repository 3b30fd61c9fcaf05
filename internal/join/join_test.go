package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/choromap/internal/boundary"
	"github.com/sells-group/choromap/internal/dataset"
)

func boundaryNamed(t *testing.T, name string) boundary.Boundary {
	t.Helper()

	mp := geom.NewMultiPolygon(geom.XY)
	poly := geom.NewPolygon(geom.XY)
	ring := geom.NewLinearRingFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0})
	require.NoError(t, poly.Push(ring))
	require.NoError(t, mp.Push(poly))

	return boundary.Boundary{Name: name, Geom: mp}
}

func TestJoin_ExactMatch(t *testing.T) {
	records := []dataset.Record{
		{County: "Alameda", Unemployment: 5.1, DiplomaOrLess: 49.4},
		{County: "Alpine", Unemployment: 7.7, DiplomaOrLess: 64.5},
	}
	bounds := []boundary.Boundary{
		boundaryNamed(t, "Alpine"),
		boundaryNamed(t, "Alameda"),
	}

	res, err := Join(records, bounds, Options{})
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	// Row order follows record order.
	assert.Equal(t, "Alameda", res.Rows[0].County)
	assert.Equal(t, "Alpine", res.Rows[1].County)
	assert.Equal(t, "Alameda", res.Rows[0].Boundary.Name)
	assert.Empty(t, res.UnmatchedRecords)
	assert.Empty(t, res.UnmatchedBoundaries)
}

func TestJoin_DropPolicy(t *testing.T) {
	records := []dataset.Record{
		{County: "Alameda", Unemployment: 5.1, DiplomaOrLess: 49.4},
		{County: "Amador", Unemployment: 5.5, DiplomaOrLess: 69.7},
	}
	bounds := []boundary.Boundary{
		boundaryNamed(t, "Alameda"),
		boundaryNamed(t, "Alpine"),
	}

	res, err := Join(records, bounds, Options{Policy: PolicyDrop})
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"Amador"}, res.UnmatchedRecords)
	assert.Equal(t, []string{"Alpine"}, res.UnmatchedBoundaries)
}

func TestJoin_StrictPolicy(t *testing.T) {
	records := []dataset.Record{{County: "Amador", Unemployment: 5.5, DiplomaOrLess: 69.7}}
	bounds := []boundary.Boundary{boundaryNamed(t, "Alameda")}

	_, err := Join(records, bounds, Options{Policy: PolicyStrict})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Amador"`)
}

func TestJoin_StrictPolicy_ExtraBoundary(t *testing.T) {
	records := []dataset.Record{{County: "Alameda", Unemployment: 5.1, DiplomaOrLess: 49.4}}
	bounds := []boundary.Boundary{
		boundaryNamed(t, "Alameda"),
		boundaryNamed(t, "Alpine"),
	}

	_, err := Join(records, bounds, Options{Policy: PolicyStrict})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Alpine"`)
}

func TestJoin_CaseSensitiveByDefault(t *testing.T) {
	records := []dataset.Record{{County: "ALAMEDA", Unemployment: 5.1, DiplomaOrLess: 49.4}}
	bounds := []boundary.Boundary{boundaryNamed(t, "Alameda")}

	_, err := Join(records, bounds, Options{})
	// Nothing matches; the join fails rather than returning an empty map.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no counties matched")
}

func TestJoin_Normalize(t *testing.T) {
	records := []dataset.Record{{County: "  ALAMEDA ", Unemployment: 5.1, DiplomaOrLess: 49.4}}
	bounds := []boundary.Boundary{boundaryNamed(t, "Alameda")}

	res, err := Join(records, bounds, Options{Normalize: true})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	// Original spellings are preserved on the joined row.
	assert.Equal(t, "  ALAMEDA ", res.Rows[0].County)
	assert.Equal(t, "Alameda", res.Rows[0].Boundary.Name)
}

func TestJoin_DuplicateBoundary(t *testing.T) {
	records := []dataset.Record{{County: "Alameda", Unemployment: 5.1, DiplomaOrLess: 49.4}}
	bounds := []boundary.Boundary{
		boundaryNamed(t, "Alameda"),
		boundaryNamed(t, "Alameda"),
	}

	_, err := Join(records, bounds, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate boundary")
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{input: "", want: PolicyDrop},
		{input: "drop", want: PolicyDrop},
		{input: "strict", want: PolicyStrict},
		{input: "ignore", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}
