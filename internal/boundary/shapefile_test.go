package boundary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeShapefile(t *testing.T, names []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "counties.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	w.SetFields([]shp.Field{shp.StringField("COUNTY_NAME", 40)})

	for i, name := range names {
		// Unit square offset per feature so extents differ.
		off := float64(i)
		ring := []shp.Point{
			{X: off, Y: 0}, {X: off + 1, Y: 0},
			{X: off + 1, Y: 1}, {X: off, Y: 1},
			{X: off, Y: 0},
		}
		pl := shp.NewPolyLine([][]shp.Point{ring})
		poly := shp.Polygon(*pl)
		n := w.Write(&poly)
		// go-shp v0.1.1 leaves unwritten DBF bytes as NUL; pad to the field
		// size with spaces as the DBF format specifies.
		padded := name + strings.Repeat(" ", 40-len(name))
		require.NoError(t, w.WriteAttribute(int(n), 0, padded))
	}

	w.Close()

	// go-shp v0.1.1's Writer names the attribute file "<base>dbf" (no dot)
	// while its Reader opens "<base>.dbf"; rename so ReadShapefile finds it.
	base := path[:len(path)-len(".shp")]
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	return path
}

func TestReadShapefile(t *testing.T) {
	path := writeShapefile(t, []string{"Alameda", "Alpine"})

	bounds, err := ReadShapefile(path, "COUNTY_NAME")
	require.NoError(t, err)
	require.Len(t, bounds, 2)

	assert.Equal(t, "Alameda", bounds[0].Name)
	assert.Equal(t, "Alpine", bounds[1].Name)
	assert.Equal(t, 1, bounds[0].Geom.NumPolygons())

	box, err := Extent(bounds)
	require.NoError(t, err)
	assert.Equal(t, 0.0, box.MinLon)
	assert.Equal(t, 2.0, box.MaxLon)
}

func TestReadShapefile_MissingNameField(t *testing.T) {
	path := writeShapefile(t, []string{"Alameda"})

	_, err := ReadShapefile(path, "NAME")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "NAME" field`)
}

func TestReadShapefile_MissingFile(t *testing.T) {
	_, err := ReadShapefile(filepath.Join(t.TempDir(), "nope.shp"), "COUNTY_NAME")
	assert.Error(t, err)
}
