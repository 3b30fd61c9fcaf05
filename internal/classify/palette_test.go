package classify

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPalette_Builtins(t *testing.T) {
	for _, name := range BuiltinPalettes() {
		p, err := LoadPalette(name)
		require.NoError(t, err, "palette %s", name)
		assert.Equal(t, 3, p.K)
		assert.Len(t, p.Colors, 9)
	}
}

func TestLoadPalette_Unknown(t *testing.T) {
	_, err := LoadPalette("neon-void")
	assert.Error(t, err)
}

func TestPalette_MappingIsTotal(t *testing.T) {
	p, err := LoadPalette("pink-blue")
	require.NoError(t, err)

	seen := make(map[color.RGBA]int)
	for y := 0; y < p.K; y++ {
		for x := 0; x < p.K; x++ {
			c := p.Color(Pair{X: x, Y: y})
			seen[c]++
		}
	}
	// Nine distinct colors, each hit exactly once.
	assert.Len(t, seen, 9)
	for c, n := range seen {
		assert.Equal(t, 1, n, "color %v reused", c)
	}
}

func TestPalette_Corners(t *testing.T) {
	p, err := LoadPalette("pink-blue")
	require.NoError(t, err)

	lowLow := p.Color(Pair{X: 0, Y: 0})
	highHigh := p.Color(Pair{X: 2, Y: 2})

	assert.Equal(t, "#e8e8e8", HexString(lowLow))
	assert.Equal(t, "#3b4994", HexString(highHigh))
}

func TestPalette_OutOfRangePanics(t *testing.T) {
	p, err := LoadPalette("teal-red")
	require.NoError(t, err)

	assert.Panics(t, func() { p.Color(Pair{X: 3, Y: 0}) })
	assert.Panics(t, func() { p.Color(Pair{X: 0, Y: -1}) })
}

func TestLoadPaletteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	doc := `name: two-tone
colors:
  - "#ffffff"
  - "#ff0000"
  - "#0000ff"
  - "#000000"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p, err := LoadPaletteFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two-tone", p.Name)
	assert.Equal(t, 2, p.K)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, p.Color(Pair{X: 0, Y: 0}))
	assert.Equal(t, color.RGBA{A: 0xff}, p.Color(Pair{X: 1, Y: 1}))
}

func TestLoadPaletteFile_NonSquare(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := `colors: ["#ffffff", "#ff0000", "#0000ff"]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadPaletteFile(path)
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{name: "with hash", input: "#5ac8c8", want: color.RGBA{R: 0x5a, G: 0xc8, B: 0xc8, A: 0xff}},
		{name: "without hash", input: "3b4994", want: color.RGBA{R: 0x3b, G: 0x49, B: 0x94, A: 0xff}},
		{name: "too short", input: "#fff", wantErr: true},
		{name: "not hex", input: "#zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
