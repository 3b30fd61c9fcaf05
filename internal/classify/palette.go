package classify

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Palette is a k-by-k matrix of colors for bivariate classification. Colors
// are stored row-major from the low-x/low-y corner: index binX + k*binY.
type Palette struct {
	Name   string
	K      int
	Colors []color.RGBA
}

// Built-in palette hex sets, low/low first, high/high last.
var builtins = map[string][]string{
	"pink-blue": {
		"#e8e8e8", "#ace4e4", "#5ac8c8",
		"#dfb0d6", "#a5add3", "#5698b9",
		"#be64ac", "#8c62aa", "#3b4994",
	},
	"teal-red": {
		"#e8e8e8", "#e4acac", "#c85a5a",
		"#b0d5df", "#ad9ea5", "#985356",
		"#64acbe", "#627f8c", "#574249",
	},
	"blue-orange": {
		"#fef1e4", "#fab186", "#f3742d",
		"#97d0e7", "#b0988c", "#ab5f37",
		"#18aee5", "#407b8f", "#5c473d",
	},
}

// BuiltinPalettes returns the names of the built-in palettes, sorted.
func BuiltinPalettes() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPalette returns a built-in palette by name.
func LoadPalette(name string) (*Palette, error) {
	hexes, ok := builtins[name]
	if !ok {
		return nil, eris.Errorf("classify: unknown palette %q (have: %s)",
			name, strings.Join(BuiltinPalettes(), ", "))
	}
	return newPalette(name, hexes)
}

// paletteFile is the YAML document shape for custom palettes.
type paletteFile struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// LoadPaletteFile reads a custom palette from a YAML file containing a name
// and a square list of hex colors, low/low first.
func LoadPaletteFile(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: read palette file %s", path)
	}

	var pf paletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, eris.Wrapf(err, "classify: parse palette file %s", path)
	}
	if pf.Name == "" {
		pf.Name = strings.TrimSuffix(path, ".yaml")
	}

	return newPalette(pf.Name, pf.Colors)
}

// newPalette validates the color list and parses hex triples. The list
// length must be a perfect square (k*k for some k >= 2).
func newPalette(name string, hexes []string) (*Palette, error) {
	k := intSqrt(len(hexes))
	if k < 2 || k*k != len(hexes) {
		return nil, eris.Errorf("classify: palette %q needs a square color count >= 4, got %d", name, len(hexes))
	}

	colors := make([]color.RGBA, len(hexes))
	for i, h := range hexes {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, eris.Wrapf(err, "classify: palette %q color %d", name, i)
		}
		colors[i] = c
	}

	return &Palette{Name: name, K: k, Colors: colors}, nil
}

// Color returns the palette color for a class pair. A pair outside
// [0,k)x[0,k) is a programming error and panics.
func (p *Palette) Color(pair Pair) color.RGBA {
	if pair.X < 0 || pair.X >= p.K || pair.Y < 0 || pair.Y >= p.K {
		panic(fmt.Sprintf("classify: class pair (%d,%d) outside palette grid %dx%d", pair.X, pair.Y, p.K, p.K))
	}
	return p.Colors[pair.Index(p.K)]
}

// ParseHexColor parses a "#rrggbb" hex string into an opaque RGBA color.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, eris.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, eris.Wrapf(err, "invalid hex color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}

// HexString formats a color back to "#rrggbb".
func HexString(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func intSqrt(n int) int {
	for k := 0; k*k <= n; k++ {
		if k*k == n {
			return k
		}
	}
	return -1
}
