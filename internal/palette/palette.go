// Package palette generates and parses the per-label color table used by
// both renderers: an HSV-spread default palette plus explicit hex overrides,
// indexed by label with a modulo wrap so any palette size resolves every
// 16-bit label value.
package palette

import (
	"fmt"
	"image/color"
	"math/rand"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxLabels is the largest palette the 16-bit label range can ever need.
const MaxLabels = 65536

// Palette holds one RGBA color per label index, with a modulo-sized wrap so
// a small explicit palette still resolves every 16-bit label value.
type Palette struct {
	colors []color.RGBA
}

// Size returns the number of distinct colors in the palette (before the
// mod-size wrap).
func (p Palette) Size() int { return len(p.colors) }

// ColorFor returns the color assigned to a label, via label mod Size().
func (p Palette) ColorFor(label uint16) color.RGBA {
	return p.colors[int(label)%len(p.colors)]
}

// Default returns a deterministic HSV-spread palette of n colors, generated
// with go-colorful: n colors, one per equal hue step around the wheel,
// each hue jittered forward by up to 30% of a step and given a seeded
// random saturation and value in [0.55, 0.9).
func Default(n int, seed int64) (Palette, error) {
	if n <= 0 || n > MaxLabels {
		return Palette{}, fmt.Errorf("palette: invalid size %d (want 1..%d)", n, MaxLabels)
	}
	r := rand.New(rand.NewSource(seed))
	colors := make([]color.RGBA, n)
	hueStep := 360.0 / float64(n)
	for i := 0; i < n; i++ {
		hue := float64(i)*hueStep + r.Float64()*hueStep*0.3
		sat := 0.55 + r.Float64()*0.35
		val := 0.55 + r.Float64()*0.35
		c := colorful.Hsv(hue, sat, val)
		red, green, blue := c.RGB255()
		colors[i] = color.RGBA{R: red, G: green, B: blue, A: 255}
	}
	return Palette{colors: colors}, nil
}

// FromHex builds a palette from a list of hex color strings in #rgb,
// #rrggbb, or #rrggbbaa form. Resource exhaustion (more colors than the
// platform texture limit allows) is the caller's concern at GPU upload
// time; this just parses.
func FromHex(hexColors []string) (Palette, error) {
	if len(hexColors) == 0 {
		return Palette{}, fmt.Errorf("palette: empty color list")
	}
	if len(hexColors) > MaxLabels {
		return Palette{}, fmt.Errorf("palette: %d colors exceeds max %d", len(hexColors), MaxLabels)
	}
	colors := make([]color.RGBA, len(hexColors))
	for i, hex := range hexColors {
		c, err := parseHex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette: color %d (%q): %w", i, hex, err)
		}
		colors[i] = c
	}
	return Palette{colors: colors}, nil
}

// parseHex parses #rgb, #rrggbb, or #rrggbbaa into an RGBA color. go-colorful
// only parses #rrggbb, so the #rgb and #rrggbbaa forms are expanded/split
// here before delegating to it for the RGB component.
func parseHex(hex string) (color.RGBA, error) {
	h := strings.TrimPrefix(hex, "#")

	var alpha uint8 = 255
	switch len(h) {
	case 3: // #rgb -> #rrggbb
		expanded := make([]byte, 0, 6)
		for _, c := range []byte(h) {
			expanded = append(expanded, c, c)
		}
		h = string(expanded)
	case 6: // #rrggbb
	case 8: // #rrggbbaa
		a, err := strconv.ParseUint(h[6:8], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha component: %w", err)
		}
		alpha = uint8(a)
		h = h[:6]
	default:
		return color.RGBA{}, fmt.Errorf("unsupported hex color length %d", len(h))
	}

	c, err := colorful.Hex("#" + h)
	if err != nil {
		return color.RGBA{}, err
	}
	red, green, blue := c.RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: alpha}, nil
}
