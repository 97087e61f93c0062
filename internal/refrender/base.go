// Package refrender implements the reference renderer: the semantic ground
// truth against which the GPU candidate renderer (internal/gpurender) is
// checked by the accuracy harness. It rasterizes naively, point by point,
// onto a Go image.RGBA — the stdlib's nearest equivalent to an immediate-
// mode 2D rasterization API, since Go has no canvas/context type of its
// own.
package refrender

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/palette"
)

const (
	defaultPointRadius = 3.0
	hitTestSlackPx     = 5.0 // hitTest accepts within (r+5)² screen-pixels
)

// Stats tracks the reference renderer's performance as a plain struct;
// Render updates LastRenderTimeUs on every frame.
type Stats struct {
	LastRenderTimeUs float64
}

// base holds the state and drawing primitives shared by both geometry
// implementations: the backing image, current dataset/selection/hover
// state, and palette. Geometry-specific behavior (projection, pan, zoom,
// backdrop) is NOT here — each of Euclidean and Poincare embeds base and
// adds its own view state and math.
type base struct {
	width, height int
	dpr           float64

	img *image.RGBA

	ds          *dataset.Dataset
	selection   dataset.Selection
	hovered     int
	pal         palette.Palette
	pointRadius float64

	bgColor        color.RGBA
	selectionColor color.RGBA

	stats Stats
}

func newBase() base {
	return base{
		hovered:        -1,
		pointRadius:    defaultPointRadius,
		bgColor:        color.RGBA{255, 255, 255, 255},
		selectionColor: color.RGBA{255, 64, 64, 255},
	}
}

// reinit (Re)allocates the backing buffer at width·dpr × height·dpr. Called
// from Init and Resize: Go's image.RGBA has no persistent transform to
// leak, so a fresh buffer at the correct backing resolution guarantees no
// compounding state across reinitialization.
func (b *base) reinit(width, height int, dpr float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("refrender: invalid viewport dimensions %dx%d", width, height)
	}
	if dpr <= 0 {
		dpr = 1
	}
	b.width, b.height, b.dpr = width, height, dpr
	bw, bh := int(float64(width)*dpr), int(float64(height)*dpr)
	b.img = image.NewRGBA(image.Rect(0, 0, bw, bh))
	return nil
}

func (b *base) clear() {
	draw.Draw(b.img, b.img.Bounds(), &image.Uniform{C: b.bgColor}, image.Point{}, draw.Src)
}

// px maps a CSS-pixel screen coordinate to a backing-buffer pixel
// coordinate via the DPR scale.
func (b *base) px(sx, sy float64) (int, int) {
	return int(sx * b.dpr), int(sy * b.dpr)
}

// drawFilledCircle rasterizes a filled circle of the given CSS-pixel radius
// centered at a CSS-pixel (sx,sy), scaled to the backing buffer by DPR.
func (b *base) drawFilledCircle(sx, sy, radius float64, c color.RGBA) {
	cx, cy := b.px(sx, sy)
	r := int(math.Ceil(radius * b.dpr))
	rSq := float64(r) * float64(r)
	bounds := b.img.Bounds()
	for dy := -r; dy <= r; dy++ {
		y := cy + dy
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			x := cx + dx
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			if float64(dx*dx+dy*dy) <= rSq {
				b.img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawRing rasterizes an unfilled ring of the given CSS-pixel radius and
// stroke width.
func (b *base) drawRing(sx, sy, radius, strokeWidth float64, c color.RGBA) {
	cx, cy := b.px(sx, sy)
	outer := radius * b.dpr
	inner := outer - strokeWidth*b.dpr
	if inner < 0 {
		inner = 0
	}
	outerSq, innerSq := outer*outer, inner*inner
	r := int(math.Ceil(outer))
	bounds := b.img.Bounds()
	for dy := -r; dy <= r; dy++ {
		y := cy + dy
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			x := cx + dx
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			distSq := float64(dx*dx + dy*dy)
			if distSq <= outerSq && distSq >= innerSq {
				b.img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawLine draws a 1px-wide line between two CSS-pixel points using
// Bresenham's algorithm on the backing buffer.
func (b *base) drawLine(x0, y0, x1, y1 float64, c color.RGBA) {
	px0, py0 := b.px(x0, y0)
	px1, py1 := b.px(x1, y1)
	dx := int(math.Abs(float64(px1 - px0)))
	dy := -int(math.Abs(float64(py1 - py0)))
	sx, sy := 1, 1
	if px0 > px1 {
		sx = -1
	}
	if py0 > py1 {
		sy = -1
	}
	err := dx + dy
	bounds := b.img.Bounds()
	x, y := px0, py0
	for {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			b.img.SetRGBA(x, y, c)
		}
		if x == px1 && y == py1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// Image exposes the backing buffer, mainly for tests and screenshot/GIF
// capture, an out-of-scope collaborator this just provides the hook for.
func (b *base) Image() *image.RGBA { return b.img }

// validateDataset reports an error when the dataset's geometry does not
// match the renderer's; SetDataset calls it before replacing the dataset.
func validateDataset(ds *dataset.Dataset, want dataset.Geometry) error {
	if ds.Geometry != want {
		return fmt.Errorf("refrender: dataset geometry %s does not match renderer geometry %s", ds.Geometry, want)
	}
	return nil
}

func (b *base) setDataset(ds *dataset.Dataset) {
	b.ds = ds
	b.hovered = -1
	b.selection = nil
}

func (b *base) setSelection(sel dataset.Selection) { b.selection = sel }
func (b *base) getSelection() dataset.Selection    { return b.selection }
func (b *base) setHovered(i int)                   { b.hovered = i }

func (b *base) destroy() {
	b.img = nil
	b.ds = nil
	b.selection = nil
}
