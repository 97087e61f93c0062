package geom

import "math"

const (
	// EuclideanMinZoom and EuclideanMaxZoom bound the Euclidean zoom level.
	EuclideanMinZoom = 0.1
	EuclideanMaxZoom = 100.0

	// euclideanZoomStep is the per-wheel-notch multiplicative zoom factor
	// base: newZoom = zoom * euclideanZoomStep^delta.
	euclideanZoomStep = 1.1

	// euclideanScaleFactor is the fraction of min(width,height) that a unit
	// of data space occupies at zoom=1.
	euclideanScaleFactor = 0.4
)

// EuclideanView is the Euclidean view state: the data-space point centered
// in the viewport, plus a zoom factor. Immutable value type — every
// operation below returns a new EuclideanView rather than mutating one.
type EuclideanView struct {
	CenterX, CenterY float64
	Zoom             float64
}

// NewEuclideanView returns the default view: centered at the origin, unit
// zoom.
func NewEuclideanView() EuclideanView {
	return EuclideanView{Zoom: 1.0}
}

// ClampEuclideanZoom clamps a zoom value to the valid range.
func ClampEuclideanZoom(zoom float64) float64 {
	if zoom < EuclideanMinZoom {
		return EuclideanMinZoom
	}
	if zoom > EuclideanMaxZoom {
		return EuclideanMaxZoom
	}
	return zoom
}

// euclideanScale returns the data-to-screen-pixel scale factor for the given
// viewport and zoom.
func euclideanScale(width, height int, zoom float64) float64 {
	return math.Min(float64(width), float64(height)) * euclideanScaleFactor * zoom
}

// EuclideanScale exposes euclideanScale to other packages that need to fold
// the data-to-screen projection into their own affine composition — the GPU
// candidate renderer's view-matrix uniform, in particular.
func EuclideanScale(width, height int, zoom float64) float64 {
	return euclideanScale(width, height, zoom)
}

// ProjectEuclidean maps a data-space point to screen pixels.
func ProjectEuclidean(view EuclideanView, width, height int, x, y float64) (sx, sy float64) {
	s := euclideanScale(width, height, view.Zoom)
	sx = float64(width)/2 + (x-view.CenterX)*s
	sy = float64(height)/2 - (y-view.CenterY)*s
	return sx, sy
}

// UnprojectEuclidean maps a screen-pixel point back to data space.
func UnprojectEuclidean(view EuclideanView, width, height int, sx, sy float64) (x, y float64) {
	s := euclideanScale(width, height, view.Zoom)
	x = view.CenterX + (sx-float64(width)/2)/s
	y = view.CenterY - (sy-float64(height)/2)/s
	return x, y
}

// PanEuclidean translates the view by a screen-pixel delta. Anchor-invariant
// by construction: the data point under the cursor before the pan is under
// the cursor (offset by dx,dy) after it, since the scale is unaffected by
// pan.
func PanEuclidean(view EuclideanView, width, height int, dx, dy float64) EuclideanView {
	s := euclideanScale(width, height, view.Zoom)
	return EuclideanView{
		CenterX: view.CenterX - dx/s,
		CenterY: view.CenterY + dy/s,
		Zoom:    view.Zoom,
	}
}

// ZoomEuclidean applies a wheel-notch zoom delta anchored at the given
// screen position: the data point under (anchorX, anchorY) before the zoom
// remains under it after.
func ZoomEuclidean(view EuclideanView, width, height int, anchorX, anchorY, delta float64) EuclideanView {
	anchorDataX, anchorDataY := UnprojectEuclidean(view, width, height, anchorX, anchorY)

	newZoom := ClampEuclideanZoom(view.Zoom * math.Pow(euclideanZoomStep, delta))
	newScale := euclideanScale(width, height, newZoom)

	// Recompute center so the anchor data point re-projects to the same
	// screen position under the new scale.
	newCenterX := anchorDataX - (anchorX-float64(width)/2)/newScale
	newCenterY := anchorDataY + (anchorY-float64(height)/2)/newScale

	return EuclideanView{CenterX: newCenterX, CenterY: newCenterY, Zoom: newZoom}
}
