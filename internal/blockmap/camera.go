package blockmap

// Zoom bounds and step factor
const (
	ZoomMin  = 0.1
	ZoomMax  = 10.0
	ZoomStep = 1.5
)

// Camera holds the zoom factor and pan offset that define the affine
// transform between world (grid) coordinates and screen coordinates.
// Created at mount with identity values; never persisted.
type Camera struct {
	Zoom             float64
	OffsetX, OffsetY float64 // world units, pre-scale
}

// NewCamera returns an identity camera (zoom 1, no offset)
func NewCamera() Camera {
	return Camera{Zoom: 1}
}

// ZoomIn multiplies zoom by the step factor, clamped to the range
func (c *Camera) ZoomIn() {
	c.Zoom = clampZoom(c.Zoom * ZoomStep)
}

// ZoomOut divides zoom by the step factor, clamped to the range
func (c *Camera) ZoomOut() {
	c.Zoom = clampZoom(c.Zoom / ZoomStep)
}

// Pan moves the viewport by a screen-space delta. The delta is divided
// by the current zoom so panning feels linear at any zoom level.
func (c *Camera) Pan(dx, dy float64) {
	c.OffsetX += dx / c.Zoom
	c.OffsetY += dy / c.Zoom
}

// Reset restores zoom 1 and zero offset
func (c *Camera) Reset() {
	c.Zoom = 1
	c.OffsetX = 0
	c.OffsetY = 0
}

// ScreenToWorld is the inverse of WorldToScreen:
// world = screen/zoom - offset
func (c Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx/c.Zoom - c.OffsetX, sy/c.Zoom - c.OffsetY
}

// WorldToScreen applies scale(zoom) then translate(offset):
// screen = (world + offset) * zoom
// The renderer and hit-testing must both go through this pair; a
// mismatch in composition order is a correctness bug.
func (c Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return (wx + c.OffsetX) * c.Zoom, (wy + c.OffsetY) * c.Zoom
}

func clampZoom(z float64) float64 {
	if z < ZoomMin {
		return ZoomMin
	}
	if z > ZoomMax {
		return ZoomMax
	}
	return z
}
