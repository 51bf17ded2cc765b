// Package viewer holds the view state of the page preview window.
package viewer

import (
	"math"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
)

// Zoom limits, in screen pixels per page pixel.
const (
	MinZoom = 0.02
	MaxZoom = 32.0
)

// fitMargin is the share of the window a fitted page fills.
const fitMargin = 0.95

// Camera is a viewport onto a rendered page. World coordinates are page
// pixels with y increasing downward, like the screen.
type Camera struct {
	// Center position in world coordinates
	CenterX float64
	CenterY float64

	// Zoom level (screen pixels per page pixel)
	Zoom float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int
}

// NewCamera creates a camera at zoom 1 looking at the world origin.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         1,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts page pixels to screen pixels.
func (c *Camera) WorldToScreen(pos sexp.Position) (float64, float64) {
	x := (pos.X-c.CenterX)*c.Zoom + float64(c.ScreenWidth)/2
	y := (pos.Y-c.CenterY)*c.Zoom + float64(c.ScreenHeight)/2
	return x, y
}

// ScreenToWorld converts screen pixels to page pixels.
func (c *Camera) ScreenToWorld(screenX, screenY float64) sexp.Position {
	return sexp.Position{
		X: (screenX-float64(c.ScreenWidth)/2)/c.Zoom + c.CenterX,
		Y: (screenY-float64(c.ScreenHeight)/2)/c.Zoom + c.CenterY,
	}
}

// Pan moves the camera by screen pixel offsets, so the page follows
// the pointer.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.Zoom
	c.CenterY -= deltaY / c.Zoom
}

// ZoomAt zooms in/out at a specific screen position
// factor > 1 zooms in, factor < 1 zooms out
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	if factor <= 0 {
		return
	}
	// Get world position before zoom
	worldPos := c.ScreenToWorld(screenX, screenY)

	c.Zoom = math.Min(MaxZoom, math.Max(MinZoom, c.Zoom*factor))

	// Keep the point under the cursor stationary
	newWorldPos := c.ScreenToWorld(screenX, screenY)
	c.CenterX += worldPos.X - newWorldPos.X
	c.CenterY += worldPos.Y - newWorldPos.Y
}

// Fit centers a width×height page and zooms so it fills the window.
func (c *Camera) Fit(width, height float64) {
	if width <= 0 || height <= 0 || c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return
	}
	c.CenterX = width / 2
	c.CenterY = height / 2

	// Use the smaller zoom to ensure everything fits
	zoomX := float64(c.ScreenWidth) * fitMargin / width
	zoomY := float64(c.ScreenHeight) * fitMargin / height
	c.Zoom = math.Min(MaxZoom, math.Max(MinZoom, math.Min(zoomX, zoomY)))
}

// UpdateScreenSize updates camera when window is resized
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}
