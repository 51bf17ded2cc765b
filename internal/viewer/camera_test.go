package viewer

import (
	"math"
	"testing"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/sexp"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera(800, 600)
	c.CenterX, c.CenterY, c.Zoom = 120, -40, 2.5

	x, y := c.WorldToScreen(sexp.Position{X: 17, Y: 33})
	got := c.ScreenToWorld(x, y)
	if !near(got.X, 17) || !near(got.Y, 33) {
		t.Errorf("Expected (17, 33) back, got (%v, %v)", got.X, got.Y)
	}
}

func TestCameraFit(t *testing.T) {
	c := NewCamera(1000, 500)
	c.Fit(2000, 500)

	// Width limits: 1000*0.95/2000
	if !near(c.Zoom, 0.475) {
		t.Errorf("Expected zoom 0.475, got %v", c.Zoom)
	}
	x, y := c.WorldToScreen(sexp.Position{X: 1000, Y: 250})
	if !near(x, 500) || !near(y, 250) {
		t.Errorf("Expected page center at screen center, got (%v, %v)", x, y)
	}

	c.Fit(0, 10)
	if !near(c.Zoom, 0.475) {
		t.Error("Expected an empty page to leave the camera alone")
	}
}

func TestCameraZoomAtKeepsCursorPoint(t *testing.T) {
	c := NewCamera(800, 600)
	before := c.ScreenToWorld(100, 150)

	c.ZoomAt(100, 150, 1.5)
	after := c.ScreenToWorld(100, 150)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("Expected %v under the cursor, got %v", before, after)
	}
	if !near(c.Zoom, 1.5) {
		t.Errorf("Expected zoom 1.5, got %v", c.Zoom)
	}

	c.ZoomAt(0, 0, 1000)
	if c.Zoom != MaxZoom {
		t.Errorf("Expected zoom clamped to %v, got %v", MaxZoom, c.Zoom)
	}
	c.ZoomAt(0, 0, -1)
	if c.Zoom != MaxZoom {
		t.Error("Expected a non-positive factor to be ignored")
	}
}

func TestCameraPanFollowsPointer(t *testing.T) {
	c := NewCamera(800, 600)
	c.Zoom = 2
	x0, y0 := c.WorldToScreen(sexp.Position{X: 10, Y: 10})

	c.Pan(30, -20)
	x1, y1 := c.WorldToScreen(sexp.Position{X: 10, Y: 10})
	if !near(x1-x0, 30) || !near(y1-y0, -20) {
		t.Errorf("Expected the page to move by (30, -20), got (%v, %v)", x1-x0, y1-y0)
	}
}
