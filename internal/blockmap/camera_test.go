package blockmap

import (
	"math"
	"testing"
)

func TestCameraRoundTrip(t *testing.T) {
	cams := []Camera{
		NewCamera(),
		{Zoom: 1.5, OffsetX: 10, OffsetY: -4},
		{Zoom: 0.1, OffsetX: -100, OffsetY: 250},
		{Zoom: 10, OffsetX: 0.25, OffsetY: 0.75},
	}
	points := []struct{ x, y float64 }{
		{0, 0}, {1, 1}, {-5, 3}, {123.5, 77.25}, {-0.001, 9999},
	}

	for _, cam := range cams {
		for _, p := range points {
			sx, sy := cam.WorldToScreen(p.x, p.y)
			wx, wy := cam.ScreenToWorld(sx, sy)
			if math.Abs(wx-p.x) > 1e-9 || math.Abs(wy-p.y) > 1e-9 {
				t.Errorf("cam %+v: round trip of (%g,%g) gave (%g,%g)",
					cam, p.x, p.y, wx, wy)
			}
		}
	}
}

func TestCameraZoomSequence(t *testing.T) {
	// zoomIn, zoomIn, zoomOut from 1 with factor 1.5 lands on 1.5
	cam := NewCamera()
	cam.ZoomIn()
	cam.ZoomIn()
	cam.ZoomOut()
	if math.Abs(cam.Zoom-1.5) > 1e-9 {
		t.Errorf("zoom = %g, want 1.5", cam.Zoom)
	}
}

func TestCameraZoomClamped(t *testing.T) {
	cam := NewCamera()
	for i := 0; i < 50; i++ {
		cam.ZoomIn()
	}
	if cam.Zoom != ZoomMax {
		t.Errorf("zoom = %g after many zoomIn, want %g", cam.Zoom, ZoomMax)
	}
	for i := 0; i < 50; i++ {
		cam.ZoomOut()
	}
	if cam.Zoom != ZoomMin {
		t.Errorf("zoom = %g after many zoomOut, want %g", cam.Zoom, ZoomMin)
	}
}

func TestCameraPanScalesWithZoom(t *testing.T) {
	cam := NewCamera()
	cam.Pan(10, 20)
	if cam.OffsetX != 10 || cam.OffsetY != 20 {
		t.Errorf("pan at zoom 1: offset (%g,%g), want (10,20)", cam.OffsetX, cam.OffsetY)
	}

	cam = Camera{Zoom: 2}
	cam.Pan(10, 20)
	if cam.OffsetX != 5 || cam.OffsetY != 10 {
		t.Errorf("pan at zoom 2: offset (%g,%g), want (5,10)", cam.OffsetX, cam.OffsetY)
	}
}

func TestCameraResetIdempotent(t *testing.T) {
	cams := []Camera{
		NewCamera(),
		{Zoom: 7.3, OffsetX: -42, OffsetY: 17},
		{Zoom: ZoomMin, OffsetX: 1e6, OffsetY: -1e6},
	}
	for _, cam := range cams {
		cam.Reset()
		if cam.Zoom != 1 || cam.OffsetX != 0 || cam.OffsetY != 0 {
			t.Errorf("after reset: %+v, want identity", cam)
		}
		cam.Reset()
		if cam.Zoom != 1 || cam.OffsetX != 0 || cam.OffsetY != 0 {
			t.Errorf("second reset changed state: %+v", cam)
		}
	}
}
