package minimap

import (
	"image"
	"math"

	"minimap/internal/domain/world"
)

// Viewport is where the minimap sits on screen and how big one map tile is
// inside it.
type Viewport struct {
	Bounds image.Rectangle
	CellW  float64
	CellH  float64
}

// ComputeViewport scales the map uniformly to fit the configured share of
// the screen and anchors it.
func ComputeViewport(screenW, screenH, mapW, mapH int, cfg Config) Viewport {
	if mapW <= 0 || mapH <= 0 || screenW <= 0 || screenH <= 0 {
		return Viewport{}
	}
	maxW := float64(screenW) * cfg.MaxWidthPercent / 100
	maxH := float64(screenH) * cfg.MaxHeightPercent / 100
	scale := math.Min(maxW/float64(mapW), maxH/float64(mapH))
	w := int(math.Floor(float64(mapW) * scale))
	h := int(math.Floor(float64(mapH) * scale))

	var x, y int
	switch cfg.Horizontal {
	case Center:
		x = (screenW - w) / 2
	case Right:
		x = screenW - w
	}
	switch cfg.Vertical {
	case Middle:
		y = (screenH - h) / 2
	case Bottom:
		y = screenH - h
	}
	return Viewport{
		Bounds: image.Rect(x, y, x+w, y+h),
		CellW:  float64(w) / float64(mapW),
		CellH:  float64(h) / float64(mapH),
	}
}

func (v Viewport) Empty() bool {
	return v.Bounds.Empty()
}

// Project maps a tile position to the center of its cell, relative to the
// viewport origin.
func (v Viewport) Project(p world.Position) (float64, float64) {
	return p.X*v.CellW + v.CellW/2, p.Y*v.CellH + v.CellH/2
}
