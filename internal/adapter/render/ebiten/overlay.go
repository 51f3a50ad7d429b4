// Package ebitenrender uploads minimap frames to the GPU and composites them
// over an ebiten screen.
package ebitenrender

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"minimap/internal/app/minimap"
)

var DefaultOutline = color.NRGBA{R: 255, G: 255, B: 255, A: 160}

// Overlay keeps one GPU image the size of the minimap and rewrites its
// pixels each frame. Must only be used from the ebiten game loop.
type Overlay struct {
	Outline color.Color

	img  *ebiten.Image
	size image.Point
}

func NewOverlay() *Overlay {
	return &Overlay{Outline: DefaultOutline}
}

// Draw composites f onto screen. Hidden and pending frames draw nothing.
func (o *Overlay) Draw(screen *ebiten.Image, f minimap.Frame) {
	if !f.Visible || f.Image == nil || f.Bounds.Empty() {
		return
	}
	size := f.Image.Rect.Size()
	if o.img == nil || o.size != size {
		if o.img != nil {
			o.img.Deallocate()
		}
		o.img = ebiten.NewImage(size.X, size.Y)
		o.size = size
	}
	o.img.WritePixels(f.Image.Pix)

	alpha := alphaScale(f.Opacity)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(f.Bounds.Min.X), float64(f.Bounds.Min.Y))
	op.ColorScale.ScaleAlpha(alpha)
	screen.DrawImage(o.img, op)

	if o.Outline != nil && alpha > 0 {
		x, y, w, h := outlineRect(f.Bounds)
		vector.StrokeRect(screen, x, y, w, h, 1, fade(o.Outline, alpha), false)
	}
}

// Dispose frees the GPU image.
func (o *Overlay) Dispose() {
	if o.img != nil {
		o.img.Deallocate()
		o.img = nil
		o.size = image.Point{}
	}
}

func alphaScale(opacity int) float32 {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 255:
		return 1
	}
	return float32(opacity) / 255
}

// outlineRect insets by half a pixel so a 1px stroke lands on the edge pixels.
func outlineRect(b image.Rectangle) (x, y, w, h float32) {
	return float32(b.Min.X) + 0.5, float32(b.Min.Y) + 0.5, float32(b.Dx()) - 1, float32(b.Dy()) - 1
}

func fade(c color.Color, alpha float32) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float32(n.A) * alpha)
	return n
}
