// Package terminal draws minimap frames into a tcell screen using half-block
// cells, two image rows per terminal row.
package terminal

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"minimap/internal/app/minimap"
)

const halfBlock = '▀'

// Renderer maps the host screen onto the terminal so the minimap keeps its
// anchor and relative size.
type Renderer struct {
	screen   tcell.Screen
	backdrop colorful.Color
}

func NewRenderer(screen tcell.Screen, backdrop color.Color) *Renderer {
	bg, ok := colorful.MakeColor(backdrop)
	if !ok {
		bg = colorful.Color{}
	}
	return &Renderer{screen: screen, backdrop: bg}
}

// Draw paints f over the backdrop. hostW and hostH are the game screen size
// the frame bounds refer to.
func (r *Renderer) Draw(f minimap.Frame, hostW, hostH int) {
	cols, rows := r.screen.Size()
	bgStyle := tcell.StyleDefault.Background(toTcell(r.backdrop))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r.screen.SetContent(x, y, ' ', nil, bgStyle)
		}
	}
	if !f.Visible || f.Image == nil || hostW <= 0 || hostH <= 0 || cols <= 0 || rows <= 0 {
		return
	}

	// horizontal cells and vertical half cells per host pixel
	sx := float64(cols) / float64(hostW)
	sy := float64(rows*2) / float64(hostH)
	x0 := f.Bounds.Min.X * cols / hostW
	x1 := f.Bounds.Max.X * cols / hostW
	y0 := f.Bounds.Min.Y * rows * 2 / hostH
	y1 := f.Bounds.Max.Y * rows * 2 / hostH
	alpha := float64(f.Opacity) / 255

	for cy := y0 / 2; cy*2 < y1 && cy < rows; cy++ {
		for cx := x0; cx < x1 && cx < cols; cx++ {
			top := r.sample(f, cx, cy*2, sx, sy, alpha)
			bottom := r.sample(f, cx, cy*2+1, sx, sy, alpha)
			if cy*2 < y0 {
				top = r.backdrop
			}
			if cy*2+1 >= y1 {
				bottom = r.backdrop
			}
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			r.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
}

// sample returns the blended color of the frame pixel under half cell
// (cx, hy), nearest neighbour.
func (r *Renderer) sample(f minimap.Frame, cx, hy int, sx, sy, alpha float64) colorful.Color {
	px := int((float64(cx)+0.5)/sx) - f.Bounds.Min.X
	py := int((float64(hy)+0.5)/sy) - f.Bounds.Min.Y
	p := image.Pt(px, py).Add(f.Image.Rect.Min)
	if !p.In(f.Image.Rect) {
		return r.backdrop
	}
	c := color.NRGBAModel.Convert(f.Image.At(p.X, p.Y)).(color.NRGBA)
	if c.A == 0 {
		return r.backdrop
	}
	fg := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return r.backdrop.BlendRgb(fg, alpha*float64(c.A)/255).Clamped()
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
