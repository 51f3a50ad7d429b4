package minimap

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"minimap/internal/domain/marker"
	"minimap/internal/domain/palette"
	"minimap/internal/domain/world"
)

const dotRadius = 2

// Dot is a filled circle drawn on the minimap, in viewport coordinates.
type Dot struct {
	Spec  string      `json:"spec,omitempty"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Color color.NRGBA `json:"-"`
}

// Frame is what one tick of the minimap produced. Image is owned by the view
// and reused on the next tick.
type Frame struct {
	MapID   int             `json:"map_id"`
	Visible bool            `json:"visible"`
	Pending bool            `json:"pending"`
	Opacity int             `json:"opacity"`
	Bounds  image.Rectangle `json:"-"`
	Area    Area            `json:"bounds"`
	Image   *image.RGBA     `json:"-"`
	Player  Dot             `json:"player"`
	Markers []Dot           `json:"markers"`
	Skipped int             `json:"skipped"`
}

// Area is Bounds in screen pixels, for clients that only see the JSON.
type Area struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func areaOf(r image.Rectangle) Area {
	return Area{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// View composes the visible frame: scaled map, markers, then the player.
type View struct {
	palette palette.Palette
	canvas  *image.RGBA
	raster  *vector.Rasterizer
	colors  map[string]color.NRGBA
}

func NewView(pal palette.Palette) *View {
	return &View{
		palette: pal,
		raster:  vector.NewRasterizer(0, 0),
		colors:  map[string]color.NRGBA{},
	}
}

// DrawInput is the state a single composition reads.
type DrawInput struct {
	Texture  *Texture
	Viewport Viewport
	Player   world.Position
	Markers  map[string]string
	// Specs is the draw order of Markers.
	Specs  []string
	Lookup marker.Lookup
}

func (v *View) Draw(in DrawInput) Frame {
	frame := Frame{
		MapID:   in.Texture.MapID,
		Visible: true,
		Bounds:  in.Viewport.Bounds,
		Area:    areaOf(in.Viewport.Bounds),
	}
	size := in.Viewport.Bounds.Size()
	canvas := v.ensureCanvas(size)
	draw.Draw(canvas, canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)
	frame.Image = canvas
	if in.Viewport.Empty() || in.Texture.Image == nil {
		return frame
	}

	draw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), in.Texture.Image, in.Texture.Image.Bounds(), draw.Over, nil)

	for _, spec := range in.Specs {
		pos, ok := marker.Resolve(spec, in.Lookup)
		if !ok {
			frame.Skipped++
			continue
		}
		x, y := in.Viewport.Project(pos)
		c := v.markerColor(in.Markers[spec])
		v.fillCircle(canvas, x, y, dotRadius, c)
		frame.Markers = append(frame.Markers, Dot{Spec: spec, X: x, Y: y, Color: c})
	}

	x, y := in.Viewport.Project(in.Player)
	v.fillCircle(canvas, x, y, dotRadius, v.palette.Player)
	frame.Player = Dot{X: x, Y: y, Color: v.palette.Player}
	return frame
}

func (v *View) ensureCanvas(size image.Point) *image.RGBA {
	if v.canvas == nil || v.canvas.Rect.Size() != size {
		v.canvas = image.NewRGBA(image.Rectangle{Max: size})
	}
	return v.canvas
}

func (v *View) markerColor(s string) color.NRGBA {
	if c, ok := v.colors[s]; ok {
		return c
	}
	c := palette.ParseOr(s, v.palette.Marker)
	v.colors[s] = c
	return c
}

// fillCircle draws an anti-aliased disc. Parts outside dst are clipped.
func (v *View) fillCircle(dst *image.RGBA, cx, cy, r float64, c color.NRGBA) {
	size := int(math.Ceil(2*r)) + 2
	minX := int(math.Floor(cx - r - 1))
	minY := int(math.Floor(cy - r - 1))
	ox := float32(cx - float64(minX))
	oy := float32(cy - float64(minY))
	rr := float32(r)
	k := float32(0.5522847498) * rr

	z := v.raster
	z.Reset(size+1, size+1)
	z.MoveTo(ox+rr, oy)
	z.CubeTo(ox+rr, oy+k, ox+k, oy+rr, ox, oy+rr)
	z.CubeTo(ox-k, oy+rr, ox-rr, oy+k, ox-rr, oy)
	z.CubeTo(ox-rr, oy-k, ox-k, oy-rr, ox, oy-rr)
	z.CubeTo(ox+k, oy-rr, ox+rr, oy-k, ox+rr, oy)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, size+1, size+1))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	target := image.Rect(minX, minY, minX+size+1, minY+size+1)
	draw.DrawMask(dst, target, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}
