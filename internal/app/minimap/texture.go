package minimap

import (
	"image"
	"image/color"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"golang.org/x/image/draw"

	"minimap/internal/app/ports"
	"minimap/internal/domain/palette"
	"minimap/internal/domain/terrain"
	"minimap/internal/domain/world"
)

// Texture is the full-resolution raster of one map.
type Texture struct {
	MapID    int
	Image    *image.RGBA
	released bool
}

// Release drops the pixel buffer. A released texture is never drawn again.
func (t *Texture) Release() {
	t.Image = nil
	t.released = true
}

func (t *Texture) Released() bool {
	return t.released
}

// Rasterize paints every tile of the map at tile resolution.
func Rasterize(m ports.GameMap, pal palette.Palette) *image.RGBA {
	tw, th := m.TileWidth(), m.TileHeight()
	img := image.NewRGBA(image.Rect(0, 0, m.Width()*tw, m.Height()*th))
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			paintTile(img, m, pal, x, y, tw, th)
		}
	}
	return img
}

func paintTile(img *image.RGBA, m ports.GameMap, pal palette.Palette, x, y, w, h int) {
	px, py := x*w, y*h
	cell := image.Rect(px, py, px+w, py+h)
	category, edges := terrain.Inspect(m, x, y)
	fill(img, cell, pal.ForCategory(category))
	if category != terrain.Passable || edges.Empty() {
		return
	}
	for _, d := range world.Directions {
		if edges.Has(d) {
			fill(img, edgeRect(d, px, py, w, h), pal.Impassable)
		}
	}
}

// edgeRect is the quarter-tile strip along one side of a tile.
func edgeRect(d world.Direction, px, py, w, h int) image.Rectangle {
	switch d {
	case world.DirDown:
		return image.Rect(px, py+3*h/4, px+w, py+h)
	case world.DirLeft:
		return image.Rect(px, py, px+w/4, py+h)
	case world.DirRight:
		return image.Rect(px+3*w/4, py, px+w, py+h)
	case world.DirUp:
		return image.Rect(px, py, px+w, py+h/4)
	}
	return image.Rectangle{}
}

func fill(img draw.Image, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// TextureCache keeps the texture of the current map. Builds go through the
// deferred queue and read the host map when they run.
type TextureCache struct {
	source   ports.MapSource
	palette  palette.Palette
	deferred *Deferred
	metrics  ports.MinimapMetrics
	now      func() time.Time

	current *Texture
	stale   bool
	onBuilt func(*Texture)
}

func NewTextureCache(source ports.MapSource, pal palette.Palette, deferred *Deferred, metrics ports.MinimapMetrics) *TextureCache {
	if deferred == nil {
		deferred = &Deferred{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &TextureCache{
		source:   source,
		palette:  pal,
		deferred: deferred,
		metrics:  metrics,
		now:      time.Now,
	}
}

// EnsureCurrent returns the texture for the current map, or nil and a
// scheduled rebuild when there is none yet.
func (c *TextureCache) EnsureCurrent() *Texture {
	m, ok := c.source.CurrentMap()
	if ok && !c.stale && c.current != nil && c.current.MapID == m.ID() {
		return c.current
	}
	c.deferred.Schedule(c.rebuild)
	return nil
}

func (c *TextureCache) Current() *Texture {
	return c.current
}

// Invalidate forces a rebuild on the next EnsureCurrent. The old texture is
// kept until the rebuild replaces it.
func (c *TextureCache) Invalidate() {
	c.stale = true
}

func (c *TextureCache) rebuild() {
	m, ok := c.source.CurrentMap()
	if !ok {
		hlog.Debugf("minimap: no map loaded, texture build postponed")
		return
	}
	start := c.now()
	img := Rasterize(m, c.palette)
	if c.current != nil {
		c.current.Release()
	}
	c.current = &Texture{MapID: m.ID(), Image: img}
	c.stale = false
	took := c.now().Sub(start)
	c.metrics.RecordRebuild(m.ID(), took)
	hlog.Debugf("minimap: built texture map=%d size=%dx%d took=%s", m.ID(), img.Rect.Dx(), img.Rect.Dy(), took)
	if c.onBuilt != nil {
		c.onBuilt(c.current)
	}
}
