package runtime

import (
	"math"

	"minimap/internal/domain/world"
)

type TileKind int

const (
	TileGrass TileKind = iota
	TileDirt
	TileTree
	TileRock
	TileWater
	TileDeepWater
	TileLava
	TileBush
	TileWall
)

type Zone int

const (
	ZoneSafe Zone = iota
	ZoneForest
	ZoneQuarry
	ZoneWild
)

// Map is a generated tile map. Tiles depend only on the map id and the
// coordinates, so a map looks the same every time it is loaded.
type Map struct {
	id       int
	width    int
	height   int
	tileSize int
	note     string
	override world.Override
	tiles    []TileKind
}

func generateMap(id, width, height, tileSize int, note string) *Map {
	m := &Map{
		id:       id,
		width:    width,
		height:   height,
		tileSize: tileSize,
		note:     note,
		override: world.ParseOverride(note),
		tiles:    make([]TileKind, width*height),
	}
	cx, cy := width/2, height/2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			kind := genTile(id, x-cx, y-cy)
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				kind = TileWall
			}
			m.tiles[y*width+x] = kind
		}
	}
	return m
}

// genTile picks a tile from its distance zone around the map center.
func genTile(mapID, x, y int) TileKind {
	seed := tileSeed(mapID, x, y)
	switch zoneByDistance(x, y) {
	case ZoneSafe:
		return TileGrass
	case ZoneForest:
		switch {
		case seed%5 == 0:
			return TileTree
		case seed%7 == 0:
			return TileBush
		default:
			return TileGrass
		}
	case ZoneQuarry:
		switch {
		case seed%4 == 0:
			return TileRock
		case seed%13 == 0:
			return TileLava
		default:
			return TileDirt
		}
	default:
		switch {
		case seed%3 == 0:
			return TileDeepWater
		case seed%2 == 0:
			return TileWater
		case seed%11 == 0:
			return TileBush
		default:
			return TileDirt
		}
	}
}

func zoneByDistance(x, y int) Zone {
	d := int(math.Abs(float64(x)) + math.Abs(float64(y)))
	switch {
	case d <= 6:
		return ZoneSafe
	case d <= 14:
		return ZoneForest
	case d <= 22:
		return ZoneQuarry
	default:
		return ZoneWild
	}
}

func tileSeed(mapID, x, y int) int {
	v := x*73856093 ^ y*19349663 ^ mapID*83492791
	if v < 0 {
		v = -v
	}
	return v
}

func (m *Map) ID() int                  { return m.id }
func (m *Map) Width() int               { return m.width }
func (m *Map) Height() int              { return m.height }
func (m *Map) TileWidth() int           { return m.tileSize }
func (m *Map) TileHeight() int          { return m.tileSize }
func (m *Map) Override() world.Override { return m.override }
func (m *Map) Note() string             { return m.note }

func (m *Map) Tile(x, y int) (TileKind, bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return TileWall, false
	}
	return m.tiles[y*m.width+x], true
}

func (m *Map) is(x, y int, kind TileKind) bool {
	k, ok := m.Tile(x, y)
	return ok && k == kind
}

func (m *Map) IsBoatPassable(x, y int) bool { return m.is(x, y, TileWater) }
func (m *Map) IsShipPassable(x, y int) bool { return m.is(x, y, TileDeepWater) }
func (m *Map) IsDamageFloor(x, y int) bool  { return m.is(x, y, TileLava) }
func (m *Map) IsBush(x, y int) bool         { return m.is(x, y, TileBush) }

// CheckPassage reports whether a walker may leave the tile in direction d.
// Rocks are ledges passable only sideways.
func (m *Map) CheckPassage(x, y int, d world.Direction) bool {
	k, ok := m.Tile(x, y)
	if !ok {
		return false
	}
	switch k {
	case TileTree, TileWall, TileWater, TileDeepWater:
		return false
	case TileRock:
		return d == world.DirLeft || d == world.DirRight
	default:
		return true
	}
}

// Walkable reports whether a walker may stand on the tile.
func (m *Map) Walkable(x, y int) bool {
	k, ok := m.Tile(x, y)
	if !ok {
		return false
	}
	switch k {
	case TileTree, TileWall, TileWater, TileDeepWater:
		return false
	default:
		return true
	}
}

func step(p world.Point, d world.Direction) world.Point {
	switch d {
	case world.DirDown:
		return world.Point{X: p.X, Y: p.Y + 1}
	case world.DirLeft:
		return world.Point{X: p.X - 1, Y: p.Y}
	case world.DirRight:
		return world.Point{X: p.X + 1, Y: p.Y}
	default:
		return world.Point{X: p.X, Y: p.Y - 1}
	}
}

// CanMove reports whether a walker at p may take one step in direction d.
func (m *Map) CanMove(p world.Point, d world.Direction) bool {
	next := step(p, d)
	return m.CheckPassage(p.X, p.Y, d) && m.Walkable(next.X, next.Y)
}
