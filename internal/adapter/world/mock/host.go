// Package mock is an in-memory host built from ASCII grids, for tests and
// demos that need exact control over the map.
package mock

import (
	"fmt"

	"minimap/internal/app/ports"
	"minimap/internal/domain/terrain"
	"minimap/internal/domain/world"
)

// Grid legend:
//
//	.  passable        #  impassable
//	~  water           =  deep water
//	!  damage floor    "  bush
//	^ v < >  passable with that edge blocked
type Grid struct {
	id       int
	tileW    int
	tileH    int
	rows     []string
	override world.Override
}

func ParseGrid(id int, rows ...string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid %d: empty", id)
	}
	for i, r := range rows {
		if len(r) != len(rows[0]) {
			return nil, fmt.Errorf("grid %d: row %d has width %d, want %d", id, i, len(r), len(rows[0]))
		}
	}
	return &Grid{id: id, tileW: 32, tileH: 32, rows: rows}, nil
}

func MustGrid(id int, rows ...string) *Grid {
	g, err := ParseGrid(id, rows...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) WithTileSize(w, h int) *Grid {
	g.tileW, g.tileH = w, h
	return g
}

func (g *Grid) WithNote(note string) *Grid {
	g.override = world.ParseOverride(note)
	return g
}

func (g *Grid) at(x, y int) byte {
	if y < 0 || y >= len(g.rows) || x < 0 || x >= len(g.rows[y]) {
		return '#'
	}
	return g.rows[y][x]
}

func (g *Grid) ID() int                      { return g.id }
func (g *Grid) Width() int                   { return len(g.rows[0]) }
func (g *Grid) Height() int                  { return len(g.rows) }
func (g *Grid) TileWidth() int               { return g.tileW }
func (g *Grid) TileHeight() int              { return g.tileH }
func (g *Grid) Override() world.Override     { return g.override }
func (g *Grid) IsBoatPassable(x, y int) bool { return g.at(x, y) == '~' }
func (g *Grid) IsShipPassable(x, y int) bool { return g.at(x, y) == '=' }
func (g *Grid) IsDamageFloor(x, y int) bool  { return g.at(x, y) == '!' }
func (g *Grid) IsBush(x, y int) bool         { return g.at(x, y) == '"' }

func (g *Grid) CheckPassage(x, y int, d world.Direction) bool {
	switch g.at(x, y) {
	case '#':
		return false
	case '^':
		return d != world.DirUp
	case 'v':
		return d != world.DirDown
	case '<':
		return d != world.DirLeft
	case '>':
		return d != world.DirRight
	default:
		return true
	}
}

var _ terrain.Passability = (*Grid)(nil)

// Host serves one grid at a time. Fields are exported so tests can poke the
// state directly.
type Host struct {
	Grid         *Grid
	Vars         map[int]int
	Switches     map[int]bool
	Events       map[int]world.Position
	Player       world.Position
	MapScene     bool
	EventRunning bool
	ScreenW      int
	ScreenH      int

	hooks []func(mapID int)
}

var _ ports.Host = (*Host)(nil)

func NewHost(g *Grid) *Host {
	return &Host{
		Grid:     g,
		Vars:     map[int]int{},
		Switches: map[int]bool{},
		Events:   map[int]world.Position{},
		MapScene: true,
		ScreenW:  816,
		ScreenH:  624,
	}
}

// Load swaps the grid and fires the map-loaded hooks.
func (h *Host) Load(g *Grid) {
	h.Grid = g
	h.Events = map[int]world.Position{}
	for _, fn := range h.hooks {
		fn(g.ID())
	}
}

func (h *Host) OnMapLoaded(fn func(mapID int)) {
	h.hooks = append(h.hooks, fn)
}

func (h *Host) CurrentMap() (ports.GameMap, bool) {
	if h.Grid == nil {
		return nil, false
	}
	return h.Grid, true
}

func (h *Host) Variable(id int) (int, bool) {
	v, ok := h.Vars[id]
	return v, ok
}

func (h *Host) Switch(id int) bool { return h.Switches[id] }

func (h *Host) EventPosition(id int) (world.Position, bool) {
	p, ok := h.Events[id]
	return p, ok
}

func (h *Host) PlayerPosition() world.Position { return h.Player }
func (h *Host) IsMapScene() bool               { return h.MapScene }
func (h *Host) IsEventRunning() bool           { return h.EventRunning }
func (h *Host) ScreenSize() (int, int)         { return h.ScreenW, h.ScreenH }
