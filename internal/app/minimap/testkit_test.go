package minimap

import (
	"time"

	"minimap/internal/app/ports"
	"minimap/internal/domain/terrain"
	"minimap/internal/domain/world"
)

type fakeMap struct {
	id       int
	w, h     int
	tw, th   int
	water    map[world.Point]bool
	ship     map[world.Point]bool
	damage   map[world.Point]bool
	bush     map[world.Point]bool
	blocked  map[world.Point]terrain.EdgeMask
	override world.Override
}

func newFakeMap(id, w, h int) *fakeMap {
	return &fakeMap{
		id: id, w: w, h: h, tw: 32, th: 32,
		water:   map[world.Point]bool{},
		ship:    map[world.Point]bool{},
		damage:  map[world.Point]bool{},
		bush:    map[world.Point]bool{},
		blocked: map[world.Point]terrain.EdgeMask{},
	}
}

func (m *fakeMap) ID() int                  { return m.id }
func (m *fakeMap) Width() int               { return m.w }
func (m *fakeMap) Height() int              { return m.h }
func (m *fakeMap) TileWidth() int           { return m.tw }
func (m *fakeMap) TileHeight() int          { return m.th }
func (m *fakeMap) Override() world.Override { return m.override }
func (m *fakeMap) IsBoatPassable(x, y int) bool {
	return m.water[world.Point{X: x, Y: y}]
}
func (m *fakeMap) IsShipPassable(x, y int) bool {
	return m.ship[world.Point{X: x, Y: y}]
}
func (m *fakeMap) IsDamageFloor(x, y int) bool {
	return m.damage[world.Point{X: x, Y: y}]
}
func (m *fakeMap) IsBush(x, y int) bool {
	return m.bush[world.Point{X: x, Y: y}]
}
func (m *fakeMap) CheckPassage(x, y int, d world.Direction) bool {
	return !m.blocked[world.Point{X: x, Y: y}].Has(d)
}

type fakeHost struct {
	m            *fakeMap
	vars         map[int]int
	switches     map[int]bool
	events       map[int]world.Position
	player       world.Position
	mapScene     bool
	eventRunning bool
	screenW      int
	screenH      int
}

func newFakeHost(m *fakeMap) *fakeHost {
	return &fakeHost{
		m:        m,
		vars:     map[int]int{},
		switches: map[int]bool{},
		events:   map[int]world.Position{},
		mapScene: true,
		screenW:  816,
		screenH:  624,
	}
}

func (h *fakeHost) CurrentMap() (ports.GameMap, bool) {
	if h.m == nil {
		return nil, false
	}
	return h.m, true
}
func (h *fakeHost) Variable(id int) (int, bool) {
	v, ok := h.vars[id]
	return v, ok
}
func (h *fakeHost) Switch(id int) bool { return h.switches[id] }
func (h *fakeHost) EventPosition(id int) (world.Position, bool) {
	p, ok := h.events[id]
	return p, ok
}
func (h *fakeHost) PlayerPosition() world.Position { return h.player }
func (h *fakeHost) IsMapScene() bool               { return h.mapScene }
func (h *fakeHost) IsEventRunning() bool           { return h.eventRunning }
func (h *fakeHost) ScreenSize() (int, int)         { return h.screenW, h.screenH }

type countingMetrics struct {
	rebuilds int
	lastMap  int
	frames   map[ports.FrameOutcome]int
	drawn    int
	skipped  int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{frames: map[ports.FrameOutcome]int{}}
}

func (m *countingMetrics) RecordRebuild(mapID int, _ time.Duration) {
	m.rebuilds++
	m.lastMap = mapID
}
func (m *countingMetrics) RecordFrame(o ports.FrameOutcome) { m.frames[o]++ }
func (m *countingMetrics) RecordMarkers(drawn, skipped int) {
	m.drawn += drawn
	m.skipped += skipped
}

func newTestSession(host *fakeHost) (*Session, *countingMetrics) {
	metrics := newCountingMetrics()
	cfg := DefaultConfig()
	cfg.Metrics = metrics
	return NewSession(cfg, host), metrics
}
