// Package runtime is a small self-running game host: generated maps, a
// wandering player, patrolling events, variables and switches. It stands in
// for a real engine when running the minimap on its own.
package runtime

import (
	"errors"

	"minimap/internal/app/ports"
	"minimap/internal/domain/world"
)

var (
	ErrInvalidMap      = errors.New("invalid map id")
	ErrInvalidVariable = errors.New("invalid variable id")
)

const MaxVariables = 5000

type Config struct {
	StartMap     int
	MapWidth     int
	MapHeight    int
	TileSize     int
	ScreenWidth  int
	ScreenHeight int
	// LoadTicks is how long a transfer keeps the map scene away.
	LoadTicks    int
	EventsPerMap int
	// MoveTicks is how many ticks a walker spends on one tile step.
	MoveTicks int
	Notes     map[int]string
}

func DefaultConfig() Config {
	return Config{
		StartMap:     1,
		MapWidth:     48,
		MapHeight:    36,
		TileSize:     48,
		ScreenWidth:  816,
		ScreenHeight: 624,
		LoadTicks:    2,
		EventsPerMap: 3,
		MoveTicks:    8,
		Notes:        map[int]string{},
	}
}

// Host is driven from a single goroutine, like the engine it imitates.
type Host struct {
	cfg     Config
	maps    map[int]*Map
	current *Map
	loading int

	player   *walker
	events   map[int]*walker
	vars     map[int]int
	switches map[int]bool

	running   int
	runningID int
	hooks     []func(mapID int)
	ticks     uint64
}

var _ ports.Host = (*Host)(nil)

func NewHost(cfg Config) *Host {
	def := DefaultConfig()
	if cfg.StartMap <= 0 {
		cfg.StartMap = def.StartMap
	}
	if cfg.MapWidth <= 2 {
		cfg.MapWidth = def.MapWidth
	}
	if cfg.MapHeight <= 2 {
		cfg.MapHeight = def.MapHeight
	}
	if cfg.TileSize <= 0 {
		cfg.TileSize = def.TileSize
	}
	if cfg.ScreenWidth <= 0 {
		cfg.ScreenWidth = def.ScreenWidth
	}
	if cfg.ScreenHeight <= 0 {
		cfg.ScreenHeight = def.ScreenHeight
	}
	if cfg.LoadTicks < 0 {
		cfg.LoadTicks = 0
	}
	if cfg.EventsPerMap < 0 {
		cfg.EventsPerMap = 0
	}
	if cfg.MoveTicks <= 0 {
		cfg.MoveTicks = def.MoveTicks
	}
	if cfg.Notes == nil {
		cfg.Notes = map[int]string{}
	}
	h := &Host{
		cfg:      cfg,
		maps:     map[int]*Map{},
		events:   map[int]*walker{},
		vars:     map[int]int{},
		switches: map[int]bool{},
	}
	_ = h.Transfer(cfg.StartMap)
	return h
}

func (h *Host) mapByID(id int) *Map {
	if m, ok := h.maps[id]; ok {
		return m
	}
	m := generateMap(id, h.cfg.MapWidth, h.cfg.MapHeight, h.cfg.TileSize, h.cfg.Notes[id])
	h.maps[id] = m
	return m
}

// Transfer starts loading another map. The map scene comes back, and the
// map-loaded hooks fire, once loading is over.
func (h *Host) Transfer(mapID int) error {
	if mapID <= 0 {
		return ErrInvalidMap
	}
	h.current = h.mapByID(mapID)
	h.loading = h.cfg.LoadTicks
	h.events = map[int]*walker{}
	if h.loading == 0 {
		h.finishLoad()
	}
	return nil
}

func (h *Host) finishLoad() {
	m := h.current
	h.player = newWalker(spawnPoint(m, m.width/2, m.height/2), world.DirRight)
	for i := 1; i <= h.cfg.EventsPerMap; i++ {
		seed := tileSeed(m.id, i, -i)
		start := spawnPoint(m, 1+seed%(m.width-2), 1+(seed/7)%(m.height-2))
		h.events[i] = newWalker(start, world.Directions[i%len(world.Directions)])
	}
	for _, fn := range h.hooks {
		fn(m.id)
	}
}

// spawnPoint finds the walkable tile closest to (x, y) in scan order.
func spawnPoint(m *Map, x, y int) world.Point {
	for r := 0; r < m.width+m.height; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if m.Walkable(x+dx, y+dy) {
					return world.Point{X: x + dx, Y: y + dy}
				}
			}
		}
	}
	return world.Point{X: x, Y: y}
}

// Tick advances the host by one frame.
func (h *Host) Tick() {
	h.ticks++
	if h.loading > 0 {
		h.loading--
		if h.loading == 0 {
			h.finishLoad()
		}
		return
	}
	if h.current == nil || h.player == nil {
		return
	}
	h.player.advance(h.current, h.cfg.MoveTicks)
	for _, e := range h.events {
		e.advance(h.current, h.cfg.MoveTicks)
	}
	if h.running > 0 {
		h.running--
		if h.running == 0 {
			h.runningID = 0
		}
	}
}

func (h *Host) Ticks() uint64 {
	return h.ticks
}

func (h *Host) OnMapLoaded(fn func(mapID int)) {
	h.hooks = append(h.hooks, fn)
}

func (h *Host) CurrentMap() (ports.GameMap, bool) {
	if h.current == nil || h.loading > 0 {
		return nil, false
	}
	return h.current, true
}

// Map returns a generated map without transferring to it.
func (h *Host) Map(id int) (*Map, error) {
	if id <= 0 {
		return nil, ErrInvalidMap
	}
	return h.mapByID(id), nil
}

// Variable reads a game variable. Unset variables read as 0, like the
// engine; ids outside the variable table do not resolve.
func (h *Host) Variable(id int) (int, bool) {
	if id <= 0 || id > MaxVariables {
		return 0, false
	}
	return h.vars[id], true
}

func (h *Host) SetVariable(id, value int) error {
	if id <= 0 || id > MaxVariables {
		return ErrInvalidVariable
	}
	h.vars[id] = value
	return nil
}

func (h *Host) Switch(id int) bool {
	return h.switches[id]
}

func (h *Host) SetSwitch(id int, on bool) {
	h.switches[id] = on
}

func (h *Host) EventPosition(id int) (world.Position, bool) {
	if h.loading > 0 {
		return world.Position{}, false
	}
	e, ok := h.events[id]
	if !ok {
		return world.Position{}, false
	}
	return e.position(h.cfg.MoveTicks), true
}

// EraseEvent removes an event from the current map until the next transfer.
func (h *Host) EraseEvent(id int) {
	delete(h.events, id)
}

func (h *Host) PlayerPosition() world.Position {
	if h.player == nil {
		return world.Position{}
	}
	return h.player.position(h.cfg.MoveTicks)
}

func (h *Host) IsMapScene() bool {
	return h.current != nil && h.loading == 0
}

func (h *Host) IsEventRunning() bool {
	return h.running > 0
}

// StartEvent marks event id as running for the given number of ticks.
func (h *Host) StartEvent(id, ticks int) {
	if ticks <= 0 {
		return
	}
	h.running = ticks
	h.runningID = id
}

// RunningEventID is the event currently running, 0 when none.
func (h *Host) RunningEventID() int {
	return h.runningID
}

func (h *Host) ScreenSize() (int, int) {
	return h.cfg.ScreenWidth, h.cfg.ScreenHeight
}
