package ports

import (
	"minimap/internal/domain/terrain"
	"minimap/internal/domain/world"
)

// GameMap is the currently loaded map as the host engine exposes it.
type GameMap interface {
	terrain.Passability
	ID() int
	Width() int
	Height() int
	TileWidth() int
	TileHeight() int
	Override() world.Override
}

type MapSource interface {
	CurrentMap() (GameMap, bool)
}

type Variables interface {
	Variable(id int) (int, bool)
}

type Switches interface {
	Switch(id int) bool
}

type Events interface {
	EventPosition(id int) (world.Position, bool)
}

type Player interface {
	PlayerPosition() world.Position
}

type Scene interface {
	IsMapScene() bool
	IsEventRunning() bool
}

type Screen interface {
	ScreenSize() (w, h int)
}

// Host bundles every engine query the minimap reads.
type Host interface {
	MapSource
	Variables
	Switches
	Events
	Player
	Scene
	Screen
}

// MapLoadNotifier lets the minimap hear about map transfers.
type MapLoadNotifier interface {
	OnMapLoaded(fn func(mapID int))
}
