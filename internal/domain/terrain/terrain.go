// Package terrain classifies map tiles into the categories drawn on the minimap.
package terrain

import "minimap/internal/domain/world"

type Category int

const (
	Passable Category = iota
	Water
	DeepWater
	Hazard
	Bush
	Impassable
)

func (c Category) String() string {
	switch c {
	case Water:
		return "water"
	case DeepWater:
		return "deep_water"
	case Hazard:
		return "hazard"
	case Bush:
		return "bush"
	case Impassable:
		return "impassable"
	default:
		return "passable"
	}
}

// Special reports whether the category is drawn as a single flat color with
// no wall edges on top.
func (c Category) Special() bool {
	switch c {
	case Water, DeepWater, Hazard, Bush:
		return true
	default:
		return false
	}
}

// Passability is the subset of host map queries the classifier needs.
type Passability interface {
	IsBoatPassable(x, y int) bool
	IsShipPassable(x, y int) bool
	IsDamageFloor(x, y int) bool
	IsBush(x, y int) bool
	CheckPassage(x, y int, d world.Direction) bool
}

// Classify picks exactly one category. The first matching predicate wins:
// water, deep water, hazard, bush, then passable or impassable.
func Classify(p Passability, x, y int) Category {
	switch {
	case p.IsBoatPassable(x, y):
		return Water
	case p.IsShipPassable(x, y):
		return DeepWater
	case p.IsDamageFloor(x, y):
		return Hazard
	case p.IsBush(x, y):
		return Bush
	}
	if Edges(p, x, y).Full() {
		return Impassable
	}
	return Passable
}

// Inspect returns the category together with the blocked edges, which only
// matter for passable tiles.
func Inspect(p Passability, x, y int) (Category, EdgeMask) {
	c := Classify(p, x, y)
	if c.Special() {
		return c, 0
	}
	return c, Edges(p, x, y)
}

// Edges collects the directions in which the tile is blocked.
func Edges(p Passability, x, y int) EdgeMask {
	var m EdgeMask
	for _, d := range world.Directions {
		if !p.CheckPassage(x, y, d) {
			m |= EdgeMask(d)
		}
	}
	return m
}
