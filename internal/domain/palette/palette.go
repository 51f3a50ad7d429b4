package palette

import (
	"image/color"

	"minimap/internal/domain/terrain"
)

const (
	DefaultWater      = "rgba(0, 100, 255, .5)"
	DefaultDeepWater  = "rgba(0, 50, 200, .5)"
	DefaultDamage     = "rgb(200, 100, 0)"
	DefaultBush       = "rgb(0, 100, 0)"
	DefaultPassable   = "rgb(0, 200, 0)"
	DefaultImpassable = "rgb(100, 100, 100)"
	DefaultPlayer     = "rgb(255, 0, 0)"
	DefaultMarker     = "rgb(255, 255, 0)"
)

type Palette struct {
	Water      color.NRGBA
	DeepWater  color.NRGBA
	Damage     color.NRGBA
	Bush       color.NRGBA
	Passable   color.NRGBA
	Impassable color.NRGBA
	Player     color.NRGBA
	Marker     color.NRGBA
}

// Strings is the textual form of a Palette, as configured.
type Strings struct {
	Water      string `json:"water"`
	DeepWater  string `json:"deep_water"`
	Damage     string `json:"damage"`
	Bush       string `json:"bush"`
	Passable   string `json:"passable"`
	Impassable string `json:"impassable"`
	Player     string `json:"player"`
	Marker     string `json:"marker"`
}

func DefaultStrings() Strings {
	return Strings{
		Water:      DefaultWater,
		DeepWater:  DefaultDeepWater,
		Damage:     DefaultDamage,
		Bush:       DefaultBush,
		Passable:   DefaultPassable,
		Impassable: DefaultImpassable,
		Player:     DefaultPlayer,
		Marker:     DefaultMarker,
	}
}

func Default() Palette {
	return FromStrings(DefaultStrings())
}

// FromStrings parses every entry, falling back to the built-in default for
// entries that are empty or malformed.
func FromStrings(s Strings) Palette {
	return Palette{
		Water:      ParseOr(s.Water, MustParse(DefaultWater)),
		DeepWater:  ParseOr(s.DeepWater, MustParse(DefaultDeepWater)),
		Damage:     ParseOr(s.Damage, MustParse(DefaultDamage)),
		Bush:       ParseOr(s.Bush, MustParse(DefaultBush)),
		Passable:   ParseOr(s.Passable, MustParse(DefaultPassable)),
		Impassable: ParseOr(s.Impassable, MustParse(DefaultImpassable)),
		Player:     ParseOr(s.Player, MustParse(DefaultPlayer)),
		Marker:     ParseOr(s.Marker, MustParse(DefaultMarker)),
	}
}

func (p Palette) ForCategory(c terrain.Category) color.NRGBA {
	switch c {
	case terrain.Water:
		return p.Water
	case terrain.DeepWater:
		return p.DeepWater
	case terrain.Hazard:
		return p.Damage
	case terrain.Bush:
		return p.Bush
	case terrain.Impassable:
		return p.Impassable
	default:
		return p.Passable
	}
}
