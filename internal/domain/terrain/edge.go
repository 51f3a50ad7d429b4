package terrain

import "minimap/internal/domain/world"

// EdgeMask holds blocked directions using the host passage bits.
type EdgeMask uint8

const FullMask = EdgeMask(world.DirDown | world.DirLeft | world.DirRight | world.DirUp)

func (m EdgeMask) Has(d world.Direction) bool {
	return m&EdgeMask(d) != 0
}

func (m EdgeMask) Full() bool {
	return m&FullMask == FullMask
}

func (m EdgeMask) Empty() bool {
	return m&FullMask == 0
}

func (m EdgeMask) Count() int {
	n := 0
	for _, d := range world.Directions {
		if m.Has(d) {
			n++
		}
	}
	return n
}
