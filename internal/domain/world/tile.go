package world

// Direction is a single passage bit as reported by the host map.
type Direction int

const (
	DirDown  Direction = 1 << 0
	DirLeft  Direction = 1 << 1
	DirRight Direction = 1 << 2
	DirUp    Direction = 1 << 3
)

// Directions lists the four passage bits in host order.
var Directions = [4]Direction{DirDown, DirLeft, DirRight, DirUp}

func (d Direction) String() string {
	switch d {
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	default:
		return "unknown"
	}
}
