package world

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Position is a continuous tile coordinate; moving characters sit between tiles.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Position() Position {
	return Position{X: float64(p.X), Y: float64(p.Y)}
}

func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}
