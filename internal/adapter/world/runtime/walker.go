package runtime

import "minimap/internal/domain/world"

// walker moves tile by tile and turns clockwise when blocked.
type walker struct {
	at       world.Point
	dir      world.Direction
	progress int
	moving   bool
	steps    int
}

func newWalker(at world.Point, dir world.Direction) *walker {
	return &walker{at: at, dir: dir}
}

var clockwise = map[world.Direction]world.Direction{
	world.DirUp:    world.DirRight,
	world.DirRight: world.DirDown,
	world.DirDown:  world.DirLeft,
	world.DirLeft:  world.DirUp,
}

func (w *walker) advance(m *Map, moveTicks int) {
	if w.moving {
		w.progress++
		if w.progress >= moveTicks {
			w.at = step(w.at, w.dir)
			w.progress = 0
			w.moving = false
			w.steps++
			if tileSeed(m.id, w.at.X, w.at.Y+w.steps)%5 == 0 {
				w.dir = clockwise[w.dir]
			}
		}
		return
	}
	for i := 0; i < len(world.Directions); i++ {
		if m.CanMove(w.at, w.dir) {
			w.moving = true
			return
		}
		w.dir = clockwise[w.dir]
	}
}

// position interpolates between tiles while a step is in progress.
func (w walker) position(moveTicks int) world.Position {
	p := w.at.Position()
	if !w.moving || moveTicks <= 0 {
		return p
	}
	f := float64(w.progress) / float64(moveTicks)
	switch w.dir {
	case world.DirDown:
		return p.Add(0, f)
	case world.DirLeft:
		return p.Add(-f, 0)
	case world.DirRight:
		return p.Add(f, 0)
	default:
		return p.Add(0, -f)
	}
}
