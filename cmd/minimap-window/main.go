package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	ebitenrender "minimap/internal/adapter/render/ebiten"
	worldruntime "minimap/internal/adapter/world/runtime"
	"minimap/internal/app/command"
	"minimap/internal/app/minimap"
	"minimap/internal/bootstrap"
	"minimap/internal/domain/world"
)

const (
	quickSlot  = "quick"
	eventTicks = 180
)

var tileColors = map[worldruntime.TileKind]color.RGBA{
	worldruntime.TileGrass:     {R: 86, G: 140, B: 64, A: 255},
	worldruntime.TileDirt:      {R: 130, G: 104, B: 70, A: 255},
	worldruntime.TileTree:      {R: 34, G: 80, B: 36, A: 255},
	worldruntime.TileRock:      {R: 120, G: 120, B: 124, A: 255},
	worldruntime.TileWater:     {R: 60, G: 110, B: 200, A: 255},
	worldruntime.TileDeepWater: {R: 24, G: 50, B: 140, A: 255},
	worldruntime.TileLava:      {R: 200, G: 70, B: 20, A: 255},
	worldruntime.TileBush:      {R: 60, G: 120, B: 40, A: 255},
	worldruntime.TileWall:      {R: 40, G: 36, B: 44, A: 255},
}

type Game struct {
	app     *bootstrap.App
	overlay *ebitenrender.Overlay
	frame   minimap.Frame
	status  string
}

func (g *Game) command(name string, target string) {
	resp, err := g.app.Commands.Execute(context.Background(), command.Request{
		Command: name,
		Args:    command.Args{Target: target},
		EventID: g.app.Host.RunningEventID(),
	})
	if err != nil {
		g.status = fmt.Sprintf("%s: %v", name, err)
		return
	}
	g.status = fmt.Sprintf("%s %s", resp.Command, resp.Target)
}

func (g *Game) Update() error {
	ctx := context.Background()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.command(command.CommandShow, "")
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.command(command.CommandHide, "")
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.command(command.CommandTrack, "e1")
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		g.command(command.CommandUntrack, "e1")
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.app.Host.StartEvent(1, eventTicks)
		g.status = "event 1 running"
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		if _, err := g.app.Saves.Save(ctx, quickSlot); err != nil {
			g.status = fmt.Sprintf("save: %v", err)
		} else {
			g.status = "saved"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		if _, err := g.app.Saves.Load(ctx, quickSlot); err != nil {
			g.status = fmt.Sprintf("load: %v", err)
		} else {
			g.status = "loaded"
		}
	}
	for k := ebiten.Key1; k <= ebiten.Key9; k++ {
		if inpututil.IsKeyJustPressed(k) {
			id := int(k-ebiten.Key1) + 1
			if err := g.app.Host.Transfer(id); err != nil {
				g.status = fmt.Sprintf("transfer: %v", err)
			} else {
				g.status = fmt.Sprintf("transfer to map %d", id)
			}
		}
	}
	g.frame = g.app.Step()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 16, B: 24, A: 255})
	if m, ok := g.app.Host.CurrentMap(); ok {
		g.drawWorld(screen, m.ID())
	}
	g.overlay.Draw(screen, g.frame)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("map %d  TPS %.0f  %s", g.frame.MapID, ebiten.ActualTPS(), g.status), 8, screen.Bounds().Dy()-20)
}

func (g *Game) drawWorld(screen *ebiten.Image, mapID int) {
	m, err := g.app.Host.Map(mapID)
	if err != nil {
		return
	}
	sw, sh := g.app.Host.ScreenSize()
	ts := m.TileWidth()
	ox, oy := camera(g.app.Host.PlayerPosition(), ts, sw, sh, m.Width(), m.Height())

	x0, y0 := int(ox)/ts, int(oy)/ts
	for y := y0; y <= y0+sh/ts+1 && y < m.Height(); y++ {
		for x := x0; x <= x0+sw/ts+1 && x < m.Width(); x++ {
			kind, ok := m.Tile(x, y)
			if !ok {
				continue
			}
			px := float32(float64(x*ts) - ox)
			py := float32(float64(y*ts) - oy)
			vector.DrawFilledRect(screen, px, py, float32(ts), float32(ts), tileColors[kind], false)
		}
	}
	for id := 1; ; id++ {
		pos, ok := g.app.Host.EventPosition(id)
		if !ok {
			break
		}
		cx, cy := tileCenter(pos, ts, ox, oy)
		vector.DrawFilledCircle(screen, cx, cy, float32(ts)/3, color.RGBA{R: 230, G: 200, B: 60, A: 255}, true)
	}
	cx, cy := tileCenter(g.app.Host.PlayerPosition(), ts, ox, oy)
	vector.DrawFilledCircle(screen, cx, cy, float32(ts)/3, color.RGBA{R: 230, G: 40, B: 40, A: 255}, true)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.app.Host.ScreenSize()
}

// camera centers the player and clamps to the map edges.
func camera(player world.Position, tileSize, screenW, screenH, mapW, mapH int) (float64, float64) {
	ts := float64(tileSize)
	clamp := func(v, screen, size float64) float64 {
		limit := size - screen
		if limit <= 0 {
			return limit / 2
		}
		return math.Max(0, math.Min(v, limit))
	}
	ox := clamp(player.X*ts+ts/2-float64(screenW)/2, float64(screenW), float64(mapW)*ts)
	oy := clamp(player.Y*ts+ts/2-float64(screenH)/2, float64(screenH), float64(mapH)*ts)
	return ox, oy
}

func tileCenter(p world.Position, tileSize int, ox, oy float64) (float32, float32) {
	ts := float64(tileSize)
	return float32(p.X*ts + ts/2 - ox), float32(p.Y*ts + ts/2 - oy)
}

func main() {
	cfg := bootstrap.ConfigFromEnv()
	a, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	g := &Game{app: a, overlay: ebitenrender.NewOverlay(), status: "S/H show/hide  T/U track e1  E event  1-9 map  F5/F9 save/load"}
	defer g.overlay.Dispose()

	w, h := a.Host.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("minimap")
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
