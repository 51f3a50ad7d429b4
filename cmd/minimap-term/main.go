package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"minimap/internal/adapter/render/terminal"
	"minimap/internal/app/command"
	"minimap/internal/app/minimap"
	"minimap/internal/bootstrap"
)

const (
	quickSlot   = "quick"
	eventTicks  = 180
	statusStyle = tcell.AttrReverse
)

type term struct {
	screen   tcell.Screen
	app      *bootstrap.App
	renderer *terminal.Renderer
	frame    minimap.Frame
	status   string
}

func newTerm(screen tcell.Screen, a *bootstrap.App) *term {
	return &term{
		screen:   screen,
		app:      a,
		renderer: terminal.NewRenderer(screen, color.RGBA{R: 16, G: 16, B: 24, A: 255}),
		status:   "s/h show/hide  t/u track/untrack e1  e event  1-9 map  F5/F9 save/load  q quit",
	}
}

func (t *term) command(name string, args command.Args) {
	resp, err := t.app.Commands.Execute(context.Background(), command.Request{
		Command: name,
		Args:    args,
		EventID: t.app.Host.RunningEventID(),
	})
	if err != nil {
		t.status = fmt.Sprintf("%s: %v", name, err)
		return
	}
	t.status = fmt.Sprintf("%s %s %s", resp.Command, resp.Target, resp.Color)
}

// handleRune returns false when the program should exit.
func (t *term) handleRune(r rune) bool {
	switch {
	case r == 'q':
		return false
	case r == 's':
		t.command(command.CommandShow, command.Args{})
	case r == 'h':
		t.command(command.CommandHide, command.Args{})
	case r == 't':
		t.command(command.CommandTrack, command.Args{Target: "e1"})
	case r == 'u':
		t.command(command.CommandUntrack, command.Args{Target: "e1"})
	case r == 'e':
		t.app.Host.StartEvent(1, eventTicks)
		t.status = "event 1 running"
	case r >= '1' && r <= '9':
		id := int(r - '0')
		if err := t.app.Host.Transfer(id); err != nil {
			t.status = fmt.Sprintf("transfer: %v", err)
			return true
		}
		t.status = fmt.Sprintf("transfer to map %d", id)
	}
	return true
}

func (t *term) handleKey(ev *tcell.EventKey) bool {
	ctx := context.Background()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyF5:
		if _, err := t.app.Saves.Save(ctx, quickSlot); err != nil {
			t.status = fmt.Sprintf("save: %v", err)
		} else {
			t.status = "saved"
		}
	case tcell.KeyF9:
		if _, err := t.app.Saves.Load(ctx, quickSlot); err != nil {
			t.status = fmt.Sprintf("load: %v", err)
		} else {
			t.status = "loaded"
		}
	case tcell.KeyRune:
		return t.handleRune(ev.Rune())
	}
	return true
}

func (t *term) draw() {
	w, h := t.app.Host.ScreenSize()
	t.renderer.Draw(t.frame, w, h)
	cols, rows := t.screen.Size()
	line := fmt.Sprintf(" map %d  markers %d  %s", t.frame.MapID, len(t.frame.Markers), t.status)
	style := tcell.StyleDefault.Attributes(statusStyle)
	x := 0
	for _, r := range line {
		if x >= cols {
			break
		}
		t.screen.SetContent(x, rows-1, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		t.screen.SetContent(x, rows-1, ' ', nil, style)
	}
	t.screen.Show()
}

func (t *term) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !t.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		case <-ticker.C:
			t.frame = t.app.Step()
			t.draw()
		}
	}
}

func main() {
	cfg := bootstrap.ConfigFromEnv()
	a, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("new screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()

	newTerm(screen, a).run(cfg.TickInterval)
}
