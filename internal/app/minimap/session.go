// Package minimap draws the minimap overlay for the current map and owns
// the marker state that goes into save files.
package minimap

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"minimap/internal/app/ports"
	"minimap/internal/domain/marker"
	"minimap/internal/domain/palette"
	"minimap/internal/domain/visibility"
)

// SaveKey is the save file section holding the marker store.
const SaveKey = "minimap_markers"

// Session is the minimap of one running game. It is not safe for
// concurrent use; callers drive it from the game loop.
type Session struct {
	cfg      Config
	host     ports.Host
	policy   visibility.Policy
	palette  palette.Palette
	store    *marker.Store
	deferred *Deferred
	cache    *TextureCache
	view     *View

	forced  visibility.Command
	opacity int
	last    Frame
}

func NewSession(cfg Config, host ports.Host) *Session {
	cfg = normalizeConfig(cfg)
	pal := palette.FromStrings(cfg.Colors)
	s := &Session{
		cfg:      cfg,
		host:     host,
		policy:   visibility.Policy{HideDuringEvents: cfg.HideDuringEvents, SwitchID: cfg.SwitchID},
		palette:  pal,
		store:    marker.NewStore(),
		deferred: &Deferred{},
		view:     NewView(pal),
	}
	s.cache = NewTextureCache(host, pal, s.deferred, cfg.Metrics)
	s.cache.onBuilt = func(*Texture) {
		s.opacity = s.cfg.Opacity
	}
	return s
}

// Attach subscribes the session to map transfers.
func (s *Session) Attach(n ports.MapLoadNotifier) {
	n.OnMapLoaded(s.OnMapLoaded)
}

// Update runs one tick: the pending deferred job first, then visibility and
// composition.
func (s *Session) Update() Frame {
	s.deferred.Drain()
	s.forced = s.forced.Settle(s.host.IsEventRunning())

	tex := s.cache.EnsureCurrent()
	if tex == nil {
		s.cfg.Metrics.RecordFrame(ports.FramePending)
		s.last = Frame{Pending: true}
		return s.last
	}
	m, ok := s.host.CurrentMap()
	if !ok {
		s.cfg.Metrics.RecordFrame(ports.FramePending)
		s.last = Frame{Pending: true}
		return s.last
	}

	state := visibility.State{
		MapScene:     s.host.IsMapScene(),
		EventRunning: s.host.IsEventRunning(),
		Override:     m.Override(),
		Forced:       s.forced.Forced,
	}
	if !s.policy.Visible(state, s.host) {
		s.cfg.Metrics.RecordFrame(ports.FrameHidden)
		s.last = Frame{MapID: m.ID(), Opacity: s.opacity}
		return s.last
	}

	sw, sh := s.host.ScreenSize()
	frame := s.view.Draw(DrawInput{
		Texture:  tex,
		Viewport: ComputeViewport(sw, sh, m.Width(), m.Height(), s.cfg),
		Player:   s.host.PlayerPosition(),
		Markers:  s.store.Get(m.ID()),
		Specs:    s.store.Specs(m.ID()),
		Lookup:   s.host,
	})
	frame.Opacity = s.opacity
	s.cfg.Metrics.RecordFrame(ports.FrameDrawn)
	s.cfg.Metrics.RecordMarkers(len(frame.Markers), frame.Skipped)
	s.last = frame
	return frame
}

// LastFrame is the result of the most recent Update.
func (s *Session) LastFrame() Frame {
	return s.last
}

// Show forces the minimap on until the issuing event, or the next one, ends.
func (s *Session) Show() {
	s.forced = visibility.Issue(visibility.ForcedShow, s.host.IsEventRunning())
}

// Hide forces the minimap off until the issuing event, or the next one, ends.
func (s *Session) Hide() {
	s.forced = visibility.Issue(visibility.ForcedHide, s.host.IsEventRunning())
}

func (s *Session) Forced() visibility.Forced {
	return s.forced.Forced
}

// Track adds or recolors a marker. mapID 0 means the current map.
func (s *Session) Track(mapID int, spec, color string) error {
	id, err := s.resolveMap(mapID)
	if err != nil {
		return err
	}
	s.store.Add(id, marker.Normalize(spec), color)
	return nil
}

// Untrack removes a marker. Unknown markers are ignored.
func (s *Session) Untrack(mapID int, spec string) error {
	id, err := s.resolveMap(mapID)
	if err != nil {
		return err
	}
	s.store.Remove(id, marker.Normalize(spec))
	return nil
}

func (s *Session) Markers(mapID int) (map[string]string, error) {
	id, err := s.resolveMap(mapID)
	if err != nil {
		return nil, err
	}
	return s.store.Get(id), nil
}

func (s *Session) Snapshot() map[int]map[string]string {
	return s.store.Snapshot()
}

func (s *Session) CurrentMapID() (int, bool) {
	m, ok := s.host.CurrentMap()
	if !ok {
		return 0, false
	}
	return m.ID(), true
}

func (s *Session) resolveMap(mapID int) (int, error) {
	if mapID > 0 {
		return mapID, nil
	}
	id, ok := s.CurrentMapID()
	if !ok {
		return 0, ports.ErrNoMap
	}
	return id, nil
}

func (s *Session) Config() Config {
	return s.cfg
}

func (s *Session) Palette() palette.Palette {
	return s.palette
}

// OnMapLoaded drops the texture of the previous map and hides the overlay
// until the new one is built.
func (s *Session) OnMapLoaded(mapID int) {
	s.cache.Invalidate()
	s.opacity = 0
	hlog.Debugf("minimap: map %d loaded, texture invalidated", mapID)
}

// OnSave embeds the marker store in the save contents.
func (s *Session) OnSave(contents ports.SaveContents) error {
	raw, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return fmt.Errorf("encode %s: %w", SaveKey, err)
	}
	contents[SaveKey] = raw
	return nil
}

// OnLoad replaces the marker store with the saved one. Saves without the
// section keep the markers in memory.
func (s *Session) OnLoad(contents ports.SaveContents) error {
	raw, ok := contents[SaveKey]
	if !ok || len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	saved := map[int]map[string]string{}
	if err := json.Unmarshal(raw, &saved); err != nil {
		return fmt.Errorf("decode %s: %w", SaveKey, err)
	}
	s.store.Replace(saved)
	hlog.Infof("minimap: loaded %d markers", s.store.Len())
	return nil
}
