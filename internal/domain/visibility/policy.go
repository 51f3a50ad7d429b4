// Package visibility decides whether the minimap is drawn on a given tick.
package visibility

import "minimap/internal/domain/world"

// Forced is the state left behind by the show and hide commands.
type Forced int

const (
	ForcedNone Forced = iota
	ForcedShow
	ForcedHide
)

func (f Forced) String() string {
	switch f {
	case ForcedShow:
		return "show"
	case ForcedHide:
		return "hide"
	default:
		return "none"
	}
}

// Policy is the configured part of the decision.
type Policy struct {
	HideDuringEvents bool
	SwitchID         int
}

// State is the per-tick part of the decision.
type State struct {
	MapScene     bool
	EventRunning bool
	Override     world.Override
	Forced       Forced
}

type SwitchReader interface {
	Switch(id int) bool
}

// Visible applies the rules in order: scene, forced command state, running
// events, map override, then the switch.
func (p Policy) Visible(s State, switches SwitchReader) bool {
	if !s.MapScene {
		return false
	}
	switch s.Forced {
	case ForcedShow:
		return true
	case ForcedHide:
		return false
	}
	if p.HideDuringEvents && s.EventRunning {
		return false
	}
	if visible, ok := s.Override.Value(); ok {
		return visible
	}
	if p.SwitchID == 0 {
		return true
	}
	if switches == nil {
		return false
	}
	return switches.Switch(p.SwitchID)
}

// Command is a forced state together with whether an event has run since it
// was issued.
type Command struct {
	Forced    Forced
	eventSeen bool
}

// Issue records a show or hide command. Issued from a running event it ends
// with that event; issued outside of one it lasts until the next event ends.
func Issue(f Forced, eventRunning bool) Command {
	return Command{Forced: f, eventSeen: eventRunning}
}

// Settle drops the forced state on the first tick without a running event
// once an event has run since the command.
func (c Command) Settle(eventRunning bool) Command {
	if eventRunning {
		c.eventSeen = true
		return c
	}
	if c.eventSeen {
		return Command{}
	}
	return c
}
