package command

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"minimap/internal/app/ports"
	"minimap/internal/domain/marker"
	"minimap/internal/domain/palette"
)

const DefaultTarget = "0, 0"

var ErrUnknownCommand = errors.New("unknown minimap command")

// Minimap is the part of the session the commands drive.
type Minimap interface {
	Show()
	Hide()
	Track(mapID int, spec, color string) error
	Untrack(mapID int, spec string) error
	CurrentMapID() (int, bool)
}

type UseCase struct {
	Minimap Minimap
	// DefaultColor is used for markers without a usable color.
	DefaultColor string
}

func (u UseCase) Execute(_ context.Context, req Request) (Response, error) {
	name := strings.ToLower(strings.TrimSpace(req.Command))
	switch name {
	case CommandShow:
		u.Minimap.Show()
		return Response{Command: name}, nil
	case CommandHide:
		u.Minimap.Hide()
		return Response{Command: name}, nil
	case CommandTrack, CommandUntrack:
	default:
		return Response{}, ErrUnknownCommand
	}

	mapID, err := u.mapID(req.Args.Map)
	if err != nil {
		return Response{}, err
	}
	target := SanitizeTarget(req.Args.Target, req.EventID)
	if name == CommandUntrack {
		if err := u.Minimap.Untrack(mapID, target); err != nil {
			return Response{}, err
		}
		return Response{Command: name, MapID: mapID, Target: target}, nil
	}

	color := u.sanitizeColor(req.Args.Color)
	if err := u.Minimap.Track(mapID, target, color); err != nil {
		return Response{}, err
	}
	return Response{Command: name, MapID: mapID, Target: target, Color: color}, nil
}

func (u UseCase) mapID(raw string) (int, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && id > 0 {
		return id, nil
	}
	id, ok := u.Minimap.CurrentMapID()
	if !ok {
		return 0, ports.ErrNoMap
	}
	return id, nil
}

func (u UseCase) sanitizeColor(raw string) string {
	def := u.DefaultColor
	if def == "" {
		def = palette.DefaultMarker
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	if _, err := palette.Parse(raw); err != nil {
		hlog.Debugf("minimap: color %q rejected, using %q: %v", raw, def, err)
		return def
	}
	return raw
}

// SanitizeTarget normalizes a raw target and binds "e0" to the issuing event.
func SanitizeTarget(raw string, eventID int) string {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultTarget
	}
	return marker.BindIssuer(marker.Normalize(raw), eventID)
}
