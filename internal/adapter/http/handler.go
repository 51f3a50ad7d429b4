package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"mime"
	"path"
	"strconv"
	"strings"

	staticassets "minimap/internal/adapter/assets/static"
	"minimap/internal/adapter/world/runtime"
	"minimap/internal/app/command"
	"minimap/internal/app/loop"
	"minimap/internal/app/minimap"
	"minimap/internal/app/ports"
	"minimap/internal/app/savegame"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const opacityHeader = "X-Minimap-Opacity"

var ErrInvalidRequest = errors.New("invalid request")

// Runner executes fn on the goroutine that owns the game state.
type Runner interface {
	Do(ctx context.Context, fn func() error) error
}

// MinimapReader is the read side of the minimap session.
type MinimapReader interface {
	Markers(mapID int) (map[string]string, error)
	LastFrame() minimap.Frame
	CurrentMapID() (int, bool)
}

// HostControl drives the standalone game host.
type HostControl interface {
	Transfer(mapID int) error
	SetVariable(id, value int) error
	SetSwitch(id int, on bool)
	StartEvent(id, ticks int)
	RunningEventID() int
}

type Handler struct {
	Runner    Runner
	Minimap   MinimapReader
	CommandUC command.UseCase
	SaveUC    savegame.UseCase
	Host      HostControl
	Assets    ports.AssetProvider
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	mm := s.Group("/api/minimap")
	mm.POST("/show", h.command(command.CommandShow))
	mm.POST("/hide", h.command(command.CommandHide))
	mm.POST("/track", h.command(command.CommandTrack))
	mm.POST("/untrack", h.command(command.CommandUntrack))
	mm.GET("/markers", h.markers)
	mm.GET("/frame", h.frame)
	mm.GET("/frame.png", h.framePNG)

	s.POST("/api/save/:slot", h.save)
	s.POST("/api/load/:slot", h.load)

	host := s.Group("/api/host")
	host.POST("/transfer", h.transfer)
	host.POST("/variables", h.setVariable)
	host.POST("/switches", h.setSwitch)
	host.POST("/events/start", h.startEvent)

	s.GET("/viewer/*filepath", h.viewerFile)
	s.GET("/ops/kpi", h.kpi)
}

// run serializes fn with the game loop. Without a runner fn runs inline.
func (h Handler) run(c context.Context, fn func() error) error {
	if h.Runner == nil {
		return fn()
	}
	return h.Runner.Do(c, fn)
}

type commandRequest struct {
	command.Args
	// EventID binds "e0" targets; when omitted the running event is used.
	EventID *int `json:"event_id"`
}

func (h Handler) command(name string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		var req commandRequest
		if err := decodeJSON(ctx, &req); err != nil {
			writeError(ctx, ErrInvalidRequest)
			return
		}
		var resp command.Response
		err := h.run(c, func() error {
			eventID := 0
			if req.EventID != nil {
				eventID = *req.EventID
			} else if h.Host != nil {
				eventID = h.Host.RunningEventID()
			}
			var err error
			resp, err = h.CommandUC.Execute(c, command.Request{
				Command: name,
				Args:    req.Args,
				EventID: eventID,
			})
			return err
		})
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	}
}

type markersResponse struct {
	MapID   int               `json:"map_id"`
	Markers map[string]string `json:"markers"`
}

func (h Handler) markers(c context.Context, ctx *app.RequestContext) {
	mapID := 0
	if raw := strings.TrimSpace(string(ctx.Query("map"))); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			writeError(ctx, ErrInvalidRequest)
			return
		}
		mapID = id
	}
	var resp markersResponse
	err := h.run(c, func() error {
		m, err := h.Minimap.Markers(mapID)
		if err != nil {
			return err
		}
		resp.Markers = m
		resp.MapID = mapID
		if mapID == 0 {
			if cur, ok := h.Minimap.CurrentMapID(); ok {
				resp.MapID = cur
			}
		}
		return nil
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	if resp.Markers == nil {
		resp.Markers = map[string]string{}
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) frame(c context.Context, ctx *app.RequestContext) {
	var f minimap.Frame
	err := h.run(c, func() error {
		f = h.Minimap.LastFrame()
		return nil
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	if f.Markers == nil {
		f.Markers = []minimap.Dot{}
	}
	ctx.JSON(consts.StatusOK, f)
}

func (h Handler) framePNG(c context.Context, ctx *app.RequestContext) {
	var buf bytes.Buffer
	var opacity int
	err := h.run(c, func() error {
		f := h.Minimap.LastFrame()
		if !f.Visible || f.Image == nil {
			return ports.ErrNotVisible
		}
		opacity = f.Opacity
		// the image is reused by the next tick, so encode while we own it
		return png.Encode(&buf, f.Image)
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Response.Header.Set(opacityHeader, strconv.Itoa(opacity))
	ctx.Data(consts.StatusOK, "image/png", buf.Bytes())
}

func (h Handler) save(c context.Context, ctx *app.RequestContext) {
	slot := ctx.Param("slot")
	var resp savegame.Response
	err := h.run(c, func() error {
		var err error
		resp, err = h.SaveUC.Save(c, slot)
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) load(c context.Context, ctx *app.RequestContext) {
	slot := ctx.Param("slot")
	var resp savegame.Response
	err := h.run(c, func() error {
		var err error
		resp, err = h.SaveUC.Load(c, slot)
		return err
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type transferRequest struct {
	MapID int `json:"map_id"`
}

func (h Handler) transfer(c context.Context, ctx *app.RequestContext) {
	if h.Host == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "host control not configured")
		return
	}
	var req transferRequest
	if err := decodeJSON(ctx, &req); err != nil || req.MapID <= 0 {
		writeError(ctx, ErrInvalidRequest)
		return
	}
	if err := h.run(c, func() error { return h.Host.Transfer(req.MapID) }); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusAccepted, req)
}

type variableRequest struct {
	ID    int `json:"id"`
	Value int `json:"value"`
}

func (h Handler) setVariable(c context.Context, ctx *app.RequestContext) {
	if h.Host == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "host control not configured")
		return
	}
	body := ctx.Request.Body()
	if !hasJSONField(body, "id") || !hasJSONField(body, "value") {
		writeError(ctx, ErrInvalidRequest)
		return
	}
	var req variableRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, ErrInvalidRequest)
		return
	}
	if err := h.run(c, func() error { return h.Host.SetVariable(req.ID, req.Value) }); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, req)
}

type switchRequest struct {
	ID int  `json:"id"`
	On bool `json:"on"`
}

func (h Handler) setSwitch(c context.Context, ctx *app.RequestContext) {
	if h.Host == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "host control not configured")
		return
	}
	var req switchRequest
	if err := decodeJSON(ctx, &req); err != nil || req.ID <= 0 {
		writeError(ctx, ErrInvalidRequest)
		return
	}
	if err := h.run(c, func() error {
		h.Host.SetSwitch(req.ID, req.On)
		return nil
	}); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, req)
}

type startEventRequest struct {
	ID    int `json:"id"`
	Ticks int `json:"ticks"`
}

func (h Handler) startEvent(c context.Context, ctx *app.RequestContext) {
	if h.Host == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "host control not configured")
		return
	}
	var req startEventRequest
	if err := decodeJSON(ctx, &req); err != nil || req.ID <= 0 || req.Ticks <= 0 {
		writeError(ctx, ErrInvalidRequest)
		return
	}
	if err := h.run(c, func() error {
		h.Host.StartEvent(req.ID, req.Ticks)
		return nil
	}); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusAccepted, req)
}

func (h Handler) viewerFile(c context.Context, ctx *app.RequestContext) {
	if h.Assets == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "viewer not configured")
		return
	}
	name := strings.TrimPrefix(ctx.Param("filepath"), "/")
	if name == "" {
		name = "index.html"
	}
	b, err := h.Assets.File(c, name)
	if err != nil {
		writeError(ctx, err)
		return
	}
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Data(consts.StatusOK, contentType, b)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func hasJSONField(body []byte, key string) bool {
	if len(body) == 0 {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return false
	}
	_, ok := m[key]
	return ok
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, command.ErrUnknownCommand):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_command", err.Error())
	case errors.Is(err, savegame.ErrInvalidSlot):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_slot", err.Error())
	case errors.Is(err, staticassets.ErrInvalidAssetPath):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_filepath", err.Error())
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, runtime.ErrInvalidMap),
		errors.Is(err, runtime.ErrInvalidVariable):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrNoMap):
		writeErrorBody(ctx, consts.StatusConflict, "no_map", err.Error())
	case errors.Is(err, ports.ErrNotVisible):
		writeErrorBody(ctx, consts.StatusConflict, "not_visible", err.Error())
	case errors.Is(err, loop.ErrStopped), errors.Is(err, context.Canceled):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
