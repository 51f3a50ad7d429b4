package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"strings"
	"testing"

	staticassets "minimap/internal/adapter/assets/static"
	"minimap/internal/adapter/repo/memory"
	"minimap/internal/adapter/world/mock"
	"minimap/internal/app/command"
	"minimap/internal/app/loop"
	"minimap/internal/app/minimap"
	"minimap/internal/app/ports"
	"minimap/internal/app/savegame"
	"minimap/internal/domain/visibility"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

type fakeHostControl struct {
	transfers []int
	vars      map[int]int
	switches  map[int]bool
	started   []int
	running   int
	err       error
}

func (f *fakeHostControl) Transfer(mapID int) error {
	if f.err != nil {
		return f.err
	}
	f.transfers = append(f.transfers, mapID)
	return nil
}

func (f *fakeHostControl) SetVariable(id, value int) error {
	if f.err != nil {
		return f.err
	}
	if f.vars == nil {
		f.vars = map[int]int{}
	}
	f.vars[id] = value
	return nil
}

func (f *fakeHostControl) SetSwitch(id int, on bool) {
	if f.switches == nil {
		f.switches = map[int]bool{}
	}
	f.switches[id] = on
}

func (f *fakeHostControl) StartEvent(id, _ int) { f.started = append(f.started, id) }
func (f *fakeHostControl) RunningEventID() int  { return f.running }

type stoppedRunner struct{}

func (stoppedRunner) Do(context.Context, func() error) error { return loop.ErrStopped }

type testRig struct {
	host    *mock.Host
	session *minimap.Session
	control *fakeHostControl
	h       Handler
}

func newRig() *testRig {
	host := mock.NewHost(mock.MustGrid(1,
		`....`,
		`.~~.`,
		`.#..`,
		`....`,
	))
	session := minimap.NewSession(minimap.DefaultConfig(), host)
	session.Attach(host)
	control := &fakeHostControl{}
	return &testRig{
		host:    host,
		session: session,
		control: control,
		h: Handler{
			Minimap:   session,
			CommandUC: command.UseCase{Minimap: session, DefaultColor: "white"},
			SaveUC: savegame.UseCase{
				Repo:  memory.NewSaveRepo(memory.NewStore()),
				Hooks: []ports.SaveHook{session},
			},
			Host: control,
		},
	}
}

func decodeError(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	var body map[string]map[string]string
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return body["error"]["code"]
}

func TestCommandTrackBindsRunningEvent(t *testing.T) {
	rig := newRig()
	rig.control.running = 5
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"target":"e0","color":"red"}`))

	rig.h.command(command.CommandTrack)(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var resp command.Response
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Target != "e5" || resp.MapID != 1 || resp.Color != "red" {
		t.Fatalf("response mismatch: got=%+v", resp)
	}
	markers, _ := rig.session.Markers(1)
	if got, want := markers["e5"], "red"; got != want {
		t.Fatalf("stored color mismatch: got=%q want=%q", got, want)
	}
}

func TestCommandExplicitEventIDWins(t *testing.T) {
	rig := newRig()
	rig.control.running = 5
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"target":"e0","event_id":0}`))

	rig.h.command(command.CommandTrack)(context.Background(), ctx)

	markers, _ := rig.session.Markers(1)
	if _, ok := markers["e0"]; !ok {
		t.Fatalf("expected unbound e0 marker, got=%v", markers)
	}
}

func TestCommandShowAndHide(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	rig.h.command(command.CommandShow)(context.Background(), ctx)
	if got, want := rig.session.Forced(), visibility.ForcedShow; got != want {
		t.Fatalf("forced mismatch: got=%s want=%s", got, want)
	}

	ctx = &app.RequestContext{}
	rig.h.command(command.CommandHide)(context.Background(), ctx)
	if got, want := rig.session.Forced(), visibility.ForcedHide; got != want {
		t.Fatalf("forced mismatch: got=%s want=%s", got, want)
	}
}

func TestCommandHideOutsideEventTakesEffect(t *testing.T) {
	rig := newRig()
	rig.session.Update()
	if f := rig.session.Update(); !f.Visible {
		t.Fatalf("expected visible frame after build")
	}

	ctx := &app.RequestContext{}
	rig.h.command(command.CommandHide)(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	for i := 0; i < 3; i++ {
		if f := rig.session.Update(); f.Visible {
			t.Fatalf("tick %d: expected hide to hold without a running event", i)
		}
	}
}

func TestCommandRejectsMalformedBody(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"target":`))

	rig.h.command(command.CommandTrack)(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := decodeError(t, ctx), "bad_request"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestCommandWithoutMapConflicts(t *testing.T) {
	rig := newRig()
	rig.host.Grid = nil
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"target":"1,1"}`))

	rig.h.command(command.CommandTrack)(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := decodeError(t, ctx), "no_map"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestMarkersForExplicitMap(t *testing.T) {
	rig := newRig()
	if err := rig.session.Track(3, "2,2", "blue"); err != nil {
		t.Fatalf("track: %v", err)
	}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/minimap/markers?map=3")

	rig.h.markers(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var resp markersResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.MapID != 3 || resp.Markers["2,2"] != "blue" {
		t.Fatalf("response mismatch: got=%+v", resp)
	}
}

func TestMarkersCurrentMapIsNeverNull(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/minimap/markers")

	rig.h.markers(context.Background(), ctx)

	if got, want := string(ctx.Response.Body()), `{"map_id":1,"markers":{}}`; got != want {
		t.Fatalf("body mismatch: got=%s want=%s", got, want)
	}
}

func TestMarkersRejectsBadMapQuery(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/minimap/markers?map=abc")

	rig.h.markers(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestFramePNGBeforeAndAfterBuild(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	rig.h.framePNG(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	rig.session.Update()
	f := rig.session.Update()
	if !f.Visible {
		t.Fatalf("expected visible frame after build")
	}

	ctx = &app.RequestContext{}
	rig.h.framePNG(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := string(ctx.Response.Header.Peek(opacityHeader)), "128"; got != want {
		t.Fatalf("opacity header mismatch: got=%q want=%q", got, want)
	}
	img, err := png.Decode(bytes.NewReader(ctx.Response.Body()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if got, want := img.Bounds().Size(), f.Bounds.Size(); got != want {
		t.Fatalf("image size mismatch: got=%v want=%v", got, want)
	}
}

func TestFrameJSON(t *testing.T) {
	rig := newRig()
	rig.session.Update()
	rig.session.Update()
	ctx := &app.RequestContext{}

	rig.h.frame(context.Background(), ctx)

	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["visible"], true; got != want {
		t.Fatalf("visible mismatch: got=%v want=%v", got, want)
	}
	if got, want := body["map_id"], float64(1); got != want {
		t.Fatalf("map_id mismatch: got=%v want=%v", got, want)
	}
	if _, ok := body["markers"].([]any); !ok {
		t.Fatalf("markers should be an array, got=%T", body["markers"])
	}
}

func TestSaveThenLoadRestoresMarkers(t *testing.T) {
	rig := newRig()
	if err := rig.session.Track(1, "1,2", "red"); err != nil {
		t.Fatalf("track: %v", err)
	}
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "slot", Value: "slot1"}}
	rig.h.save(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("save status mismatch: got=%d want=%d", got, want)
	}

	if err := rig.session.Untrack(1, "1,2"); err != nil {
		t.Fatalf("untrack: %v", err)
	}
	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "slot", Value: "slot1"}}
	rig.h.load(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("load status mismatch: got=%d want=%d", got, want)
	}
	markers, _ := rig.session.Markers(1)
	if got, want := markers["1,2"], "red"; got != want {
		t.Fatalf("restored color mismatch: got=%q want=%q", got, want)
	}
}

func TestLoadMissingSlotIsNotFound(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "slot", Value: "nope"}}

	rig.h.load(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestSaveInvalidSlot(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "slot", Value: "../etc"}}

	rig.h.save(context.Background(), ctx)

	if got, want := decodeError(t, ctx), "invalid_slot"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestHostTransferValidation(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"map_id":0}`))
	rig.h.transfer(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"map_id":4}`))
	rig.h.transfer(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusAccepted; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if len(rig.control.transfers) != 1 || rig.control.transfers[0] != 4 {
		t.Fatalf("transfers got=%v", rig.control.transfers)
	}
}

func TestHostSetVariableRequiresFields(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"id":3}`))
	rig.h.setVariable(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"id":3,"value":0}`))
	rig.h.setVariable(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if v, ok := rig.control.vars[3]; !ok || v != 0 {
		t.Fatalf("variable got=%d ok=%v", v, ok)
	}
}

func TestHostSwitchAndEvent(t *testing.T) {
	rig := newRig()
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"id":2,"on":true}`))
	rig.h.setSwitch(context.Background(), ctx)
	if !rig.control.switches[2] {
		t.Fatalf("switch 2 should be on")
	}

	ctx = &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"id":1,"ticks":0}`))
	rig.h.startEvent(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestHostRoutesWithoutControl(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"map_id":2}`))

	h.transfer(context.Background(), ctx)

	if got, want := decodeError(t, ctx), "not_configured"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestStoppedLoopIsUnavailable(t *testing.T) {
	rig := newRig()
	rig.h.Runner = stoppedRunner{}
	ctx := &app.RequestContext{}

	rig.h.frame(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusServiceUnavailable; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteError_UnknownCommand(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, command.ErrUnknownCommand)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := decodeError(t, ctx), "unknown_command"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, errors.New("disk on fire"))

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string]map[string]string
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, want := body["error"]["message"], "internal error"; got != want {
		t.Fatalf("message mismatch: got=%q want=%q", got, want)
	}
}

type fakeKPI struct{}

func (fakeKPI) SnapshotAny() any { return map[string]int{"frame_total": 3} }

func TestKPI(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = &app.RequestContext{}
	Handler{KPI: fakeKPI{}}.kpi(context.Background(), ctx)
	if got, want := string(ctx.Response.Body()), `{"frame_total":3}`; got != want {
		t.Fatalf("body mismatch: got=%s want=%s", got, want)
	}
}

func TestViewerServesEmbeddedIndex(t *testing.T) {
	h := Handler{Assets: staticassets.Provider{}}
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "filepath", Value: "/"}}

	h.viewerFile(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := string(ctx.Response.Header.ContentType()); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("content type got=%q want text/html", got)
	}
}

func TestViewerRejectsTraversal(t *testing.T) {
	h := Handler{Assets: staticassets.Provider{}}
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "filepath", Value: "/../handler.go"}}

	h.viewerFile(context.Background(), ctx)

	if got, want := decodeError(t, ctx), "invalid_filepath"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestViewerMissingFile(t *testing.T) {
	h := Handler{Assets: staticassets.Provider{}}
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "filepath", Value: "/missing.css"}}

	h.viewerFile(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}
