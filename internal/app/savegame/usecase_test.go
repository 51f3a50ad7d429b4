package savegame

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"minimap/internal/app/ports"
)

type mapRepo struct {
	slots map[string]ports.SaveContents
}

func (r *mapRepo) Save(_ context.Context, slot string, c ports.SaveContents) error {
	r.slots[slot] = c
	return nil
}

func (r *mapRepo) Load(_ context.Context, slot string) (ports.SaveContents, error) {
	c, ok := r.slots[slot]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return c, nil
}

type recordHook struct {
	key    string
	value  string
	loaded string
	err    error
}

func (h *recordHook) OnSave(c ports.SaveContents) error {
	c[h.key] = json.RawMessage(`"` + h.value + `"`)
	return nil
}

func (h *recordHook) OnLoad(c ports.SaveContents) error {
	if h.err != nil {
		return h.err
	}
	h.loaded = string(c[h.key])
	return nil
}

func TestSaveLoadRunsHooks(t *testing.T) {
	repo := &mapRepo{slots: map[string]ports.SaveContents{}}
	a := &recordHook{key: "a", value: "1"}
	b := &recordHook{key: "b", value: "2"}
	uc := UseCase{Repo: repo, Hooks: []ports.SaveHook{a, b}}

	resp, err := uc.Save(context.Background(), "slot-1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !reflect.DeepEqual(resp.Sections, []string{"a", "b"}) {
		t.Fatalf("sections got=%v", resp.Sections)
	}
	if _, err := uc.Load(context.Background(), "slot-1"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.loaded != `"1"` || b.loaded != `"2"` {
		t.Fatalf("hooks got=%q/%q", a.loaded, b.loaded)
	}
}

func TestLoadMissingSlot(t *testing.T) {
	uc := UseCase{Repo: &mapRepo{slots: map[string]ports.SaveContents{}}}
	if _, err := uc.Load(context.Background(), "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvalidSlotNames(t *testing.T) {
	uc := UseCase{Repo: &mapRepo{slots: map[string]ports.SaveContents{}}}
	for _, slot := range []string{"", "../etc", "a b", "x/y"} {
		if _, err := uc.Save(context.Background(), slot); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("Save(%q) expected ErrInvalidSlot, got %v", slot, err)
		}
		if _, err := uc.Load(context.Background(), slot); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("Load(%q) expected ErrInvalidSlot, got %v", slot, err)
		}
	}
}

func TestLoadHookErrorIsWrapped(t *testing.T) {
	repo := &mapRepo{slots: map[string]ports.SaveContents{"s": {}}}
	boom := errors.New("boom")
	uc := UseCase{Repo: repo, Hooks: []ports.SaveHook{&recordHook{key: "a", err: boom}}}
	if _, err := uc.Load(context.Background(), "s"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped hook error, got %v", err)
	}
}
