// Package savegame writes and restores save slots, letting each registered
// hook contribute its own section.
package savegame

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"minimap/internal/app/ports"
)

var ErrInvalidSlot = errors.New("invalid save slot")

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Response struct {
	Slot     string   `json:"slot"`
	Sections []string `json:"sections"`
}

type UseCase struct {
	Repo  ports.SaveRepository
	Hooks []ports.SaveHook
}

func (u UseCase) Save(ctx context.Context, slot string) (Response, error) {
	if !slotPattern.MatchString(slot) {
		return Response{}, ErrInvalidSlot
	}
	contents := ports.SaveContents{}
	for _, h := range u.Hooks {
		if err := h.OnSave(contents); err != nil {
			return Response{}, fmt.Errorf("save slot %s: %w", slot, err)
		}
	}
	if err := u.Repo.Save(ctx, slot, contents); err != nil {
		return Response{}, fmt.Errorf("save slot %s: %w", slot, err)
	}
	hlog.CtxInfof(ctx, "saved slot=%s sections=%d", slot, len(contents))
	return Response{Slot: slot, Sections: sections(contents)}, nil
}

// Load reads the slot and hands it to every hook. A hook error stops the
// load; hooks before it keep what they restored.
func (u UseCase) Load(ctx context.Context, slot string) (Response, error) {
	if !slotPattern.MatchString(slot) {
		return Response{}, ErrInvalidSlot
	}
	contents, err := u.Repo.Load(ctx, slot)
	if err != nil {
		return Response{}, fmt.Errorf("load slot %s: %w", slot, err)
	}
	for _, h := range u.Hooks {
		if err := h.OnLoad(contents); err != nil {
			return Response{}, fmt.Errorf("load slot %s: %w", slot, err)
		}
	}
	hlog.CtxInfof(ctx, "loaded slot=%s sections=%d", slot, len(contents))
	return Response{Slot: slot, Sections: sections(contents)}, nil
}

func sections(c ports.SaveContents) []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
