package ports

import (
	"context"
	"encoding/json"
)

// SaveContents is one save file: plugin-owned sections keyed by name.
type SaveContents map[string]json.RawMessage

type SaveRepository interface {
	Save(ctx context.Context, slot string, contents SaveContents) error
	Load(ctx context.Context, slot string) (SaveContents, error)
}

// SaveHook lets a component embed its own state in a save file.
type SaveHook interface {
	OnSave(contents SaveContents) error
	OnLoad(contents SaveContents) error
}
