package memory

import (
	"encoding/json"
	"sync"

	"minimap/internal/app/ports"
)

type Store struct {
	mu    sync.RWMutex
	slots map[string]ports.SaveContents
}

func NewStore() *Store {
	return &Store{
		slots: make(map[string]ports.SaveContents),
	}
}

func cloneContents(in ports.SaveContents) ports.SaveContents {
	out := make(ports.SaveContents, len(in))
	for k, v := range in {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
