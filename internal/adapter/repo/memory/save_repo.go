package memory

import (
	"context"

	"minimap/internal/app/ports"
)

type SaveRepo struct {
	store *Store
}

func NewSaveRepo(store *Store) SaveRepo {
	return SaveRepo{store: store}
}

func (r SaveRepo) Save(_ context.Context, slot string, contents ports.SaveContents) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.slots[slot] = cloneContents(contents)
	return nil
}

func (r SaveRepo) Load(_ context.Context, slot string) (ports.SaveContents, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	contents, ok := r.store.slots[slot]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneContents(contents), nil
}
