// Package jsonfile keeps save slots in a single local JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"minimap/internal/app/ports"
)

type fileData struct {
	Slots map[string]ports.SaveContents `json:"slots"`
}

// Store rewrites the whole file on every save.
type Store struct {
	path string
	mu   sync.RWMutex
	data fileData
}

// Open loads the file at path, creating it when missing.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: fileData{Slots: map[string]ports.SaveContents{}},
	}
	if _, err := os.Stat(path); err == nil {
		if err := s.loadFromFile(); err != nil {
			return nil, fmt.Errorf("load save file %s: %w", path, err)
		}
		return s, nil
	}
	if err := s.writeFile(); err != nil {
		return nil, fmt.Errorf("create save file %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) loadFromFile() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	data := fileData{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	if data.Slots == nil {
		data.Slots = map[string]ports.SaveContents{}
	}
	s.data = data
	return nil
}

// writeFile must be called with mu held or before the store is shared.
func (s *Store) writeFile() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) Save(_ context.Context, slot string, contents ports.SaveContents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.data.Slots[slot]
	s.data.Slots[slot] = contents
	if err := s.writeFile(); err != nil {
		if had {
			s.data.Slots[slot] = prev
		} else {
			delete(s.data.Slots, slot)
		}
		return fmt.Errorf("write save file: %w", err)
	}
	return nil
}

func (s *Store) Load(_ context.Context, slot string) (ports.SaveContents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contents, ok := s.data.Slots[slot]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := make(ports.SaveContents, len(contents))
	for k, v := range contents {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out, nil
}

// Close is a no-op; every save is already on disk.
func (s *Store) Close() error {
	return nil
}
