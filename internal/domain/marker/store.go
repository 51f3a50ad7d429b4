// Package marker holds custom minimap markers and resolves their targets.
package marker

import (
	"sort"
	"strings"
	"unicode"
)

// Normalize strips all whitespace and lower-cases a target spec. Specs are
// compared as plain strings after normalization.
func Normalize(target string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, target))
}

// Store maps a map id to its markers, keyed by normalized spec.
type Store struct {
	byMap map[int]map[string]string
}

func NewStore() *Store {
	return &Store{byMap: map[int]map[string]string{}}
}

// Add sets the color of a marker, replacing any previous color for the spec.
func (s *Store) Add(mapID int, spec, color string) {
	markers, ok := s.byMap[mapID]
	if !ok {
		markers = map[string]string{}
		s.byMap[mapID] = markers
	}
	markers[spec] = color
}

// Remove deletes a marker. Unknown maps and specs are ignored.
func (s *Store) Remove(mapID int, spec string) {
	markers, ok := s.byMap[mapID]
	if !ok {
		return
	}
	delete(markers, spec)
	if len(markers) == 0 {
		delete(s.byMap, mapID)
	}
}

// Get returns a copy of the markers for one map.
func (s *Store) Get(mapID int) map[string]string {
	out := make(map[string]string, len(s.byMap[mapID]))
	for spec, color := range s.byMap[mapID] {
		out[spec] = color
	}
	return out
}

// Specs lists the specs of one map in draw order.
func (s *Store) Specs(mapID int) []string {
	markers := s.byMap[mapID]
	out := make([]string, 0, len(markers))
	for spec := range markers {
		out = append(out, spec)
	}
	sort.Strings(out)
	return out
}

// Len counts markers across all maps.
func (s *Store) Len() int {
	n := 0
	for _, markers := range s.byMap {
		n += len(markers)
	}
	return n
}

// Snapshot deep-copies the whole store.
func (s *Store) Snapshot() map[int]map[string]string {
	out := make(map[int]map[string]string, len(s.byMap))
	for mapID, markers := range s.byMap {
		cp := make(map[string]string, len(markers))
		for spec, color := range markers {
			cp[spec] = color
		}
		out[mapID] = cp
	}
	return out
}

// Replace swaps the whole store for saved contents. Nothing is merged.
func (s *Store) Replace(saved map[int]map[string]string) {
	next := make(map[int]map[string]string, len(saved))
	for mapID, markers := range saved {
		if len(markers) == 0 {
			continue
		}
		cp := make(map[string]string, len(markers))
		for spec, color := range markers {
			cp[spec] = color
		}
		next[mapID] = cp
	}
	s.byMap = next
}
