package inmemory

import (
	"strconv"
	"sync"
	"time"

	"minimap/internal/app/ports"
)

type Snapshot struct {
	RebuildTotal       uint64            `json:"rebuild_total"`
	LastRebuildMs      float64           `json:"last_rebuild_ms"`
	RebuildsByMap      map[string]uint64 `json:"rebuilds_by_map"`
	FrameTotal         uint64            `json:"frame_total"`
	FramesByOutcome    map[string]uint64 `json:"frames_by_outcome"`
	MarkersDrawnTotal  uint64            `json:"markers_drawn_total"`
	MarkersSkipped     uint64            `json:"markers_skipped_total"`
	MarkersLastDrawn   int               `json:"markers_last_drawn"`
	MarkersLastSkipped int               `json:"markers_last_skipped"`
}

// Recorder is written from the loop goroutine and read from HTTP handlers.
type Recorder struct {
	mu          sync.Mutex
	rebuilds    uint64
	lastRebuild time.Duration
	byMap       map[int]uint64
	frames      map[ports.FrameOutcome]uint64
	drawn       uint64
	skipped     uint64
	lastDrawn   int
	lastSkipped int
}

var _ ports.MinimapMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		byMap:  map[int]uint64{},
		frames: map[ports.FrameOutcome]uint64{},
	}
}

func (r *Recorder) RecordRebuild(mapID int, took time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rebuilds++
	r.lastRebuild = took
	r.byMap[mapID]++
}

func (r *Recorder) RecordFrame(outcome ports.FrameOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames[outcome]++
}

func (r *Recorder) RecordMarkers(drawn, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawn += uint64(drawn)
	r.skipped += uint64(skipped)
	r.lastDrawn = drawn
	r.lastSkipped = skipped
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		RebuildTotal:       r.rebuilds,
		LastRebuildMs:      float64(r.lastRebuild) / float64(time.Millisecond),
		RebuildsByMap:      make(map[string]uint64, len(r.byMap)),
		FramesByOutcome:    make(map[string]uint64, len(r.frames)),
		MarkersDrawnTotal:  r.drawn,
		MarkersSkipped:     r.skipped,
		MarkersLastDrawn:   r.lastDrawn,
		MarkersLastSkipped: r.lastSkipped,
	}
	for id, n := range r.byMap {
		out.RebuildsByMap[strconv.Itoa(id)] = n
	}
	for k, v := range r.frames {
		out.FramesByOutcome[string(k)] = v
		out.FrameTotal += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
