package ports

import "time"

type FrameOutcome string

const (
	FrameDrawn   FrameOutcome = "drawn"
	FrameHidden  FrameOutcome = "hidden"
	FramePending FrameOutcome = "pending"
)

type MinimapMetrics interface {
	RecordRebuild(mapID int, took time.Duration)
	RecordFrame(outcome FrameOutcome)
	RecordMarkers(drawn, skipped int)
}
