package minimap

import (
	"time"

	"minimap/internal/app/ports"
)

type noopMetrics struct{}

func (noopMetrics) RecordRebuild(int, time.Duration) {}
func (noopMetrics) RecordFrame(ports.FrameOutcome)   {}
func (noopMetrics) RecordMarkers(drawn, skipped int) {}
