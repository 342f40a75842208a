package workflow

import "github.com/skoirala/nepse-agent/internal/types"

// Reporter receives progress events. Implementations must tolerate
// interleaved events from concurrent workflows.
type Reporter interface {
	Report(event types.ProgressEvent)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(event types.ProgressEvent)

// Report calls f.
func (f ReporterFunc) Report(event types.ProgressEvent) {
	f(event)
}

// NopReporter discards all events.
func NopReporter() Reporter {
	return ReporterFunc(func(types.ProgressEvent) {})
}
