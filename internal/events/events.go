// Package events is the side channel the pipeline reports progress on.
// Stages publish structured events; no stage logic depends on reading them
// back, so sinks are free to print, count, or discard.
package events

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Event is a single informational message from a pipeline stage.
type Event struct {
	Stage   string
	Message string
	Fields  map[string]any
}

// Observer receives pipeline events. Implementations must be safe to call
// from a single goroutine; the pipeline is synchronous.
type Observer interface {
	Event(e Event)
}

// Nop discards all events.
var Nop Observer = nopObserver{}

type nopObserver struct{}

func (nopObserver) Event(Event) {}

// LogObserver writes events through a stdlib logger.
type LogObserver struct {
	Logger *log.Logger
}

func NewLogObserver(l *log.Logger) *LogObserver { return &LogObserver{Logger: l} }

func (o *LogObserver) Event(e Event) {
	if o == nil || o.Logger == nil {
		return
	}
	o.Logger.Printf("[%s] %s%s", e.Stage, e.Message, formatFields(e.Fields))
}

func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
