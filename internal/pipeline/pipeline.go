// Package pipeline runs the full batch flow: load, validate, clean,
// aggregate, score, segment, summarize. Every stage consumes the previous
// stage's output and produces a new value; nothing is shared or mutated
// across stages.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/cohortlab/rfmctl/internal/cleaning"
	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/events"
	"github.com/cohortlab/rfmctl/internal/report"
	"github.com/cohortlab/rfmctl/internal/rfm"
	"github.com/cohortlab/rfmctl/internal/segment"
)

// Stages names the pipeline stages in execution order. The CLI sizes its
// progress display from it.
var Stages = []string{"load", "validate", "clean", "aggregate", "score", "segment", "summarize"}

// Options configures one run.
type Options struct {
	// InputPath is the delimited input file. Ignored when Table is set
	// (e.g. rows fetched from MySQL).
	InputPath string
	Table     *dataset.Table
	Load      dataset.LoadOptions

	Bindings dataset.Bindings
	// Snapshot is the reference "now" for recency. Zero means the day
	// after the newest transaction.
	Snapshot time.Time
	Method   rfm.Method
	Bins     int
	// Rules overrides the default segment rule table.
	Rules []segment.Rule

	Observer events.Observer
}

// Outcome carries every intermediate table of a run plus the final report.
type Outcome struct {
	RunID     string
	Raw       *dataset.Table
	Cleaned   *dataset.Table
	CleanInfo []cleaning.StepCount
	Records   []rfm.Record
	Scored    []rfm.Scored
	Customers []segment.Customer
	Report    *report.Report
}

// SegmentedTable renders the segmented customers for flat export.
func (o *Outcome) SegmentedTable() *dataset.Table {
	return segment.Table(o.Customers)
}

// Run executes the pipeline. Structural problems (unreadable input, missing
// columns) abort immediately; row-level defects are filtered and counted by
// the cleaning stage.
func Run(opts Options) (*Outcome, error) {
	obs := opts.Observer
	if obs == nil {
		obs = events.Nop
	}
	bindings := opts.Bindings.Normalize()
	out := &Outcome{RunID: uuid.NewString()}

	raw := opts.Table
	if raw == nil {
		t, err := dataset.Load(opts.InputPath, opts.Load)
		if err != nil {
			return nil, err
		}
		raw = t
	}
	out.Raw = raw
	stageDone(obs, "load")

	if err := dataset.Validate(raw, bindings.Required()); err != nil {
		return nil, err
	}
	stageDone(obs, "validate")

	cleaned, err := cleaning.Clean(raw, bindings, obs)
	if err != nil {
		return nil, err
	}
	out.Cleaned = cleaned.Table
	out.CleanInfo = cleaned.Steps
	stageDone(obs, "clean")

	records, snapshot, err := rfm.Aggregate(out.Cleaned, bindings, opts.Snapshot, obs)
	if err != nil {
		return nil, err
	}
	out.Records = records
	stageDone(obs, "aggregate")

	scored, err := rfm.Score(records, opts.Method, opts.Bins, obs)
	if err != nil {
		return nil, err
	}
	out.Scored = scored
	stageDone(obs, "score")

	out.Customers = segment.Assign(scored, opts.Rules, obs)
	stageDone(obs, "segment")

	bins := opts.Bins
	if bins <= 0 {
		bins = rfm.DefaultBins
	}
	method := opts.Method
	if method == "" {
		method = rfm.MethodQuantile
	}
	out.Report = &report.Report{
		RunID:       out.RunID,
		GeneratedAt: time.Now().UTC(),
		Source:      opts.InputPath,
		Snapshot:    snapshot,
		Method:      string(method),
		Bins:        bins,
		Dataset:     report.Describe(out.Cleaned, bindings),
		Segments:    report.Summarize(out.Customers),
	}
	stageDone(obs, "summarize")
	return out, nil
}

func stageDone(obs events.Observer, stage string) {
	obs.Event(events.Event{Stage: "pipeline", Message: "stage_done", Fields: map[string]any{"stage": stage}})
}
