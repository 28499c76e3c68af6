package cmd

import (
	"log"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/cohortlab/rfmctl/internal/events"
	"github.com/cohortlab/rfmctl/internal/pipeline"
)

// newObserver picks the event sink for a command run: verbose structured
// logging under --debug, otherwise a stage progress bar.
func newObserver() events.Observer {
	if debug {
		return events.NewLogObserver(log.New(os.Stderr, "", log.LstdFlags))
	}
	return &progressObserver{bar: progressbar.Default(int64(len(pipeline.Stages)))}
}

// progressObserver advances one tick per completed pipeline stage and
// ignores the finer-grained events.
type progressObserver struct {
	bar *progressbar.ProgressBar
}

func (o *progressObserver) Event(e events.Event) {
	if e.Stage == "pipeline" && e.Message == "stage_done" {
		_ = o.bar.Add(1)
	}
}
