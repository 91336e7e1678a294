// Package trace records the duration of pipeline steps (one fetch, one
// compiler run, one pip invocation) as Chrome trace events, viewable in
// chrome://tracing or https://ui.perfetto.dev.
package trace

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU/edit

var start = time.Now()

var (
	sinkMu sync.Mutex
	sink   io.Writer = ioutil.Discard
)

// Sink writes all following events into w, in the JSON Array Format. The
// closing ] is optional in that format and is never written.
func Sink(w io.Writer) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sink = w
	w.Write([]byte{'['})
}

// PendingEvent is a complete event (type X) whose duration is determined
// by calling Done.
type PendingEvent struct {
	Name       string            `json:"name"`
	Categories string            `json:"cat"`
	Type       string            `json:"ph"`
	Timestamp  uint64            `json:"ts"` // µs since program start
	Duration   uint64            `json:"dur"`
	Pid        int               `json:"pid"`
	Tid        int               `json:"tid"`
	Args       map[string]string `json:"args,omitempty"`

	start time.Time
}

// Done records the event. Write errors are logged, never returned: a broken
// trace file must not fail the build.
func (pe *PendingEvent) Done() {
	pe.Duration = uint64(time.Since(pe.start) / time.Microsecond)
	b, err := json.Marshal(pe)
	if err != nil {
		log.Warnf("[trace] %v", err)
		return
	}
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if _, err := sink.Write(append(b, ',')); err != nil {
		log.Warnf("[trace] %v", err)
	}
}

// Event starts an event in category cat. args (key, value pairs) are shown
// in the trace viewer’s detail pane.
func Event(cat, name string, args ...string) *PendingEvent {
	pe := &PendingEvent{
		Name:       name,
		Categories: cat,
		Type:       "X",
		Timestamp:  uint64(time.Since(start) / time.Microsecond),
		Pid:        os.Getpid(),
		Tid:        1,
		start:      time.Now(),
	}
	if len(args) > 1 {
		pe.Args = make(map[string]string, len(args)/2)
		for i := 0; i+1 < len(args); i += 2 {
			pe.Args[args[i]] = args[i+1]
		}
	}
	return pe
}
