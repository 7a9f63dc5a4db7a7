package observer

import (
	"fmt"
	"io"
	"os"

	"github.com/propel-ml/propel/mediator"
	"github.com/propel-ml/propel/report"
)

// Logger prints a one-line summary of every epoch and the final
// termination. It requests nothing; output goes to the injected
// writer so tests can capture it.
type Logger struct {
	out io.Writer
}

// NewLogger returns a logger writing to out, or os.Stdout when nil.
func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{out: out}
}

// Channels subscribes the logger to both lifecycle channels.
func (l *Logger) Channels() []string {
	return []string{mediator.DoneEpoch, mediator.DoneExperiment}
}

// Notify prints the event. Epoch lines include each propagator's loss.
func (l *Logger) Notify(e mediator.Event) ([]Intent, error) {
	switch e.Channel {
	case mediator.DoneEpoch:
		fmt.Fprintf(l.out, "epoch %d:%s\n", e.Epoch, lossSummary(e.Report))
	case mediator.DoneExperiment:
		fmt.Fprintf(l.out, "experiment done after epoch %d: %s\n", e.Epoch, e.Reason)
	}
	return nil, nil
}

// lossSummary collects "name loss=x" fragments from the report's
// propagator subtrees, in key order.
func lossSummary(r *report.Node) string {
	if r == nil {
		return ""
	}
	var out string
	for _, key := range r.Keys() {
		kind, err := r.KindOf(key)
		if err != nil || kind != report.KindNode {
			continue
		}
		if loss, err := r.Scalar(key, "loss"); err == nil {
			out += fmt.Sprintf(" %s loss=%.4f", key, loss)
		}
	}
	return out
}
