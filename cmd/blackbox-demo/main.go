// blackbox-demo exercises the blackbox recorder against some simulated work,
// and renders the captured records to stdout or to the standard logger.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/peterbourgon/ff/v4/ffval"
	blackbox "github.com/yanickc/blackbox-recorder"
)

func main() {
	if err := exec(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func exec(stdout, stderr io.Writer, args []string) error {
	var flags struct {
		recorder string
		count    int
		useLog   bool
	}

	fs := ff.NewFlags("blackbox-demo")
	{
		fs.AddFlag(ff.CoreFlagConfig{ShortName: 'r', LongName: "recorder", Value: ffval.NewValueDefault(&flags.recorder, "demo"), Usage: "recorder name in the registry"})
		fs.AddFlag(ff.CoreFlagConfig{ShortName: 'n', LongName: "count", Value: ffval.NewValueDefault(&flags.count, 3), Usage: "number of simulated calls to capture"})
		fs.AddFlag(ff.CoreFlagConfig{ /*          */ LongName: "log", Value: ffval.NewValue(&flags.useLog), Usage: "render through the standard logger instead of stdout", NoDefault: true})
	}

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("BLACKBOX")); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			err = nil
		}
		return err
	}

	recorder := blackbox.GetRecorder(flags.recorder)
	defer blackbox.DelRecorder(flags.recorder)

	w := &worker{ID: "worker-1"}
	for i := 0; i < flags.count; i++ {
		if err := w.process(recorder, i, i*10, i*100); err != nil {
			return err
		}
	}

	if err := recorder.StoreObject(w); err != nil {
		return err
	}

	recorder.StoreValues("totals", map[string]any{
		"captured": recorder.Len(),
		"worker":   w.ID,
	})

	if flags.useLog {
		return recorder.RenderToLog(nil)
	}
	return recorder.Render(stdout)
}

type worker struct {
	ID        string
	Processed int
}

func (w *worker) process(r *blackbox.Recorder, seq int, extra ...int) error {
	w.Processed++

	varargs := make([]any, len(extra))
	for i, v := range extra {
		varargs[i] = v
	}

	return r.StoreArgs(blackbox.Call{
		Receiver: w,
		Params: []blackbox.Param{
			{Name: "seq", Value: seq},
			{Name: "retries", Value: 0}, // defaulted, never passed explicitly
		},
		Varargs: varargs,
		Kwargs:  map[string]any{"source": "demo"},
	})
}
