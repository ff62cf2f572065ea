package blackbox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
)

// Recorder is a named, append-only, clearable collection of records. The name
// is informational; uniqueness is the registry's concern, not the recorder's.
//
// A recorder performs no internal locking. A single logical owner per
// instance is assumed; concurrent captures into the same recorder need
// caller-side mutual exclusion.
type Recorder struct {
	name    string
	records []*Record
}

// NewRecorder returns an empty recorder with the given name.
func NewRecorder(name string) *Recorder {
	return &Recorder{
		name: name,
	}
}

// Name returns the recorder's logical name.
func (r *Recorder) Name() string {
	return r.name
}

// Len returns the number of stored records.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Append adds the record to the end of the collection. It is total: any
// record appends successfully.
func (r *Recorder) Append(rec *Record) {
	r.records = append(r.records, rec)
}

// Records returns the stored records in insertion order. The returned slice
// is a fresh copy; the records themselves are immutable.
func (r *Recorder) Records() []*Record {
	records := make([]*Record, len(r.records))
	copy(records, r.records)
	return records
}

// Clear removes every stored record, returning the number removed. Clearing
// an already-empty recorder returns 0.
func (r *Recorder) Clear() int {
	n := len(r.records)
	r.records = nil
	return n
}

//
//
//

// StoreArgs captures the arguments of the calling function, as bound in the
// given call, and appends the resulting record. On error the recorder is
// unchanged.
func (r *Recorder) StoreArgs(call Call) error {
	rec, err := captureCall(2, call)
	if err != nil {
		return err
	}
	r.Append(rec)
	return nil
}

// StoreLocals captures the named local variables of the calling function from
// the given bindings, and appends the resulting record under the label. A
// name missing from the bindings is an error, and the recorder is unchanged.
func (r *Recorder) StoreLocals(label string, locals map[string]any, names ...string) error {
	selected := make(map[string]any, len(names))
	for _, name := range names {
		value, ok := locals[name]
		if !ok {
			return fmt.Errorf("local variable %q not found", name)
		}
		selected[name] = value
	}
	r.Append(CaptureValues(label, selected))
	return nil
}

// StoreValues records an arbitrary key/value mapping under the given label.
// It is total: any well-typed mapping appends a record.
func (r *Recorder) StoreValues(label string, values map[string]any) {
	r.Append(CaptureValues(label, values))
}

// StoreObject captures the object's exported data fields, all of them or only
// the named ones, and appends the resulting record. On error the recorder is
// unchanged.
func (r *Recorder) StoreObject(obj any, names ...string) error {
	rec, err := CaptureObject(obj, names...)
	if err != nil {
		return err
	}
	r.Append(rec)
	return nil
}

//
//
//

// Render writes every stored record to the sink, in insertion order. Each
// record is a header line -- the owner descriptor for method and object
// captures, the label otherwise, nothing when both are absent -- followed by
// the fields as indented, key-sorted JSON, followed by a blank separator
// line. Rendering is non-destructive; records remain stored afterwards. Sink
// write errors propagate unmodified, and never corrupt the stored records.
func (r *Recorder) Render(sink io.Writer) error {
	for _, rec := range r.records {
		if err := renderRecord(sink, rec); err != nil {
			return err
		}
	}
	return nil
}

// RenderToLog renders every stored record through the given logger, or
// through the process's default logger when nil.
func (r *Recorder) RenderToLog(logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return err
	}

	logger.Printf("recorder %q:\n%s", r.name, buf.String())
	return nil
}

func renderRecord(sink io.Writer, rec *Record) error {
	if owner, ok := rec.Owner(); ok {
		if _, err := fmt.Fprintf(sink, "Instance of class '%s' (id:%s):\n", owner.ClassName, owner.Identity); err != nil {
			return err
		}
	} else if label := rec.Label(); label != "" {
		if _, err := fmt.Fprintf(sink, "%s\n", label); err != nil {
			return err
		}
	}

	body, err := json.MarshalIndent(rec.Fields().Map(), "", "    ")
	if err != nil {
		return fmt.Errorf("render record %s: %w", rec.ID(), err)
	}

	if _, err := fmt.Fprintf(sink, "%s\n\n", body); err != nil {
		return err
	}

	return nil
}
