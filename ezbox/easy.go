// Package ezbox provides a process-default recorder behind package level
// functions, for programs that don't need more than one.
package ezbox

import (
	"io"
	"log"

	blackbox "github.com/yanickc/blackbox-recorder"
)

// DefaultName is the registry name of the process-default recorder.
const DefaultName = "default"

// Recorder returns the process-default recorder.
func Recorder() *blackbox.Recorder {
	return blackbox.GetRecorder(DefaultName)
}

// StoreArgs captures the arguments of the calling function into the default
// recorder.
func StoreArgs(call blackbox.Call) error {
	rec, err := blackbox.CaptureCall(1, call)
	if err != nil {
		return err
	}
	Recorder().Append(rec)
	return nil
}

// StoreLocals captures the named local variables of the calling function into
// the default recorder.
func StoreLocals(label string, locals map[string]any, names ...string) error {
	return Recorder().StoreLocals(label, locals, names...)
}

// StoreValues records an arbitrary key/value mapping into the default
// recorder.
func StoreValues(label string, values map[string]any) {
	Recorder().StoreValues(label, values)
}

// StoreObject captures an object's exported data fields into the default
// recorder.
func StoreObject(obj any, names ...string) error {
	return Recorder().StoreObject(obj, names...)
}

// Render writes the default recorder's records to the sink.
func Render(sink io.Writer) error {
	return Recorder().Render(sink)
}

// RenderToLog writes the default recorder's records through the given logger,
// or the process's default logger when nil.
func RenderToLog(logger *log.Logger) error {
	return Recorder().RenderToLog(logger)
}

// Clear removes every record from the default recorder, returning the number
// removed.
func Clear() int {
	return Recorder().Clear()
}
