package blackbox

import (
	"fmt"
)

// CaptureContextError is returned by capture operations that inspect the call
// stack, when no call frame exists at the requested level, for example when
// the requested skip exceeds the available call depth.
type CaptureContextError struct {
	Skip int
}

// Error implements the error interface.
func (e *CaptureContextError) Error() string {
	return fmt.Sprintf("no active call frame %d level(s) above the capture site", e.Skip)
}

// FieldCollisionError is returned when a collected variadic-keyword entry has
// the same name as a declared parameter, or as the varargs bucket. A silent
// overwrite would hide a naming bug in the captured code, so the capture fails
// instead, and the recorder gains no record.
type FieldCollisionError struct {
	Name string
}

// Error implements the error interface.
func (e *FieldCollisionError) Error() string {
	return fmt.Sprintf("field %q collides with an already-captured parameter", e.Name)
}

// UnclonableValueError describes a value that cannot be safely deep-copied,
// such as a channel, a function, or an object holding live resources. It is
// always recovered inside the capture engine by substituting a placeholder
// string for the offending value, and is never returned to callers.
type UnclonableValueError struct {
	Type string
}

// Error implements the error interface.
func (e *UnclonableValueError) Error() string {
	return fmt.Sprintf("value of type %s cannot be deep-copied", e.Type)
}
