// Package blackbox provides an in-process recorder for the arguments, local
// variables, and object attributes of running code, a structured alternative
// to ad-hoc log statements.
//
// The basic idea is to "log" to a named in-memory [Recorder] rather than a
// destination like stdout or a file on disk. Each capture operation produces a
// [Record]: a snapshot of the state observable at the capture site, with every
// value deep-copied so that later mutation of the originals can never change
// what was recorded. Records accumulate in insertion order until the recorder
// is explicitly cleared, and can be rendered at any time to a human-readable,
// machine-parseable text form.
//
// Because Go has no facility to enumerate the parameters bound to an active
// call, callers describe their own arguments explicitly as a [Call] value. The
// recorder still inspects the call stack to validate the capture site and to
// derive a default label from the calling function's name.
//
// Recorders are typically accessed by name through [GetRecorder], in the same
// way as named loggers, so call sites don't need to share an instance
// explicitly. Applications that only ever want a single recorder can use
// [github.com/yanickc/blackbox-recorder/ezbox], which provides package level
// functions over a process-default recorder.
package blackbox
