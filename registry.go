package blackbox

import (
	"sync"
)

// The process-wide registry of named recorders, in the manner of named
// loggers: call sites anywhere in the program look their recorder up by name
// instead of threading an instance through.
var (
	registryMtx sync.Mutex
	registry    = map[string]*Recorder{}
)

// GetRecorder returns the recorder registered under the given name, creating
// and registering an empty one on first use.
func GetRecorder(name string) *Recorder {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	r, ok := registry[name]
	if !ok {
		r = NewRecorder(name)
		registry[name] = r
	}
	return r
}

// DelRecorder removes the named recorder from the registry, a no-op when no
// such recorder exists. Existing references to the recorder remain valid; a
// later GetRecorder with the same name returns a fresh instance.
func DelRecorder(name string) {
	registryMtx.Lock()
	defer registryMtx.Unlock()

	delete(registry, name)
}
