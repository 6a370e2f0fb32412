package extension

import (
	"fmt"
	"sort"
	"sync"

	"github.com/schedsim/feedq/model"
)

// Builder constructs a runnable process from its scenario declaration.
type Builder func(spec *model.ProcessSpec) (model.Process, error)

// Kinds maps workload kind names to their builders.
type Kinds struct {
	builders map[string]Builder
	mux      sync.RWMutex
}

// Lookup returns a builder by kind name
func (k *Kinds) Lookup(kind string) Builder {
	k.mux.RLock()
	defer k.mux.RUnlock()
	return k.builders[kind]
}

// Register registers a builder under the given kind name
func (k *Kinds) Register(kind string, builder Builder) {
	k.mux.Lock()
	defer k.mux.Unlock()
	k.builders[kind] = builder
}

// Names returns the registered kind names in alphabetical order.
func (k *Kinds) Names() []string {
	k.mux.RLock()
	defer k.mux.RUnlock()
	names := make([]string, 0, len(k.builders))
	for name := range k.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build resolves the declared kind and constructs the process. Declarations
// with an explicit phase list and no kind default to the phased builder.
func (k *Kinds) Build(spec *model.ProcessSpec) (model.Process, error) {
	if spec == nil {
		return nil, fmt.Errorf("process spec cannot be nil")
	}
	kind := spec.Kind
	if kind == "" && len(spec.Phases) > 0 {
		kind = "phased"
	}
	builder := k.Lookup(kind)
	if builder == nil {
		return nil, fmt.Errorf("unknown workload kind %q for process %s", kind, spec.Name)
	}
	return builder(spec)
}

// NewKinds creates a new kind registry
func NewKinds() *Kinds {
	return &Kinds{builders: make(map[string]Builder)}
}
