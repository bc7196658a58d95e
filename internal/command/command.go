// Package command implements the string→object commander described in
// spec.md §4.3. It is grounded directly on tilenol/commands.py's
// CommandDispatcher (a dict subclass whose __setitem__ fires a
// per-key changed event) and on its Events.__missing__ lazy-Event
// pattern, reworked into explicit Go types per spec.md §9.
package command

import (
	"fmt"
	"sync"

	"github.com/tailhook/tilenol/internal/bus"
)

// Object is anything the commander can route verbs to. By convention
// (spec.md §4.3) the method for verb "foo" is named CmdFoo.
type Object interface{}

// Registry is the commander: a name→object map where assignment emits a
// change event for that name, and call/callback route "<verb>" to the
// named object's "Cmd<Verb>" behavior.
//
// Go has no dynamic method dispatch by string name, so rather than
// reflect into CmdFoo methods (which the teacher's source never does
// either — marwind's `action.act()` is a plain closure captured at
// bind time, spec.md §9's "exceptions for flow control" note applies
// symmetrically to runtime method lookup) each Object registers its
// verbs explicitly as a map[string]func(args ...string) error. This
// keeps the "lookup-or-typed-error" discipline spec.md §9 asks for
// instead of a panicking reflect.Value.MethodByName lookup.
type Registry struct {
	mu      sync.RWMutex
	objects map[string]Object
	verbs   map[string]map[string]func(args ...string) error
	events  map[string]*bus.Event
}

// NewRegistry builds an empty commander.
func NewRegistry() *Registry {
	return &Registry{
		objects: make(map[string]Object),
		verbs:   make(map[string]map[string]func(args ...string) error),
		events:  make(map[string]*bus.Event),
	}
}

// ErrNotFound is returned by Call, and by the closures Callback builds,
// when the named object (or the named verb on it) is not registered.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string { return fmt.Sprintf("command: not found: %s", e.Name) }

// Changed returns the per-name change event, creating it on first access —
// this mirrors commands.py's Events.__missing__ lazily instantiating an
// Event the first time a widget asks to observe a given name.
func (r *Registry) Changed(name string) *bus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[name]
	if !ok {
		ev = bus.New("changed." + name)
		r.events[name] = ev
	}
	return ev
}

// Set registers obj under name and fires the name's change event if one
// has been requested via Changed. Re-registering the same object under
// the same name still fires the event (matches the original's
// unconditional __setitem__ emit).
func (r *Registry) Set(name string, obj Object) {
	r.mu.Lock()
	r.objects[name] = obj
	ev, hasEv := r.events[name]
	r.mu.Unlock()
	if hasEv {
		ev.Emit()
	}
}

// Unset removes the name's binding (e.g. "window" on focus-out) and fires
// its change event, same as the Python `del commander['window']`.
func (r *Registry) Unset(name string) {
	r.mu.Lock()
	_, existed := r.objects[name]
	delete(r.objects, name)
	ev, hasEv := r.events[name]
	r.mu.Unlock()
	if existed && hasEv {
		ev.Emit()
	}
}

// Get returns the object bound to name, or false if unbound.
func (r *Registry) Get(name string) (Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.objects[name]
	return obj, ok
}

// RegisterVerbs attaches the set of verb handlers an object exposes under
// name. Called once at wiring time, alongside Set.
func (r *Registry) RegisterVerbs(name string, verbs map[string]func(args ...string) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbs[name] = verbs
}

// Call looks up name's verb handler and invokes it with args — the Go
// analogue of commands.py's `commander.call(obj, meth, *args)` /
// `getattr(self[obj], 'cmd_' + meth)(*args)`.
func (r *Registry) Call(name, verb string, args ...string) error {
	r.mu.RLock()
	verbs, ok := r.verbs[name]
	r.mu.RUnlock()
	if !ok {
		return &ErrNotFound{Name: name}
	}
	fn, ok := verbs[verb]
	if !ok {
		return &ErrNotFound{Name: name + "." + verb}
	}
	return fn(args...)
}

// Callback returns a zero-argument closure performing the same call as
// Call — used to bind keys, pointer gestures and menu items (spec.md
// §4.3 "`callback(name, verb, args…)` returns a zero-argument closure").
func (r *Registry) Callback(name, verb string, args ...string) func() error {
	return func() error {
		return r.Call(name, verb, args...)
	}
}
