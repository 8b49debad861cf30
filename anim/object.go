package anim

import (
	"reflect"
	"sort"

	"github.com/matt-g-everett/ledstep/lerp"
)

// Props maps property names to values.
type Props map[string]lerp.Value

// Keys returns the property names in lexical order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Object is a mutable property bag the engine reads and writes. Identity
// matters: implementations must be pointer types.
type Object interface {
	Get(key string) (lerp.Value, bool)
	Set(key string, v lerp.Value)
}

// Named objects are reported by name on the wire.
type Named interface {
	Name() string
}

// Element is a general purpose named property bag.
type Element struct {
	id    string
	props Props
}

// NewElement creates an Element holding a copy of props.
func NewElement(id string, props Props) *Element {
	e := &Element{id: id, props: make(Props, len(props))}
	for k, v := range props {
		e.props[k] = v
	}
	return e
}

func (e *Element) Name() string {
	return e.id
}

func (e *Element) Get(key string) (lerp.Value, bool) {
	v, ok := e.props[key]
	return v, ok
}

func (e *Element) Set(key string, v lerp.Value) {
	e.props[key] = v
}

// Snapshot copies the current properties.
func (e *Element) Snapshot() Props {
	return e.props.Clone()
}

// ValueKey is the synthetic property under which a Box exposes its value.
const ValueKey = "value"

// Box holds a single primitive value.
type Box struct {
	id string
	v  lerp.Value
}

// NewBox creates a Box holding v.
func NewBox(id string, v lerp.Value) *Box {
	return &Box{id: id, v: v}
}

func (b *Box) Name() string {
	return b.id
}

// Value returns the held value.
func (b *Box) Value() lerp.Value {
	return b.v
}

func (b *Box) Get(key string) (lerp.Value, bool) {
	if key != ValueKey {
		return lerp.Value{}, false
	}
	return b.v, true
}

func (b *Box) Set(key string, v lerp.Value) {
	if key == ValueKey {
		b.v = v
	}
}

// Ref is an indirection around an Object, such as an observable wrapper.
// Instructions store the dereferenced Object.
type Ref interface {
	Deref() Object
}

// Watcher is notified about writes made through a Reactive wrapper.
type Watcher func(key string, v lerp.Value)

// Reactive wraps an Object and notifies watchers on every Set made through
// it.
type Reactive struct {
	raw      Object
	watchers []Watcher
}

// NewReactive wraps raw.
func NewReactive(raw Object) *Reactive {
	return &Reactive{raw: raw}
}

// Deref returns the wrapped Object.
func (r *Reactive) Deref() Object {
	return r.raw
}

// Watch registers w for future writes.
func (r *Reactive) Watch(w Watcher) {
	r.watchers = append(r.watchers, w)
}

func (r *Reactive) Get(key string) (lerp.Value, bool) {
	return r.raw.Get(key)
}

func (r *Reactive) Set(key string, v lerp.Value) {
	r.raw.Set(key, v)
	for _, w := range r.watchers {
		w(key, v)
	}
}

// Unwrap follows Ref indirections down to the raw Object.
func Unwrap(o Object) Object {
	for {
		if !Usable(o) {
			return o
		}
		ref, ok := o.(Ref)
		if !ok {
			return o
		}
		inner := ref.Deref()
		if !Usable(inner) || inner == o {
			return o
		}
		o = inner
	}
}

// Usable reports whether o can be animated: it is set, it is not a nil
// pointer, and its type is comparable so it can be tracked by identity.
func Usable(o Object) bool {
	if o == nil {
		return false
	}
	v := reflect.ValueOf(o)
	if !v.Type().Comparable() {
		return false
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Chan:
		return !v.IsNil()
	}
	return true
}
