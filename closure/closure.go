// Package closure packages a free function together with an explicit,
// serializable capture environment: the pair that crosses a task boundary
// is a registered name plus a typed environment value, never a function
// pointer. A func value cannot be gob-encoded, so the function itself is
// resolved locally by name after the round trip instead of traveling with
// the data.
package closure

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"
)

// Env is the explicit capture tuple a Func carries, in place of an opaque
// closure environment.
type Env[A any] struct {
	Value A
}

// Fn is the free-function shape every registered closure has: it takes a
// pointer to its environment (so a call can mutate state the caller reads
// back out) and an argument value, and returns a result or error.
type Fn[A, Args, R any] func(env *A, args Args) (R, error)

var registry sync.Map // name string -> Fn[A, Args, R] boxed as any

// Register names fn so any Func[A, Args, R] built with the same name can
// resolve it after deserializing, in a process that never saw fn as a Go
// value. Typically called from an init in the package that owns fn.
func Register[A, Args, R any](name string, fn Fn[A, Args, R]) {
	registry.Store(name, fn)
}

// Func is the serializable record itself: a name resolved through
// Register, plus the captured environment. Only Name and Env travel
// across Serialize/Deserialize.
type Func[A, Args, R any] struct {
	Name string
	Env  Env[A]
}

// New builds a Func bound to name, which must have been passed to
// Register for the same (A, Args, R) instantiation before Call runs.
func New[A, Args, R any](name string, env A) Func[A, Args, R] {
	return Func[A, Args, R]{Name: name, Env: Env[A]{Value: env}}
}

// Call resolves f.Name through the registry and invokes it against f.Env
// and args.
func (f *Func[A, Args, R]) Call(args Args) (R, error) {
	var zero R
	v, ok := registry.Load(f.Name)
	if !ok {
		return zero, fmt.Errorf("closure: no function registered under name %q", f.Name)
	}
	fn, ok := v.(Fn[A, Args, R])
	if !ok {
		return zero, fmt.Errorf("closure: function registered under name %q has a mismatched signature", f.Name)
	}
	return fn(&f.Env.Value, args)
}

// Serialize gob-encodes f's Name and Env. The underlying function is
// reattached by Call on whichever side calls Register first.
func Serialize[A, Args, R any](f Func[A, Args, R]) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("closure: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize is Serialize's inverse.
func Deserialize[A, Args, R any](data []byte) (Func[A, Args, R], error) {
	var f Func[A, Args, R]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return f, fmt.Errorf("closure: decode: %w", err)
	}
	return f, nil
}
