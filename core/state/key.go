package state

import "strings"

// Key identifies a state variable holding values of type T. Names are
// lower-case and globally unique: "<asset>.<variable>" for asset variables,
// the bare variable name for globals.
type Key[T Value] struct {
	name string
}

// NewKey returns the key of variable on asset.
func NewKey[T Value](asset, variable string) Key[T] {
	return Key[T]{name: strings.ToLower(asset) + "." + strings.ToLower(variable)}
}

// GlobalKey returns a key that is not scoped to an asset.
func GlobalKey[T Value](name string) Key[T] {
	return Key[T]{name: strings.ToLower(name)}
}

// Name returns the canonical variable name.
func (k Key[T]) Name() string { return k.name }

// IsZero reports whether the key was never assigned.
func (k Key[T]) IsZero() bool { return k.name == "" }

func (k Key[T]) String() string { return k.name }

// ParseKey maps a qualified name back to its key: "<asset>.<variable>" for
// asset variables, anything without a dot for globals.
func ParseKey[T Value](name string) Key[T] {
	if i := strings.Index(name, "."); i > 0 {
		return NewKey[T](name[:i], name[i+1:])
	}
	return GlobalKey[T](name)
}
