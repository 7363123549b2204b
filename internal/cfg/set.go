package cfg

import "golang.org/x/exp/maps"

// Set is a generic set of comparable values built on golang.org/x/exp/maps, used for the
// GEN/KILL/IN/OUT sets of spec.md §4.5's dataflow equations.
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s Set[T]) Add(item T) { s[item] = struct{}{} }

func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}

func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Union returns a new set containing every element of s and other.
func (s Set[T]) Union(other Set[T]) Set[T] {
	out := s.Clone()
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Minus returns a new set containing elements of s not present in other.
func (s Set[T]) Minus(other Set[T]) Set[T] {
	out := make(Set[T], len(s))
	for k := range s {
		if !other.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Equal reports whether s and other contain exactly the same elements,
// the fixed-point termination test for spec.md §4.5's iterative solver.
func (s Set[T]) Equal(other Set[T]) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Keys returns a sorted-independent slice of members, for deterministic
// report rendering the caller sorts itself.
func (s Set[T]) Keys() []T { return maps.Keys(s) }
