// Package util holds small generic container types shared across the
// compiler pipeline: sets used for FIRST/FOLLOW and LR item-set
// construction, and a stack used as the worklist of LR item-set closure.
package util

import (
	"sort"
	"strings"
)

// StringSet is a set of strings, used for FIRST/FOLLOW sets and symbol
// collections.
type StringSet map[string]bool

func NewStringSet(of ...[]string) StringSet {
	s := StringSet{}
	for _, sl := range of {
		for _, v := range sl {
			s.Add(v)
		}
	}
	return s
}

func (s StringSet) Copy() StringSet {
	n := StringSet{}
	for k := range s {
		n[k] = true
	}
	return n
}

func (s StringSet) Add(v string)      { s[v] = true }
func (s StringSet) Remove(v string)   { delete(s, v) }
func (s StringSet) Has(v string) bool { return s[v] }
func (s StringSet) Len() int          { return len(s) }
func (s StringSet) Empty() bool       { return len(s) == 0 }

func (s StringSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for k := range s {
		elems = append(elems, k)
	}
	return elems
}

func (s StringSet) AddAll(o StringSet) {
	for v := range o {
		s.Add(v)
	}
}

func (s StringSet) Union(o StringSet) StringSet {
	n := s.Copy()
	n.AddAll(o)
	return n
}

func (s StringSet) Intersection(o StringSet) StringSet {
	n := StringSet{}
	for k := range s {
		if o.Has(k) {
			n.Add(k)
		}
	}
	return n
}

func (s StringSet) Difference(o StringSet) StringSet {
	n := s.Copy()
	for k := range o {
		n.Remove(k)
	}
	return n
}

func (s StringSet) DisjointWith(o StringSet) bool {
	for k := range s {
		if o.Has(k) {
			return false
		}
	}
	return true
}

func (s StringSet) Any(predicate func(v string) bool) bool {
	for k := range s {
		if predicate(k) {
			return true
		}
	}
	return false
}

func (s StringSet) StringOrdered() string {
	keys := s.Elements()
	sort.Strings(keys)
	return "{" + strings.Join(keys, ", ") + "}"
}

func (s StringSet) String() string { return s.StringOrdered() }

func (s StringSet) Equal(o StringSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k := range s {
		if !o.Has(k) {
			return false
		}
	}
	return true
}
