// Package skills holds skill-name normalization and the equivalence table used
// to treat interchangeable skills as one.
package skills

import (
	"slices"
	"strings"
)

// Set is a set of normalized skill names.
type Set map[string]struct{}

// Normalize trims and lower-cases every item and returns them as a set.
// Blank items are dropped.
func Normalize(items []string) Set {
	set := make(Set, len(items))
	for _, item := range items {
		key := Key(item)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

// Key returns the normalized form of a single skill name.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s Set) Has(skill string) bool {
	_, ok := s[skill]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Intersect counts members of s that are also in other.
func (s Set) Intersect(other Set) int {
	matched := 0
	for skill := range s {
		if other.Has(skill) {
			matched++
		}
	}
	return matched
}

// Missing returns the members of s absent from other, sorted.
func (s Set) Missing(other Set) []string {
	missing := make([]string, 0)
	for skill := range s {
		if !other.Has(skill) {
			missing = append(missing, skill)
		}
	}
	slices.Sort(missing)
	return missing
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for skill := range s {
		out = append(out, skill)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for skill := range s {
		out[skill] = struct{}{}
	}
	return out
}
