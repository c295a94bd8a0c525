package skills

import "sync"

// Groups is an immutable table of skill equivalence classes. A candidate who
// shows one member of a group may be credited with every other member.
type Groups struct {
	groups []Set
}

var defaultGroups = [][]string{
	{"pytorch", "tensorflow", "keras", "jax"},
	{"scikit-learn", "xgboost", "lightgbm"},
	{"aws", "gcp", "azure"},
	{"postgresql", "mysql", "mariadb"},
	{"react", "vue", "angular", "svelte"},
	{"django", "flask", "fastapi"},
	{"docker", "podman"},
	{"kubernetes", "openshift", "nomad"},
	{"agile", "scrum", "kanban"},
}

var (
	defaultOnce sync.Once
	defaultSet  *Groups
)

// Default returns the built-in table. It is built once and shared.
func Default() *Groups {
	defaultOnce.Do(func() {
		defaultSet = NewGroups(defaultGroups)
	})
	return defaultSet
}

// NewGroups builds a table from raw group definitions. Members are normalized,
// and groups with fewer than two distinct members are ignored since they
// cannot substitute for anything.
func NewGroups(raw [][]string) *Groups {
	g := &Groups{groups: make([]Set, 0, len(raw))}
	for _, members := range raw {
		set := Normalize(members)
		if set.Len() < 2 {
			continue
		}
		g.groups = append(g.groups, set)
	}
	return g
}

// Len returns the number of groups in the table.
func (g *Groups) Len() int {
	if g == nil {
		return 0
	}
	return len(g.groups)
}

// Raw returns the groups as sorted string slices.
func (g *Groups) Raw() [][]string {
	if g == nil {
		return nil
	}
	out := make([][]string, 0, len(g.groups))
	for _, group := range g.groups {
		out = append(out, group.Sorted())
	}
	return out
}

// Expand returns a new set holding skills plus every member of each group
// that shares at least one skill with the input. The input is not modified.
func (g *Groups) Expand(skills Set) Set {
	out := skills.Clone()
	if g == nil {
		return out
	}
	for _, group := range g.groups {
		if group.Intersect(skills) == 0 {
			continue
		}
		for member := range group {
			out[member] = struct{}{}
		}
	}
	return out
}
