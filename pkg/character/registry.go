package character

// Registry provides read-only lookup over a fixed character roster.
// It is populated once at construction and never mutated; accessors
// return copies so catalog records stay pristine.
type Registry struct {
	ordered []Character
	byID    map[string]int
}

// NewRegistry builds a registry from the given roster, preserving
// insertion order.
func NewRegistry(roster []Character) *Registry {
	r := &Registry{
		ordered: make([]Character, len(roster)),
		byID:    make(map[string]int, len(roster)),
	}
	for i, c := range roster {
		r.ordered[i] = c.Copy()
		r.byID[c.ID] = i
	}
	return r
}

// DefaultRegistry returns a registry over the bundled catalog.
func DefaultRegistry() *Registry {
	return NewRegistry(Catalog)
}

// GetByID returns the character with the given id. The second return
// value is false when no such character exists; callers are expected
// to fall back to Default().
func (r *Registry) GetByID(id string) (Character, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Character{}, false
	}
	return r.ordered[i].Copy(), true
}

// ByRole returns all characters with the given role, in insertion order.
func (r *Registry) ByRole(role Role) []Character {
	var out []Character
	for _, c := range r.ordered {
		if c.Role == role {
			out = append(out, c.Copy())
		}
	}
	return out
}

// All returns every character in insertion order.
func (r *Registry) All() []Character {
	out := make([]Character, len(r.ordered))
	for i, c := range r.ordered {
		out[i] = c.Copy()
	}
	return out
}

// Default returns the fallback character used when no character can be
// resolved from a request. It returns an equal value on every call so
// fallback behavior is deterministic.
func Default() Character {
	return Character{
		ID:          "unknown",
		Name:        "Unknown",
		Role:        RoleSuspect,
		Status:      StatusUnknown,
		Description: "Unidentified individual brought in for questioning.",
		Species:     "Unknown",
		Personality: Personality{
			Traits:      []string{},
			Nervousness: "medium",
			Cooperation: "neutral",
		},
		Evidence:      []Evidence{},
		Relationships: []Relationship{},
		Notes:         []string{},
	}
}
