package graph

import "strings"

// ============================================================================
// Knowledge Graph Types
// ============================================================================

// Entity is a named, typed node in a user's knowledge graph.
// Names are unique per user, compared case-insensitively; the casing of the
// first mention is kept as the canonical name. Observations are append-only
// and preserve insertion order. Exact duplicates are allowed — deduplication
// is the caller's responsibility.
type Entity struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Observations []string `json:"observations"`
}

// Clone returns a deep copy of the entity
func (e *Entity) Clone() *Entity {
	obs := make([]string, len(e.Observations))
	copy(obs, e.Observations)
	return &Entity{
		Name:         e.Name,
		Type:         e.Type,
		Observations: obs,
	}
}

// Relation is a directed, typed edge between two entities of the same user.
// Identity is the whole triple; duplicate triples collapse (set semantics).
type Relation struct {
	From string `json:"from"`
	Type string `json:"type"`
	To   string `json:"to"`
}

// Key returns the canonical identity of the triple. Endpoints fold case the
// same way entity names do; the relation type stays case-sensitive.
func (r Relation) Key() string {
	return strings.ToLower(r.From) + "\x00" + r.Type + "\x00" + strings.ToLower(r.To)
}

// UserGraph is the full snapshot of one user's entities and relations
type UserGraph struct {
	Entities  []*Entity  `json:"entities"`
	Relations []Relation `json:"relations"`
}

// Clone returns a deep copy of the graph
func (g *UserGraph) Clone() *UserGraph {
	out := &UserGraph{
		Entities:  make([]*Entity, 0, len(g.Entities)),
		Relations: make([]Relation, len(g.Relations)),
	}
	for _, e := range g.Entities {
		out.Entities = append(out.Entities, e.Clone())
	}
	copy(out.Relations, g.Relations)
	return out
}

// EntityTypeUnknown is assigned when an entity is created implicitly by an
// observation or relation without an explicit type.
const EntityTypeUnknown = "unknown"
