package graph

import (
	"context"
	"strings"

	"jobgraph/backend/pkg/errors"
)

// ============================================================================
// Read Operations
// ============================================================================

// ReadGraph returns a deep copy of the user's entities and relations, never
// a live reference. Unknown users get an empty graph.
func (s *FileStore) ReadGraph(ctx context.Context, userID string) (*UserGraph, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := s.graphFor(userID, false)
	if g == nil {
		return &UserGraph{Entities: []*Entity{}, Relations: []Relation{}}, nil
	}

	out := &UserGraph{
		Entities:  make([]*Entity, 0, len(g.entities)),
		Relations: make([]Relation, len(g.relations)),
	}
	for _, e := range g.entities {
		out.Entities = append(out.Entities, e.Clone())
	}
	copy(out.Relations, g.relations)
	return out, nil
}

// SearchNodes matches the query case-insensitively against entity names,
// types, and observation texts. Results come back in entity-creation order;
// there is no ranking beyond match/no-match.
func (s *FileStore) SearchNodes(ctx context.Context, userID, query string) ([]*Entity, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewValidation("query", "must not be empty")
	}

	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := s.graphFor(userID, false)
	if g == nil {
		return []*Entity{}, nil
	}

	needle := strings.ToLower(query)
	matches := []*Entity{}
	for _, e := range g.entities {
		if entityMatches(e, needle) {
			matches = append(matches, e.Clone())
		}
	}
	return matches, nil
}

// OpenNodes returns the entities with the given names, silently skipping
// names that do not exist.
func (s *FileStore) OpenNodes(ctx context.Context, userID string, names []string) ([]*Entity, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	s.ensureLoaded()
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := s.graphFor(userID, false)
	if g == nil {
		return []*Entity{}, nil
	}

	out := []*Entity{}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if e, ok := g.byName[key]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func entityMatches(e *Entity, needle string) bool {
	if strings.Contains(strings.ToLower(e.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Type), needle) {
		return true
	}
	for _, obs := range e.Observations {
		if strings.Contains(strings.ToLower(obs), needle) {
			return true
		}
	}
	return false
}
