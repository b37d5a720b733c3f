package graph

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"jobgraph/backend/pkg/errors"
)

// ============================================================================
// Relation Operations
// ============================================================================

// AddRelation inserts the triple (from, relType, to), auto-vivifying either
// endpoint that does not exist yet, the same way an observation implicitly
// creates its subject. Inserting an existing triple is a no-op.
func (s *FileStore) AddRelation(ctx context.Context, userID, from, relType, to string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := validateEntityName(from); err != nil {
		return err
	}
	if err := validateEntityName(to); err != nil {
		return err
	}
	if err := validateRelationType(relType); err != nil {
		return err
	}

	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graphFor(userID, true)
	fromEntity := g.upsertLocked(from, EntityTypeUnknown)
	toEntity := g.upsertLocked(to, EntityTypeUnknown)

	// Store the triple under the canonical entity casing so the snapshot
	// stays consistent with the entity list.
	r := Relation{From: fromEntity.Name, Type: relType, To: toEntity.Name}
	if _, exists := g.relSet[r.Key()]; exists {
		return nil
	}
	g.relations = append(g.relations, r)
	g.relSet[r.Key()] = struct{}{}

	if err := s.persistLocked(); err != nil {
		return err
	}

	s.logger.Debug("Relation added",
		zap.String("user_id", userID),
		zap.String("from", r.From),
		zap.String("type", r.Type),
		zap.String("to", r.To),
	)
	return nil
}

// DeleteRelation removes the triple if present and reports whether it was
// found.
func (s *FileStore) DeleteRelation(ctx context.Context, userID, from, relType, to string) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}
	if err := validateEntityName(from); err != nil {
		return false, err
	}
	if err := validateEntityName(to); err != nil {
		return false, err
	}
	if err := validateRelationType(relType); err != nil {
		return false, err
	}

	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graphFor(userID, false)
	if g == nil {
		return false, nil
	}

	key := Relation{From: from, Type: relType, To: to}.Key()
	if _, exists := g.relSet[key]; !exists {
		return false, nil
	}

	delete(g.relSet, key)
	for i, r := range g.relations {
		if r.Key() == key {
			g.relations = append(g.relations[:i], g.relations[i+1:]...)
			break
		}
	}

	if err := s.persistLocked(); err != nil {
		return false, err
	}

	s.logger.Debug("Relation deleted",
		zap.String("user_id", userID),
		zap.String("from", from),
		zap.String("type", relType),
		zap.String("to", to),
	)
	return true, nil
}

func validateRelationType(relType string) error {
	if strings.TrimSpace(relType) == "" {
		return errors.NewValidation("relation_type", "must not be empty")
	}
	return nil
}
