package graph

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"jobgraph/backend/pkg/errors"
)

// ============================================================================
// Entity Operations
// ============================================================================

// UpsertEntity creates the entity if it does not exist and returns a copy of
// it. The type of an existing entity is never overwritten.
func (s *FileStore) UpsertEntity(ctx context.Context, userID, name, entityType string) (*Entity, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateEntityName(name); err != nil {
		return nil, err
	}

	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graphFor(userID, true)
	existed := g.byName[strings.ToLower(name)] != nil
	e := g.upsertLocked(name, entityType)

	if !existed {
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		s.logger.Debug("Entity created",
			zap.String("user_id", userID),
			zap.String("name", e.Name),
			zap.String("type", e.Type),
		)
	}

	return e.Clone(), nil
}

// AddObservations upserts the entity and appends each observation in order.
// Repeated text is appended verbatim; callers dedupe beforehand if they
// care.
func (s *FileStore) AddObservations(ctx context.Context, userID, name string, texts []string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := validateEntityName(name); err != nil {
		return err
	}
	if len(texts) == 0 {
		return errors.NewValidation("observations", "must not be empty")
	}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return errors.NewValidation("observations", "observation text must not be empty")
		}
	}

	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graphFor(userID, true)
	e := g.upsertLocked(name, EntityTypeUnknown)
	e.Observations = append(e.Observations, texts...)

	if err := s.persistLocked(); err != nil {
		return err
	}

	s.logger.Debug("Observations added",
		zap.String("user_id", userID),
		zap.String("entity", e.Name),
		zap.Int("count", len(texts)),
	)
	return nil
}

// DeleteEntity removes the entity and cascades deletion of every relation
// that references it. Returns whether anything was removed.
func (s *FileStore) DeleteEntity(ctx context.Context, userID, name string) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}
	if err := validateEntityName(name); err != nil {
		return false, err
	}

	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graphFor(userID, false)
	if g == nil {
		return false, nil
	}

	key := strings.ToLower(name)
	if _, ok := g.byName[key]; !ok {
		return false, nil
	}

	delete(g.byName, key)
	for i, e := range g.entities {
		if strings.ToLower(e.Name) == key {
			g.entities = append(g.entities[:i], g.entities[i+1:]...)
			break
		}
	}

	kept := g.relations[:0]
	for _, r := range g.relations {
		if strings.ToLower(r.From) == key || strings.ToLower(r.To) == key {
			delete(g.relSet, r.Key())
			continue
		}
		kept = append(kept, r)
	}
	g.relations = kept

	if err := s.persistLocked(); err != nil {
		return false, err
	}

	s.logger.Info("Entity deleted",
		zap.String("user_id", userID),
		zap.String("name", name),
	)
	return true, nil
}

// DeleteObservations removes exact-match observation texts from an existing
// entity. Every occurrence of a matching text is removed. Returns how many
// observations were dropped.
func (s *FileStore) DeleteObservations(ctx context.Context, userID, name string, texts []string) (int, error) {
	if err := validateUserID(userID); err != nil {
		return 0, err
	}
	if err := validateEntityName(name); err != nil {
		return 0, err
	}
	if len(texts) == 0 {
		return 0, errors.NewValidation("observations", "must not be empty")
	}

	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graphFor(userID, false)
	if g == nil {
		return 0, errors.NewEntityNotFound(userID, name)
	}
	e, ok := g.byName[strings.ToLower(name)]
	if !ok {
		return 0, errors.NewEntityNotFound(userID, name)
	}

	drop := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		drop[t] = struct{}{}
	}

	removed := 0
	kept := e.Observations[:0]
	for _, obs := range e.Observations {
		if _, hit := drop[obs]; hit {
			removed++
			continue
		}
		kept = append(kept, obs)
	}
	e.Observations = kept

	if removed == 0 {
		return 0, nil
	}
	if err := s.persistLocked(); err != nil {
		return 0, err
	}

	s.logger.Debug("Observations deleted",
		zap.String("user_id", userID),
		zap.String("entity", e.Name),
		zap.Int("removed", removed),
	)
	return removed, nil
}
