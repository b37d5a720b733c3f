package graph

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobgraph/backend/pkg/errors"
	"jobgraph/backend/pkg/logger"
)

// Neo4jStore implements Store on a Neo4j database. Each user is anchored by
// a (:User {id}) node that OWNS its (:Entity) nodes; relations are RELATES
// edges carrying the relation type, so the per-user partition is enforced by
// the graph shape itself.
//
// Entity names fold case through a name_key property; observations live as
// an ordered list property on the entity node.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewNeo4jStore creates a store backed by the given driver
func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{
		driver: driver,
		logger: logger.Named("graph.neo4j"),
	}
}

// Close closes the underlying driver connection
func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}

const upsertEntityQuery = `
	MERGE (u:User {id: $userID})
	MERGE (u)-[:OWNS]->(e:Entity {name_key: $key})
	ON CREATE SET
		e.id = $entityID,
		e.name = $name,
		e.type = $type,
		e.observations = [],
		e.created_at = timestamp()
	RETURN e.name AS name, e.type AS type, e.observations AS observations
`

// UpsertEntity creates the entity if absent and returns it unchanged
// otherwise.
func (s *Neo4jStore) UpsertEntity(ctx context.Context, userID, name, entityType string) (*Entity, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateEntityName(name); err != nil {
		return nil, err
	}
	if entityType == "" {
		entityType = EntityTypeUnknown
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, upsertEntityQuery, map[string]interface{}{
		"userID":   userID,
		"key":      strings.ToLower(name),
		"entityID": uuid.New().String(),
		"name":     name,
		"type":     entityType,
	})
	if err != nil {
		return nil, errors.NewStoreUnavailable("neo4j", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil, errors.NewStoreUnavailable("neo4j", err)
	}
	return entityFromRecord(record), nil
}

// AddObservations upserts the entity and appends each text in order
func (s *Neo4jStore) AddObservations(ctx context.Context, userID, name string, texts []string) error {
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

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (u:User {id: $userID})
		MERGE (u)-[:OWNS]->(e:Entity {name_key: $key})
		ON CREATE SET
			e.id = $entityID,
			e.name = $name,
			e.type = $type,
			e.observations = [],
			e.created_at = timestamp()
		SET e.observations = e.observations + $texts
	`
	_, err := session.Run(ctx, query, map[string]interface{}{
		"userID":   userID,
		"key":      strings.ToLower(name),
		"entityID": uuid.New().String(),
		"name":     name,
		"type":     EntityTypeUnknown,
		"texts":    texts,
	})
	if err != nil {
		return errors.NewStoreUnavailable("neo4j", err)
	}

	s.logger.Debug("Observations added",
		zap.String("user_id", userID),
		zap.String("entity", name),
		zap.Int("count", len(texts)),
	)
	return nil
}

// AddRelation upserts both endpoints and merges the typed edge between them
func (s *Neo4jStore) AddRelation(ctx context.Context, userID, from, relType, to string) error {
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

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (u:User {id: $userID})
		MERGE (u)-[:OWNS]->(a:Entity {name_key: $fromKey})
		ON CREATE SET
			a.id = $fromID, a.name = $from, a.type = $type,
			a.observations = [], a.created_at = timestamp()
		MERGE (u)-[:OWNS]->(b:Entity {name_key: $toKey})
		ON CREATE SET
			b.id = $toID, b.name = $to, b.type = $type,
			b.observations = [], b.created_at = timestamp()
		MERGE (a)-[:RELATES {type: $relType}]->(b)
	`
	_, err := session.Run(ctx, query, map[string]interface{}{
		"userID":  userID,
		"fromKey": strings.ToLower(from),
		"toKey":   strings.ToLower(to),
		"fromID":  uuid.New().String(),
		"toID":    uuid.New().String(),
		"from":    from,
		"to":      to,
		"type":    EntityTypeUnknown,
		"relType": relType,
	})
	if err != nil {
		return errors.NewStoreUnavailable("neo4j", err)
	}
	return nil
}

// DeleteEntity detaches and deletes the entity, removing every edge that
// referenced it.
func (s *Neo4jStore) DeleteEntity(ctx context.Context, userID, name string) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}
	if err := validateEntityName(name); err != nil {
		return false, err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})-[:OWNS]->(e:Entity {name_key: $key})
		DETACH DELETE e
		RETURN count(e) AS removed
	`
	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"key":    strings.ToLower(name),
	})
	if err != nil {
		return false, errors.NewStoreUnavailable("neo4j", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return false, errors.NewStoreUnavailable("neo4j", err)
	}
	return getInt64(record, "removed", 0) > 0, nil
}

// DeleteObservations filters exact-match texts out of the entity's
// observation list.
func (s *Neo4jStore) DeleteObservations(ctx context.Context, userID, name string, texts []string) (int, error) {
	if err := validateUserID(userID); err != nil {
		return 0, err
	}
	if err := validateEntityName(name); err != nil {
		return 0, err
	}
	if len(texts) == 0 {
		return 0, errors.NewValidation("observations", "must not be empty")
	}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return 0, errors.NewValidation("observations", "observation text must not be empty")
		}
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})-[:OWNS]->(e:Entity {name_key: $key})
		WITH e, size(e.observations) AS before
		SET e.observations = [obs IN e.observations WHERE NOT obs IN $texts]
		RETURN before - size(e.observations) AS removed
	`
	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"key":    strings.ToLower(name),
		"texts":  texts,
	})
	if err != nil {
		return 0, errors.NewStoreUnavailable("neo4j", err)
	}
	// Collect separates stream failures from an empty result: a driver error
	// surfaces as unavailable, zero rows means the entity does not exist.
	records, err := result.Collect(ctx)
	if err != nil {
		return 0, errors.NewStoreUnavailable("neo4j", err)
	}
	if len(records) == 0 {
		return 0, errors.NewEntityNotFound(userID, name)
	}
	return int(getInt64(records[0], "removed", 0)), nil
}

// DeleteRelation removes the typed edge between the two entities
func (s *Neo4jStore) DeleteRelation(ctx context.Context, userID, from, relType, to string) (bool, error) {
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

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})-[:OWNS]->(a:Entity {name_key: $fromKey})
		MATCH (u)-[:OWNS]->(b:Entity {name_key: $toKey})
		MATCH (a)-[r:RELATES {type: $relType}]->(b)
		DELETE r
		RETURN count(r) AS removed
	`
	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID":  userID,
		"fromKey": strings.ToLower(from),
		"toKey":   strings.ToLower(to),
		"relType": relType,
	})
	if err != nil {
		return false, errors.NewStoreUnavailable("neo4j", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return false, errors.NewStoreUnavailable("neo4j", err)
	}
	return getInt64(record, "removed", 0) > 0, nil
}

const readEntitiesQuery = `
	MATCH (u:User {id: $userID})-[:OWNS]->(e:Entity)
	RETURN e.name AS name, e.type AS type, e.observations AS observations
	ORDER BY e.created_at
`

const readRelationsQuery = `
	MATCH (u:User {id: $userID})-[:OWNS]->(a:Entity)-[r:RELATES]->(b:Entity)<-[:OWNS]-(u)
	RETURN a.name AS from, r.type AS type, b.name AS to
`

// ReadGraph fetches entities and relations concurrently and assembles the
// snapshot. Unknown users come back as an empty graph.
func (s *Neo4jStore) ReadGraph(ctx context.Context, userID string) (*UserGraph, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	out := &UserGraph{Entities: []*Entity{}, Relations: []Relation{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entities, err := s.fetchEntities(gctx, userID)
		if err != nil {
			return err
		}
		out.Entities = entities
		return nil
	})
	g.Go(func() error {
		relations, err := s.fetchRelations(gctx, userID)
		if err != nil {
			return err
		}
		out.Relations = relations
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchNodes fetches the user's entities in creation order and applies the
// same substring match the file backend uses.
func (s *Neo4jStore) SearchNodes(ctx context.Context, userID, query string) ([]*Entity, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewValidation("query", "must not be empty")
	}

	entities, err := s.fetchEntities(ctx, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := []*Entity{}
	for _, e := range entities {
		if entityMatches(e, needle) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// OpenNodes returns the entities with the given names, skipping misses
func (s *Neo4jStore) OpenNodes(ctx context.Context, userID string, names []string) ([]*Entity, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, strings.ToLower(name))
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})-[:OWNS]->(e:Entity)
		WHERE e.name_key IN $keys
		RETURN e.name AS name, e.type AS type, e.observations AS observations
		ORDER BY e.created_at
	`
	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"keys":   keys,
	})
	if err != nil {
		return nil, errors.NewStoreUnavailable("neo4j", err)
	}

	out := []*Entity{}
	for result.Next(ctx) {
		out = append(out, entityFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewStoreUnavailable("neo4j", err)
	}
	return out, nil
}

func (s *Neo4jStore) fetchEntities(ctx context.Context, userID string) ([]*Entity, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, readEntitiesQuery, map[string]interface{}{"userID": userID})
	if err != nil {
		return nil, errors.NewStoreUnavailable("neo4j", err)
	}

	entities := []*Entity{}
	for result.Next(ctx) {
		entities = append(entities, entityFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewStoreUnavailable("neo4j", err)
	}
	return entities, nil
}

func (s *Neo4jStore) fetchRelations(ctx context.Context, userID string) ([]Relation, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, readRelationsQuery, map[string]interface{}{"userID": userID})
	if err != nil {
		return nil, errors.NewStoreUnavailable("neo4j", err)
	}

	relations := []Relation{}
	for result.Next(ctx) {
		record := result.Record()
		relations = append(relations, Relation{
			From: getString(record, "from", ""),
			Type: getString(record, "type", ""),
			To:   getString(record, "to", ""),
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewStoreUnavailable("neo4j", err)
	}
	return relations, nil
}

// Record helpers

func entityFromRecord(record *neo4j.Record) *Entity {
	return &Entity{
		Name:         getString(record, "name", ""),
		Type:         getString(record, "type", EntityTypeUnknown),
		Observations: getStringSlice(record, "observations"),
	}
}

func getString(record *neo4j.Record, key, defaultValue string) string {
	val, ok := record.Get(key)
	if !ok {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultValue
}

func getStringSlice(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok {
		return []string{}
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}

func getInt64(record *neo4j.Record, key string, defaultValue int64) int64 {
	val, ok := record.Get(key)
	if !ok {
		return defaultValue
	}
	if n, ok := val.(int64); ok {
		return n
	}
	return defaultValue
}
