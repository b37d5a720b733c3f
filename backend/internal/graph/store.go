package graph

import "context"

// Store is the contract for a per-user knowledge graph backend.
//
// All operations are scoped to a user id: reads and writes for one user
// never observe or mutate another user's graph. Mutating operations must be
// durable before they return nil — a backend never reports success for a
// write it did not persist.
type Store interface {
	// UpsertEntity creates the entity if absent and returns it. Idempotent:
	// an existing entity is returned unchanged and its type is not
	// overwritten.
	UpsertEntity(ctx context.Context, userID, name, entityType string) (*Entity, error)

	// AddObservations upserts the entity (type "unknown" when new) and
	// appends each text in order. Empty texts are a validation error.
	AddObservations(ctx context.Context, userID, name string, texts []string) error

	// AddRelation upserts both endpoints and inserts the triple if absent.
	// Inserting an existing triple is a no-op.
	AddRelation(ctx context.Context, userID, from, relType, to string) error

	// DeleteEntity removes the entity and every relation referencing it.
	// Returns whether anything was removed.
	DeleteEntity(ctx context.Context, userID, name string) (bool, error)

	// DeleteObservations removes exact-match observation texts from the
	// entity and returns how many were removed. The entity must exist.
	DeleteObservations(ctx context.Context, userID, name string, texts []string) (int, error)

	// DeleteRelation removes the triple if present and reports whether it
	// was found.
	DeleteRelation(ctx context.Context, userID, from, relType, to string) (bool, error)

	// ReadGraph returns a deep copy of the user's graph, empty when the
	// user is unknown. Callers may mutate the result freely.
	ReadGraph(ctx context.Context, userID string) (*UserGraph, error)

	// SearchNodes returns entities whose name, type, or any observation
	// contains the query, case-insensitively, in entity-creation order.
	SearchNodes(ctx context.Context, userID, query string) ([]*Entity, error)

	// OpenNodes returns the entities with the given names, skipping names
	// that do not exist.
	OpenNodes(ctx context.Context, userID string, names []string) ([]*Entity, error)

	// Close releases backend resources.
	Close() error
}
