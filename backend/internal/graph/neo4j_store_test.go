package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"jobgraph/backend/pkg/errors"
)

// These tests require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := envOr("NEO4J_URI", "bolt://localhost:7687")
	user := envOr("NEO4J_USER", "neo4j")
	password := envOr("NEO4J_PASSWORD", "password")

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cleanupTestUser(ctx context.Context, driver neo4j.DriverWithContext, userID string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx,
		"MATCH (u:User {id: $user_id}) OPTIONAL MATCH (u)-[:OWNS]->(e:Entity) DETACH DELETE u, e",
		map[string]interface{}{"user_id": userID})
}

func TestNeo4jStore_EntityLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	store := NewNeo4jStore(driver)
	userID := "test-user-" + time.Now().Format("20060102150405")
	defer cleanupTestUser(ctx, driver, userID)

	entity, err := store.UpsertEntity(ctx, userID, "Python", "skill")
	if err != nil {
		t.Fatalf("UpsertEntity failed: %v", err)
	}
	if entity.Name != "Python" {
		t.Errorf("Expected entity name 'Python', got '%s'", entity.Name)
	}

	// Upsert with different casing stays one entity and keeps its type
	again, err := store.UpsertEntity(ctx, userID, "python", "language")
	if err != nil {
		t.Fatalf("UpsertEntity failed: %v", err)
	}
	if again.Name != "Python" || again.Type != "skill" {
		t.Errorf("Expected existing entity unchanged, got name=%s type=%s", again.Name, again.Type)
	}

	if err := store.AddObservations(ctx, userID, "Python", []string{"5 years experience"}); err != nil {
		t.Fatalf("AddObservations failed: %v", err)
	}

	g, err := store.ReadGraph(ctx, userID)
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}
	if len(g.Entities) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(g.Entities))
	}
	if len(g.Entities[0].Observations) != 1 {
		t.Errorf("Expected 1 observation, got %d", len(g.Entities[0].Observations))
	}

	removed, err := store.DeleteEntity(ctx, userID, "python")
	if err != nil {
		t.Fatalf("DeleteEntity failed: %v", err)
	}
	if !removed {
		t.Error("Expected entity to be deleted")
	}
}

func TestNeo4jStore_RelationsAndSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	store := NewNeo4jStore(driver)
	userID := "test-user-" + time.Now().Format("20060102150405")
	defer cleanupTestUser(ctx, driver, userID)

	// Endpoints are created implicitly
	if err := store.AddRelation(ctx, userID, "Python工程师", "requires", "Python"); err != nil {
		t.Fatalf("AddRelation failed: %v", err)
	}

	g, err := store.ReadGraph(ctx, userID)
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}
	if len(g.Entities) != 2 {
		t.Errorf("Expected 2 entities, got %d", len(g.Entities))
	}
	if len(g.Relations) != 1 {
		t.Fatalf("Expected 1 relation, got %d", len(g.Relations))
	}

	matches, err := store.SearchNodes(ctx, userID, "python")
	if err != nil {
		t.Fatalf("SearchNodes failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches, got %d", len(matches))
	}

	removed, err := store.DeleteRelation(ctx, userID, "python工程师", "requires", "PYTHON")
	if err != nil {
		t.Fatalf("DeleteRelation failed: %v", err)
	}
	if !removed {
		t.Error("Expected relation to be deleted")
	}
}

func TestNeo4jStore_DeleteObservations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	store := NewNeo4jStore(driver)
	userID := "test-user-" + time.Now().Format("20060102150405")
	defer cleanupTestUser(ctx, driver, userID)

	if err := store.AddObservations(ctx, userID, "Python", []string{"a", "b", "a"}); err != nil {
		t.Fatalf("AddObservations failed: %v", err)
	}

	removed, err := store.DeleteObservations(ctx, userID, "Python", []string{"a"})
	if err != nil {
		t.Fatalf("DeleteObservations failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 observations removed, got %d", removed)
	}

	// Missing entity is a not-found, not a transport failure
	_, err = store.DeleteObservations(ctx, userID, "ghost", []string{"a"})
	if !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		t.Errorf("Expected not-found error for missing entity, got %v", err)
	}
}

func TestNeo4jStore_DeleteObservations_ValidatesTexts(t *testing.T) {
	// Validation runs before any session is opened, so no database is needed
	store := NewNeo4jStore(nil)

	_, err := store.DeleteObservations(context.Background(), "alice", "Python", []string{"ok", "  "})
	if !errors.IsErrorType(err, errors.ErrorTypeValidation) {
		t.Errorf("Expected validation error for blank text, got %v", err)
	}

	_, err = store.DeleteObservations(context.Background(), "alice", "Python", nil)
	if !errors.IsErrorType(err, errors.ErrorTypeValidation) {
		t.Errorf("Expected validation error for empty list, got %v", err)
	}
}
