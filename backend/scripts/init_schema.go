package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"jobgraph/backend/pkg/config"
	"jobgraph/backend/pkg/logger"
)

// Prepares a Neo4j instance for the neo4j storage backend: uniqueness on
// user IDs plus lookup indexes matching the store's access paths. Safe to
// rerun; a Migration marker node short-circuits repeat runs unless -force.
func main() {
	force := flag.Bool("force", false, "Force schema setup even if already applied")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Neo4j schema setup...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	// Check if schema already applied
	if !*force {
		applied, err := checkSchemaApplied(ctx, driver)
		if err != nil {
			log.Fatal("Failed to check schema status", zap.Error(err))
		}
		if applied {
			log.Info("Schema already applied. Use -force to reapply.")
			os.Exit(0)
		}
	}

	if err := applySchema(ctx, driver, log); err != nil {
		log.Fatal("Schema setup failed", zap.Error(err))
	}

	if err := markSchemaApplied(ctx, driver); err != nil {
		log.Warn("Failed to mark schema as applied", zap.Error(err))
	}

	log.Info("Schema setup completed successfully!")
}

func checkSchemaApplied(ctx context.Context, driver neo4j.DriverWithContext) (bool, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (m:Migration {version: 'knowledge_graph_v1'})
		RETURN m.applied_at as applied_at
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return false, err
	}

	return result.Next(ctx), nil
}

func markSchemaApplied(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (m:Migration {version: 'knowledge_graph_v1'})
		SET m.applied_at = datetime(),
		    m.description = 'Per-user knowledge graph schema with case-folded entity keys'
	`

	_, err := session.Run(ctx, query, nil)
	return err
}

func applySchema(ctx context.Context, driver neo4j.DriverWithContext, log *zap.Logger) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := []struct {
		name  string
		query string
	}{
		{
			name: "User ID uniqueness",
			query: `
				CREATE CONSTRAINT user_id_unique IF NOT EXISTS
				FOR (u:User) REQUIRE u.id IS UNIQUE
			`,
		},
		{
			name: "Entity name_key index",
			query: `
				CREATE INDEX entity_name_key IF NOT EXISTS
				FOR (e:Entity) ON (e.name_key)
			`,
		},
		{
			name: "Entity type index",
			query: `
				CREATE INDEX entity_type IF NOT EXISTS
				FOR (e:Entity) ON (e.type)
			`,
		},
		{
			name: "Entity creation order index",
			query: `
				CREATE INDEX entity_created_at IF NOT EXISTS
				FOR (e:Entity) ON (e.created_at)
			`,
		},
	}

	for _, stmt := range statements {
		log.Info("Applying schema statement", zap.String("name", stmt.name))
		if _, err := session.Run(ctx, stmt.query, nil); err != nil {
			return fmt.Errorf("%s: %w", stmt.name, err)
		}
	}

	return nil
}
