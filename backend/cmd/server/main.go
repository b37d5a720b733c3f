package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"jobgraph/backend/internal/graph"
	"jobgraph/backend/internal/tools"
	"jobgraph/backend/pkg/config"
	"jobgraph/backend/pkg/errors"
	"jobgraph/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting knowledge-graph server...",
		zap.String("backend", cfg.StorageBackend),
	)

	// Initialize the graph store
	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize graph store", zap.Error(err))
	}
	defer store.Close()

	executor := tools.NewExecutor(store)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(executor, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newStore builds the configured graph store backend
func newStore(cfg *config.Config) (graph.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendNeo4j:
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			return nil, err
		}
		if err := driver.VerifyConnectivity(context.Background()); err != nil {
			return nil, err
		}
		return graph.NewNeo4jStore(driver), nil
	default:
		return graph.NewFileStore(cfg.StoragePath, cfg.LockTimeout), nil
	}
}

// setupRouter wires the HTTP surface onto the tool executor. This layer is
// the only one that knows about HTTP; everything past the executor speaks
// tool calls.
func setupRouter(executor *tools.Executor, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Tool listing for the agent runtime
		api.GET("/tools", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"tools": tools.GetAllTools()})
		})

		// Tool invocation: the body is the tool's argument mapping
		api.POST("/tools/:name", func(c *gin.Context) {
			name := c.Param("name")
			ctx := c.Request.Context()

			args := map[string]interface{}{}
			if c.Request.ContentLength > 0 {
				if err := c.ShouldBindJSON(&args); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}

			result := executor.Execute(ctx, name, args)
			if !result.Success {
				c.JSON(statusFor(result.ErrorKind), gin.H{"error": result.Error})
				return
			}
			c.JSON(http.StatusOK, result)
		})
	}

	return router
}

// statusFor maps error categories to HTTP status codes
func statusFor(kind errors.ErrorType) int {
	switch kind {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound, errors.ErrorTypeTool:
		return http.StatusNotFound
	case errors.ErrorTypeConflict:
		return http.StatusConflict
	case errors.ErrorTypePersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
