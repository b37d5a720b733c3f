package tools

import (
	"context"

	"go.uber.org/zap"

	"jobgraph/backend/internal/extract"
	"jobgraph/backend/internal/graph"
	"jobgraph/backend/internal/recommend"
	"jobgraph/backend/pkg/errors"
	"jobgraph/backend/pkg/logger"
)

// ToolResult represents the result of a tool execution. Exactly one of the
// success payload and Error is populated; the calling runtime only ever sees
// this shape, never a raw internal error.
type ToolResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`

	// ErrorKind carries the error category (validation, not_found, ...) for
	// transports that map categories onto their own status codes. It is not
	// part of the wire payload.
	ErrorKind errors.ErrorType `json:"-"`
}

// Executor is the dispatch table mapping tool-call names to graph, extract,
// and recommend operations. It is the only layer aware of the external
// tool-call contract.
type Executor struct {
	store       graph.Store
	extractor   *extract.Extractor
	synthesizer *recommend.Synthesizer
	logger      *zap.Logger
}

// NewExecutor creates a tool executor over the given store
func NewExecutor(store graph.Store) *Executor {
	return &Executor{
		store:       store,
		extractor:   extract.New(),
		synthesizer: recommend.New(store),
		logger:      logger.Named("tools"),
	}
}

// Execute runs a tool call and returns the result. Component errors are
// converted to the uniform error shape here; unknown tool names are an
// error result, not a panic.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]interface{}) *ToolResult {
	e.logger.Debug("Executing tool", zap.String("tool", name))

	switch name {
	// Assistant tools
	case ToolProcessUserMessage:
		return e.executeProcessUserMessage(ctx, args)
	case ToolGetJobRecommendations:
		return e.executeGetJobRecommendations(ctx, args)

	// Graph tools
	case ToolCreateEntities:
		return e.executeCreateEntities(ctx, args)
	case ToolCreateRelations:
		return e.executeCreateRelations(ctx, args)
	case ToolAddObservations:
		return e.executeAddObservations(ctx, args)
	case ToolDeleteEntities:
		return e.executeDeleteEntities(ctx, args)
	case ToolDeleteObservations:
		return e.executeDeleteObservations(ctx, args)
	case ToolDeleteRelations:
		return e.executeDeleteRelations(ctx, args)
	case ToolReadGraph:
		return e.executeReadGraph(ctx, args)
	case ToolSearchNodes:
		return e.executeSearchNodes(ctx, args)
	case ToolOpenNodes:
		return e.executeOpenNodes(ctx, args)

	default:
		return e.errorResult(errors.NewToolNotFound(name))
	}
}

// errorResult converts a component error into the uniform result shape
func (e *Executor) errorResult(err error) *ToolResult {
	e.logger.Warn("Tool execution failed", zap.Error(err))
	return &ToolResult{
		Success:   false,
		Error:     err.Error(),
		ErrorKind: errors.TypeOf(err),
	}
}
