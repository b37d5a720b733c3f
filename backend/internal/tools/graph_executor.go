package tools

import (
	"context"
	"fmt"
)

// ============================================================================
// Graph Tool Implementations
// ============================================================================

func (e *Executor) executeCreateEntities(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a createEntitiesArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	created := make([]string, 0, len(a.Entities))
	for _, spec := range a.Entities {
		entity, err := e.store.UpsertEntity(ctx, a.UserID, spec.Name, spec.Type)
		if err != nil {
			return e.errorResult(err)
		}
		if len(spec.Observations) > 0 {
			if err := e.store.AddObservations(ctx, a.UserID, spec.Name, spec.Observations); err != nil {
				return e.errorResult(err)
			}
		}
		created = append(created, entity.Name)
	}

	return &ToolResult{
		Success: true,
		Data:    map[string]interface{}{"created": created, "count": len(created)},
		Message: fmt.Sprintf("Created or updated %d entities.", len(created)),
	}
}

func (e *Executor) executeCreateRelations(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a createRelationsArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	for _, rel := range a.Relations {
		if err := e.store.AddRelation(ctx, a.UserID, rel.From, rel.Type, rel.To); err != nil {
			return e.errorResult(err)
		}
	}

	return &ToolResult{
		Success: true,
		Data:    map[string]interface{}{"count": len(a.Relations)},
		Message: fmt.Sprintf("Stored %d relations.", len(a.Relations)),
	}
}

func (e *Executor) executeAddObservations(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a addObservationsArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	if err := e.store.AddObservations(ctx, a.UserID, a.Name, a.Observations); err != nil {
		return e.errorResult(err)
	}

	return &ToolResult{
		Success: true,
		Data:    map[string]interface{}{"entity": a.Name, "added": len(a.Observations)},
		Message: fmt.Sprintf("Added %d observations to '%s'.", len(a.Observations), a.Name),
	}
}

func (e *Executor) executeDeleteEntities(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a deleteEntitiesArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	deleted := []string{}
	notFound := []string{}
	for _, name := range a.Names {
		removed, err := e.store.DeleteEntity(ctx, a.UserID, name)
		if err != nil {
			return e.errorResult(err)
		}
		if removed {
			deleted = append(deleted, name)
		} else {
			notFound = append(notFound, name)
		}
	}

	return &ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"deleted":   deleted,
			"not_found": notFound,
		},
		Message: fmt.Sprintf("Deleted %d entities (%d not found).", len(deleted), len(notFound)),
	}
}

func (e *Executor) executeDeleteObservations(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a deleteObservationsArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	removed, err := e.store.DeleteObservations(ctx, a.UserID, a.Name, a.Observations)
	if err != nil {
		return e.errorResult(err)
	}

	return &ToolResult{
		Success: true,
		Data:    map[string]interface{}{"entity": a.Name, "removed": removed},
		Message: fmt.Sprintf("Removed %d observations from '%s'.", removed, a.Name),
	}
}

func (e *Executor) executeDeleteRelations(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a deleteRelationsArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	deleted := 0
	for _, rel := range a.Relations {
		removed, err := e.store.DeleteRelation(ctx, a.UserID, rel.From, rel.Type, rel.To)
		if err != nil {
			return e.errorResult(err)
		}
		if removed {
			deleted++
		}
	}

	return &ToolResult{
		Success: true,
		Data:    map[string]interface{}{"deleted": deleted},
		Message: fmt.Sprintf("Deleted %d relations.", deleted),
	}
}

func (e *Executor) executeReadGraph(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a readGraphArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	g, err := e.store.ReadGraph(ctx, a.UserID)
	if err != nil {
		return e.errorResult(err)
	}

	return &ToolResult{
		Success: true,
		Data:    g,
		Message: fmt.Sprintf("Graph has %d entities and %d relations.", len(g.Entities), len(g.Relations)),
	}
}

func (e *Executor) executeSearchNodes(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a searchNodesArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	matches, err := e.store.SearchNodes(ctx, a.UserID, a.Query)
	if err != nil {
		return e.errorResult(err)
	}

	return &ToolResult{
		Success: true,
		Data:    map[string]interface{}{"query": a.Query, "results": matches, "count": len(matches)},
		Message: fmt.Sprintf("Found %d nodes for '%s'.", len(matches), a.Query),
	}
}

func (e *Executor) executeOpenNodes(ctx context.Context, args map[string]interface{}) *ToolResult {
	var a openNodesArgs
	if err := decodeArgs(args, &a); err != nil {
		return e.errorResult(err)
	}

	found, err := e.store.OpenNodes(ctx, a.UserID, a.Names)
	if err != nil {
		return e.errorResult(err)
	}

	return &ToolResult{
		Success: true,
		Data:    map[string]interface{}{"entities": found, "count": len(found)},
		Message: fmt.Sprintf("Opened %d of %d requested nodes.", len(found), len(a.Names)),
	}
}
