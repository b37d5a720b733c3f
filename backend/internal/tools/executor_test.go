package tools

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jobgraph/backend/internal/graph"
	"jobgraph/backend/pkg/errors"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	store := graph.NewFileStore(filepath.Join(t.TempDir(), "kg.json"), 500*time.Millisecond)
	return NewExecutor(store)
}

func TestExecute_UnknownTool(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), "summon_dragon", map[string]interface{}{})
	assert.False(t, result.Success)
	assert.Equal(t, errors.ErrorTypeTool, result.ErrorKind)
	assert.Contains(t, result.Error, "summon_dragon")
}

func TestExecute_MissingRequiredArg(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), ToolReadGraph, map[string]interface{}{})
	assert.False(t, result.Success)
	assert.Equal(t, errors.ErrorTypeValidation, result.ErrorKind)
	assert.Contains(t, result.Error, "user_id")
}

func TestExecute_CreateEntitiesAndReadGraph(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	result := e.Execute(ctx, ToolCreateEntities, map[string]interface{}{
		"user_id": "alice",
		"entities": []interface{}{
			map[string]interface{}{"name": "Python", "type": "skill", "observations": []interface{}{"5 years"}},
			map[string]interface{}{"name": "腾讯", "type": "company"},
		},
	})
	require.True(t, result.Success, result.Error)
	data := result.Data.(map[string]interface{})
	assert.Equal(t, 2, data["count"])

	read := e.Execute(ctx, ToolReadGraph, map[string]interface{}{"user_id": "alice"})
	require.True(t, read.Success)
	g := read.Data.(*graph.UserGraph)
	require.Len(t, g.Entities, 2)
	assert.Equal(t, []string{"5 years"}, g.Entities[0].Observations)
}

func TestExecute_CreateEntities_RejectsEmptyList(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), ToolCreateEntities, map[string]interface{}{
		"user_id":  "alice",
		"entities": []interface{}{},
	})
	assert.False(t, result.Success)
	assert.Equal(t, errors.ErrorTypeValidation, result.ErrorKind)
}

func TestExecute_RelationsLifecycle(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	created := e.Execute(ctx, ToolCreateRelations, map[string]interface{}{
		"user_id": "alice",
		"relations": []interface{}{
			map[string]interface{}{"from": "Python工程师", "type": "requires", "to": "Python"},
		},
	})
	require.True(t, created.Success, created.Error)

	deleted := e.Execute(ctx, ToolDeleteRelations, map[string]interface{}{
		"user_id": "alice",
		"relations": []interface{}{
			map[string]interface{}{"from": "python工程师", "type": "requires", "to": "python"},
			map[string]interface{}{"from": "a", "type": "knows", "to": "b"},
		},
	})
	require.True(t, deleted.Success)
	data := deleted.Data.(map[string]interface{})
	assert.Equal(t, 1, data["deleted"])
}

func TestExecute_DeleteEntitiesReportsMissing(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	e.Execute(ctx, ToolCreateEntities, map[string]interface{}{
		"user_id":  "alice",
		"entities": []interface{}{map[string]interface{}{"name": "Python", "type": "skill"}},
	})

	result := e.Execute(ctx, ToolDeleteEntities, map[string]interface{}{
		"user_id": "alice",
		"names":   []interface{}{"Python", "Rust"},
	})
	require.True(t, result.Success)
	data := result.Data.(map[string]interface{})
	assert.Equal(t, []string{"Python"}, data["deleted"])
	assert.Equal(t, []string{"Rust"}, data["not_found"])
}

func TestExecute_DeleteObservations_MissingEntity(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), ToolDeleteObservations, map[string]interface{}{
		"user_id":      "alice",
		"name":         "ghost",
		"observations": []interface{}{"anything"},
	})
	assert.False(t, result.Success)
	assert.Equal(t, errors.ErrorTypeNotFound, result.ErrorKind)
}

func TestExecute_SearchAndOpenNodes(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	e.Execute(ctx, ToolCreateEntities, map[string]interface{}{
		"user_id":  "alice",
		"entities": []interface{}{map[string]interface{}{"name": "Python", "type": "skill"}},
	})

	search := e.Execute(ctx, ToolSearchNodes, map[string]interface{}{
		"user_id": "alice",
		"query":   "python",
	})
	require.True(t, search.Success)
	assert.Equal(t, 1, search.Data.(map[string]interface{})["count"])

	open := e.Execute(ctx, ToolOpenNodes, map[string]interface{}{
		"user_id": "alice",
		"names":   []interface{}{"PYTHON", "missing"},
	})
	require.True(t, open.Success)
	assert.Equal(t, 1, open.Data.(map[string]interface{})["count"])
}

func TestExecute_ProcessUserMessage_SkipsNonJobMessage(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	result := e.Execute(ctx, ToolProcessUserMessage, map[string]interface{}{
		"user_id": "alice",
		"message": "今天天气真好",
	})
	require.True(t, result.Success)
	data := result.Data.(map[string]interface{})
	assert.Equal(t, "skipped", data["status"])

	// Nothing was written for the user
	read := e.Execute(ctx, ToolReadGraph, map[string]interface{}{"user_id": "alice"})
	require.True(t, read.Success)
	assert.Empty(t, read.Data.(*graph.UserGraph).Entities)
}

func TestExecute_ProcessUserMessage_StoresFactsAndProvenance(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	result := e.Execute(ctx, ToolProcessUserMessage, map[string]interface{}{
		"user_id": "alice",
		"message": "我想找一个Python工程师的工作",
	})
	require.True(t, result.Success, result.Error)
	data := result.Data.(map[string]interface{})
	assert.Equal(t, "success", data["status"])
	assert.Contains(t, data["entities"], "Python")
	assert.Contains(t, data["entities"], "Python工程师")

	read := e.Execute(ctx, ToolReadGraph, map[string]interface{}{"user_id": "alice"})
	require.True(t, read.Success)
	g := read.Data.(*graph.UserGraph)

	types := make(map[string]string)
	for _, entity := range g.Entities {
		types[entity.Name] = entity.Type
	}
	assert.Equal(t, "skill", types["Python"])
	assert.Equal(t, "role", types["Python工程师"])
	assert.Equal(t, "preference", types["preferences"])
	assert.Equal(t, "user", types["user:alice"])

	// The raw message is kept as an observation on a message entity linked
	// from the user anchor.
	var sawSent bool
	for _, rel := range g.Relations {
		if rel.From == "user:alice" && rel.Type == "sent" {
			sawSent = true
		}
	}
	assert.True(t, sawSent)
}

func TestExecute_GetJobRecommendations(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	e.Execute(ctx, ToolProcessUserMessage, map[string]interface{}{
		"user_id": "alice",
		"message": "我想找一个Python工程师的工作",
	})

	result := e.Execute(ctx, ToolGetJobRecommendations, map[string]interface{}{
		"user_id":             "alice",
		"recommendation_type": "skills",
	})
	require.True(t, result.Success, result.Error)

	invalid := e.Execute(ctx, ToolGetJobRecommendations, map[string]interface{}{
		"user_id":             "alice",
		"recommendation_type": "horoscope",
	})
	assert.False(t, invalid.Success)
	assert.Equal(t, errors.ErrorTypeValidation, invalid.ErrorKind)
}

func TestGetAllTools_CoversEveryDispatchName(t *testing.T) {
	names := make(map[string]bool)
	for _, tool := range GetAllTools() {
		names[tool.Function.Name] = true
	}

	for _, want := range []string{
		ToolCreateEntities, ToolCreateRelations, ToolAddObservations,
		ToolDeleteEntities, ToolDeleteObservations, ToolDeleteRelations,
		ToolReadGraph, ToolSearchNodes, ToolOpenNodes,
		ToolProcessUserMessage, ToolGetJobRecommendations,
	} {
		assert.True(t, names[want], "tool %s missing from the registry", want)
	}
	assert.Len(t, names, 11)
}
