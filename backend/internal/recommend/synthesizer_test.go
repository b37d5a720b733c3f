package recommend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jobgraph/backend/internal/extract"
	"jobgraph/backend/internal/graph"
	"jobgraph/backend/pkg/errors"
)

func seededSynthesizer(t *testing.T) (*Synthesizer, graph.Store) {
	t.Helper()
	store := graph.NewFileStore(filepath.Join(t.TempDir(), "kg.json"), 500*time.Millisecond)
	return New(store), store
}

func seedFacts(t *testing.T, store graph.Store) {
	t.Helper()
	ctx := context.Background()
	for _, e := range []struct{ name, typ string }{
		{"Python", extract.TypeSkill},
		{"Golang", extract.TypeSkill},
		{"Python工程师", extract.TypeRole},
		{"腾讯", extract.TypeCompany},
	} {
		_, err := store.UpsertEntity(ctx, "alice", e.name, e.typ)
		require.NoError(t, err)
	}
}

func TestRecommend_SkillsFromGraph(t *testing.T) {
	s, store := seededSynthesizer(t)
	seedFacts(t, store)

	rec, err := s.Recommend(context.Background(), "alice", TypeSkills)
	require.NoError(t, err)
	assert.Equal(t, TypeSkills, rec.Type)
	require.Len(t, rec.Items, 2)
	assert.Contains(t, rec.Items[0], "Python")
	assert.Contains(t, rec.Items[1], "Golang")
}

func TestRecommend_SkillsFallbackForEmptyGraph(t *testing.T) {
	s, _ := seededSynthesizer(t)

	rec, err := s.Recommend(context.Background(), "nobody", TypeSkills)
	require.NoError(t, err)
	require.Len(t, rec.Items, 1)
	assert.Contains(t, rec.Items[0], "don't have any skills recorded")
}

func TestRecommend_ResumePairsSkillsWithRoles(t *testing.T) {
	s, store := seededSynthesizer(t)
	seedFacts(t, store)

	rec, err := s.Recommend(context.Background(), "alice", TypeResume)
	require.NoError(t, err)
	// 2 skills x 1 role
	require.Len(t, rec.Items, 2)
	assert.Equal(t, "Consider highlighting your experience with Python for Python工程师 positions.", rec.Items[0])
}

func TestRecommend_InterviewPerCompany(t *testing.T) {
	s, store := seededSynthesizer(t)
	seedFacts(t, store)

	rec, err := s.Recommend(context.Background(), "alice", TypeInterview)
	require.NoError(t, err)
	require.Len(t, rec.Items, 2)
	assert.Contains(t, rec.Items[0], "腾讯")

	// No companies stored: generic preparation advice instead
	generic, err := s.Recommend(context.Background(), "nobody", TypeInterview)
	require.NoError(t, err)
	assert.Len(t, generic.Items, 2)
}

func TestRecommend_GeneralIsCappedAndDefault(t *testing.T) {
	s, store := seededSynthesizer(t)
	seedFacts(t, store)

	rec, err := s.Recommend(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, TypeGeneral, rec.Type)
	assert.LessOrEqual(t, len(rec.Items), generalCap)
	assert.NotEmpty(t, rec.Items)
}

func TestRecommend_Deterministic(t *testing.T) {
	s, store := seededSynthesizer(t)
	seedFacts(t, store)

	first, err := s.Recommend(context.Background(), "alice", TypeGeneral)
	require.NoError(t, err)
	second, err := s.Recommend(context.Background(), "alice", TypeGeneral)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecommend_InvalidType(t *testing.T) {
	s, _ := seededSynthesizer(t)

	_, err := s.Recommend(context.Background(), "alice", "horoscope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}
