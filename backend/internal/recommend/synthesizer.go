package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jobgraph/backend/internal/extract"
	"jobgraph/backend/internal/graph"
	"jobgraph/backend/pkg/errors"
	"jobgraph/backend/pkg/logger"
)

// Recommendation types
const (
	TypeGeneral   = "general"
	TypeResume    = "resume"
	TypeInterview = "interview"
	TypeSkills    = "skills"
)

// generalCap bounds how many items the "general" type borrows from the
// other three categories.
const generalCap = 6

// Recommendation is categorized advice synthesized from a user's graph
type Recommendation struct {
	Type  string   `json:"type"`
	Items []string `json:"items"`
}

// Synthesizer composes stored facts about a user into advice. Given the
// same graph contents the output is identical — there is no randomness, so
// recommendations are reproducible.
type Synthesizer struct {
	store  graph.Store
	logger *zap.Logger
}

// New creates a synthesizer reading from the given store
func New(store graph.Store) *Synthesizer {
	return &Synthesizer{
		store:  store,
		logger: logger.Named("recommend"),
	}
}

// Recommend reads the user's full graph and applies the template rules for
// the requested recommendation type.
func (s *Synthesizer) Recommend(ctx context.Context, userID, recType string) (*Recommendation, error) {
	if recType == "" {
		recType = TypeGeneral
	}
	switch recType {
	case TypeGeneral, TypeResume, TypeInterview, TypeSkills:
	default:
		return nil, errors.NewValidation("recommendation_type",
			fmt.Sprintf("must be one of general, resume, interview, skills; got %q", recType))
	}

	g, err := s.store.ReadGraph(ctx, userID)
	if err != nil {
		return nil, err
	}

	facts := collectFacts(g)

	var items []string
	switch recType {
	case TypeSkills:
		items = s.skillItems(facts)
	case TypeResume:
		items = s.resumeItems(facts)
	case TypeInterview:
		items = s.interviewItems(facts)
	case TypeGeneral:
		items = s.generalItems(facts)
	}

	s.logger.Debug("Recommendations synthesized",
		zap.String("user_id", userID),
		zap.String("type", recType),
		zap.Int("items", len(items)),
	)
	return &Recommendation{Type: recType, Items: items}, nil
}

// userFacts is the per-category view of a graph the templates key on
type userFacts struct {
	skills    []string
	roles     []string
	companies []string
}

// collectFacts pulls distinct entity names per category in creation order
func collectFacts(g *graph.UserGraph) userFacts {
	var f userFacts
	for _, e := range g.Entities {
		switch e.Type {
		case extract.TypeSkill:
			f.skills = append(f.skills, e.Name)
		case extract.TypeRole:
			f.roles = append(f.roles, e.Name)
		case extract.TypeCompany:
			f.companies = append(f.companies, e.Name)
		}
	}
	return f
}

func (s *Synthesizer) skillItems(f userFacts) []string {
	if len(f.skills) == 0 {
		return []string{"I don't have any skills recorded for you yet. Tell me more about your technical skills so I can make targeted suggestions."}
	}
	items := make([]string, 0, len(f.skills))
	for _, skill := range f.skills {
		items = append(items, fmt.Sprintf("Keep your %s skills current — they are part of your profile and worth a recent project you can speak to.", skill))
	}
	return items
}

func (s *Synthesizer) resumeItems(f userFacts) []string {
	var items []string
	for _, skill := range f.skills {
		if len(f.roles) == 0 {
			items = append(items, fmt.Sprintf("Lead your resume with your %s experience and back it with a measurable result.", skill))
			continue
		}
		for _, role := range f.roles {
			items = append(items, fmt.Sprintf("Consider highlighting your experience with %s for %s positions.", skill, role))
		}
	}
	if len(items) == 0 {
		items = append(items, "Share the skills and roles you are targeting and I can suggest what to emphasize on your resume.")
	}
	return items
}

func (s *Synthesizer) interviewItems(f userFacts) []string {
	if len(f.companies) == 0 {
		return []string{
			"Practice walking through your recent projects out loud, focusing on decisions you made and why.",
			"Prepare a short answer for why you are looking for a new role.",
		}
	}
	items := make([]string, 0, len(f.companies)*2)
	for _, company := range f.companies {
		items = append(items,
			fmt.Sprintf("Research %s's recent products and prepare questions specific to the team you would join.", company),
			fmt.Sprintf("Practice explaining how your background maps to what %s is hiring for.", company),
		)
	}
	return items
}

// generalItems borrows from the other three categories in a fixed order and
// caps the total.
func (s *Synthesizer) generalItems(f userFacts) []string {
	var items []string
	for _, batch := range [][]string{s.skillItems(f), s.resumeItems(f), s.interviewItems(f)} {
		for _, item := range batch {
			if len(items) >= generalCap {
				return items
			}
			items = append(items, item)
		}
	}
	return items
}
