package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"jobgraph/backend/pkg/logger"
)

// Entity types produced by the extractor
const (
	TypeSkill      = "skill"
	TypeRole       = "role"
	TypeCompany    = "company"
	TypePreference = "preference"
)

// PreferencesEntity is the synthetic entity that collects a user's stated
// preferences. Graphs are partitioned per user, so the fixed name cannot
// collide across users.
const PreferencesEntity = "preferences"

// Relation types emitted when several entity kinds co-occur in one message
const (
	RelationAt       = "at"       // (role, at, company)
	RelationRequires = "requires" // (role, requires, skill)
)

// Observation is one candidate (entity, fact) pair extracted from a message
type Observation struct {
	EntityName string
	EntityType string
	Text       string
}

// RelationCandidate is one candidate directed edge extracted from a message
type RelationCandidate struct {
	From string
	Type string
	To   string
}

// Extraction is everything one message yields. Both lists are already
// deduplicated — the store appends observations verbatim, so dedup happens
// here on the caller side.
type Extraction struct {
	Observations []Observation
	Relations    []RelationCandidate
}

// Empty reports whether the message produced nothing to store
func (x *Extraction) Empty() bool {
	return len(x.Observations) == 0 && len(x.Relations) == 0
}

// Extractor turns a raw user message into graph deltas using the rule table
type Extractor struct {
	rules  RuleTable
	logger *zap.Logger
}

// New creates an extractor with the built-in rule table
func New() *Extractor {
	return NewWithRules(DefaultRules())
}

// NewWithRules creates an extractor with a custom rule table
func NewWithRules(rules RuleTable) *Extractor {
	return &Extractor{
		rules:  rules,
		logger: logger.Named("extract"),
	}
}

// Extract classifies the message and applies every rule. Messages that hit
// none of the gate keywords yield an empty extraction and must not be
// stored. Rules are not mutually exclusive: one message can produce several
// observations and relations.
func (x *Extractor) Extract(userID, message string) *Extraction {
	out := &Extraction{}
	if strings.TrimSpace(message) == "" {
		return out
	}
	if !x.isJobRelated(message) {
		x.logger.Debug("Message not job-related, skipping",
			zap.String("user_id", userID),
		)
		return out
	}

	skills := matchCanonical(message, x.rules.Skills)
	companies := matchCanonical(message, x.rules.Companies)
	roles := x.matchRoles(message)

	seenObs := make(map[string]struct{})
	addObs := func(name, entityType, text string) {
		key := strings.ToLower(name) + "\x00" + text
		if _, dup := seenObs[key]; dup {
			return
		}
		seenObs[key] = struct{}{}
		out.Observations = append(out.Observations, Observation{
			EntityName: name,
			EntityType: entityType,
			Text:       text,
		})
	}

	for _, skill := range skills {
		addObs(skill, TypeSkill, fragmentAround(message, skill))
	}
	for _, role := range roles {
		addObs(role, TypeRole, fragmentAround(message, role))
	}
	for _, company := range companies {
		addObs(company, TypeCompany, fragmentAround(message, company))
	}
	for _, marker := range x.rules.PreferenceMarkers {
		if containsFold(message, marker) {
			addObs(PreferencesEntity, TypePreference, fragmentAround(message, marker))
		}
	}

	seenRel := make(map[string]struct{})
	addRel := func(from, relType, to string) {
		key := strings.ToLower(from) + "\x00" + relType + "\x00" + strings.ToLower(to)
		if _, dup := seenRel[key]; dup {
			return
		}
		seenRel[key] = struct{}{}
		out.Relations = append(out.Relations, RelationCandidate{From: from, Type: relType, To: to})
	}

	for _, role := range roles {
		for _, company := range companies {
			addRel(role, RelationAt, company)
		}
		for _, skill := range skills {
			addRel(role, RelationRequires, skill)
		}
	}

	x.logger.Debug("Message extracted",
		zap.String("user_id", userID),
		zap.Int("observations", len(out.Observations)),
		zap.Int("relations", len(out.Relations)),
	)
	return out
}

// isJobRelated tests the gate keyword set with a case-insensitive substring
// match.
func (x *Extractor) isJobRelated(message string) bool {
	for _, kw := range x.rules.JobKeywords {
		if containsFold(message, kw) {
			return true
		}
	}
	return false
}

// matchRoles finds role keywords and expands each hit leftward over an
// adjacent latin qualifier, so "Python工程师" is named as one role instead
// of a bare "工程师".
func (x *Extractor) matchRoles(message string) []string {
	seen := make(map[string]struct{})
	var roles []string
	for _, kw := range x.rules.Roles {
		start, end := foldIndex(message, kw)
		if start < 0 {
			continue
		}
		for start > 0 && isLatinQualifier(message[start-1]) {
			start--
		}
		name := message[start:end]
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		roles = append(roles, name)
	}
	return roles
}

// foldIndex locates the first case-insensitive occurrence of substr in s and
// returns its byte offsets [start, end) within s, or (-1, -1). Matching is
// done rune by rune against the original string: lowercasing can change a
// rune's encoded length, so offsets into a lowered copy would not be valid
// slice bounds for s.
func foldIndex(s, substr string) (int, int) {
	want := []rune(strings.ToLower(substr))
	if len(want) == 0 {
		return -1, -1
	}

	runes := []rune(s)
	offsets := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		offsets[i] = pos
		pos += utf8.RuneLen(r)
	}
	offsets[len(runes)] = pos

	for i := 0; i+len(want) <= len(runes); i++ {
		match := true
		for j, w := range want {
			if unicode.ToLower(runes[i+j]) != w {
				match = false
				break
			}
		}
		if match {
			return offsets[i], offsets[i+len(want)]
		}
	}
	return -1, -1
}

// matchCanonical returns the canonical form of every keyword present in the
// message, preserving table order.
func matchCanonical(message string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		if containsFold(message, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// fragmentAround returns the sentence fragment containing the keyword. The
// message is split on CN and EN sentence punctuation; when nothing matches
// (or the message has no punctuation) the whole trimmed message is the
// fragment.
func fragmentAround(message, keyword string) string {
	for _, frag := range splitFragments(message) {
		if containsFold(frag, keyword) {
			return frag
		}
	}
	return strings.TrimSpace(message)
}

func splitFragments(message string) []string {
	parts := strings.FieldsFunc(message, func(r rune) bool {
		switch r {
		case '。', '！', '？', '；', '，', '.', '!', '?', ';', ',':
			return true
		}
		return false
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// isLatinQualifier reports whether b extends a role name leftward. ASCII
// letters, digits, and the symbols of names like "C++" all qualify.
func isLatinQualifier(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '+' || b == '#':
		return true
	}
	return false
}
