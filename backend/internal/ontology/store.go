// Package ontology holds the category and relation model of a loaded
// vocabulary, the builder that turns stanza cross references into edges,
// and the algebra that derives new relation types from existing ones.
//
// A Store is not safe for concurrent use. Callers that share one between
// goroutines serialize access themselves (see services.VocabularyService).
package ontology

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"vocabgraph/backend/internal/constants"
	"vocabgraph/backend/internal/stanza"
	apperrors "vocabgraph/backend/pkg/errors"
	"vocabgraph/backend/pkg/logger"
)

// Store owns every category and relation of one vocabulary
type Store struct {
	categories    map[string]*Category
	categoryOrder []string
	relations     map[string]*Relation
	relationOrder []string
	logger        *zap.Logger
}

// Stats summarizes a store
type Stats struct {
	Categories int `json:"categories"`
	Relations  int `json:"relations"`
	Pairs      int `json:"pairs"`
}

// NewStore creates an empty store holding only the built-in is_a relation
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = logger.Named("ontology")
	}
	s := &Store{
		categories: make(map[string]*Category),
		relations:  make(map[string]*Relation),
		logger:     log,
	}
	s.putRelation(newRelation(constants.IsARelation, constants.IsARelation, true))
	return s
}

// LoadFile reads and builds the vocabulary stored at path
func LoadFile(path string, log *zap.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary: %w", err)
	}
	defer f.Close()

	s, err := Load(f, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary %s: %w", path, err)
	}
	return s, nil
}

// Load parses r and builds a fully resolved store
func Load(r io.Reader, log *zap.Logger) (*Store, error) {
	stanzas, err := stanza.Parse(r)
	if err != nil {
		return nil, err
	}

	s := NewStore(log)
	if err := s.build(stanzas); err != nil {
		return nil, err
	}

	stats := s.Stats()
	s.logger.Info("Vocabulary loaded",
		zap.Int("categories", stats.Categories),
		zap.Int("relations", stats.Relations),
		zap.Int("pairs", stats.Pairs),
	)
	return s, nil
}

// build constructs every entity first, then resolves cross references
func (s *Store) build(stanzas []stanza.Stanza) error {
	for _, st := range stanzas {
		switch st.Section {
		case constants.SectionTerm:
			c, err := NewCategory(st.Attributes)
			if err != nil {
				return fmt.Errorf("stanza at line %d: %w", st.Line, err)
			}
			if err := s.AddCategory(c); err != nil {
				return fmt.Errorf("stanza at line %d: %w", st.Line, err)
			}
		case constants.SectionTypedef:
			r, err := NewRelation(st.Attributes)
			if err != nil {
				return fmt.Errorf("stanza at line %d: %w", st.Line, err)
			}
			if err := s.AddRelation(r); err != nil {
				return fmt.Errorf("stanza at line %d: %w", st.Line, err)
			}
		default:
			s.logger.Debug("Skipping stanza",
				zap.String("section", st.Section),
				zap.Int("line", st.Line),
			)
		}
	}
	return s.resolveReferences()
}

// AddCategory stores c; its id must be new
func (s *Store) AddCategory(c *Category) error {
	if _, exists := s.categories[c.ID]; exists {
		return apperrors.NewDuplicateID("category", c.ID)
	}
	s.categories[c.ID] = c
	s.categoryOrder = append(s.categoryOrder, c.ID)
	return nil
}

// AddRelation stores r; its id must be new, built-in is_a included
func (s *Store) AddRelation(r *Relation) error {
	if _, exists := s.relations[r.ID]; exists {
		return apperrors.NewDuplicateID("relation", r.ID)
	}
	s.putRelation(r)
	return nil
}

// putRelation stores r, replacing any relation with the same id in place
func (s *Store) putRelation(r *Relation) {
	if _, exists := s.relations[r.ID]; !exists {
		s.relationOrder = append(s.relationOrder, r.ID)
	}
	s.relations[r.ID] = r
}

// Category looks up a category by id
func (s *Store) Category(id string) (*Category, bool) {
	c, ok := s.categories[id]
	return c, ok
}

// Relation looks up a relation by id
func (s *Store) Relation(id string) (*Relation, bool) {
	r, ok := s.relations[id]
	return r, ok
}

// Categories returns all categories in load order
func (s *Store) Categories() []*Category {
	out := make([]*Category, 0, len(s.categoryOrder))
	for _, id := range s.categoryOrder {
		out = append(out, s.categories[id])
	}
	return out
}

// Relations returns all relations, built-in first, then declared, then derived
func (s *Store) Relations() []*Relation {
	out := make([]*Relation, 0, len(s.relationOrder))
	for _, id := range s.relationOrder {
		out = append(out, s.relations[id])
	}
	return out
}

// Stats counts categories, relations and edges
func (s *Store) Stats() Stats {
	st := Stats{Categories: len(s.categories), Relations: len(s.relations)}
	for _, r := range s.relations {
		st.Pairs += r.Len()
	}
	return st
}

// Records re-serializes the declared vocabulary: terms with their is_a and
// relationship lines regenerated from the edge sets, then declared typedefs.
func (s *Store) Records() []stanza.Stanza {
	var out []stanza.Stanza
	isA := s.relations[constants.IsARelation]

	for _, c := range s.Categories() {
		rec := c.Record()
		for _, target := range isA.Targets(c.ID) {
			rec.Attributes.Add(constants.KeyIsA, target+constants.IsACommentSeparator+s.nameOf(target))
		}
		for _, r := range s.Relations() {
			if r.ID == constants.IsARelation || r.derived {
				continue
			}
			for _, target := range r.Targets(c.ID) {
				rec.Attributes.Add(constants.KeyRelationship, fmt.Sprintf("%s %s ! %s", r.ID, target, s.nameOf(target)))
			}
		}
		out = append(out, rec)
	}

	for _, r := range s.Relations() {
		if r.ID == constants.IsARelation || r.derived {
			continue
		}
		out = append(out, r.Record())
	}
	return out
}

func (s *Store) nameOf(id string) string {
	if c, ok := s.categories[id]; ok {
		return c.Name
	}
	return id
}
