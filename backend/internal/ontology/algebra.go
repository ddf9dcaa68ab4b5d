package ontology

import (
	"sort"

	"go.uber.org/zap"
	"vocabgraph/backend/internal/constants"
	apperrors "vocabgraph/backend/pkg/errors"
)

// Inversion is the outcome of Invert. Related is false when the edge does
// not exist; that is a normal answer, not an error.
type Inversion struct {
	Pair    [2]*Category
	Related bool
}

// Invert checks whether category2 -> category1 holds under relation and, if
// so, returns [category2, category1]. An empty relation means "part_of".
func (s *Store) Invert(category1, category2 *Category, relation string) (Inversion, error) {
	if err := s.checkCategory("category1", category1); err != nil {
		return Inversion{}, err
	}
	if err := s.checkCategory("category2", category2); err != nil {
		return Inversion{}, err
	}
	if relation == "" {
		relation = constants.DefaultInvertRelation
	}
	rel, err := s.lookupRelation(relation)
	if err != nil {
		return Inversion{}, err
	}

	if _, ok := rel.Invert(category1.ID, category2.ID); !ok {
		s.logger.Debug("Categories are not related",
			zap.String("from", category2.ID),
			zap.String("to", category1.ID),
			zap.String("relation", relation),
		)
		return Inversion{}, nil
	}
	return Inversion{Pair: [2]*Category{category2, category1}, Related: true}, nil
}

// CombineTwoRelations creates newRelation whose only entry maps category to
// the union of its targets under rel1 and rel2.
func (s *Store) CombineTwoRelations(category *Category, rel1, rel2, newRelation string) (*Relation, error) {
	if err := s.checkCategory("category", category); err != nil {
		return nil, err
	}
	first, err := s.lookupRelation(rel1)
	if err != nil {
		return nil, err
	}
	second, err := s.lookupRelation(rel2)
	if err != nil {
		return nil, err
	}

	union := make(map[string]struct{})
	for _, r := range []*Relation{first, second} {
		for target := range r.pairs[category.ID] {
			union[target] = struct{}{}
		}
	}

	derived := s.derive(newRelation)
	derived.setTargets(category.ID, union)

	s.logger.Info("Derived relation from union",
		zap.String("relation", derived.ID),
		zap.String("category", category.ID),
		zap.String("rel1", rel1),
		zap.String("rel2", rel2),
		zap.Int("targets", len(union)),
	)
	return derived, nil
}

// CombineSpecificRelations creates newRelation whose only entry maps category
// to each chosen category that it really reaches under the chosen relation.
//
// toCombine maps a relation id to one category id, so a relation can be
// chosen at most once per call.
func (s *Store) CombineSpecificRelations(category *Category, toCombine map[string]string, newRelation string) (*Relation, error) {
	if err := s.checkCategory("category", category); err != nil {
		return nil, err
	}

	relationIDs := make([]string, 0, len(toCombine))
	for id := range toCombine {
		relationIDs = append(relationIDs, id)
	}
	sort.Strings(relationIDs)

	selected := make(map[string]struct{})
	for _, relationID := range relationIDs {
		rel, err := s.lookupRelation(relationID)
		if err != nil {
			return nil, err
		}
		targetID := toCombine[relationID]
		if _, ok := s.categories[targetID]; !ok {
			return nil, apperrors.NewUnresolvedReference("category", targetID, relationID)
		}
		if rel.Contains(category.ID, targetID) {
			selected[targetID] = struct{}{}
		}
	}

	derived := s.derive(newRelation)
	derived.setTargets(category.ID, selected)

	s.logger.Info("Derived relation from selection",
		zap.String("relation", derived.ID),
		zap.String("category", category.ID),
		zap.Int("requested", len(toCombine)),
		zap.Int("targets", len(selected)),
	)
	return derived, nil
}

// derive installs a fresh, non-transitive relation named id, replacing any
// relation already stored under that id.
func (s *Store) derive(id string) *Relation {
	if id == "" {
		id = constants.DefaultDerivedRelation
	}
	if existing, ok := s.relations[id]; ok {
		s.logger.Warn("Derived relation replaces an existing one",
			zap.String("relation", id),
			zap.Bool("was_derived", existing.derived),
			zap.Int("dropped_pairs", existing.Len()),
		)
	}
	r := newRelation(id, id, false)
	r.derived = true
	s.putRelation(r)
	return r
}

func (s *Store) lookupRelation(id string) (*Relation, error) {
	r, ok := s.relations[id]
	if !ok {
		return nil, apperrors.NewUnresolvedReference("relation", id, "")
	}
	return r, nil
}

// checkCategory rejects nil categories and categories owned by another store
func (s *Store) checkCategory(argument string, c *Category) error {
	if c == nil {
		return apperrors.NewInvalidArgument(argument, "category is nil")
	}
	if owned, ok := s.categories[c.ID]; !ok || owned != c {
		return apperrors.NewInvalidArgument(argument, "category "+c.ID+" does not belong to this vocabulary")
	}
	return nil
}
