package ontology

import (
	"strings"

	"go.uber.org/zap"
	"vocabgraph/backend/internal/constants"
	apperrors "vocabgraph/backend/pkg/errors"
)

// resolveReferences turns every category's is_a and relationship values into
// edges and drops those keys from the category. Categories and values are
// visited in load order so the first bad reference is always the one reported.
func (s *Store) resolveReferences() error {
	isA := s.relations[constants.IsARelation]
	resolved := 0

	for _, c := range s.Categories() {
		if c.Extra.Has(constants.KeyIsA) {
			for _, value := range c.Extra.Get(constants.KeyIsA) {
				targetID, _, _ := strings.Cut(value, constants.IsACommentSeparator)
				targetID = strings.TrimSpace(targetID)
				if targetID == "" {
					return apperrors.NewMalformedReference(c.ID, constants.KeyIsA, value)
				}
				target, ok := s.categories[targetID]
				if !ok {
					return apperrors.NewUnresolvedReference("category", targetID, c.ID)
				}
				isA.AddPair(c, target)
				resolved++
			}
			c.Extra.Delete(constants.KeyIsA)
		}

		if c.Extra.Has(constants.KeyRelationship) {
			for _, value := range c.Extra.Get(constants.KeyRelationship) {
				parts := strings.SplitN(value, " ", 3)
				if len(parts) != 3 {
					return apperrors.NewMalformedReference(c.ID, constants.KeyRelationship, value)
				}
				rel, ok := s.relations[parts[0]]
				if !ok {
					return apperrors.NewUnresolvedReference("relation", parts[0], c.ID)
				}
				target, ok := s.categories[parts[1]]
				if !ok {
					return apperrors.NewUnresolvedReference("category", parts[1], c.ID)
				}
				rel.AddPair(c, target)
				resolved++
			}
			c.Extra.Delete(constants.KeyRelationship)
		}
	}

	s.logger.Debug("Resolved cross references", zap.Int("edges", resolved))
	return nil
}
