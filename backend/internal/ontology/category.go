package ontology

import (
	"fmt"

	"vocabgraph/backend/internal/constants"
	"vocabgraph/backend/internal/stanza"
	apperrors "vocabgraph/backend/pkg/errors"
)

// Category is one vocabulary concept, built from a [Term] stanza
type Category struct {
	ID         string
	Name       string
	Definition string
	// Extra holds every stanza field not lifted into a named field.
	// is_a and relationship are removed once the graph is built.
	Extra *stanza.Attributes
}

// NewCategory builds a Category from a Term stanza's attributes.
// attrs is copied first and is never modified.
func NewCategory(attrs *stanza.Attributes) (*Category, error) {
	rest := attrs.Clone()

	id, err := popSingle(rest, constants.SectionTerm, constants.KeyID)
	if err != nil {
		return nil, err
	}
	name, err := popSingle(rest, constants.SectionTerm, constants.KeyName)
	if err != nil {
		return nil, err
	}
	def, err := popSingle(rest, constants.SectionTerm, constants.KeyDef)
	if err != nil {
		return nil, err
	}

	return &Category{ID: id, Name: name, Definition: def, Extra: rest}, nil
}

func (c *Category) String() string {
	return fmt.Sprintf("%s (%s)", c.ID, c.Name)
}

// Record converts the category back into a Term stanza
func (c *Category) Record() stanza.Stanza {
	attrs := stanza.NewAttributes()
	attrs.Add(constants.KeyID, c.ID)
	attrs.Add(constants.KeyName, c.Name)
	attrs.Add(constants.KeyDef, c.Definition)
	appendExtra(attrs, c.Extra)
	return stanza.Stanza{Section: constants.SectionTerm, Attributes: attrs}
}

// popSingle removes key from attrs and returns its only value
func popSingle(attrs *stanza.Attributes, section, key string) (string, error) {
	values := attrs.Get(key)
	if len(values) != 1 {
		return "", apperrors.NewMultiplicity(section, key, len(values))
	}
	attrs.Delete(key)
	return values[0], nil
}

func appendExtra(dst, extra *stanza.Attributes) {
	for _, k := range extra.Keys() {
		for _, v := range extra.Get(k) {
			dst.Add(k, v)
		}
	}
}
