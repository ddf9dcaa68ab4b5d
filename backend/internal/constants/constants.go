package constants

// Stanza section kinds
const (
	SectionTerm    = "Term"
	SectionTypedef = "Typedef"
)

// Stanza attribute keys lifted into named fields or consumed by the graph builder
const (
	KeyID           = "id"
	KeyName         = "name"
	KeyDef          = "def"
	KeyIsTransitive = "is_transitive"
	KeyIsA          = "is_a"
	KeyRelationship = "relationship"
)

// Built-in relation
const (
	// IsARelation is installed in every store; it is never declared as a Typedef
	IsARelation = "is_a"
)

// Algebra defaults
const (
	// DefaultInvertRelation is checked by invert when no relation is named
	DefaultInvertRelation = "part_of"
	// DefaultDerivedRelation names a derived relation when the caller names none
	DefaultDerivedRelation = "myrel"
)

// Reference encodings
const (
	// IsACommentSeparator splits "GO:0000001 ! comment"
	IsACommentSeparator = " ! "
	// KeyValueSeparator splits "key: value"
	KeyValueSeparator = ": "
)
