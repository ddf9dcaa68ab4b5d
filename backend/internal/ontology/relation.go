package ontology

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"vocabgraph/backend/internal/constants"
	"vocabgraph/backend/internal/stanza"
)

// Pair is a directed edge between two categories, by id
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Relation is an edge label together with every edge carrying it
type Relation struct {
	ID           string
	Name         string
	IsTransitive bool // stored only; no closure is ever computed
	Extra        *stanza.Attributes

	derived bool
	pairs   map[string]map[string]struct{}
}

// NewRelation builds a Relation from a Typedef stanza's attributes.
// attrs is copied first and is never modified.
func NewRelation(attrs *stanza.Attributes) (*Relation, error) {
	rest := attrs.Clone()

	id, err := popSingle(rest, constants.SectionTypedef, constants.KeyID)
	if err != nil {
		return nil, err
	}
	name, err := popSingle(rest, constants.SectionTypedef, constants.KeyName)
	if err != nil {
		return nil, err
	}

	transitive := false
	if rest.Has(constants.KeyIsTransitive) {
		value, err := popSingle(rest, constants.SectionTypedef, constants.KeyIsTransitive)
		if err != nil {
			return nil, err
		}
		transitive = !strings.EqualFold(value, "false")
	}

	r := newRelation(id, name, transitive)
	r.Extra = rest
	return r, nil
}

func newRelation(id, name string, transitive bool) *Relation {
	return &Relation{
		ID:           id,
		Name:         name,
		IsTransitive: transitive,
		Extra:        stanza.NewAttributes(),
		pairs:        make(map[string]map[string]struct{}),
	}
}

func (r *Relation) String() string {
	return fmt.Sprintf("<%s>", r.ID)
}

// Derived reports whether the relation was created by the algebra
func (r *Relation) Derived() bool {
	return r.derived
}

// AddPair records the edge source -> target
func (r *Relation) AddPair(source, target *Category) {
	r.addPair(source.ID, target.ID)
}

func (r *Relation) addPair(source, target string) {
	targets, ok := r.pairs[source]
	if !ok {
		targets = make(map[string]struct{})
		r.pairs[source] = targets
	}
	targets[target] = struct{}{}
}

// setTargets replaces source's target set; an empty set is kept as an entry.
func (r *Relation) setTargets(source string, targets map[string]struct{}) {
	r.pairs[source] = targets
}

// Contains reports whether the edge source -> target exists
func (r *Relation) Contains(source, target string) bool {
	_, ok := r.pairs[source][target]
	return ok
}

// HasSource reports whether source has an entry, even an empty one
func (r *Relation) HasSource(source string) bool {
	_, ok := r.pairs[source]
	return ok
}

// Targets returns the sorted target ids of source (empty if none)
func (r *Relation) Targets(source string) []string {
	return sortedKeys(r.pairs[source])
}

// Sources returns the sorted ids that have an entry
func (r *Relation) Sources() []string {
	out := make([]string, 0, len(r.pairs))
	for s := range r.pairs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Pairs returns every edge, ordered by source then target
func (r *Relation) Pairs() []Pair {
	var out []Pair
	for _, s := range r.Sources() {
		for _, t := range r.Targets(s) {
			out = append(out, Pair{Source: s, Target: t})
		}
	}
	return out
}

// Len returns the number of edges
func (r *Relation) Len() int {
	n := 0
	for _, targets := range r.pairs {
		n += len(targets)
	}
	return n
}

// Invert returns the pair (second, first) when the edge second -> first holds
func (r *Relation) Invert(first, second string) (Pair, bool) {
	if r.Contains(second, first) {
		return Pair{Source: second, Target: first}, true
	}
	return Pair{}, false
}

// Copy returns an independent copy, including the pair sets
func (r *Relation) Copy() *Relation {
	c := newRelation(r.ID, r.Name, r.IsTransitive)
	c.Extra = r.Extra.Clone()
	c.derived = r.derived
	for s, targets := range r.pairs {
		set := make(map[string]struct{}, len(targets))
		for t := range targets {
			set[t] = struct{}{}
		}
		c.pairs[s] = set
	}
	return c
}

// Equal compares every field and the pair sets
func (r *Relation) Equal(other *Relation) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.ID != other.ID || r.Name != other.Name || r.IsTransitive != other.IsTransitive {
		return false
	}
	if !equalAttributes(r.Extra, other.Extra) || len(r.pairs) != len(other.pairs) {
		return false
	}
	for s, targets := range r.pairs {
		otherTargets, ok := other.pairs[s]
		if !ok || len(otherTargets) != len(targets) {
			return false
		}
		for t := range targets {
			if _, ok := otherTargets[t]; !ok {
				return false
			}
		}
	}
	return true
}

// Record converts the relation back into a Typedef stanza
func (r *Relation) Record() stanza.Stanza {
	attrs := stanza.NewAttributes()
	attrs.Add(constants.KeyID, r.ID)
	attrs.Add(constants.KeyName, r.Name)
	if r.IsTransitive {
		attrs.Add(constants.KeyIsTransitive, strconv.FormatBool(true))
	}
	appendExtra(attrs, r.Extra)
	return stanza.Stanza{Section: constants.SectionTypedef, Attributes: attrs}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func equalAttributes(a, b *stanza.Attributes) bool {
	ak, bk := a.Keys(), b.Keys()
	if len(ak) != len(bk) {
		return false
	}
	for i, k := range ak {
		if bk[i] != k {
			return false
		}
		av, bv := a.Get(k), b.Get(k)
		if len(av) != len(bv) {
			return false
		}
		for j := range av {
			if av[j] != bv[j] {
				return false
			}
		}
	}
	return true
}
