package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"vocabgraph/backend/internal/ontology"
	apperrors "vocabgraph/backend/pkg/errors"
	"vocabgraph/backend/pkg/logger"
)

// CategoryView is a read-only copy of a category
type CategoryView struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Definition string              `json:"definition"`
	Extra      map[string][]string `json:"extra,omitempty"`
}

// RelationSummary describes a relation without its edges
type RelationSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsTransitive bool   `json:"is_transitive"`
	Derived      bool   `json:"derived"`
	PairCount    int    `json:"pair_count"`
}

// RelationView is a read-only copy of a relation and its edges. Targets keeps
// every source entry, including those whose target set is empty.
type RelationView struct {
	RelationSummary
	Extra   map[string][]string `json:"extra,omitempty"`
	Pairs   []ontology.Pair     `json:"pairs"`
	Targets map[string][]string `json:"targets"`
}

// InversionResult is the outcome of an inversion check, by id
type InversionResult struct {
	Related bool     `json:"related"`
	Pair    []string `json:"pair,omitempty"`
}

// VocabularyService owns one loaded store. Queries share a read lock;
// combinations and reloads are serialized under the write lock.
type VocabularyService struct {
	path   string
	logger *zap.Logger

	mu       sync.RWMutex
	store    *ontology.Store
	loadedAt time.Time

	loads singleflight.Group

	defaultRelation string
	derivedRelation string
}

// NewVocabularyService creates a service for the vocabulary at path. Call Load
// before issuing queries.
func NewVocabularyService(path string, log *zap.Logger) *VocabularyService {
	if log == nil {
		log = logger.Named("vocabulary")
	}
	return &VocabularyService{
		path:   path,
		logger: log,
	}
}

// NewVocabularyServiceFromStore wraps an already built store
func NewVocabularyServiceFromStore(store *ontology.Store, log *zap.Logger) *VocabularyService {
	if log == nil {
		log = logger.Named("vocabulary")
	}
	return &VocabularyService{
		logger:   log,
		store:    store,
		loadedAt: time.Now(),
	}
}

// SetDefaults sets the relation used by Invert and the id given to derived
// relations when callers leave them empty. Empty values keep the store's own
// defaults.
func (vs *VocabularyService) SetDefaults(invertRelation, derivedRelation string) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.defaultRelation = invertRelation
	vs.derivedRelation = derivedRelation
}

// Load (re)reads the vocabulary file. Concurrent calls share one read. On
// failure the previously loaded store stays in place.
func (vs *VocabularyService) Load(ctx context.Context) error {
	if vs.path == "" {
		return apperrors.NewInvalidArgument("path", "service has no vocabulary file")
	}

	ch := vs.loads.DoChan("load", func() (interface{}, error) {
		start := time.Now()
		store, err := ontology.LoadFile(vs.path, vs.logger.Named("ontology"))
		if err != nil {
			vs.logger.Error("Failed to load vocabulary",
				zap.String("path", vs.path),
				zap.Error(err),
			)
			return nil, err
		}
		vs.logger.Info("Vocabulary ready",
			zap.String("path", vs.path),
			zap.Duration("took", time.Since(start)),
		)
		return store, nil
	})

	select {
	case <-ctx.Done():
		return apperrors.NewContextCancelled("load vocabulary", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		vs.mu.Lock()
		vs.store = res.Val.(*ontology.Store)
		vs.loadedAt = time.Now()
		vs.mu.Unlock()
		return nil
	}
}

// Ready reports whether a store has been loaded
func (vs *VocabularyService) Ready() bool {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.store != nil
}

// LoadedAt returns when the current store was installed
func (vs *VocabularyService) LoadedAt() time.Time {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return vs.loadedAt
}

// Stats summarizes the current store
func (vs *VocabularyService) Stats() (ontology.Stats, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if err := vs.checkReady(); err != nil {
		return ontology.Stats{}, err
	}
	return vs.store.Stats(), nil
}

// Category returns a copy of the category with the given id
func (vs *VocabularyService) Category(id string) (CategoryView, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if err := vs.checkReady(); err != nil {
		return CategoryView{}, err
	}
	c, ok := vs.store.Category(id)
	if !ok {
		return CategoryView{}, apperrors.NewUnresolvedReference("category", id, "")
	}
	return categoryView(c), nil
}

// Relations lists every relation in store order
func (vs *VocabularyService) Relations() ([]RelationSummary, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if err := vs.checkReady(); err != nil {
		return nil, err
	}
	relations := vs.store.Relations()
	out := make([]RelationSummary, 0, len(relations))
	for _, r := range relations {
		out = append(out, relationSummary(r))
	}
	return out, nil
}

// Relation returns a copy of the relation with the given id
func (vs *VocabularyService) Relation(id string) (RelationView, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if err := vs.checkReady(); err != nil {
		return RelationView{}, err
	}
	r, ok := vs.store.Relation(id)
	if !ok {
		return RelationView{}, apperrors.NewUnresolvedReference("relation", id, "")
	}
	return relationView(r), nil
}

// Targets returns the ids category reaches under relation
func (vs *VocabularyService) Targets(relationID, categoryID string) ([]string, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if err := vs.checkReady(); err != nil {
		return nil, err
	}
	r, ok := vs.store.Relation(relationID)
	if !ok {
		return nil, apperrors.NewUnresolvedReference("relation", relationID, "")
	}
	if _, ok := vs.store.Category(categoryID); !ok {
		return nil, apperrors.NewUnresolvedReference("category", categoryID, "")
	}
	return r.Targets(categoryID), nil
}

// Invert runs the inversion check for two category ids
func (vs *VocabularyService) Invert(category1, category2, relation string) (InversionResult, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	if err := vs.checkReady(); err != nil {
		return InversionResult{}, err
	}
	c1, err := vs.resolve(category1)
	if err != nil {
		return InversionResult{}, err
	}
	c2, err := vs.resolve(category2)
	if err != nil {
		return InversionResult{}, err
	}

	if relation == "" {
		relation = vs.defaultRelation
	}
	inv, err := vs.store.Invert(c1, c2, relation)
	if err != nil {
		return InversionResult{}, err
	}
	if !inv.Related {
		return InversionResult{}, nil
	}
	return InversionResult{Related: true, Pair: []string{inv.Pair[0].ID, inv.Pair[1].ID}}, nil
}

// CombineTwo derives newRelation from the union of rel1 and rel2 for category
func (vs *VocabularyService) CombineTwo(category, rel1, rel2, newRelation string) (RelationView, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if err := vs.checkReady(); err != nil {
		return RelationView{}, err
	}
	c, err := vs.resolve(category)
	if err != nil {
		return RelationView{}, err
	}
	if newRelation == "" {
		newRelation = vs.derivedRelation
	}
	r, err := vs.store.CombineTwoRelations(c, rel1, rel2, newRelation)
	if err != nil {
		return RelationView{}, err
	}
	return relationView(r), nil
}

// CombineSpecific derives newRelation from the chosen (relation, category) entries
func (vs *VocabularyService) CombineSpecific(category string, toCombine map[string]string, newRelation string) (RelationView, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if err := vs.checkReady(); err != nil {
		return RelationView{}, err
	}
	c, err := vs.resolve(category)
	if err != nil {
		return RelationView{}, err
	}
	if newRelation == "" {
		newRelation = vs.derivedRelation
	}
	r, err := vs.store.CombineSpecificRelations(c, toCombine, newRelation)
	if err != nil {
		return RelationView{}, err
	}
	return relationView(r), nil
}

// resolve must be called with the lock held
func (vs *VocabularyService) resolve(id string) (*ontology.Category, error) {
	c, ok := vs.store.Category(id)
	if !ok {
		return nil, apperrors.NewUnresolvedReference("category", id, "")
	}
	return c, nil
}

func (vs *VocabularyService) checkReady() error {
	if vs.store == nil {
		return apperrors.NewInvalidArgument("vocabulary", "not loaded")
	}
	return nil
}

func categoryView(c *ontology.Category) CategoryView {
	return CategoryView{
		ID:         c.ID,
		Name:       c.Name,
		Definition: c.Definition,
		Extra:      c.Extra.Map(),
	}
}

func relationSummary(r *ontology.Relation) RelationSummary {
	return RelationSummary{
		ID:           r.ID,
		Name:         r.Name,
		IsTransitive: r.IsTransitive,
		Derived:      r.Derived(),
		PairCount:    r.Len(),
	}
}

func relationView(r *ontology.Relation) RelationView {
	pairs := r.Pairs()
	if pairs == nil {
		pairs = []ontology.Pair{}
	}
	targets := make(map[string][]string)
	for _, source := range r.Sources() {
		targets[source] = r.Targets(source)
	}
	return RelationView{
		RelationSummary: relationSummary(r),
		Extra:           r.Extra.Map(),
		Pairs:           pairs,
		Targets:         targets,
	}
}
