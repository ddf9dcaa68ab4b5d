package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	apperrors "vocabgraph/backend/pkg/errors"
)

func newLoadedService(t *testing.T) (*VocabularyService, string) {
	t.Helper()
	data, err := os.ReadFile("testdata/mini.obo")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vocab.obo")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	vs := NewVocabularyService(path, zap.NewNop())
	require.NoError(t, vs.Load(context.Background()))
	return vs, path
}

func TestVocabularyService_NotLoaded(t *testing.T) {
	vs := NewVocabularyService("", zap.NewNop())
	assert.False(t, vs.Ready())

	_, err := vs.Stats()
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeArgument))

	err = vs.Load(context.Background())
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeArgument))
}

func TestVocabularyService_Queries(t *testing.T) {
	vs, _ := newLoadedService(t)
	require.True(t, vs.Ready())
	assert.False(t, vs.LoadedAt().IsZero())

	stats, err := vs.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Categories)

	c, err := vs.Category("GO:0000002")
	require.NoError(t, err)
	assert.Equal(t, "child", c.Name)
	assert.Equal(t, map[string][]string{"synonym": {`"kid" EXACT []`}}, c.Extra)

	_, err = vs.Category("GO:404")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeReference))

	relations, err := vs.Relations()
	require.NoError(t, err)
	require.Len(t, relations, 3)
	assert.Equal(t, "is_a", relations[0].ID)
	assert.Equal(t, 3, relations[0].PairCount)

	targets, err := vs.Targets("is_a", "GO:0000004")
	require.NoError(t, err)
	assert.Equal(t, []string{"GO:0000002"}, targets)

	_, err = vs.Targets("is_a", "GO:404")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeReference))
}

func TestVocabularyService_Invert(t *testing.T) {
	vs, _ := newLoadedService(t)
	vs.SetDefaults("part_of", "myrel")

	res, err := vs.Invert("GO:0000003", "GO:0000004", "")
	require.NoError(t, err)
	assert.True(t, res.Related)
	assert.Equal(t, []string{"GO:0000004", "GO:0000003"}, res.Pair)

	res, err = vs.Invert("GO:0000004", "GO:0000003", "part_of")
	require.NoError(t, err)
	assert.False(t, res.Related)
	assert.Nil(t, res.Pair)

	_, err = vs.Invert("GO:404", "GO:0000003", "part_of")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeReference))
}

func TestVocabularyService_CombineIsVisibleToQueries(t *testing.T) {
	vs, _ := newLoadedService(t)
	vs.SetDefaults("part_of", "combined")

	view, err := vs.CombineTwo("GO:0000004", "is_a", "part_of", "")
	require.NoError(t, err)
	assert.Equal(t, "combined", view.ID)
	assert.True(t, view.Derived)
	assert.Len(t, view.Pairs, 2)

	stored, err := vs.Relation("combined")
	require.NoError(t, err)
	assert.Equal(t, view.Pairs, stored.Pairs)

	view, err = vs.CombineSpecific("GO:0000004", map[string]string{"regulates": "GO:0000002"}, "picked")
	require.NoError(t, err)
	assert.Equal(t, "GO:0000002", view.Pairs[0].Target)

	relations, err := vs.Relations()
	require.NoError(t, err)
	assert.Len(t, relations, 5)
}

func TestVocabularyService_EmptyEntryIsKept(t *testing.T) {
	vs, _ := newLoadedService(t)

	view, err := vs.CombineTwo("GO:0000001", "part_of", "regulates", "empty")
	require.NoError(t, err)
	assert.Empty(t, view.Pairs)
	assert.Equal(t, 0, view.PairCount)
	assert.Equal(t, map[string][]string{"GO:0000001": {}}, view.Targets)

	stored, err := vs.Relation("empty")
	require.NoError(t, err)
	assert.Equal(t, view.Targets, stored.Targets)

	unused, err := vs.CombineSpecific("GO:0000004", map[string]string{}, "none")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"GO:0000004": {}}, unused.Targets)
}

func TestVocabularyService_FailedReloadKeepsPreviousStore(t *testing.T) {
	vs, path := newLoadedService(t)
	_, err := vs.CombineTwo("GO:0000004", "is_a", "part_of", "kept")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[Term]\nfoo bar\n"), 0o644))
	err = vs.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeParse))

	_, err = vs.Relation("kept")
	assert.NoError(t, err)
}

func TestVocabularyService_ReloadDropsDerivedRelations(t *testing.T) {
	vs, _ := newLoadedService(t)
	_, err := vs.CombineTwo("GO:0000004", "is_a", "part_of", "gone")
	require.NoError(t, err)

	require.NoError(t, vs.Load(context.Background()))
	_, err = vs.Relation("gone")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeReference))
}

func TestVocabularyService_ConcurrentAccess(t *testing.T) {
	vs, _ := newLoadedService(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := vs.CombineTwo("GO:0000004", "is_a", "part_of", "shared")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := vs.Invert("GO:0000001", "GO:0000002", "is_a")
			assert.NoError(t, err)
			_, err = vs.Relations()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := vs.Relation("shared")
	require.NoError(t, err)
	assert.Equal(t, 2, view.PairCount)
}
