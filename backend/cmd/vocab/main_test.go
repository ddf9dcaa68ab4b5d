package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "vocabgraph/backend/pkg/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	out, err := run(t, "stats", "testdata/mini.obo")
	require.NoError(t, err)
	assert.Contains(t, out, "categories: 4")
	assert.Contains(t, out, "pairs: 5")
	assert.Contains(t, out, "part_of\t1\ttransitive=true")
}

func TestShowCommand(t *testing.T) {
	out, err := run(t, "show", "testdata/mini.obo", "GO:0000004")
	require.NoError(t, err)
	assert.Contains(t, out, "GO:0000004 (membrane)")
	assert.Contains(t, out, "is_a -> GO:0000002")
	assert.Contains(t, out, "part_of -> GO:0000003")

	_, err = run(t, "show", "testdata/mini.obo", "GO:404")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeReference))
}

func TestInvertCommand(t *testing.T) {
	out, err := run(t, "invert", "testdata/mini.obo", "GO:0000003", "GO:0000004")
	require.NoError(t, err)
	assert.Equal(t, "[GO:0000004 (membrane), GO:0000003 (organelle)]\n", out)

	out, err = run(t, "invert", "testdata/mini.obo", "GO:0000004", "GO:0000003", "--relation", "part_of")
	require.NoError(t, err)
	assert.Equal(t, "GO:0000003 (organelle) and GO:0000004 (membrane) are not related through 'part_of'\n", out)
}

func TestCombineCommand(t *testing.T) {
	out, err := run(t, "combine", "testdata/mini.obo", "GO:0000004", "--rel1", "is_a", "--rel2", "part_of", "--new", "both")
	require.NoError(t, err)

	var got struct {
		ID    string              `json:"id"`
		Pairs map[string][]string `json:"pairs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "both", got.ID)
	assert.Equal(t, map[string][]string{"GO:0000004": {"GO:0000002", "GO:0000003"}}, got.Pairs)
}

func TestSelectCommand(t *testing.T) {
	out, err := run(t, "select", "testdata/mini.obo", "GO:0000004",
		"--pick", "is_a=GO:0000002",
		"--pick", "regulates=GO:0000001",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"myrel"`)
	assert.Contains(t, out, `"GO:0000002"`)
	assert.NotContains(t, out, `"GO:0000001"`)

	_, err = run(t, "select", "testdata/mini.obo", "GO:0000004", "--pick", "is_a")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeArgument))
}

func TestParsePicks_LastChoiceWins(t *testing.T) {
	picks, err := parsePicks([]string{"is_a=GO:1", "part_of=GO:2", "is_a=GO:3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"is_a": "GO:3", "part_of": "GO:2"}, picks)
}

func TestDumpCommand(t *testing.T) {
	out, err := run(t, "dump", "testdata/mini.obo")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[Term]\nid: GO:0000001\n"))
	assert.Contains(t, out, "relationship: part_of GO:0000003 ! organelle\n")
	assert.Contains(t, out, "[Typedef]\nid: part_of\nname: part_of\nis_transitive: true\nxref: BFO:0000050\n")
	assert.NotContains(t, out, "id: is_a")
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "stats", "testdata/nope.obo")
	assert.Error(t, err)
}
