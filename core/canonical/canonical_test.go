package canonical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/helpdoc/core/canonical"
	"github.com/aledsdavies/helpdoc/internal/diagnostics"
	"github.com/aledsdavies/helpdoc/runtime/parser"
)

func fromInput(t *testing.T, input string) *canonical.Root {
	t.Helper()
	collector := &diagnostics.Collector{}
	p := parser.New("test", []byte(input), collector)
	root := p.Parse()
	t.Cleanup(p.Release)
	return canonical.FromAST(root)
}

func TestMarshalIsDeterministicAcrossCalls(t *testing.T) {
	root := fromInput(t, "Usage:\n  prog FILE [-v]...\n\nOptions:\n  -v, --verbose  be loud [default: false]\n")

	first, err := canonical.Marshal(root)
	require.NoError(t, err)
	second, err := canonical.Marshal(root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHashIgnoresSourceRanges(t *testing.T) {
	a := fromInput(t, "Usage:\n  prog FILE\n")
	b := fromInput(t, "Usage:\n      prog     FILE\n")

	ha, err := canonical.Hash(a)
	require.NoError(t, err)
	hb, err := canonical.Hash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb, "identical structure under different whitespace should hash identically")
}

func TestHashDiffersOnStructuralChange(t *testing.T) {
	a := fromInput(t, "Usage:\n  prog FILE\n")
	b := fromInput(t, "Usage:\n  prog DIR\n")

	ha, err := canonical.Hash(a)
	require.NoError(t, err)
	hb, err := canonical.Hash(b)
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestEqualTrueForSameStructure(t *testing.T) {
	a := fromInput(t, "Usage:\n  prog --foo=<x>\n")
	b := fromInput(t, "Usage:\n  prog --foo=<x>\n")

	equal, err := canonical.Equal(a, b)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestEqualFalseForDifferentProgramName(t *testing.T) {
	a := fromInput(t, "Usage:\n  prog FILE\n")
	b := fromInput(t, "Usage:\n  other FILE\n")

	equal, err := canonical.Equal(a, b)
	require.NoError(t, err)
	assert.False(t, equal)
}

// TestFromASTHandlesNestedGroupsAndRepeats exercises the recursive node-kind
// conversion for groupings, alternation, and repetition together.
func TestFromASTHandlesNestedGroupsAndRepeats(t *testing.T) {
	root := fromInput(t, "Usage:\n  prog (FILE | DIR)...\n")

	require.Len(t, root.Usages, 1)
	require.Len(t, root.Usages[0].Elems, 1)

	repeat := root.Usages[0].Elems[0]
	assert.Equal(t, "repeat", repeat.Kind)
	require.NotNil(t, repeat.Elem)

	parens := *repeat.Elem
	assert.Equal(t, "parens", parens.Kind)
	require.Len(t, parens.Elems, 1)
	assert.Equal(t, "or", parens.Elems[0].Kind)
	require.Len(t, parens.Elems[0].Elems, 2)
}
