package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simula-UiB/CRHS/gf2"
)

func newTestLevel(t *testing.T) *Level {
	t.Helper()
	lv, err := New(0, gf2.FormFromVars(2, 0, 1))
	require.NoError(t, err)
	return lv
}

func TestNew_RejectsZeroLabel(t *testing.T) {
	_, err := New(0, gf2.NewForm(2))
	assert.ErrorIs(t, err, ErrZeroLabel)
}

func TestInsertNode_MaximalSharing(t *testing.T) {
	lv := newTestLevel(t)

	i1, err := lv.InsertNode(SinkRef(), DanglingRef(), false)
	require.NoError(t, err)
	i2, err := lv.InsertNode(SinkRef(), DanglingRef(), false)
	require.NoError(t, err)
	assert.Equal(t, i1, i2, "identical edge pairs must share a node")
	assert.Equal(t, 1, lv.NodeCount())

	i3, err := lv.InsertNode(DanglingRef(), SinkRef(), false)
	require.NoError(t, err)
	assert.NotEqual(t, i1, i3)
	assert.Equal(t, 2, lv.NodeCount())
}

func TestInsertNode_RejectsBothDanglingUnlessTerminal(t *testing.T) {
	lv := newTestLevel(t)

	_, err := lv.InsertNode(DanglingRef(), DanglingRef(), false)
	assert.ErrorIs(t, err, ErrBothDangling)

	i, err := lv.InsertNode(DanglingRef(), DanglingRef(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, lv.NodeCount())
	n, ok := lv.Node(i)
	require.True(t, ok)
	assert.True(t, n.bothDangling())
}

func TestDropNode_FreesSlotForReuse(t *testing.T) {
	lv := newTestLevel(t)
	i1, _ := lv.InsertNode(SinkRef(), DanglingRef(), false)

	require.NoError(t, lv.DropNode(i1))
	assert.Equal(t, 0, lv.NodeCount())

	i2, err := lv.InsertNode(DanglingRef(), SinkRef(), false)
	require.NoError(t, err)
	assert.Equal(t, i1, i2, "freed slot should be reused")
}

func TestDropNode_UnknownIndex(t *testing.T) {
	lv := newTestLevel(t)
	assert.ErrorIs(t, lv.DropNode(0), ErrNodeNotFound)
}

func TestRedirectAndRebuild_MergesDuplicates(t *testing.T) {
	lv := newTestLevel(t)
	a, _ := lv.InsertNode(ToNextRef(0), ToNextRef(1), false)
	b, _ := lv.InsertNode(ToNextRef(2), ToNextRef(1), false)
	require.NotEqual(t, a, b)

	// Redirect every edge that targeted node 2 to target node 0 instead,
	// which makes node b's edge pair identical to node a's.
	lv.Redirect(2, 0)
	remap := lv.Rebuild()

	assert.Equal(t, 1, lv.NodeCount())
	merged, ok := remap[b]
	require.True(t, ok)
	assert.Equal(t, a, merged)
}

func TestDanglingPredecessors(t *testing.T) {
	term, _ := New(1, gf2.FormFromVars(2, 0))
	dead, err := term.InsertNode(DanglingRef(), DanglingRef(), true)
	require.NoError(t, err)
	alive, err := term.InsertNode(SinkRef(), DanglingRef(), true)
	require.NoError(t, err)

	dp := term.DanglingPredecessors()
	assert.ElementsMatch(t, []NodeIndex{dead}, dp)
	assert.NotContains(t, dp, alive)
}
