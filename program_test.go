package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSingleSealedBlockNoPredecessors mirrors a single sealed entry
// block with no predecessors and no writes: reading an undefined
// variable must allocate a phi and immediately collapse it to Undef.
func TestSingleSealedBlockNoPredecessors(t *testing.T) {
	p := NewProgram()
	b0 := p.NewBlock()
	v0 := p.NewVariable()

	require.NoError(t, p.Seal(b0))

	value, err := p.Read(b0, v0)
	require.NoError(t, err)
	assert.True(t, value.IsUndef())
}

// TestLinearFlowAvoidsPhi covers the single-predecessor fast path: a
// read through a chain of one predecessor must return exactly the
// upstream value, with no phi materialized.
func TestLinearFlowAvoidsPhi(t *testing.T) {
	p := NewProgram()
	a := p.NewVariable()

	b0 := p.NewBlock()
	require.NoError(t, p.WriteConstant(b0, a, 1))
	require.NoError(t, p.Seal(b0))

	b1 := p.NewBlock()
	require.NoError(t, p.AddPredecessor(b1, b0))
	require.NoError(t, p.Seal(b1))

	want, err := p.Read(b0, a)
	require.NoError(t, err)

	got, err := p.Read(b1, a)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	_, isConst := got.AsConst()
	assert.True(t, isConst)
}

// TestDiamondMergeStaysLive is the classic Braun et al. diamond: two
// distinct constants merge at a block with two predecessors, so the
// phi must survive trivial-phi removal.
func TestDiamondMergeStaysLive(t *testing.T) {
	p := NewProgram()
	a := p.NewVariable()

	b0 := p.NewBlock()
	require.NoError(t, p.WriteConstant(b0, a, 1))
	require.NoError(t, p.Seal(b0))

	b1 := p.NewBlock()
	require.NoError(t, p.WriteConstant(b1, a, 2))
	require.NoError(t, p.Seal(b1))

	b2 := p.NewBlock()
	require.NoError(t, p.AddPredecessor(b2, b0))
	require.NoError(t, p.AddPredecessor(b2, b1))

	value, err := p.Read(b2, a)
	require.NoError(t, err)
	require.NoError(t, p.WriteVar(b2, a, value))
	require.NoError(t, p.Seal(b2))

	phiID, ok := value.AsPhi()
	require.True(t, ok)

	phi := p.phis.get(phiID)
	require.NotNil(t, phi)
	assert.Len(t, phi.Operands(), 2)

	final, err := p.Read(b2, a)
	require.NoError(t, err)
	_, stillPhi := final.AsPhi()
	assert.True(t, stillPhi, "a merge of two distinct constants must not be simplified away")
}

// TestSelfLoopCollapsesToConstant is the self-referencing loop case: a
// block whose predecessors are a constant-producing block and itself
// must see its phi collapse to that constant once sealed, because the
// self-reference operand is tolerated and discarded.
func TestSelfLoopCollapsesToConstant(t *testing.T) {
	p := NewProgram()
	a := p.NewVariable()

	b0 := p.NewBlock()
	require.NoError(t, p.WriteConstant(b0, a, 1))
	require.NoError(t, p.Seal(b0))

	b1 := p.NewBlock()
	require.NoError(t, p.AddPredecessor(b1, b0))
	require.NoError(t, p.AddPredecessor(b1, b1))

	_, err := p.Read(b1, a)
	require.NoError(t, err)

	require.NoError(t, p.Seal(b1))

	final, err := p.Read(b1, a)
	require.NoError(t, err)
	id, ok := final.AsConst()
	require.True(t, ok, "self-loop phi must collapse to the sole distinct constant")
	payload, ok := p.GetConstant(id)
	require.True(t, ok)
	assert.Equal(t, 1, payload)
}

// TestCascadingTrivialRemoval builds a phi (p1) that collapses to a
// constant, then a second phi (p2) built afterward whose only
// non-self operand reads through the very slot p1 occupies. Because
// p1 has already been rewritten to the constant by the time p2 is
// built, p2 resolves directly to that constant too — propagation
// through a shared (block, variable) slot rather than a live phi
// chase.
func TestCascadingTrivialRemoval(t *testing.T) {
	p := NewProgram()
	a := p.NewVariable()

	b0 := p.NewBlock()
	require.NoError(t, p.WriteConstant(b0, a, 7))
	require.NoError(t, p.Seal(b0))

	b2 := p.NewBlock()
	require.NoError(t, p.AddPredecessor(b2, b0))
	require.NoError(t, p.AddPredecessor(b2, b2))
	_, err := p.Read(b2, a)
	require.NoError(t, err)
	require.NoError(t, p.Seal(b2))

	b2Value, err := p.Read(b2, a)
	require.NoError(t, err)
	id, ok := b2Value.AsConst()
	require.True(t, ok)
	payload, ok := p.GetConstant(id)
	require.True(t, ok)
	require.Equal(t, 7, payload)

	b3 := p.NewBlock()
	require.NoError(t, p.AddPredecessor(b3, b2))
	require.NoError(t, p.AddPredecessor(b3, b3))
	_, err = p.Read(b3, a)
	require.NoError(t, err)
	require.NoError(t, p.Seal(b3))

	b3Value, err := p.Read(b3, a)
	require.NoError(t, err)
	id2, ok := b3Value.AsConst()
	require.True(t, ok, "the second phi must collapse to the same constant as the first")
	payload2, ok := p.GetConstant(id2)
	require.True(t, ok)
	assert.Equal(t, 7, payload2)
}

// TestDoubleSealRejected asserts that sealing an already-sealed block
// is rejected rather than silently accepted.
func TestDoubleSealRejected(t *testing.T) {
	p := NewProgram()
	b0 := p.NewBlock()

	require.NoError(t, p.Seal(b0))
	err := p.Seal(b0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlockAlreadySealed)
}

// TestReadIsIdempotent covers the idempotency property directly: two
// reads of the same (block, variable) with no intervening write must
// return equal values, whether the block is open or sealed.
func TestReadIsIdempotent(t *testing.T) {
	p := NewProgram()
	a := p.NewVariable()
	b0 := p.NewBlock()
	require.NoError(t, p.AddPredecessor(b0, b0))

	first, err := p.Read(b0, a)
	require.NoError(t, err)
	second, err := p.Read(b0, a)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, p.Seal(b0))

	third, err := p.Read(b0, a)
	require.NoError(t, err)
	fourth, err := p.Read(b0, a)
	require.NoError(t, err)
	assert.Equal(t, third, fourth)
}

// TestSingleBlockEnumeration mirrors the original's "iterate blocks,
// print sorted assignments" smoke test: a lone sealed block with no
// predecessors, dumped through Format, must not panic and must
// mention the block's id.
func TestSingleBlockEnumeration(t *testing.T) {
	p := NewProgram()
	b0 := p.NewBlock()
	require.NoError(t, p.Seal(b0))

	for _, id := range p.Blocks() {
		assignments, err := p.Assignments(id)
		require.NoError(t, err)
		assert.Empty(t, assignments)
	}

	assert.Contains(t, p.Format(), b0.String())
}

// TestForkingMerge mirrors the original's two-predecessor forking
// test: two blocks write distinct constants to the same variable, a
// third block merges them, reads the merge, writes the result back
// under the same variable, and seals. Reading the merge afterwards must
// still yield a phi.
func TestForkingMerge(t *testing.T) {
	p := NewProgram()
	a := p.NewVariable()

	block0 := p.NewBlock()
	block1 := p.NewBlock()
	block2 := p.NewBlock()

	require.NoError(t, p.WriteConstant(block0, a, 1))
	require.NoError(t, p.Seal(block0))

	require.NoError(t, p.WriteConstant(block1, a, 2))
	require.NoError(t, p.Seal(block1))

	require.NoError(t, p.AddPredecessor(block2, block0))
	require.NoError(t, p.AddPredecessor(block2, block1))
	v, err := p.Read(block2, a)
	require.NoError(t, err)
	require.NoError(t, p.WriteVar(block2, a, v))
	require.NoError(t, p.Seal(block2))

	for _, id := range p.Blocks() {
		assignments, err := p.Assignments(id)
		require.NoError(t, err)
		for _, value := range assignments {
			t.Logf("%s <- %s", id, value.Format(p))
		}
	}

	final, err := p.Read(block2, a)
	require.NoError(t, err)
	_, isPhi := final.AsPhi()
	assert.True(t, isPhi)
}

// TestMissingBlockErrors asserts the error taxonomy for operations
// against an id that was never allocated.
func TestMissingBlockErrors(t *testing.T) {
	p := NewProgram()
	bogus := BlockId(999)

	_, err := p.Read(bogus, VarId(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBlock)

	err = p.Seal(bogus)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBlock)

	err = p.AddPredecessor(bogus, bogus)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBlock)
}

// TestWriteAllocatesFreshVariable pins the chosen resolution of the
// write/write_var split: Write must allocate and return a brand new
// VarId distinct from any variable the caller already holds.
func TestWriteAllocatesFreshVariable(t *testing.T) {
	p := NewProgram()
	b0 := p.NewBlock()
	require.NoError(t, p.Seal(b0))

	existing := p.NewVariable()
	require.NoError(t, p.WriteConstant(b0, existing, 3))
	existingValue, err := p.Read(b0, existing)
	require.NoError(t, err)

	v, err := p.Write(b0, existingValue)
	require.NoError(t, err)
	assert.NotEqual(t, existing, v)

	value, err := p.Read(b0, v)
	require.NoError(t, err)
	id, ok := value.AsConst()
	require.True(t, ok)
	payload, ok := p.GetConstant(id)
	require.True(t, ok)
	assert.Equal(t, 3, payload)
}
