package ssa

import "strconv"

// VarId identifies a source-level variable. A VarId is not itself an SSA
// value: it is a key into a block's assignment map, and different blocks
// may hold different SsaValues for the same VarId.
type VarId uint32

// String implements fmt.Stringer.
func (v VarId) String() string {
	return "v" + strconv.Itoa(int(v))
}

// BlockId identifies a basic block. Block ids are dense and assigned by
// insertion order; they are never reused.
type BlockId uint32

// String implements fmt.Stringer.
func (b BlockId) String() string {
	return "blk" + strconv.Itoa(int(b))
}

// PhiId identifies a phi node. Phi ids are dense and assigned by
// insertion order; a trivialized phi keeps its id allocated but becomes
// unreferenced.
type PhiId uint32

// String implements fmt.Stringer.
func (p PhiId) String() string {
	return "phi" + strconv.Itoa(int(p))
}

// ConstId is an opaque index into the constant pool; append-only, never
// freed.
type ConstId uint32

// String implements fmt.Stringer.
func (c ConstId) String() string {
	return "const" + strconv.Itoa(int(c))
}

// varAllocator hands out fresh, monotonically increasing VarIds.
type varAllocator struct {
	next VarId
}

func (a *varAllocator) allocate() VarId {
	id := a.next
	a.next++
	return id
}
