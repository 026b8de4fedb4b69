package ssa

// incompletePhi is a pending phi-completion record: a block read while
// the block was still open allocates a phi but defers filling its
// operands until the block is sealed.
type incompletePhi struct {
	Var   VarId
	Value SsaValue
}

// Block holds everything the construction algorithm needs to know about
// a single basic block: its latest per-variable assignments, its
// predecessor list (order matters — it fixes phi operand positions),
// its pending incomplete phis, and whether it has been sealed.
type Block struct {
	id BlockId

	assignments    map[VarId]SsaValue
	predecessors   []BlockId
	incompletePhis []incompletePhi
	sealed         bool
}

// Id returns the block's identifier.
func (b *Block) Id() BlockId {
	return b.id
}

// Sealed reports whether the block has been sealed.
func (b *Block) Sealed() bool {
	return b.sealed
}

// Predecessors returns the block's current predecessor list. The
// returned slice must not be retained across a call that may mutate the
// block (see blockStore.takePredecessors).
func (b *Block) Predecessors() []BlockId {
	return b.predecessors
}

// blockStore is the collection of basic blocks, arena-allocated so
// BlockId stays a stable, dense, never-reused handle.
type blockStore struct {
	blocks pool[Block]
}

func newBlockStore(capacityHint int) blockStore {
	return blockStore{blocks: newPool[Block](capacityHint)}
}

// allocate creates a new open block and returns its id.
func (s *blockStore) allocate() BlockId {
	blk, idx := s.blocks.allocate()
	id := BlockId(idx)
	blk.id = id
	blk.assignments = make(map[VarId]SsaValue)
	return id
}

func (s *blockStore) get(id BlockId) *Block {
	return s.blocks.view(int(id))
}

// contains reports whether id names a live block.
func (s *blockStore) contains(id BlockId) bool {
	return s.get(id) != nil
}

// isSealed reports whether id names a sealed block; a missing block is
// reported as not sealed.
func (s *blockStore) isSealed(id BlockId) bool {
	blk := s.get(id)
	return blk != nil && blk.sealed
}

// addPredecessor appends `to` to `from`'s predecessor list. The caller
// is responsible for only doing this while `from` is open.
func (s *blockStore) addPredecessor(from, to BlockId) error {
	blk := s.get(from)
	if blk == nil {
		return missingBlockErr(from)
	}
	blk.predecessors = append(blk.predecessors, to)
	return nil
}

// onlyPredecessor returns the sole predecessor of id, if it has exactly
// one.
func (s *blockStore) onlyPredecessor(id BlockId) (BlockId, bool) {
	blk := s.get(id)
	if blk == nil || len(blk.predecessors) != 1 {
		return 0, false
	}
	return blk.predecessors[0], true
}

// takePredecessors moves the predecessor list out of the block,
// leaving it empty, so a recursive call cannot observe or mutate it
// mid-flight. Pair with insertPredecessors to reinstall it.
func (s *blockStore) takePredecessors(id BlockId) []BlockId {
	blk := s.get(id)
	if blk == nil {
		return nil
	}
	preds := blk.predecessors
	blk.predecessors = nil
	return preds
}

// insertPredecessors reinstalls a predecessor list previously removed
// by takePredecessors.
func (s *blockStore) insertPredecessors(id BlockId, preds []BlockId) {
	if blk := s.get(id); blk != nil {
		blk.predecessors = preds
	}
}

// registerIncompletePhi records a pending phi completion against id.
func (s *blockStore) registerIncompletePhi(id BlockId, v VarId, value SsaValue) error {
	blk := s.get(id)
	if blk == nil {
		return missingBlockErr(id)
	}
	blk.incompletePhis = append(blk.incompletePhis, incompletePhi{Var: v, Value: value})
	return nil
}

// takeIncompletePhis moves the incomplete-phi list out of the block,
// clearing it.
func (s *blockStore) takeIncompletePhis(id BlockId) []incompletePhi {
	blk := s.get(id)
	if blk == nil {
		return nil
	}
	phis := blk.incompletePhis
	blk.incompletePhis = nil
	return phis
}

// registerAssignment installs value as the most recent assignment of v
// in block id, overwriting any prior entry.
func (s *blockStore) registerAssignment(id BlockId, v VarId, value SsaValue) error {
	blk := s.get(id)
	if blk == nil {
		return missingBlockErr(id)
	}
	blk.assignments[v] = value
	return nil
}

// getAssignment is the forced lookup: it fails with ErrMissingVar if v
// was never written in block id.
func (s *blockStore) getAssignment(id BlockId, v VarId) (SsaValue, error) {
	blk := s.get(id)
	if blk == nil {
		return SsaValue{}, missingBlockErr(id)
	}
	value, ok := blk.assignments[v]
	if !ok {
		return SsaValue{}, missingVarErr(id, v)
	}
	return value, nil
}

// tryGetAssignment is the non-forced lookup used by Read's fast path.
func (s *blockStore) tryGetAssignment(id BlockId, v VarId) (SsaValue, bool) {
	blk := s.get(id)
	if blk == nil {
		return SsaValue{}, false
	}
	value, ok := blk.assignments[v]
	return value, ok
}

// seal marks id sealed, failing if it is already sealed or missing.
func (s *blockStore) seal(id BlockId) error {
	blk := s.get(id)
	if blk == nil {
		return missingBlockErr(id)
	}
	if blk.sealed {
		return alreadySealedErr(id)
	}
	blk.sealed = true
	return nil
}

// count returns the number of allocated blocks.
func (s *blockStore) count() int {
	return s.blocks.allocated
}
