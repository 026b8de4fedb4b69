package ssa

import "go.uber.org/zap"

// Program is an in-memory builder for a single function's SSA form. It
// owns four sub-stores — the variable/constant id spaces, the constant
// pool, the block store, and the phi store — and coordinates them
// through Algorithm 1 (Read) and Algorithm 2 (readRecursive) from Braun
// et al., "Simple and Efficient Construction of Static Single
// Assignment Form" (2013). Construction is incremental: the front-end
// emits reads and writes of source variables one block at a time, and
// the Program places phi nodes at control-flow merges lazily, removing
// them again as soon as they are detected to be trivial.
//
// Program is not safe for concurrent use; it is a synchronous,
// single-threaded mutator with no I/O and no suspension points.
type Program struct {
	vars   varAllocator
	consts constPool
	blocks blockStore
	phis   phiStore

	logger *zap.Logger
}

// NewProgram constructs an empty Program ready to have blocks and
// variables declared against it.
func NewProgram(opts ...Option) *Program {
	cfg := newConfig(opts)
	return &Program{
		consts: newConstPool(0),
		blocks: newBlockStore(cfg.blockCapacityHint),
		phis:   newPhiStore(cfg.blockCapacityHint),
		logger: cfg.logger,
	}
}

// NewBlock allocates a new, open (unsealed) basic block and returns its
// id. Blocks are never destroyed.
func (p *Program) NewBlock() BlockId {
	return p.blocks.allocate()
}

// NewVariable allocates a fresh VarId, unassociated with any specific
// block. VarIds are allocated freely by the front-end; a VarId is a key
// into a block's assignment map, not an SSA value itself.
func (p *Program) NewVariable() VarId {
	return p.vars.allocate()
}

// GetConstant looks up a previously interned constant payload by id.
func (p *Program) GetConstant(id ConstId) (any, bool) {
	return p.consts.get(id)
}

// AddPredecessor appends `to` to `from`'s predecessor list. The caller
// must only do this while `from` is still open: a block's predecessor
// set may be extended only before it is sealed.
func (p *Program) AddPredecessor(from, to BlockId) error {
	return p.blocks.addPredecessor(from, to)
}

// WriteConstant interns payload into the constant pool and installs it
// as the assignment of v in block.
func (p *Program) WriteConstant(block BlockId, v VarId, payload any) error {
	id := p.consts.intern(payload)
	return p.WriteVar(block, v, Const(id))
}

// WriteVar installs value as the assignment of the caller-chosen
// variable v in block, overwriting any prior entry. If value is a Phi,
// (block, v) is registered as a user of that phi before the assignment
// is installed.
func (p *Program) WriteVar(block BlockId, v VarId, value SsaValue) error {
	if !p.blocks.contains(block) {
		return missingBlockErr(block)
	}
	if phiID, ok := value.AsPhi(); ok {
		if err := p.phis.registerUse(phiID, block, v); err != nil {
			return err
		}
	}
	return p.blocks.registerAssignment(block, v, value)
}

// Write allocates a fresh VarId, installs value as its assignment in
// block, and returns the new VarId. This is the higher-level form of
// WriteVar for callers who don't already have a VarId to write into.
func (p *Program) Write(block BlockId, value SsaValue) (VarId, error) {
	v := p.NewVariable()
	if err := p.WriteVar(block, v, value); err != nil {
		return 0, err
	}
	return v, nil
}

// Seal declares that all predecessors of block are now known: its
// predecessor set is frozen, and every phi that was lazily allocated
// while the block was open has its operands filled in from the now-final
// predecessor list.
func (p *Program) Seal(block BlockId) error {
	for _, pending := range p.blocks.takeIncompletePhis(block) {
		phiID, ok := pending.Value.AsPhi()
		if !ok {
			return incompletePhiErr(block, pending.Var, pending.Value)
		}
		if _, err := p.addPhiOperands(block, pending.Var, phiID); err != nil {
			return err
		}
	}
	if err := p.blocks.seal(block); err != nil {
		return err
	}
	p.logger.Debug("block sealed", zap.Stringer("block", block))
	return nil
}

// Read returns the current SSA value of var in block: Algorithm 1. If
// block already holds a local assignment for var, it is returned
// directly; otherwise the lookup recurses through the control-flow
// graph via readRecursive.
func (p *Program) Read(block BlockId, v VarId) (SsaValue, error) {
	if !p.blocks.contains(block) {
		return SsaValue{}, missingBlockErr(block)
	}
	if value, ok := p.blocks.tryGetAssignment(block, v); ok {
		return value, nil
	}
	return p.readRecursive(block, v)
}

// readRecursive is Algorithm 2. It handles three cases depending on the
// sealing state and predecessor count of block:
//
//   - Case A: block is open. A fresh phi is allocated and recorded as
//     an incomplete phi, deferred until block is sealed, and also
//     installed as block's assignment right away. The installation
//     matters for two reasons: it makes Read idempotent on an open
//     block (a second Read before any write must yield the same phi,
//     not a freshly allocated one), and it breaks self-recursion when
//     block is its own predecessor — addPhiOperands's traversal below
//     will find it already in place instead of recursing back into this
//     same case.
//   - Case B: block is sealed with exactly one predecessor. The read
//     is forwarded to that predecessor; no phi is created.
//   - Case C: block is sealed with zero, two, or more predecessors. A
//     fresh phi is allocated, installed as block's assignment (which
//     breaks infinite recursion on cyclic control flow: a later Read of
//     the same (block, var) during predecessor traversal finds it
//     immediately), and its operands are filled in by addPhiOperands.
func (p *Program) readRecursive(block BlockId, v VarId) (SsaValue, error) {
	if !p.blocks.isSealed(block) {
		phiID := p.phis.build(block)
		value := Phi(phiID)
		if err := p.blocks.registerIncompletePhi(block, v, value); err != nil {
			return SsaValue{}, err
		}
		if err := p.WriteVar(block, v, value); err != nil {
			return SsaValue{}, err
		}
		p.logger.Debug("incomplete phi allocated", zap.Stringer("phi", phiID), zap.Stringer("block", block), zap.Stringer("var", v))
		return value, nil
	}

	if pred, ok := p.blocks.onlyPredecessor(block); ok {
		return p.Read(pred, v)
	}

	phiID := p.phis.build(block)
	if err := p.WriteVar(block, v, Phi(phiID)); err != nil {
		return SsaValue{}, err
	}
	p.logger.Debug("phi allocated", zap.Stringer("phi", phiID), zap.Stringer("block", block), zap.Stringer("var", v))
	return p.addPhiOperands(block, v, phiID)
}

// addPhiOperands fills in phi's operands from the owning block's
// predecessors, one Read per predecessor, then attempts to collapse the
// phi if it turns out to be trivial. The owning block's predecessor
// list is swap-taken for the duration of the loop (move-out then
// move-back) so the recursive Read calls below cannot observe or
// mutate it mid-flight — see spec §5/§9.
func (p *Program) addPhiOperands(block BlockId, v VarId, phiID PhiId) (SsaValue, error) {
	phi, err := p.phis.getOrErr(phiID)
	if err != nil {
		return SsaValue{}, err
	}
	owner := phi.block

	preds := p.blocks.takePredecessors(owner)
	for _, pred := range preds {
		if _, err := p.Read(pred, v); err != nil {
			p.blocks.insertPredecessors(owner, preds)
			return SsaValue{}, err
		}
		if err := p.phis.appendOperand(phiID, pred, v); err != nil {
			p.blocks.insertPredecessors(owner, preds)
			return SsaValue{}, err
		}
	}
	p.blocks.insertPredecessors(owner, preds)

	return p.tryRemoveTrivialPhi(phiID)
}

// tryRemoveTrivialPhi implements §4.7. A phi is trivial when, over all
// its operands resolved through the owning predecessor's assignment
// map, at most one distinct non-self SsaValue appears. If trivial, the
// phi is replaced by that value (or Undef, if it has no operands or
// only self-references) throughout its user set, and the replacement
// cascades into any user that was itself a now-possibly-trivial phi.
func (p *Program) tryRemoveTrivialPhi(phiID PhiId) (SsaValue, error) {
	operands := p.phis.operandsOf(phiID)

	var same SsaValue
	haveSame := false

	for _, operand := range operands {
		resolved, err := p.blocks.getAssignment(operand.Block, operand.Var)
		if err != nil {
			return SsaValue{}, err
		}

		if selfID, ok := resolved.AsPhi(); ok && selfID == phiID {
			continue // self-reference
		}
		if haveSame && resolved == same {
			continue // same as the unique non-self value seen so far
		}
		if haveSame {
			// Two distinct non-self values: not trivial.
			return Phi(phiID), nil
		}
		same = resolved
		haveSame = true
	}

	if !haveSame {
		same = Undef
	}

	users := p.phis.takeUsersOf(phiID)
	for _, user := range users {
		// A user slot may have been overwritten by an explicit write since
		// it was registered; only rewrite it if it still holds this phi.
		if current, ok := p.blocks.tryGetAssignment(user.Block, user.Var); ok {
			if id, ok := current.AsPhi(); !ok || id != phiID {
				continue
			}
		}
		if err := p.WriteVar(user.Block, user.Var, same); err != nil {
			return SsaValue{}, err
		}
	}

	p.logger.Debug("phi trivialized", zap.Stringer("phi", phiID), zap.String("replacement", same.String()))

	// The set of phis that may now themselves be trivial is exactly the
	// subset of this phi's (former) users whose slot still holds a
	// distinct phi id, derived *after* the replacement pass above so we
	// don't revisit the slots we just rewrote. A candidate whose block is
	// still open is an incomplete phi with no operands yet; it is tried
	// when that block is sealed.
	seen := map[PhiId]struct{}{phiID: {}}
	for _, user := range users {
		current, ok := p.blocks.tryGetAssignment(user.Block, user.Var)
		if !ok {
			continue
		}
		candidateID, ok := current.AsPhi()
		if !ok {
			continue
		}
		if _, dup := seen[candidateID]; dup {
			continue
		}
		seen[candidateID] = struct{}{}
		if candidate := p.phis.get(candidateID); candidate == nil || !p.blocks.isSealed(candidate.block) {
			continue
		}
		if _, err := p.tryRemoveTrivialPhi(candidateID); err != nil {
			return SsaValue{}, err
		}
	}

	return same, nil
}

// Blocks returns the ids of every block allocated so far, in allocation
// order.
func (p *Program) Blocks() []BlockId {
	ids := make([]BlockId, p.blocks.count())
	for i := range ids {
		ids[i] = BlockId(i)
	}
	return ids
}

// Assignments returns a copy of block's current variable assignments.
func (p *Program) Assignments(block BlockId) (map[VarId]SsaValue, error) {
	blk := p.blocks.get(block)
	if blk == nil {
		return nil, missingBlockErr(block)
	}
	out := make(map[VarId]SsaValue, len(blk.assignments))
	for k, v := range blk.assignments {
		out[k] = v
	}
	return out, nil
}
