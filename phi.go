package ssa

// phiOperand is a (predecessor block, variable) indirection: operands
// are resolved on demand through the predecessor's assignment map,
// rather than stored as a materialized SsaValue, so a cascade of
// trivial-phi replacements updates assignment slots in the block store
// and is automatically observed the next time an operand is resolved.
type phiOperand struct {
	Block BlockId
	Var   VarId
}

// Phi is a phi node: the block it belongs to, its ordered operand list
// (one per predecessor, in predecessor-insertion order), and a reverse
// user list of every (block, variable) slot that currently holds this
// phi as its assignment.
type Phi struct {
	id      PhiId
	block   BlockId
	operands []phiOperand
	users    []phiOperand
}

// Id returns the phi's identifier.
func (p *Phi) Id() PhiId {
	return p.id
}

// Block returns the block this phi belongs to.
func (p *Phi) Block() BlockId {
	return p.block
}

// Operands returns the phi's current operand list.
func (p *Phi) Operands() []phiOperand {
	return p.operands
}

// phiStore is the collection of phi nodes.
type phiStore struct {
	phis pool[Phi]
}

func newPhiStore(capacityHint int) phiStore {
	return phiStore{phis: newPool[Phi](capacityHint)}
}

// build allocates a new phi attached to block and returns its id.
func (s *phiStore) build(block BlockId) PhiId {
	phi, idx := s.phis.allocate()
	id := PhiId(idx)
	phi.id = id
	phi.block = block
	return id
}

func (s *phiStore) get(id PhiId) *Phi {
	return s.phis.view(int(id))
}

// getOrErr is the forced lookup used by the public-facing algorithms.
func (s *phiStore) getOrErr(id PhiId) (*Phi, error) {
	phi := s.get(id)
	if phi == nil {
		return nil, missingPhiErr(id)
	}
	return phi, nil
}

// registerUse records (block, var) as a user of phi id.
func (s *phiStore) registerUse(id PhiId, block BlockId, v VarId) error {
	phi, err := s.getOrErr(id)
	if err != nil {
		return err
	}
	phi.users = append(phi.users, phiOperand{Block: block, Var: v})
	return nil
}

// appendOperand appends (block, var) to phi id's operand list, in
// predecessor-insertion order.
func (s *phiStore) appendOperand(id PhiId, block BlockId, v VarId) error {
	phi, err := s.getOrErr(id)
	if err != nil {
		return err
	}
	phi.operands = append(phi.operands, phiOperand{Block: block, Var: v})
	return nil
}

// takeUsersOf moves the user list out of phi id, clearing it, so a
// recursive rewrite cannot observe or mutate it mid-flight.
func (s *phiStore) takeUsersOf(id PhiId) []phiOperand {
	phi := s.get(id)
	if phi == nil {
		return nil
	}
	users := phi.users
	phi.users = nil
	return users
}

// operandsOf returns a snapshot of phi id's operands for iteration
// while trivial-phi detection may recurse and mutate other state.
func (s *phiStore) operandsOf(id PhiId) []phiOperand {
	phi := s.get(id)
	if phi == nil {
		return nil
	}
	snapshot := make([]phiOperand, len(phi.operands))
	copy(snapshot, phi.operands)
	return snapshot
}
