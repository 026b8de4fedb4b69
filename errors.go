package ssa

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by this package. The package returns them
// wrapped in BlockError, PhiError, VarError or IncompletePhiError (below),
// which carry the offending ids as fields for errors.As and unwrap to the
// sentinel for errors.Is.
var (
	// ErrMissingBlock is returned when a BlockId is not present in the
	// block store.
	ErrMissingBlock = errors.New("missing block")

	// ErrMissingPhi is returned when a PhiId is not present in the phi
	// store.
	ErrMissingPhi = errors.New("missing phi node")

	// ErrMissingVar is returned when a forced lookup finds no
	// assignment for a variable in the referenced block.
	ErrMissingVar = errors.New("missing variable")

	// ErrBlockAlreadySealed is returned by Seal on a block that was
	// already sealed.
	ErrBlockAlreadySealed = errors.New("block already sealed")

	// ErrIncompletePhiNode is returned by Seal when a block's
	// incomplete-phi list holds a non-Phi value; this indicates
	// engine-internal corruption, not caller misuse.
	ErrIncompletePhiNode = errors.New("incomplete phi node is not a phi")

	// ErrConflictingAssignment is reserved for detection of rewrites
	// that violate single-assignment at the value level. Declared for
	// API completeness; the reference construction never produces it.
	ErrConflictingAssignment = errors.New("conflicting assignment")

	// ErrBadPhiReroute is reserved for detection of operand lookups
	// that resolve to a non-phi where a phi was expected during a
	// trivial-phi rewrite. Declared for API completeness; the
	// reference construction never produces it.
	ErrBadPhiReroute = errors.New("bad phi reroute")

	// ErrGlobalLookupNotImplemented is a placeholder for a
	// not-yet-supported cross-procedure lookup path.
	ErrGlobalLookupNotImplemented = errors.New("global lookup not implemented")
)

// BlockError wraps ErrMissingBlock or ErrBlockAlreadySealed with the
// offending BlockId, so callers can recover it with errors.As.
type BlockError struct {
	Block BlockId
	err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %s: %s", e.Block, e.err)
}

func (e *BlockError) Unwrap() error {
	return e.err
}

func missingBlockErr(id BlockId) error {
	return &BlockError{Block: id, err: ErrMissingBlock}
}

func alreadySealedErr(id BlockId) error {
	return &BlockError{Block: id, err: ErrBlockAlreadySealed}
}

// PhiError wraps ErrMissingPhi with the offending PhiId.
type PhiError struct {
	Phi PhiId
	err error
}

func (e *PhiError) Error() string {
	return fmt.Sprintf("phi %s: %s", e.Phi, e.err)
}

func (e *PhiError) Unwrap() error {
	return e.err
}

func missingPhiErr(id PhiId) error {
	return &PhiError{Phi: id, err: ErrMissingPhi}
}

// VarError wraps ErrMissingVar with the offending VarId and the block it
// was looked up in.
type VarError struct {
	Block BlockId
	Var   VarId
	err   error
}

func (e *VarError) Error() string {
	return fmt.Sprintf("var %s in %s: %s", e.Var, e.Block, e.err)
}

func (e *VarError) Unwrap() error {
	return e.err
}

func missingVarErr(block BlockId, v VarId) error {
	return &VarError{Block: block, Var: v, err: ErrMissingVar}
}

// IncompletePhiError wraps ErrIncompletePhiNode with the offending block
// and the non-phi value found in its incomplete-phi list.
type IncompletePhiError struct {
	Block BlockId
	Var   VarId
	Value SsaValue
	err   error
}

func (e *IncompletePhiError) Error() string {
	return fmt.Sprintf("seal %s: incomplete phi for %s resolved to non-phi value %s: %s",
		e.Block, e.Var, e.Value, e.err)
}

func (e *IncompletePhiError) Unwrap() error {
	return e.err
}

func incompletePhiErr(block BlockId, v VarId, value SsaValue) error {
	return &IncompletePhiError{Block: block, Var: v, Value: value, err: ErrIncompletePhiNode}
}
