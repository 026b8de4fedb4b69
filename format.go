package ssa

import (
	"fmt"
	"sort"
	"strings"
)

// Format renders a human-readable debug dump of the program: every
// block in allocation order, its sealed state and predecessor list,
// followed by its current variable assignments sorted by VarId. Phi
// values are rendered with their resolved operands rather than an
// opaque id, mirroring how a reader would want to see them.
func (p *Program) Format() string {
	var b strings.Builder
	for _, blockID := range p.Blocks() {
		if blockID > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.formatBlockHeader(blockID))
		b.WriteByte('\n')

		assignments, err := p.Assignments(blockID)
		if err != nil {
			continue // block was freed from under us; nothing more to show
		}
		vars := make([]VarId, 0, len(assignments))
		for v := range assignments {
			vars = append(vars, v)
		}
		sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

		for _, v := range vars {
			b.WriteByte('\t')
			b.WriteString(v.String())
			b.WriteString(" = ")
			b.WriteString(assignments[v].Format(p))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (p *Program) formatBlockHeader(id BlockId) string {
	blk := p.blocks.get(id)
	if blk == nil {
		return id.String() + ": (freed)"
	}
	sealedMark := ""
	if !blk.sealed {
		sealedMark = " (open)"
	}
	if len(blk.predecessors) == 0 {
		return fmt.Sprintf("%s:%s", id, sealedMark)
	}
	preds := make([]string, len(blk.predecessors))
	for i, pred := range blk.predecessors {
		preds[i] = pred.String()
	}
	return fmt.Sprintf("%s:%s <-- (%s)", id, sealedMark, strings.Join(preds, ", "))
}

// Format renders v for debug output, resolving it through prog:
// constants print their interned payload via fmt.Sprintf("%v", ...);
// phis print as Φ(operand, operand, ...) over their current (block,
// variable) operand pairs rather than a bare phi id, so the dump reads
// like the values it produced instead of the bookkeeping that built
// them. Use String for a Program-independent, opaque rendering.
func (v SsaValue) Format(prog *Program) string {
	if v.IsUndef() {
		return "undef"
	}

	if id, ok := v.AsConst(); ok {
		payload, ok := prog.GetConstant(id)
		if !ok {
			return "const(?)"
		}
		return fmt.Sprintf("%v", payload)
	}

	if id, ok := v.AsPhi(); ok {
		operands := prog.phis.operandsOf(id)
		parts := make([]string, len(operands))
		for i, operand := range operands {
			parts[i] = fmt.Sprintf("%s_%s", operand.Block, operand.Var)
		}
		return "Φ(" + strings.Join(parts, ", ") + ")"
	}

	if op, lhs, rhs, ok := v.AsOp(); ok {
		return fmt.Sprintf("%s %s %s", lhs, op, rhs)
	}

	return v.String()
}
