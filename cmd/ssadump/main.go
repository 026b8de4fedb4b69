// Command ssadump builds a handful of the classic Braun et al. figures
// through the ssa package's public API and prints the resulting
// program in debug form.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ssabuild/ssaform"
)

var scenarios = map[string]func() (*ssa.Program, error){
	"straight-line": buildStraightLine,
	"diamond":       buildDiamond,
	"self-loop":     buildSelfLoop,
}

func main() {
	scenario := flag.String("scenario", "diamond", "scenario to build: straight-line, diamond, self-loop")
	flag.Parse()

	build, ok := scenarios[*scenario]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *scenario)
		os.Exit(2)
	}

	prog, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build %s: %v\n", *scenario, err)
		os.Exit(1)
	}

	fmt.Print(prog.Format())
}

// buildStraightLine is two blocks in sequence: b0 writes a constant,
// b1 reads it through the single-predecessor fast path.
func buildStraightLine() (*ssa.Program, error) {
	p := ssa.NewProgram()
	a := p.NewVariable()

	b0 := p.NewBlock()
	if err := p.WriteConstant(b0, a, 1); err != nil {
		return nil, err
	}
	if err := p.Seal(b0); err != nil {
		return nil, err
	}

	b1 := p.NewBlock()
	if err := p.AddPredecessor(b1, b0); err != nil {
		return nil, err
	}
	if err := p.Seal(b1); err != nil {
		return nil, err
	}
	if _, err := p.Read(b1, a); err != nil {
		return nil, err
	}

	return p, nil
}

// buildDiamond is the two-predecessor merge from Braun et al.'s
// running figure: b0 and b1 each write a distinct constant, b2 merges
// them and keeps a live phi.
func buildDiamond() (*ssa.Program, error) {
	p := ssa.NewProgram()
	a := p.NewVariable()

	b0 := p.NewBlock()
	if err := p.WriteConstant(b0, a, 1); err != nil {
		return nil, err
	}
	if err := p.Seal(b0); err != nil {
		return nil, err
	}

	b1 := p.NewBlock()
	if err := p.WriteConstant(b1, a, 2); err != nil {
		return nil, err
	}
	if err := p.Seal(b1); err != nil {
		return nil, err
	}

	b2 := p.NewBlock()
	if err := p.AddPredecessor(b2, b0); err != nil {
		return nil, err
	}
	if err := p.AddPredecessor(b2, b1); err != nil {
		return nil, err
	}
	v, err := p.Read(b2, a)
	if err != nil {
		return nil, err
	}
	if err := p.WriteVar(b2, a, v); err != nil {
		return nil, err
	}
	if err := p.Seal(b2); err != nil {
		return nil, err
	}

	return p, nil
}

// buildSelfLoop is a loop header that is its own predecessor: the
// induction variable never changes, so its phi collapses to the
// constant flowing in from the preheader.
func buildSelfLoop() (*ssa.Program, error) {
	p := ssa.NewProgram()
	a := p.NewVariable()

	b0 := p.NewBlock()
	if err := p.WriteConstant(b0, a, 1); err != nil {
		return nil, err
	}
	if err := p.Seal(b0); err != nil {
		return nil, err
	}

	b1 := p.NewBlock()
	if err := p.AddPredecessor(b1, b0); err != nil {
		return nil, err
	}
	if err := p.AddPredecessor(b1, b1); err != nil {
		return nil, err
	}
	if _, err := p.Read(b1, a); err != nil {
		return nil, err
	}
	if err := p.Seal(b1); err != nil {
		return nil, err
	}

	return p, nil
}
