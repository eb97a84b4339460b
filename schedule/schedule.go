// Package schedule implements the Scheduler (spec.md §4.2): it reorders a
// normalized node's equations so that every same-tick use of a name
// follows its definition, or reports a cyclic-dependency diagnostic.
//
// The three-step shape (extract dependencies, propagate/topologically
// order, detect cycles) mirrors the original Rust sequentializer, adapted
// to Go's normalized AST and to a Kahn's-algorithm topological sort that
// gives the same stable, source-order tie-break the original's
// find-first-satisfied-equation loop does.
package schedule

import (
	"log"
	"strings"

	"github.com/fexolm/lustc/diag"
	"github.com/fexolm/lustc/nast"
)

// verbose, when true, makes Node dump each equation's direct same-tick
// dependencies to the standard log package before ordering, reproducing the original
// sequentializer's `eprintln!("Depedencies for Node [{}]", ...)` trace
// (spec.md's original_source/ supplement, §14).
var verbose = false

// SetVerbose toggles the dependency-graph debug dump.
func SetVerbose(v bool) { verbose = v }

// dependenciesOf returns the same-tick dependencies of one equation, per
// spec.md §4.2: atomic and call RHSes contribute every variable they read;
// a delay RHS contributes none, since neither its init value (read once,
// before any tick) nor its next value (written after the tick completes)
// can participate in a same-tick cycle.
func dependenciesOf(eq nast.NEquation) []string {
	switch rhs := eq.Rhs.(type) {
	case *nast.RAtomic:
		return depsOfBexpr(rhs.Expr, nil)
	case *nast.RCall:
		var deps []string
		for _, a := range rhs.Args {
			deps = depsOfBexpr(a, deps)
		}
		return deps
	case *nast.RDelay:
		return nil
	default:
		return nil
	}
}

func depsOfBexpr(e nast.Bexpr, acc []string) []string {
	switch e := e.(type) {
	case *nast.BAtom:
		if id, ok := e.Atom.(*nast.AtomIdent); ok {
			acc = append(acc, id.Name)
		}
	case *nast.BUnary:
		acc = depsOfBexpr(e.Operand, acc)
	case *nast.BBinary:
		acc = depsOfBexpr(e.Left, acc)
		acc = depsOfBexpr(e.Right, acc)
	case *nast.BIf:
		acc = depsOfBexpr(e.Cond, acc)
		acc = depsOfBexpr(e.Then, acc)
		acc = depsOfBexpr(e.Else, acc)
	}
	return acc
}

// Node reorders one normalized node's equations. Node inputs are treated
// as already defined at tick start, so a dependency on an input contributes
// no edge and no ordering constraint (spec.md §4.2).
func Node(n *nast.NNode) (*nast.NNode, error) {
	eqs := n.Body
	numEq := len(eqs)

	defOf := make(map[string]int, numEq)
	for i, eq := range eqs {
		for _, name := range eq.Pattern {
			if j, dup := defOf[name]; dup {
				return nil, diag.New(diag.PassSchedule, n.Name, "variable %q is defined by more than one equation (positions %d and %d)", name, j, i)
			}
			defOf[name] = i
		}
	}

	inputs := make(map[string]bool, len(n.Inputs))
	for _, p := range n.Inputs {
		inputs[p.Name] = true
	}

	deps := make([][]string, numEq)
	for i, eq := range eqs {
		deps[i] = dependenciesOf(eq)
	}

	if verbose {
		log.Printf("dependencies for node %s:", n.Name)
		for i, eq := range eqs {
			log.Printf("  %s -> %v", strings.Join(eq.Pattern, ","), deps[i])
		}
	}

	indegree := make([]int, numEq)
	adj := make([][]int, numEq)
	for i, ds := range deps {
		for _, name := range ds {
			if inputs[name] {
				continue
			}
			j, ok := defOf[name]
			if !ok {
				continue // declared as a local with no equation: unreachable given SSA invariant
			}
			if j == i {
				return nil, cycleErr(n.Name, [][]string{eqs[i].Pattern})
			}
			adj[j] = append(adj[j], i)
			indegree[i]++
		}
	}

	scheduled := make([]bool, numEq)
	order := make([]nast.NEquation, 0, numEq)
	remaining := numEq
	for remaining > 0 {
		progressed := false
		for i := 0; i < numEq; i++ {
			if scheduled[i] || indegree[i] > 0 {
				continue
			}
			scheduled[i] = true
			order = append(order, eqs[i])
			remaining--
			progressed = true
			for _, j := range adj[i] {
				indegree[j]--
			}
			// Restart the scan from index 0 rather than continuing this
			// pass: scheduling eqs[i] can ready an equation at an index
			// below where the scan currently sits, and the original
			// sequentializer's find-first-satisfied-equation loop always
			// picks that one up immediately rather than leaving it for
			// the next pass.
			break
		}
		if !progressed {
			var stuck [][]string
			for i := 0; i < numEq; i++ {
				if !scheduled[i] {
					stuck = append(stuck, eqs[i].Pattern)
				}
			}
			return nil, cycleErr(n.Name, stuck)
		}
	}

	return &nast.NNode{
		Name:    n.Name,
		Inputs:  n.Inputs,
		Outputs: n.Outputs,
		Locals:  n.Locals,
		Body:    order,
	}, nil
}

func cycleErr(node string, patterns [][]string) *diag.Diagnostic {
	var parts []string
	for _, p := range patterns {
		parts = append(parts, strings.Join(p, ","))
	}
	return diag.New(diag.PassSchedule, node, "cyclic dependency among equations defining: %s", strings.Join(parts, "; "))
}

// Program schedules every node of a normalized program.
func Program(p *nast.NProgram) (*nast.NProgram, error) {
	out := &nast.NProgram{}
	for _, n := range p.Nodes {
		sn, err := Node(n)
		if err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, sn)
	}
	return out, nil
}
