// Package nast is the normalized AST: every delay, every node call, and
// every tuple destructuring appears only at equation top level, binding a
// named pattern. See normalize.Normalize for how a raw ast.Program becomes
// one of these.
package nast

import "github.com/fexolm/lustc/ast"

// Reexported so callers of nast rarely need to import ast directly.
type (
	Type  = ast.Type
	Unop  = ast.Unop
	Binop = ast.Binop
	Const = ast.Const
	Param = ast.Param
)

// Atom is a leaf: a literal constant or a variable reference. Both sides of
// a normalized fby are atoms, per spec.md §3's "var_or_literal" shape.
type Atom interface {
	atomNode()
}

// AtomIdent is a variable reference.
type AtomIdent struct {
	Name string
}

func (*AtomIdent) atomNode() {}

// AtomConst is a literal.
type AtomConst struct {
	Value Const
}

func (*AtomConst) atomNode() {}

// Bexpr is an atomic expression tree: leaves are Atoms, internal nodes are
// unary/binary operators or if. It contains no node calls, no fby, and no
// nested tuples.
type Bexpr interface {
	bexprNode()
}

// BAtom lifts an Atom into a Bexpr.
type BAtom struct {
	Atom Atom
}

func (*BAtom) bexprNode() {}

// BUnary applies a unary operator.
type BUnary struct {
	Op      Unop
	Operand Bexpr
}

func (*BUnary) bexprNode() {}

// BBinary applies a binary operator.
type BBinary struct {
	Op          Binop
	Left, Right Bexpr
}

func (*BBinary) bexprNode() {}

// BIf is a conditional.
type BIf struct {
	Cond, Then, Else Bexpr
}

func (*BIf) bexprNode() {}

// NRhs is the right-hand side of a normalized equation: exactly one of
// atomic, delay, or call, per spec.md §3.
type NRhs interface {
	nrhsNode()
}

// RAtomic is an atomic-expression RHS.
type RAtomic struct {
	Expr Bexpr
}

func (*RAtomic) nrhsNode() {}

// RDelay is `Init fby Next`, both sides reduced to atomic leaves.
type RDelay struct {
	Init, Next Atom
}

func (*RDelay) nrhsNode() {}

// RCall is a named node call whose arguments are atomic expressions.
type RCall struct {
	Name string
	Args []Bexpr
}

func (*RCall) nrhsNode() {}

// NEquation binds a pattern of one or more distinct names to an NRhs.
type NEquation struct {
	Pattern []string
	Rhs     NRhs
}

// NNode is a normalized node: identical external interface to its raw
// counterpart, with a flat equation list and any fresh locals normalization
// introduced.
type NNode struct {
	Name    string
	Inputs  []Param
	Outputs []Param
	Locals  []Param
	Body    []NEquation
}

func (n *NNode) InputArity() int  { return len(n.Inputs) }
func (n *NNode) OutputArity() int { return len(n.Outputs) }

// TypeOf resolves the declared type of any name visible inside the node
// (input, output, local, or normalizer-introduced temporary).
func (n *NNode) TypeOf(name string) (Type, bool) {
	for _, p := range n.Inputs {
		if p.Name == name {
			return p.Type, true
		}
	}
	for _, p := range n.Outputs {
		if p.Name == name {
			return p.Type, true
		}
	}
	for _, p := range n.Locals {
		if p.Name == name {
			return p.Type, true
		}
	}
	return 0, false
}

// NProgram is a normalized program: same node names and shapes as the raw
// program it was normalized from.
type NProgram struct {
	Nodes []*NNode
}

func (p *NProgram) NodeByName(name string) (*NNode, bool) {
	for _, n := range p.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}
