// Package normalize implements the Normalizer (spec.md §4.1): it lowers a
// raw ast.Program, whose expressions may be arbitrarily nested, into a
// nast.NProgram whose equations have exactly one of three RHS shapes
// (atomic, delay, call), each appearing only at equation top level.
//
// The recursive lowering functions mirror the original Rust normalizer's
// normalize_atom / normalize_bexpr / normalize_expr split: an expression is
// either reduced in place (atomic) or lifted into a freshly named auxiliary
// equation (call, fby), exactly as spec.md §4.1's table prescribes.
package normalize

import (
	"fmt"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/diag"
	"github.com/fexolm/lustc/nast"
)

// freshPrefix can never appear in a token the scanner produces (ast.isAlpha
// never yields '$'), so a fresh name built from it can never collide with a
// name the source itself declares.
var freshPrefix = "$t"

// SetFreshPrefix overrides the prefix freshName builds temporaries from,
// for the rest of the process; an empty prefix restores "$t". Lets
// cmd/lustc apply config.Config.FreshPrefix before compiling.
func SetFreshPrefix(prefix string) {
	if prefix == "" {
		prefix = "$t"
	}
	freshPrefix = prefix
}

// nodeCtx carries per-node normalization state: the fresh-name counter, the
// growing local-declaration list (original locals plus every temporary
// introduced so far), and the whole-program node table used to resolve
// callee arities.
type nodeCtx struct {
	node      *ast.Node
	allNodes  map[string]*ast.Node
	counter   int
	locals    []ast.Param
	localType map[string]nast.Type
	declared  map[string]bool // inputs+outputs+locals of the *source* node
	aux       []nast.NEquation
}

func newNodeCtx(n *ast.Node, allNodes map[string]*ast.Node) *nodeCtx {
	c := &nodeCtx{
		node:      n,
		allNodes:  allNodes,
		locals:    append([]ast.Param{}, n.Locals...),
		localType: map[string]nast.Type{},
		declared:  map[string]bool{},
	}
	for _, p := range n.Inputs {
		c.declared[p.Name] = true
		c.localType[p.Name] = p.Type
	}
	for _, p := range n.Outputs {
		c.declared[p.Name] = true
		c.localType[p.Name] = p.Type
	}
	for _, p := range n.Locals {
		c.declared[p.Name] = true
		c.localType[p.Name] = p.Type
	}
	return c
}

func (c *nodeCtx) typeOf(name string) (nast.Type, bool) {
	t, ok := c.localType[name]
	return t, ok
}

// freshName allocates a new temporary of the given type, registering it as
// a local of the node. It scans c.declared the way the original's
// fresh_intermediate scans the node's existing intermediates, so
// renormalizing a program that already declares "$t1" (e.g. one produced by
// nast.ToAST from a prior normalization) can never silently reuse that name
// for something else.
func (c *nodeCtx) freshName(t nast.Type) string {
	var name string
	for {
		c.counter++
		name = fmt.Sprintf("%s%d", freshPrefix, c.counter)
		if !c.declared[name] {
			break
		}
	}
	c.declared[name] = true
	c.locals = append(c.locals, ast.Param{Name: name, Type: t})
	c.localType[name] = t
	return name
}

func (c *nodeCtx) err(format string, args ...interface{}) error {
	return diag.New(diag.PassNormalize, c.node.Name, format, args...)
}

// Normalize lowers a whole raw program into a normalized program. Node
// names and each node's external interface (inputs/outputs) are preserved
// exactly, per spec.md §4.1's contract.
func Normalize(p *ast.Program) (*nast.NProgram, error) {
	allNodes := map[string]*ast.Node{}
	for _, n := range p.Nodes {
		if _, dup := allNodes[n.Name]; dup {
			return nil, diag.New(diag.PassNormalize, n.Name, "duplicate node declaration")
		}
		allNodes[n.Name] = n
	}

	out := &nast.NProgram{}
	for _, n := range p.Nodes {
		nn, err := normalizeNode(n, allNodes)
		if err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, nn)
	}
	return out, nil
}

func normalizeNode(n *ast.Node, allNodes map[string]*ast.Node) (*nast.NNode, error) {
	ctx := newNodeCtx(n, allNodes)

	var body []nast.NEquation
	for _, eq := range n.Body {
		ctx.aux = nil
		finals, err := ctx.normalizeTopEquation(eq)
		if err != nil {
			return nil, err
		}
		body = append(body, ctx.aux...)
		body = append(body, finals...)
	}

	return &nast.NNode{
		Name:    n.Name,
		Inputs:  n.Inputs,
		Outputs: n.Outputs,
		Locals:  ctx.locals,
		Body:    body,
	}, nil
}

// normalizeTopEquation lowers one raw equation into one or more normalized
// equations, per spec.md §4.1's per-construct table. Tuple RHS paired with
// a tuple LHS is split component-wise (recursing so each component may
// itself be a call, a delay, or a plain expression); everything else
// resolves to exactly one final equation carrying an atomic, delay, or call
// RHS.
func (c *nodeCtx) normalizeTopEquation(eq ast.Equation) ([]nast.NEquation, error) {
	switch body := eq.Body.(type) {
	case *ast.TupleExpr:
		if len(body.Elems) != len(eq.Pattern) {
			return nil, c.err("pattern of arity %d bound to tuple of arity %d", len(eq.Pattern), len(body.Elems))
		}
		var out []nast.NEquation
		for i, elem := range body.Elems {
			sub, err := c.normalizeTopEquation(ast.Equation{Pattern: []string{eq.Pattern[i]}, Body: elem})
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil

	case *ast.FbyExpr:
		return c.normalizeTopFby(eq.Pattern, body)

	case *ast.CallExpr:
		return c.normalizeTopCall(eq.Pattern, body)

	default:
		if len(eq.Pattern) != 1 {
			return nil, c.err("pattern of arity %d bound to a scalar expression", len(eq.Pattern))
		}
		be, err := c.normalizeBexpr(body)
		if err != nil {
			return nil, err
		}
		return []nast.NEquation{{Pattern: eq.Pattern, Rhs: &nast.RAtomic{Expr: be}}}, nil
	}
}

func (c *nodeCtx) normalizeTopFby(pattern []string, f *ast.FbyExpr) ([]nast.NEquation, error) {
	initTuple, initIsTuple := f.Init.(*ast.TupleExpr)
	nextTuple, nextIsTuple := f.Next.(*ast.TupleExpr)

	if initIsTuple != nextIsTuple {
		return nil, c.err("mismatched tuples on either side of fby")
	}

	if initIsTuple {
		if len(initTuple.Elems) != len(nextTuple.Elems) {
			return nil, c.err("fby tuple operands have different arity: %d vs %d", len(initTuple.Elems), len(nextTuple.Elems))
		}
		if len(initTuple.Elems) != len(pattern) {
			return nil, c.err("pattern of arity %d bound to fby of tuple arity %d", len(pattern), len(initTuple.Elems))
		}
		var out []nast.NEquation
		for i := range initTuple.Elems {
			eq, err := c.normalizeScalarFby(pattern[i], initTuple.Elems[i], nextTuple.Elems[i])
			if err != nil {
				return nil, err
			}
			out = append(out, eq)
		}
		return out, nil
	}

	if len(pattern) != 1 {
		return nil, c.err("pattern of arity %d bound to a scalar fby", len(pattern))
	}
	eq, err := c.normalizeScalarFby(pattern[0], f.Init, f.Next)
	if err != nil {
		return nil, err
	}
	return []nast.NEquation{eq}, nil
}

func (c *nodeCtx) normalizeScalarFby(name string, initExpr, nextExpr ast.Expr) (nast.NEquation, error) {
	init, err := c.normalizeAtom(initExpr)
	if err != nil {
		return nast.NEquation{}, err
	}
	next, err := c.normalizeAtom(nextExpr)
	if err != nil {
		return nast.NEquation{}, err
	}
	if err := c.checkFbyTypes(init, next); err != nil {
		return nast.NEquation{}, err
	}
	return nast.NEquation{Pattern: []string{name}, Rhs: &nast.RDelay{Init: init, Next: next}}, nil
}

func (c *nodeCtx) checkFbyTypes(init, next nast.Atom) error {
	t1, ok1 := c.atomType(init)
	t2, ok2 := c.atomType(next)
	if !ok1 || !ok2 {
		return nil // an undeclared identifier was already reported as a name error
	}
	if t1 != t2 {
		return c.err("fby operands have different types: %s vs %s", t1, t2)
	}
	return nil
}

func (c *nodeCtx) normalizeTopCall(pattern []string, call *ast.CallExpr) ([]nast.NEquation, error) {
	sig, ok := c.lookupCallable(call.Name)
	if !ok {
		return nil, c.err("call to undeclared node %q", call.Name)
	}
	if len(call.Args) != sig.inArity {
		return nil, c.err("call to %q passes %d argument(s), expected %d", call.Name, len(call.Args), sig.inArity)
	}
	if len(pattern) != sig.outArity {
		return nil, c.err("pattern of arity %d bound to call to %q, which returns %d value(s)", len(pattern), call.Name, sig.outArity)
	}
	args := make([]nast.Bexpr, len(call.Args))
	for i, a := range call.Args {
		be, err := c.normalizeBexpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = be
	}
	return []nast.NEquation{{Pattern: pattern, Rhs: &nast.RCall{Name: call.Name, Args: args}}}, nil
}

// normalizeAtom reduces e to an atomic leaf, introducing a fresh auxiliary
// equation (and consuming its result) if e is not already a literal or a
// variable reference.
func (c *nodeCtx) normalizeAtom(e ast.Expr) (nast.Atom, error) {
	switch e := e.(type) {
	case *ast.ConstExpr:
		return &nast.AtomConst{Value: e.Value}, nil
	case *ast.IdentExpr:
		if !c.declared[e.Name] && !isFresh(e.Name) {
			return nil, c.err("reference to undeclared variable %q", e.Name)
		}
		return &nast.AtomIdent{Name: e.Name}, nil
	default:
		name, err := c.liftToTemp(e)
		if err != nil {
			return nil, err
		}
		return &nast.AtomIdent{Name: name}, nil
	}
}

// liftToTemp normalizes an arbitrary expression and binds it to a fresh
// single-name equation, returning that name. Used wherever the surrounding
// context needs a single substitutable identifier (fby operands, call
// arguments that are themselves calls or fbys).
func (c *nodeCtx) liftToTemp(e ast.Expr) (string, error) {
	switch e := e.(type) {
	case *ast.CallExpr:
		sig, ok := c.lookupCallable(e.Name)
		if !ok {
			return "", c.err("call to undeclared node %q", e.Name)
		}
		if sig.outArity != 1 {
			return "", c.err("call to %q used in scalar position must return exactly one value, returns %d", e.Name, sig.outArity)
		}
		if len(e.Args) != sig.inArity {
			return "", c.err("call to %q passes %d argument(s), expected %d", e.Name, len(e.Args), sig.inArity)
		}
		args := make([]nast.Bexpr, len(e.Args))
		for i, a := range e.Args {
			be, err := c.normalizeBexpr(a)
			if err != nil {
				return "", err
			}
			args[i] = be
		}
		name := c.freshName(sig.outTypes[0])
		c.aux = append(c.aux, nast.NEquation{Pattern: []string{name}, Rhs: &nast.RCall{Name: e.Name, Args: args}})
		return name, nil

	case *ast.FbyExpr:
		if _, ok := e.Init.(*ast.TupleExpr); ok {
			return "", c.err("tuple-valued fby used in scalar position")
		}
		init, err := c.normalizeAtom(e.Init)
		if err != nil {
			return "", err
		}
		next, err := c.normalizeAtom(e.Next)
		if err != nil {
			return "", err
		}
		if err := c.checkFbyTypes(init, next); err != nil {
			return "", err
		}
		t, _ := c.atomType(init)
		name := c.freshName(t)
		c.aux = append(c.aux, nast.NEquation{Pattern: []string{name}, Rhs: &nast.RDelay{Init: init, Next: next}})
		return name, nil

	case *ast.TupleExpr:
		return "", c.err("tuple expression used where a scalar value is required")

	default:
		be, err := c.normalizeBexpr(e)
		if err != nil {
			return "", err
		}
		t, err := c.bexprType(be)
		if err != nil {
			return "", err
		}
		name := c.freshName(t)
		c.aux = append(c.aux, nast.NEquation{Pattern: []string{name}, Rhs: &nast.RAtomic{Expr: be}})
		return name, nil
	}
}

// normalizeBexpr lowers e into an atomic-expression tree: Unop/Binop/If
// recurse structurally, Call and Fby are lifted into auxiliary equations
// and replaced by a reference to the fresh name, and a nested Tuple is
// rejected (spec.md §4.1: "tuple appearing inside a larger expression is
// forbidden").
func (c *nodeCtx) normalizeBexpr(e ast.Expr) (nast.Bexpr, error) {
	switch e := e.(type) {
	case *ast.ConstExpr, *ast.IdentExpr:
		a, err := c.normalizeAtom(e)
		if err != nil {
			return nil, err
		}
		return &nast.BAtom{Atom: a}, nil

	case *ast.UnaryExpr:
		operand, err := c.normalizeBexpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return &nast.BUnary{Op: e.Op, Operand: operand}, nil

	case *ast.BinaryExpr:
		l, err := c.normalizeBexpr(e.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.normalizeBexpr(e.Right)
		if err != nil {
			return nil, err
		}
		return &nast.BBinary{Op: e.Op, Left: l, Right: r}, nil

	case *ast.IfExpr:
		cond, err := c.normalizeBexpr(e.Cond)
		if err != nil {
			return nil, err
		}
		then, err := c.normalizeBexpr(e.Then)
		if err != nil {
			return nil, err
		}
		els, err := c.normalizeBexpr(e.Else)
		if err != nil {
			return nil, err
		}
		return &nast.BIf{Cond: cond, Then: then, Else: els}, nil

	case *ast.TupleExpr:
		return nil, c.err("tuple expression used where a scalar value is required")

	case *ast.CallExpr, *ast.FbyExpr:
		name, err := c.liftToTemp(e)
		if err != nil {
			return nil, err
		}
		return &nast.BAtom{Atom: &nast.AtomIdent{Name: name}}, nil

	default:
		return nil, c.err("unsupported expression form %T", e)
	}
}

// bexprType best-effort resolves the type of a freshly built Bexpr, used
// only to type the temporary that stores it. Since spec.md rules out full
// type inference, this reads the result type off the operator where the
// operator fixes it (comparisons and logic give bool, dot operators float,
// bare arithmetic int) and otherwise walks down to one leaf's declared
// type; an undeclared leaf is typed unit.
func (c *nodeCtx) bexprType(be nast.Bexpr) (nast.Type, error) {
	switch be := be.(type) {
	case *nast.BAtom:
		t, ok := c.atomType(be.Atom)
		if !ok {
			return ast.TUnit, nil
		}
		return t, nil
	case *nast.BUnary:
		switch be.Op {
		case ast.OpNot:
			return ast.TBool, nil
		case ast.OpNeg, ast.OpIntOfFloat:
			return ast.TInt, nil
		case ast.OpNegDot, ast.OpFloatOfInt, ast.OpSin, ast.OpCos:
			return ast.TFloat, nil
		}
		return c.bexprType(be.Operand)
	case *nast.BBinary:
		switch be.Op {
		case ast.OpLt, ast.OpGt, ast.OpLeq, ast.OpGeq, ast.OpEq, ast.OpAnd, ast.OpOr:
			return ast.TBool, nil
		case ast.OpAddDot, ast.OpSubDot, ast.OpMulDot, ast.OpDivDot:
			return ast.TFloat, nil
		case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
			return ast.TInt, nil
		}
		return c.bexprType(be.Left)
	case *nast.BIf:
		return c.bexprType(be.Then)
	default:
		return ast.TUnit, nil
	}
}

// callable is the arity/type signature of anything nameable in a call
// position: either a node declared in the program or an external runtime
// primitive from ast.Builtins.
type callable struct {
	inArity  int
	outArity int
	outTypes []nast.Type
}

func (c *nodeCtx) lookupCallable(name string) (callable, bool) {
	if n, ok := c.allNodes[name]; ok {
		outTypes := make([]nast.Type, len(n.Outputs))
		for i, p := range n.Outputs {
			outTypes[i] = p.Type
		}
		return callable{inArity: len(n.Inputs), outArity: len(n.Outputs), outTypes: outTypes}, true
	}
	if sig, ok := ast.Builtins[name]; ok {
		return callable{inArity: len(sig.Inputs), outArity: len(sig.Outputs), outTypes: sig.Outputs}, true
	}
	return callable{}, false
}

func isFresh(name string) bool {
	return len(name) >= len(freshPrefix) && name[:len(freshPrefix)] == freshPrefix
}
