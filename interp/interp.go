// Package interp is an oracle interpreter over the raw, un-normalized AST
// (spec.md §8's testable property "normalization preserves semantics" is
// checked against this package, not against itself). It is grounded on the
// teacher's interpret/interpreter.go: that file drove a combinational Chip
// by threading a []WireState through calls to run; this package generalizes
// the same shape — a persistent per-instance state threaded across ticks —
// to Lustre's five base types, delay (fby) registers, and node calls.
package interp

import (
	"fmt"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/diag"
	"github.com/fexolm/lustc/emit"
)

// Interpreter holds a program's node declarations and the runtime used to
// resolve external primitives (sin/cos, drawing stubs, ...).
type Interpreter struct {
	prog  *ast.Program
	nodes map[string]*ast.Node
	Rt    emit.Runtime
}

// New builds an Interpreter over prog, defaulting Rt to emit.Std{}.
func New(prog *ast.Program) *Interpreter {
	nodes := make(map[string]*ast.Node, len(prog.Nodes))
	for _, n := range prog.Nodes {
		nodes[n.Name] = n
	}
	return &Interpreter{prog: prog, nodes: nodes, Rt: emit.Std{}}
}

// NodeState is one persistent instance of a node: its delay registers and
// its callees' own persistent instances, both keyed by the AST pointer of
// the fby or call expression that introduced them. Pointer identity is
// stable for the lifetime of the parsed program, so a register or callee
// keeps its state across ticks regardless of how deeply it is nested
// inside its defining equation's expression tree.
type NodeState struct {
	node    *ast.Node
	eqIndex map[string]*ast.Equation
	regs    map[*ast.FbyExpr][]*regState
	subs    map[*ast.CallExpr]*NodeState
}

type regState struct {
	value Value
	init  bool
}

// NewState instantiates a fresh, zeroed state for the named node.
func (ip *Interpreter) NewState(nodeName string) (*NodeState, error) {
	n, ok := ip.nodes[nodeName]
	if !ok {
		return nil, diag.New(diag.PassInterp, nodeName, "no such node")
	}
	return ip.newStateFor(n), nil
}

func (ip *Interpreter) newStateFor(n *ast.Node) *NodeState {
	idx := make(map[string]*ast.Equation, len(n.Body))
	for i := range n.Body {
		eq := &n.Body[i]
		for _, name := range eq.Pattern {
			idx[name] = eq
		}
	}
	return &NodeState{
		node:    n,
		eqIndex: idx,
		regs:    map[*ast.FbyExpr][]*regState{},
		subs:    map[*ast.CallExpr]*NodeState{},
	}
}

// Step advances the node instance by one tick, per spec.md's synchronous
// model: every equation holds simultaneously, so every equation is forced
// exactly once this tick — including ones whose result never reaches an
// output — regardless of which value-level branches an `if` ends up
// selecting.
func (st *NodeState) Step(ip *Interpreter, args []Value) ([]Value, error) {
	if len(args) != len(st.node.Inputs) {
		return nil, diag.New(diag.PassInterp, st.node.Name, "wrong input arity")
	}
	fr := &frame{
		ip:       ip,
		st:       st,
		node:     st.node,
		inputEnv: make(map[string]Value, len(args)),
		memo:     map[string]Value{},
		fbyMemo:  map[*ast.FbyExpr][]Value{},
		callMemo: map[*ast.CallExpr][]Value{},
		visiting: map[string]bool{},
	}
	for i, p := range st.node.Inputs {
		fr.inputEnv[p.Name] = args[i]
	}

	for i := range st.node.Body {
		eq := &st.node.Body[i]
		if _, err := fr.resolve(eq.Pattern[0]); err != nil {
			return nil, err
		}
	}

	outs := make([]Value, len(st.node.Outputs))
	for i, p := range st.node.Outputs {
		v, err := fr.resolve(p.Name)
		if err != nil {
			return nil, err
		}
		outs[i] = v
	}
	return outs, nil
}

// frame is the per-tick evaluation context: it memoizes every name and
// every fby/call site so a value referenced more than once in a tick is
// computed, and every register advanced, exactly once.
type frame struct {
	ip       *Interpreter
	st       *NodeState
	node     *ast.Node
	inputEnv map[string]Value
	memo     map[string]Value
	fbyMemo  map[*ast.FbyExpr][]Value
	callMemo map[*ast.CallExpr][]Value
	visiting map[string]bool
}

func (fr *frame) resolve(name string) (Value, error) {
	if v, ok := fr.inputEnv[name]; ok {
		return v, nil
	}
	if v, ok := fr.memo[name]; ok {
		return v, nil
	}
	eq, ok := fr.st.eqIndex[name]
	if !ok {
		return Value{}, diag.New(diag.PassInterp, fr.node.Name, fmt.Sprintf("undefined name %q", name))
	}
	if fr.visiting[name] {
		return Value{}, diag.New(diag.PassInterp, fr.node.Name, fmt.Sprintf("cyclic reference through %q", name))
	}
	fr.visiting[name] = true
	defer delete(fr.visiting, name)

	if len(eq.Pattern) == 1 {
		v, err := fr.evalScalar(eq.Body)
		if err != nil {
			return Value{}, err
		}
		fr.memo[name] = v
		return v, nil
	}

	vs, err := fr.evalMulti(eq.Body)
	if err != nil {
		return Value{}, err
	}
	if len(vs) != len(eq.Pattern) {
		return Value{}, diag.New(diag.PassInterp, fr.node.Name, "pattern arity does not match expression's result count")
	}
	for i, n := range eq.Pattern {
		fr.memo[n] = vs[i]
	}
	return fr.memo[name], nil
}

// evalMulti evaluates an expression that may produce more than one value:
// a tuple constructor, or a call to a node with more than one output.
func (fr *frame) evalMulti(e ast.Expr) ([]Value, error) {
	switch e := e.(type) {
	case *ast.TupleExpr:
		var out []Value
		for _, el := range e.Elems {
			vs, err := fr.evalMulti(el)
			if err != nil {
				return nil, err
			}
			out = append(out, vs...)
		}
		return out, nil
	case *ast.CallExpr:
		return fr.evalCall(e)
	default:
		v, err := fr.evalScalar(e)
		if err != nil {
			return nil, err
		}
		return []Value{v}, nil
	}
}

func (fr *frame) evalScalar(e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.ConstExpr:
		return fromConst(e.Value), nil

	case *ast.IdentExpr:
		return fr.resolve(e.Name)

	case *ast.UnaryExpr:
		v, err := fr.evalScalar(e.Operand)
		if err != nil {
			return Value{}, err
		}
		return applyUnary(e.Op, v, fr.ip.Rt)

	case *ast.BinaryExpr:
		l, err := fr.evalScalar(e.Left)
		if err != nil {
			return Value{}, err
		}
		r, err := fr.evalScalar(e.Right)
		if err != nil {
			return Value{}, err
		}
		return applyBinary(e.Op, l, r)

	case *ast.IfExpr:
		// Both branches are streams that tick unconditionally; only the
		// selected branch's value is returned. Evaluating both, always,
		// is what makes a fby or call nested in an unchosen branch still
		// advance every tick, matching what normalization does by
		// lifting such nested constructs into unconditional equations.
		cond, err := fr.evalScalar(e.Cond)
		if err != nil {
			return Value{}, err
		}
		thenV, err := fr.evalScalar(e.Then)
		if err != nil {
			return Value{}, err
		}
		elseV, err := fr.evalScalar(e.Else)
		if err != nil {
			return Value{}, err
		}
		if cond.Bool {
			return thenV, nil
		}
		return elseV, nil

	case *ast.FbyExpr:
		vs, err := fr.evalFby(e)
		if err != nil {
			return Value{}, err
		}
		return vs[0], nil

	case *ast.CallExpr:
		vs, err := fr.evalCall(e)
		if err != nil {
			return Value{}, err
		}
		if len(vs) != 1 {
			return Value{}, diag.New(diag.PassInterp, fr.node.Name, fmt.Sprintf("call to %q used in scalar position returns %d values", e.Name, len(vs)))
		}
		return vs[0], nil

	case *ast.TupleExpr:
		return Value{}, diag.New(diag.PassInterp, fr.node.Name, "tuple expression used in scalar position")

	default:
		return Value{}, diag.New(diag.PassInterp, fr.node.Name, "unrecognized expression")
	}
}

// evalFby evaluates a (possibly tuple-shaped) delay expression, returning
// one Value per component; each component gets its own persistent
// register, keyed by the FbyExpr's identity and its index within the
// flattened init/next lists.
func (fr *frame) evalFby(e *ast.FbyExpr) ([]Value, error) {
	if vs, ok := fr.fbyMemo[e]; ok {
		return vs, nil
	}

	inits, err := fr.evalMulti(e.Init)
	if err != nil {
		return nil, err
	}
	nexts, err := fr.evalMulti(e.Next)
	if err != nil {
		return nil, err
	}
	if len(inits) != len(nexts) {
		return nil, diag.New(diag.PassInterp, fr.node.Name, "fby's init and next sides have different arity")
	}

	regs := fr.st.regs[e]
	if regs == nil {
		regs = make([]*regState, len(inits))
		for i := range regs {
			regs[i] = &regState{}
		}
		fr.st.regs[e] = regs
	}

	out := make([]Value, len(inits))
	for i, reg := range regs {
		if reg.init {
			out[i] = reg.value
		} else {
			out[i] = inits[i]
		}
		reg.value = nexts[i]
		reg.init = true
	}
	fr.fbyMemo[e] = out
	return out, nil
}

func (fr *frame) evalCall(e *ast.CallExpr) ([]Value, error) {
	if vs, ok := fr.callMemo[e]; ok {
		return vs, nil
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := fr.evalScalar(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if ast.IsBuiltin(e.Name) {
		out, err := fr.evalBuiltin(e.Name, args)
		if err != nil {
			return nil, err
		}
		fr.callMemo[e] = out
		return out, nil
	}

	sub := fr.st.subs[e]
	if sub == nil {
		callee, ok := fr.ip.nodes[e.Name]
		if !ok {
			return nil, diag.New(diag.PassInterp, fr.node.Name, fmt.Sprintf("call to undeclared node %q", e.Name))
		}
		sub = fr.ip.newStateFor(callee)
		fr.st.subs[e] = sub
	}
	out, err := sub.Step(fr.ip, args)
	if err != nil {
		return nil, err
	}
	fr.callMemo[e] = out
	return out, nil
}

func (fr *frame) evalBuiltin(name string, args []Value) ([]Value, error) {
	rt := fr.ip.Rt
	switch name {
	case "print":
		rt.Print(args[0].Str)
		return []Value{{Type: ast.TUnit}}, nil
	case "draw_point":
		rt.DrawPoint(args[0].Int, args[1].Int)
		return []Value{{Type: ast.TUnit}}, nil
	case "draw_line":
		rt.DrawLine(args[0].Int, args[1].Int, args[2].Int, args[3].Int)
		return []Value{{Type: ast.TUnit}}, nil
	case "poll_cursor_x":
		return []Value{{Type: ast.TInt, Int: rt.PollCursorX()}}, nil
	case "poll_cursor_y":
		return []Value{{Type: ast.TInt, Int: rt.PollCursorY()}}, nil
	case "poll_mouse_button":
		return []Value{{Type: ast.TBool, Bool: rt.PollMouseButton()}}, nil
	default:
		return nil, diag.New(diag.PassInterp, fr.node.Name, fmt.Sprintf("unknown builtin %q", name))
	}
}
