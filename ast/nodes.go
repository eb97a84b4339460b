// Package ast is a 1:1 representation of Lustre-family source files.
//
// Dot operators (+., -., *., /.) apply to floats; their bare counterparts
// apply to integers. Expressions may nest arbitrarily: a node call, a fby,
// and a tuple may all appear inside a larger expression tree. The
// normalize package is what flattens that into the shapes the scheduler
// and emitter expect.
package ast

// Type is one of the four declared base scalar types, plus the string
// extension used by side-effecting builtins such as print.
type Type int

const (
	TUnit Type = iota
	TBool
	TInt
	TFloat
	TString
)

func (t Type) String() string {
	switch t {
	case TUnit:
		return "unit"
	case TBool:
		return "bool"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TString:
		return "string"
	default:
		return "?"
	}
}

// Unop is a unary operator.
type Unop int

const (
	OpNeg Unop = iota
	OpNegDot
	OpNot
	OpIntOfFloat
	OpFloatOfInt
	OpSin
	OpCos
)

// Binop is a binary operator.
type Binop int

const (
	OpAdd Binop = iota
	OpSub
	OpMul
	OpDiv
	OpAddDot
	OpSubDot
	OpMulDot
	OpDivDot
	OpLt
	OpGt
	OpLeq
	OpGeq
	OpEq
	OpAnd
	OpOr
)

// Const is a literal constant.
type Const struct {
	Type  Type
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// Expr is the interface implemented by every raw-AST expression node.
type Expr interface {
	exprNode()
}

// ConstExpr is a literal.
type ConstExpr struct {
	Value Const
}

func (*ConstExpr) exprNode() {}

// IdentExpr references the result of another equation, an input, or a local.
type IdentExpr struct {
	Name string
}

func (*IdentExpr) exprNode() {}

// UnaryExpr applies a unary operator.
type UnaryExpr struct {
	Op      Unop
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr applies a binary operator.
type BinaryExpr struct {
	Op          Binop
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

// IfExpr is `if Cond then Then else Else`.
type IfExpr struct {
	Cond, Then, Else Expr
}

func (*IfExpr) exprNode() {}

// TupleExpr is a tuple constructor `(e1,...,en)`.
type TupleExpr struct {
	Elems []Expr
}

func (*TupleExpr) exprNode() {}

// CallExpr is a named node call `f(args)`.
type CallExpr struct {
	Name string
	Args []Expr
}

func (*CallExpr) exprNode() {}

// FbyExpr is the delay operator `Init fby Next`.
type FbyExpr struct {
	Init, Next Expr
}

func (*FbyExpr) exprNode() {}

// Param is a name/type pair, used for node inputs, outputs, and locals.
type Param struct {
	Name string
	Type Type
}

// Equation binds a pattern (one or more names) to an expression.
type Equation struct {
	Pattern []string
	Body    Expr
}

// Node is a named function from input flows to output flows.
type Node struct {
	Name    string
	Inputs  []Param
	Outputs []Param
	Locals  []Param
	Body    []Equation
}

// InputArity returns the number of input flows the node accepts.
func (n *Node) InputArity() int { return len(n.Inputs) }

// OutputArity returns the number of output flows the node produces.
func (n *Node) OutputArity() int { return len(n.Outputs) }

// Program is an ordered list of node declarations; node names are unique.
type Program struct {
	Nodes []*Node
}

// NodeByName looks up a node by its declared name.
func (p *Program) NodeByName(name string) (*Node, bool) {
	for _, n := range p.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}
