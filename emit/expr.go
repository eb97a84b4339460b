package emit

import (
	"fmt"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/nast"
)

// atomString renders an Atom (a normalized fby's leaf, or an operand of an
// atomic expression) as a Go expression.
func atomString(a nast.Atom) string {
	switch a := a.(type) {
	case *nast.AtomConst:
		return constString(a.Value)
	case *nast.AtomIdent:
		return mangleIdent(a.Name)
	default:
		return "/* unknown atom */"
	}
}

// exprString renders an atomic-expression tree as a Go expression. If is
// rendered through the generated ifexpr[T] helper (see header.go), since Go
// has no ternary operator.
func exprString(e nast.Bexpr) string {
	switch e := e.(type) {
	case *nast.BAtom:
		return atomString(e.Atom)
	case *nast.BUnary:
		return unaryString(e.Op, exprString(e.Operand))
	case *nast.BBinary:
		return fmt.Sprintf("(%s %s %s)", exprString(e.Left), binopString(e.Op), exprString(e.Right))
	case *nast.BIf:
		return fmt.Sprintf("ifexpr(%s, %s, %s)", exprString(e.Cond), exprString(e.Then), exprString(e.Else))
	default:
		return "/* unknown expr */"
	}
}

func unaryString(op ast.Unop, operand string) string {
	switch op {
	case ast.OpNeg, ast.OpNegDot:
		return fmt.Sprintf("(-%s)", operand)
	case ast.OpNot:
		return fmt.Sprintf("(!%s)", operand)
	case ast.OpIntOfFloat:
		return fmt.Sprintf("s.Rt.IntOfFloat(%s)", operand)
	case ast.OpFloatOfInt:
		return fmt.Sprintf("s.Rt.FloatOfInt(%s)", operand)
	case ast.OpSin:
		return fmt.Sprintf("s.Rt.Sin(%s)", operand)
	case ast.OpCos:
		return fmt.Sprintf("s.Rt.Cos(%s)", operand)
	default:
		return operand
	}
}

func binopString(op ast.Binop) string {
	switch op {
	case ast.OpAdd, ast.OpAddDot:
		return "+"
	case ast.OpSub, ast.OpSubDot:
		return "-"
	case ast.OpMul, ast.OpMulDot:
		return "*"
	case ast.OpDiv, ast.OpDivDot:
		return "/"
	case ast.OpLt:
		return "<"
	case ast.OpGt:
		return ">"
	case ast.OpLeq:
		return "<="
	case ast.OpGeq:
		return ">="
	case ast.OpEq:
		return "=="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	default:
		return "?"
	}
}
