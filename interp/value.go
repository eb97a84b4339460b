package interp

import (
	"fmt"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/emit"
)

// Value is a single tick's worth of a flow: one of the four declared base
// types (plus string, per SPEC_FULL.md §14's supplemented base type).
type Value struct {
	Type  ast.Type
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func fromConst(c ast.Const) Value {
	return Value{Type: c.Type, Bool: c.Bool, Int: c.Int, Float: c.Float, Str: c.Str}
}

func (v Value) String() string {
	switch v.Type {
	case ast.TBool:
		return fmt.Sprintf("%v", v.Bool)
	case ast.TInt:
		return fmt.Sprintf("%d", v.Int)
	case ast.TFloat:
		return fmt.Sprintf("%g", v.Float)
	case ast.TString:
		return v.Str
	default:
		return "()"
	}
}

func applyUnary(op ast.Unop, v Value, rt emit.Runtime) (Value, error) {
	switch op {
	case ast.OpNeg:
		return Value{Type: ast.TInt, Int: -v.Int}, nil
	case ast.OpNegDot:
		return Value{Type: ast.TFloat, Float: -v.Float}, nil
	case ast.OpNot:
		return Value{Type: ast.TBool, Bool: !v.Bool}, nil
	case ast.OpIntOfFloat:
		return Value{Type: ast.TInt, Int: rt.IntOfFloat(v.Float)}, nil
	case ast.OpFloatOfInt:
		return Value{Type: ast.TFloat, Float: rt.FloatOfInt(v.Int)}, nil
	case ast.OpSin:
		return Value{Type: ast.TFloat, Float: rt.Sin(v.Float)}, nil
	case ast.OpCos:
		return Value{Type: ast.TFloat, Float: rt.Cos(v.Float)}, nil
	default:
		return Value{}, fmt.Errorf("unsupported unary operator %v", op)
	}
}

func applyBinary(op ast.Binop, l, r Value) (Value, error) {
	switch op {
	case ast.OpAdd:
		return Value{Type: ast.TInt, Int: l.Int + r.Int}, nil
	case ast.OpSub:
		return Value{Type: ast.TInt, Int: l.Int - r.Int}, nil
	case ast.OpMul:
		return Value{Type: ast.TInt, Int: l.Int * r.Int}, nil
	case ast.OpDiv:
		return Value{Type: ast.TInt, Int: l.Int / r.Int}, nil
	case ast.OpAddDot:
		return Value{Type: ast.TFloat, Float: l.Float + r.Float}, nil
	case ast.OpSubDot:
		return Value{Type: ast.TFloat, Float: l.Float - r.Float}, nil
	case ast.OpMulDot:
		return Value{Type: ast.TFloat, Float: l.Float * r.Float}, nil
	case ast.OpDivDot:
		return Value{Type: ast.TFloat, Float: l.Float / r.Float}, nil
	case ast.OpLt:
		return boolVal(cmp(l, r) < 0), nil
	case ast.OpGt:
		return boolVal(cmp(l, r) > 0), nil
	case ast.OpLeq:
		return boolVal(cmp(l, r) <= 0), nil
	case ast.OpGeq:
		return boolVal(cmp(l, r) >= 0), nil
	case ast.OpEq:
		return boolVal(cmp(l, r) == 0), nil
	case ast.OpAnd:
		return Value{Type: ast.TBool, Bool: l.Bool && r.Bool}, nil
	case ast.OpOr:
		return Value{Type: ast.TBool, Bool: l.Bool || r.Bool}, nil
	default:
		return Value{}, fmt.Errorf("unsupported binary operator %v", op)
	}
}

func boolVal(b bool) Value { return Value{Type: ast.TBool, Bool: b} }

// cmp compares two values of the same declared type, per the "and/or/not,
// comparisons" grammar spec.md §6 lists; float and int compare numerically,
// bool and string compare by Go's native ordering.
func cmp(l, r Value) int {
	switch l.Type {
	case ast.TInt:
		switch {
		case l.Int < r.Int:
			return -1
		case l.Int > r.Int:
			return 1
		default:
			return 0
		}
	case ast.TFloat:
		switch {
		case l.Float < r.Float:
			return -1
		case l.Float > r.Float:
			return 1
		default:
			return 0
		}
	case ast.TString:
		switch {
		case l.Str < r.Str:
			return -1
		case l.Str > r.Str:
			return 1
		default:
			return 0
		}
	case ast.TBool:
		if l.Bool == r.Bool {
			return 0
		}
		if !l.Bool && r.Bool {
			return -1
		}
		return 1
	default:
		return 0
	}
}
