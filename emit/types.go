package emit

import (
	"strconv"
	"strings"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/nast"
)

// goType renders a declared base type as the Go type its values live in.
// Unit has no useful runtime representation, so it maps to the empty
// struct: a real zero-size type a var can be declared and returned as.
func goType(t nast.Type) string {
	switch t {
	case ast.TUnit:
		return "struct{}"
	case ast.TBool:
		return "bool"
	case ast.TInt:
		return "int64"
	case ast.TFloat:
		return "float64"
	case ast.TString:
		return "string"
	default:
		return "any"
	}
}

// fmtVerb picks a Printf verb suitable for a value of the given type, used
// only by the optional generated main() demo driver.
func fmtVerb(t nast.Type) string {
	switch t {
	case ast.TInt:
		return "%d"
	case ast.TFloat:
		return "%g"
	case ast.TBool, ast.TString:
		return "%v"
	default:
		return "%v"
	}
}

// constString renders a literal constant as Go source.
func constString(c ast.Const) string {
	switch c.Type {
	case ast.TUnit:
		return "struct{}{}"
	case ast.TBool:
		if c.Bool {
			return "true"
		}
		return "false"
	case ast.TInt:
		return strconv.FormatInt(c.Int, 10)
	case ast.TFloat:
		s := strconv.FormatFloat(c.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case ast.TString:
		return strconv.Quote(c.Str)
	default:
		return "nil"
	}
}

func paramList(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = mangleIdent(p.Name) + " " + goType(p.Type)
	}
	return strings.Join(parts, ", ")
}

func typeList(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = goType(p.Type)
	}
	return strings.Join(parts, ", ")
}

func nameList(params []ast.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = mangleIdent(p.Name)
	}
	return names
}

// returnSig renders a node's output shape as a Go function result list:
// bare for one output, parenthesized for a tuple.
func returnSig(params []ast.Param) string {
	if len(params) == 1 {
		return goType(params[0].Type)
	}
	return "(" + typeList(params) + ")"
}
