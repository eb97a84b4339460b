package nast

import "github.com/fexolm/lustc/ast"

// ToAST lowers a normalized program back into the raw-AST shape it was
// normalized from. Every fby/call/tuple in an NProgram already sits at
// equation top level, so this is a structural relabeling, not an inverse of
// any lifting: nothing here re-nests an equation inside another.
//
// Exists to state the idempotence of Normalize precisely: since
// normalize.Normalize only accepts *ast.Program, "normalizing an
// already-normalized program" means normalizing ToAST's output of a prior
// normalization.
func ToAST(p *NProgram) *ast.Program {
	out := &ast.Program{}
	for _, n := range p.Nodes {
		out.Nodes = append(out.Nodes, nodeToAST(n))
	}
	return out
}

func nodeToAST(n *NNode) *ast.Node {
	out := &ast.Node{
		Name:    n.Name,
		Inputs:  n.Inputs,
		Outputs: n.Outputs,
		Locals:  n.Locals,
	}
	for _, eq := range n.Body {
		out.Body = append(out.Body, equationToAST(eq))
	}
	return out
}

func equationToAST(eq NEquation) ast.Equation {
	switch rhs := eq.Rhs.(type) {
	case *RAtomic:
		return ast.Equation{Pattern: eq.Pattern, Body: bexprToAST(rhs.Expr)}
	case *RDelay:
		return ast.Equation{Pattern: eq.Pattern, Body: &ast.FbyExpr{
			Init: atomToAST(rhs.Init),
			Next: atomToAST(rhs.Next),
		}}
	case *RCall:
		args := make([]ast.Expr, len(rhs.Args))
		for i, a := range rhs.Args {
			args[i] = bexprToAST(a)
		}
		return ast.Equation{Pattern: eq.Pattern, Body: &ast.CallExpr{Name: rhs.Name, Args: args}}
	default:
		panic("nast: unhandled NRhs shape in ToAST")
	}
}

func atomToAST(a Atom) ast.Expr {
	switch a := a.(type) {
	case *AtomIdent:
		return &ast.IdentExpr{Name: a.Name}
	case *AtomConst:
		return &ast.ConstExpr{Value: a.Value}
	default:
		panic("nast: unhandled Atom shape in ToAST")
	}
}

func bexprToAST(b Bexpr) ast.Expr {
	switch b := b.(type) {
	case *BAtom:
		return atomToAST(b.Atom)
	case *BUnary:
		return &ast.UnaryExpr{Op: b.Op, Operand: bexprToAST(b.Operand)}
	case *BBinary:
		return &ast.BinaryExpr{Op: b.Op, Left: bexprToAST(b.Left), Right: bexprToAST(b.Right)}
	case *BIf:
		return &ast.IfExpr{Cond: bexprToAST(b.Cond), Then: bexprToAST(b.Then), Else: bexprToAST(b.Else)}
	default:
		panic("nast: unhandled Bexpr shape in ToAST")
	}
}
