package normalize

import "github.com/fexolm/lustc/nast"

// typeOfConst returns a literal's declared base type. Grounded on the
// original normalizer's typer, which only ever needed to answer this much:
// spec.md's Non-goals rule out general type inference, so this package
// checks exactly one invariant (fby operand agreement, spec.md §3's "delay
// soundness") rather than type-checking every operator.
func typeOfConst(c nast.Const) nast.Type {
	return c.Type
}

// atomType resolves the declared type of an Atom, consulting the node's
// declared names (inputs/outputs/locals, including normalizer-introduced
// temporaries already registered as locals).
func (c *nodeCtx) atomType(a nast.Atom) (nast.Type, bool) {
	switch a := a.(type) {
	case *nast.AtomConst:
		return typeOfConst(a.Value), true
	case *nast.AtomIdent:
		return c.typeOf(a.Name)
	default:
		return 0, false
	}
}
