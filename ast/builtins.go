package ast

// BuiltinSig describes the signature of an external runtime primitive: a
// name a program may call that is not declared as a node in the program
// itself. spec.md §6 names these as "a small, fixed set of externally
// supplied primitives" (sin/cos/conversions plus I/O stubs such as drawing
// or cursor polling) that "the compiler does not emit" — it only needs to
// know their arity to normalize and schedule calls to them. sin/cos and
// the int/float conversions are already unary operators (see Unop); the
// remaining fixed set here is the unit-typed side-effecting I/O stubs
// spec.md §9's Open Question discusses.
type BuiltinSig struct {
	Inputs  []Type
	Outputs []Type
}

// Builtins is the fixed set of external primitives callable by name from a
// node body without a matching node declaration.
var Builtins = map[string]BuiltinSig{
	"print":              {Inputs: []Type{TString}, Outputs: []Type{TUnit}},
	"draw_point":         {Inputs: []Type{TInt, TInt}, Outputs: []Type{TUnit}},
	"draw_line":          {Inputs: []Type{TInt, TInt, TInt, TInt}, Outputs: []Type{TUnit}},
	"poll_cursor_x":      {Inputs: nil, Outputs: []Type{TInt}},
	"poll_cursor_y":      {Inputs: nil, Outputs: []Type{TInt}},
	"poll_mouse_button":  {Inputs: nil, Outputs: []Type{TBool}},
}

// IsBuiltin reports whether name refers to an external runtime primitive
// rather than a node declared in the program.
func IsBuiltin(name string) bool {
	_, ok := Builtins[name]
	return ok
}
