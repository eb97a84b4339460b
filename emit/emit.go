// Package emit implements the Code Emitter (spec.md §4.3): it walks a
// scheduled, normalized program and writes a Go-syntax target
// implementation, one state struct and Step method per node, following the
// "read old registers, compute, write new registers" template spec.md's
// Design Notes call the central decision of the whole pipeline.
package emit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/diag"
	"github.com/fexolm/lustc/nast"
)

// Options controls what Program emits in addition to the mandatory one
// struct and one Step method per node.
type Options struct {
	Package string // target package name, defaults to "lustre" if empty
	Entry   string // node name to wrap in a Run driver; empty skips it
	Main    bool   // also emit a runnable func main() (requires a zero-input Entry)
	Ticks   int    // tick count baked into the generated main(); defaults to 10
}

// Program emits a whole scheduled, normalized program as formatted Go
// source.
func Program(p *nast.NProgram, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "lustre"
	}
	ticks := opts.Ticks
	if ticks == 0 {
		ticks = 10
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	buf.WriteString(preamble)
	buf.WriteString("\n")

	for _, n := range p.Nodes {
		if err := emitNode(&buf, n); err != nil {
			return nil, err
		}
	}

	if opts.Entry != "" {
		entry, ok := p.NodeByName(opts.Entry)
		if !ok {
			return nil, diag.New(diag.PassEmit, opts.Entry, "designated entry node not found in program")
		}
		emitEntry(&buf, entry, opts.Main, ticks)
	}

	return formatSource(buf.Bytes())
}

func stateTypeName(nodeName string) string {
	return "State_" + mangleIdent(nodeName)
}

// emitNode writes the state struct, constructor, and Step method for one
// scheduled node.
func emitNode(buf *bytes.Buffer, n *nast.NNode) error {
	st := stateTypeName(n.Name)

	fmt.Fprintf(buf, "// %s holds node %q's delay registers and callee sub-states.\n", st, n.Name)
	fmt.Fprintf(buf, "type %s struct {\n\tRt Runtime\n", st)
	for _, eq := range n.Body {
		switch rhs := eq.Rhs.(type) {
		case *nast.RDelay:
			name := eq.Pattern[0]
			typ, _ := n.TypeOf(name)
			fmt.Fprintf(buf, "\tReg_%s %s\n", mangleIdent(name), goType(typ))
			fmt.Fprintf(buf, "\tInit_%s bool\n", mangleIdent(name))
		case *nast.RCall:
			if ast.IsBuiltin(rhs.Name) {
				continue
			}
			fmt.Fprintf(buf, "\tSub_%s %s\n", mangleIdent(eq.Pattern[0]), stateTypeName(rhs.Name))
		}
	}
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "// New%s constructs a %s with every delay register cleared.\n", st, st)
	fmt.Fprintf(buf, "func New%s(rt Runtime) *%s {\n\ts := &%s{Rt: rt}\n", st, st, st)
	for _, eq := range n.Body {
		if rhs, ok := eq.Rhs.(*nast.RCall); ok && !ast.IsBuiltin(rhs.Name) {
			fmt.Fprintf(buf, "\ts.Sub_%s = *New%s(rt)\n", mangleIdent(eq.Pattern[0]), stateTypeName(rhs.Name))
		}
	}
	buf.WriteString("\treturn s\n}\n\n")

	fmt.Fprintf(buf, "// Step advances node %q by one tick.\n", n.Name)
	fmt.Fprintf(buf, "func (s *%s) Step(%s) %s {\n", st, paramList(n.Inputs), returnSig(n.Outputs))

	for _, p := range n.Outputs {
		fmt.Fprintf(buf, "\tvar %s %s\n", mangleIdent(p.Name), goType(p.Type))
	}
	for _, p := range n.Locals {
		fmt.Fprintf(buf, "\tvar %s %s\n", mangleIdent(p.Name), goType(p.Type))
	}

	var commit []nast.NEquation
	for _, eq := range n.Body {
		switch rhs := eq.Rhs.(type) {
		case *nast.RAtomic:
			fmt.Fprintf(buf, "\t%s = %s\n", mangleIdent(eq.Pattern[0]), exprString(rhs.Expr))

		case *nast.RDelay:
			name := mangleIdent(eq.Pattern[0])
			fmt.Fprintf(buf, "\tif s.Init_%s {\n\t\t%s = s.Reg_%s\n\t} else {\n\t\t%s = %s\n\t}\n",
				name, name, name, name, atomString(rhs.Init))
			commit = append(commit, eq)

		case *nast.RCall:
			lhs := make([]string, len(eq.Pattern))
			for i, nm := range eq.Pattern {
				lhs[i] = mangleIdent(nm)
			}
			args := make([]string, len(rhs.Args))
			for i, a := range rhs.Args {
				args[i] = exprString(a)
			}
			if ast.IsBuiltin(rhs.Name) {
				emitBuiltinCall(buf, rhs.Name, lhs, args)
			} else {
				fmt.Fprintf(buf, "\t%s = s.Sub_%s.Step(%s)\n", strings.Join(lhs, ", "), mangleIdent(eq.Pattern[0]), strings.Join(args, ", "))
			}
		}
	}

	// Commit phase: every register read above happens before any register
	// write here, so a tick's own reads always see the previous tick's
	// values (spec.md §4.3's central ordering rule).
	for _, eq := range commit {
		rhs := eq.Rhs.(*nast.RDelay)
		name := mangleIdent(eq.Pattern[0])
		fmt.Fprintf(buf, "\ts.Reg_%s = %s\n\ts.Init_%s = true\n", name, atomString(rhs.Next), name)
	}

	fmt.Fprintf(buf, "\treturn %s\n}\n\n", strings.Join(nameList(n.Outputs), ", "))
	return nil
}

func emitBuiltinCall(buf *bytes.Buffer, name string, lhs, args []string) {
	switch name {
	case "print":
		fmt.Fprintf(buf, "\ts.Rt.Print(%s)\n\t%s = struct{}{}\n", args[0], lhs[0])
	case "draw_point":
		fmt.Fprintf(buf, "\ts.Rt.DrawPoint(%s, %s)\n\t%s = struct{}{}\n", args[0], args[1], lhs[0])
	case "draw_line":
		fmt.Fprintf(buf, "\ts.Rt.DrawLine(%s, %s, %s, %s)\n\t%s = struct{}{}\n", args[0], args[1], args[2], args[3], lhs[0])
	case "poll_cursor_x":
		fmt.Fprintf(buf, "\t%s = s.Rt.PollCursorX()\n", lhs[0])
	case "poll_cursor_y":
		fmt.Fprintf(buf, "\t%s = s.Rt.PollCursorY()\n", lhs[0])
	case "poll_mouse_button":
		fmt.Fprintf(buf, "\t%s = s.Rt.PollMouseButton()\n", lhs[0])
	}
}

// emitEntry wraps the designated entry node in a Run driver (spec.md
// §4.3's "Entry point"): it constructs the node's state once and calls
// Step in a loop, sourcing each tick's inputs from a caller-supplied
// callback and handing each tick's outputs to another. The loop condition
// and tick source stay the surrounding runtime's concern, per spec.md §6.
func emitEntry(buf *bytes.Buffer, n *nast.NNode, emitMain bool, ticks int) {
	st := stateTypeName(n.Name)
	inNames := nameList(n.Inputs)
	outNames := nameList(n.Outputs)

	inputSig := "func(tick int)"
	if len(n.Inputs) > 0 {
		inputSig = fmt.Sprintf("func(tick int) (%s)", typeList(n.Inputs))
	}
	onTickSig := fmt.Sprintf("func(tick int, %s)", paramList(n.Outputs))

	fmt.Fprintf(buf, "// Run drives node %q for the given number of ticks, sourcing inputs\n// from input and reporting each tick's outputs to onTick.\n", n.Name)
	fmt.Fprintf(buf, "func Run(rt Runtime, ticks int, input %s, onTick %s) {\n", inputSig, onTickSig)
	fmt.Fprintf(buf, "\ts := New%s(rt)\n\tfor i := 0; i < ticks; i++ {\n", st)
	if len(n.Inputs) > 0 {
		fmt.Fprintf(buf, "\t\t%s := input(i)\n", strings.Join(inNames, ", "))
	}
	fmt.Fprintf(buf, "\t\t%s := s.Step(%s)\n", strings.Join(outNames, ", "), strings.Join(inNames, ", "))
	fmt.Fprintf(buf, "\t\tonTick(i, %s)\n\t}\n}\n\n", strings.Join(outNames, ", "))

	if emitMain && len(n.Inputs) == 0 {
		verbs := make([]string, len(n.Outputs))
		for i, p := range n.Outputs {
			verbs[i] = fmtVerb(p.Type)
		}
		buf.WriteString(stdRuntimeDecl)
		fmt.Fprintf(buf, "func main() {\n")
		fmt.Fprintf(buf, "\tRun(Std{}, %d, func(int) {}, func(tick int, %s) {\n", ticks, paramList(n.Outputs))
		fmt.Fprintf(buf, "\t\tfmt.Printf(\"tick %%d: %s\\n\", tick, %s)\n", strings.Join(verbs, " "), strings.Join(outNames, ", "))
		fmt.Fprintf(buf, "\t})\n}\n")
	}
}
