package emit

// preamble is written once at the top of every generated file. Go has no
// ternary operator, and every normalized `if` is an expression (it can sit
// inside an arbitrarily nested atomic expression), so the generated code
// leans on one small generic helper rather than rewriting every emitted
// if-expression into an anonymous-function statement.
//
// It also carries a textual copy of the Runtime interface every state
// struct's Rt field and every constructor/Run signature name (emit.go's
// emitNode, emitEntry). A generated file cannot import this compiler's own
// emit package to pick that type up — it has to be self-contained so it
// can double as a standalone go run-able program — so the interface text
// is duplicated here rather than shared by reference. runtime.go's Runtime
// is this same declaration for the compiler's own internal use (interp/
// links against it directly); keep the two in sync by hand if either
// changes.
const preamble = `// Code generated by lustc. DO NOT EDIT.

type Runtime interface {
	Sin(float64) float64
	Cos(float64) float64
	IntOfFloat(float64) int64
	FloatOfInt(int64) float64

	Print(string)
	DrawPoint(x, y int64)
	DrawLine(x1, y1, x2, y2 int64)
	PollCursorX() int64
	PollCursorY() int64
	PollMouseButton() bool
}

func ifexpr[T any](cond bool, then, els T) T {
	if cond {
		return then
	}
	return els
}
`

// stdRuntimeDecl mirrors stdruntime.go's Std, the default Runtime
// implementation. Only written when a caller asks for a generated func
// main() (Options.Main): a library build is expected to link against a
// caller-supplied Runtime, but the demo main() needs something concrete to
// construct, and it can't import emit.Std for the same self-containment
// reason preamble can't import emit.Runtime.
const stdRuntimeDecl = `type Std struct{}

func (Std) Sin(x float64) float64 { return math.Sin(x) }
func (Std) Cos(x float64) float64 { return math.Cos(x) }

func (Std) IntOfFloat(x float64) int64 { return int64(x) }
func (Std) FloatOfInt(x int64) float64 { return float64(x) }

func (Std) Print(s string) { fmt.Println(s) }

func (Std) DrawPoint(x, y int64)          {}
func (Std) DrawLine(x1, y1, x2, y2 int64) {}
func (Std) PollCursorX() int64            { return 0 }
func (Std) PollCursorY() int64            { return 0 }
func (Std) PollMouseButton() bool         { return false }
`
