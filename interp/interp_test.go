package interp

import (
	"strings"
	"testing"

	"github.com/fexolm/lustc/ast"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p, err := ast.ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	return p
}

func TestCounterTicksAndResets(t *testing.T) {
	src := `
node counter(reset: bool) returns (n: int);
let
  n = 0 fby (if reset then 0 else n + 1);
tel
`
	ip := New(mustParse(t, src))
	st, err := ip.NewState("counter")
	require.NoError(t, err)

	seq := []bool{false, false, false, true, false, false}
	want := []int64{0, 1, 2, 3, 0, 1}

	for i, reset := range seq {
		outs, err := st.Step(ip, []Value{{Type: ast.TBool, Bool: reset}})
		require.NoError(t, err)
		require.Equal(t, want[i], outs[0].Int, "tick %d", i)
	}
}

func TestEdgeDetector(t *testing.T) {
	src := `
node edge(x: bool) returns (e: bool);
var px: bool;
let
  px = false fby x;
  e = x and not px;
tel
`
	ip := New(mustParse(t, src))
	st, err := ip.NewState("edge")
	require.NoError(t, err)

	xs := []bool{false, true, true, false, true}
	want := []bool{false, true, false, false, true}

	for i, x := range xs {
		outs, err := st.Step(ip, []Value{{Type: ast.TBool, Bool: x}})
		require.NoError(t, err)
		require.Equal(t, want[i], outs[0].Bool, "tick %d", i)
	}
}

func TestHalfAdder(t *testing.T) {
	src := `
node half_adder(a: bool, b: bool) returns (s: bool, c: bool);
let
  s = (a and not b) or (not a and b);
  c = a and b;
tel
`
	ip := New(mustParse(t, src))
	st, err := ip.NewState("half_adder")
	require.NoError(t, err)

	cases := []struct {
		a, b, s, c bool
	}{
		{false, false, false, false},
		{true, false, true, false},
		{false, true, true, false},
		{true, true, false, true},
	}
	for _, tc := range cases {
		outs, err := st.Step(ip, []Value{{Type: ast.TBool, Bool: tc.a}, {Type: ast.TBool, Bool: tc.b}})
		require.NoError(t, err)
		require.Equal(t, tc.s, outs[0].Bool)
		require.Equal(t, tc.c, outs[1].Bool)
	}
}

func TestDoubleIntegratorChainsNodeCalls(t *testing.T) {
	src := `
node integrator(x: float) returns (y: float);
var s: float;
let
  s = 0.0 fby (s +. x);
  y = s;
tel

node double_integrator(a: float) returns (z: float);
var v: float;
let
  v = integrator(a);
  z = integrator(v);
tel
`
	ip := New(mustParse(t, src))
	st, err := ip.NewState("double_integrator")
	require.NoError(t, err)

	// Constant input 1.0: v (single integrator of 1.0) is 0,1,2,3,...
	// z (integrator of v) is the running sum of v: 0,0,1,3,6,...
	wantZ := []float64{0, 0, 1, 3, 6}
	for i, want := range wantZ {
		outs, err := st.Step(ip, []Value{{Type: ast.TFloat, Float: 1.0}})
		require.NoError(t, err)
		require.InDelta(t, want, outs[0].Float, 1e-9, "tick %d", i)
	}
}

func TestPersistentStateSurvivesAcrossTicksPerCallSite(t *testing.T) {
	// Two independent call sites to the same node must not share state.
	src := `
node counter(reset: bool) returns (n: int);
let
  n = 0 fby (if reset then 0 else n + 1);
tel

node two(r1: bool, r2: bool) returns (a: int, b: int);
let
  a = counter(r1);
  b = counter(r2);
tel
`
	ip := New(mustParse(t, src))
	st, err := ip.NewState("two")
	require.NoError(t, err)

	// tick0: both counters start at their initial value.
	outs, err := st.Step(ip, []Value{{Type: ast.TBool}, {Type: ast.TBool}})
	require.NoError(t, err)
	require.Equal(t, int64(0), outs[0].Int)
	require.Equal(t, int64(0), outs[1].Int)

	// tick1: a's reset input only takes effect on the register a tick's
	// delay commits for next time, so both still read the value the
	// previous tick's commit produced.
	outs, err = st.Step(ip, []Value{{Type: ast.TBool, Bool: true}, {Type: ast.TBool}})
	require.NoError(t, err)
	require.Equal(t, int64(1), outs[0].Int)
	require.Equal(t, int64(1), outs[1].Int)

	// tick2: a's reset from the previous tick is now visible; b, whose
	// reset input was never set, kept incrementing independently.
	outs, err = st.Step(ip, []Value{{Type: ast.TBool}, {Type: ast.TBool}})
	require.NoError(t, err)
	require.Equal(t, int64(0), outs[0].Int, "a's counter reset landed one tick later")
	require.Equal(t, int64(2), outs[1].Int, "b's counter keeps ticking independently")
}

func TestAverageNode(t *testing.T) {
	src := `
node average(a: int, b: int) returns (m: int);
let
  m = (a + b) / 2;
tel
`
	ip := New(mustParse(t, src))
	st, err := ip.NewState("average")
	require.NoError(t, err)

	outs, err := st.Step(ip, []Value{{Type: ast.TInt, Int: 4}, {Type: ast.TInt, Int: 6}})
	require.NoError(t, err)
	require.Equal(t, int64(5), outs[0].Int)
}

func TestCyclicReferenceIsRejected(t *testing.T) {
	src := `
node bad(x: int) returns (y: int);
let
  y = y + 1;
tel
`
	ip := New(mustParse(t, src))
	st, err := ip.NewState("bad")
	require.NoError(t, err)

	_, err = st.Step(ip, []Value{{Type: ast.TInt, Int: 1}})
	require.Error(t, err)
}
