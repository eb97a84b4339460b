package emit

import (
	"strings"
	"testing"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/nast"
	"github.com/fexolm/lustc/normalize"
	"github.com/fexolm/lustc/schedule"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *nast.NProgram {
	t.Helper()
	p, err := ast.ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	np, err := normalize.Normalize(p)
	require.NoError(t, err)
	sp, err := schedule.Program(np)
	require.NoError(t, err)
	return sp
}

func TestEmitCounterProducesStateStructAndStep(t *testing.T) {
	src := `
node counter(reset: bool) returns (n: int);
let
  n = 0 fby (if reset then 0 else n + 1);
tel
`
	sp := mustCompile(t, src)
	out, err := Program(sp, Options{Package: "gen"})
	require.NoError(t, err)
	src2 := string(out)

	require.Contains(t, src2, "package gen")
	require.Contains(t, src2, "type State_counter struct")
	require.Contains(t, src2, "func NewState_counter(rt Runtime) *State_counter")
	require.Contains(t, src2, "func (s *State_counter) Step(")
	require.Contains(t, src2, "Reg_n int64")
	require.Contains(t, src2, "Init_n bool")
	require.Contains(t, src2, "ifexpr(")
	require.Contains(t, src2, "type Runtime interface")
}

func TestEmitCallEmitsSubState(t *testing.T) {
	src := `
node inc(a: int) returns (b: int);
let
  b = a + 1;
tel

node twice(a: int) returns (c: int);
let
  c = inc(inc(a));
tel
`
	sp := mustCompile(t, src)
	out, err := Program(sp, Options{Package: "gen"})
	require.NoError(t, err)
	src2 := string(out)

	require.Contains(t, src2, "type State_twice struct")
	require.Contains(t, src2, "State_inc")
	require.Contains(t, src2, ".Step(")
}

func TestEmitEntryProducesRunDriver(t *testing.T) {
	src := `
node inc(a: int) returns (b: int);
let
  b = a + 1;
tel
`
	sp := mustCompile(t, src)
	out, err := Program(sp, Options{Package: "gen", Entry: "inc"})
	require.NoError(t, err)
	src2 := string(out)

	require.Contains(t, src2, "func Run(rt Runtime, ticks int,")
}

func TestSetReservedWidensMangling(t *testing.T) {
	SetReserved([]string{"widget"})
	defer SetReserved(nil)

	require.Equal(t, "widget_", mangleIdent("widget"))
	require.Equal(t, "ordinary", mangleIdent("ordinary"))
}

func TestMangleIdentRenamesRealIdentifierShapedLikeATemp(t *testing.T) {
	require.Equal(t, "tmp1_", mangleIdent("tmp1"))
	require.Equal(t, "tmp42_", mangleIdent("tmp42"))
	require.Equal(t, "tmp1", mangleIdent("$t1"))
	require.NotEqual(t, mangleIdent("tmp1"), mangleIdent("$t1"))
	require.Equal(t, "tmp", mangleIdent("tmp"), "no trailing digits, not temp-shaped")
	require.Equal(t, "tmpx", mangleIdent("tmpx"), "non-digit suffix, not temp-shaped")
}

func TestEmitAvoidsRealTmpIdentifierCollision(t *testing.T) {
	// g(tmp1) appears twice in a scalar-arithmetic position, forcing
	// liftToTemp to allocate a fresh $t1 for the first call's result. The
	// real parameter tmp1 and the fresh temporary $t1 must not both
	// render to the Go identifier "tmp1" in the same Step scope.
	src := `
node g(x: int) returns (y: int);
let
  y = x;
tel

node f(tmp1: int) returns (o: int);
let
  o = g(tmp1) + g(tmp1);
tel
`
	sp := mustCompile(t, src)
	out, err := Program(sp, Options{Package: "gen"})
	require.NoError(t, err)
	src2 := string(out)

	require.Contains(t, src2, "tmp1_ int64", "the real parameter must be mangled away from the temp's name")
	require.Contains(t, src2, "var tmp1 int64", "the fresh temporary keeps the plain rendering")
}

func TestSetFreshPrefixOverridesMangling(t *testing.T) {
	SetFreshPrefix("__aux")
	defer SetFreshPrefix("")

	require.Equal(t, "tmp3", mangleIdent("__aux3"))
	require.Equal(t, "$t3", mangleIdent("$t3"), "the default prefix is no longer special once overridden")
}

func TestEmitUnknownEntryFails(t *testing.T) {
	src := `
node inc(a: int) returns (b: int);
let
  b = a + 1;
tel
`
	sp := mustCompile(t, src)
	_, err := Program(sp, Options{Entry: "does_not_exist"})
	require.Error(t, err)
}
