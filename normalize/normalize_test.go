package normalize

import (
	"strings"
	"testing"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/nast"
	"github.com/stretchr/testify/require"
)

func mustNormalize(t *testing.T, src string) *nast.NProgram {
	t.Helper()
	p, err := ast.ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	np, err := Normalize(p)
	require.NoError(t, err)
	return np
}

func TestNormalizeCounterLiftsIfIntoAuxEquation(t *testing.T) {
	src := `
node counter(reset: bool) returns (n: int);
let
  n = 0 fby (if reset then 0 else n + 1);
tel
`
	np := mustNormalize(t, src)
	n, ok := np.NodeByName("counter")
	require.True(t, ok)

	// One equation for the fby itself, plus at least one lifted auxiliary.
	require.GreaterOrEqual(t, len(n.Body), 2)

	var sawDelay bool
	for _, eq := range n.Body {
		if _, ok := eq.Rhs.(*nast.RDelay); ok {
			require.Equal(t, []string{"n"}, eq.Pattern)
			sawDelay = true
		}
		// Every RHS is one of exactly three shapes.
		switch eq.Rhs.(type) {
		case *nast.RAtomic, *nast.RDelay, *nast.RCall:
		default:
			t.Fatalf("equation %v has unexpected RHS type %T", eq.Pattern, eq.Rhs)
		}
	}
	require.True(t, sawDelay, "expected a delay equation for n")
}

func TestNormalizePreservesNodeInterface(t *testing.T) {
	src := `
node pair(a: int, b: int) returns (s: int, p: int);
let
  s = a + b;
  p = a * b;
tel
`
	np := mustNormalize(t, src)
	n, ok := np.NodeByName("pair")
	require.True(t, ok)
	require.Equal(t, 2, n.InputArity())
	require.Equal(t, 2, n.OutputArity())
	require.Len(t, n.Body, 2)
	for _, eq := range n.Body {
		_, ok := eq.Rhs.(*nast.RAtomic)
		require.True(t, ok, "expected purely atomic equations, got %T", eq.Rhs)
	}
}

func TestNormalizeRejectsMismatchedTuplePattern(t *testing.T) {
	src := `
node bad(a: int) returns (x: int, y: int);
let
  (x, y) = (a, a, a);
tel
`
	p, err := ast.ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	_, err = Normalize(p)
	require.Error(t, err)
}

func TestNormalizeCallToUndeclaredNodeFails(t *testing.T) {
	src := `
node caller(a: int) returns (b: int);
let
  b = ghost(a);
tel
`
	p, err := ast.ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	_, err = Normalize(p)
	require.Error(t, err)
}

func TestNormalizeCallSplitsIntoOwnEquation(t *testing.T) {
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
	np := mustNormalize(t, src)
	twice, ok := np.NodeByName("twice")
	require.True(t, ok)

	var calls int
	for _, eq := range twice.Body {
		if _, ok := eq.Rhs.(*nast.RCall); ok {
			calls++
		}
	}
	require.Equal(t, 2, calls, "expected each inc(...) call lifted to its own equation")
}

func TestNormalizeTupleFbyPerComponent(t *testing.T) {
	src := `
node pairdelay(a: int, b: int) returns (x: int, y: int);
let
  (x, y) = (0, 0) fby (a, b);
tel
`
	np := mustNormalize(t, src)
	n, ok := np.NodeByName("pairdelay")
	require.True(t, ok)

	var delays int
	for _, eq := range n.Body {
		if _, ok := eq.Rhs.(*nast.RDelay); ok {
			delays++
		}
	}
	require.Equal(t, 2, delays, "expected one delay equation per tuple component")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	src := `
node counter(reset: bool) returns (n: int);
let
  n = 0 fby (if reset then 0 else n + 1);
tel
`
	first := mustNormalize(t, src)
	firstNode, ok := first.NodeByName("counter")
	require.True(t, ok)

	second, err := Normalize(nast.ToAST(first))
	require.NoError(t, err)
	secondNode, ok := second.NodeByName("counter")
	require.True(t, ok)

	require.Equal(t, firstNode.Locals, secondNode.Locals, "renormalizing an already-flat program introduces no new fresh temporaries")
	require.Equal(t, firstNode.Body, secondNode.Body, "renormalizing an already-normalized program is a no-op")
}

func TestSetFreshPrefixOverridesTemporaryNaming(t *testing.T) {
	SetFreshPrefix("__aux")
	defer SetFreshPrefix("")

	src := `
node counter(reset: bool) returns (n: int);
let
  n = 0 fby (if reset then 0 else n + 1);
tel
`
	np := mustNormalize(t, src)
	n, ok := np.NodeByName("counter")
	require.True(t, ok)

	var sawConfigured bool
	for _, p := range n.Locals {
		if strings.HasPrefix(p.Name, "__aux") {
			sawConfigured = true
		}
		require.False(t, strings.HasPrefix(p.Name, "$t"), "the built-in prefix should not appear once overridden")
	}
	require.True(t, sawConfigured)
}

func TestNormalizeRejectsFbyTypeMismatch(t *testing.T) {
	src := `
node bad(x: float) returns (y: int);
let
  y = 0 fby x;
tel
`
	p, err := ast.ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	_, err = Normalize(p)
	require.Error(t, err)
}
