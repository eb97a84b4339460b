package schedule

import (
	"strings"
	"testing"

	"github.com/fexolm/lustc/ast"
	"github.com/fexolm/lustc/nast"
	"github.com/fexolm/lustc/normalize"
	"github.com/stretchr/testify/require"
)

func mustScheduleNode(t *testing.T, src, name string) *nast.NNode {
	t.Helper()
	p, err := ast.ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	np, err := normalize.Normalize(p)
	require.NoError(t, err)
	n, ok := np.NodeByName(name)
	require.True(t, ok)
	sn, err := Node(n)
	require.NoError(t, err)
	return sn
}

func indexOf(body []nast.NEquation, name string) int {
	for i, eq := range body {
		for _, p := range eq.Pattern {
			if p == name {
				return i
			}
		}
	}
	return -1
}

func TestScheduleOrdersDefinitionBeforeUse(t *testing.T) {
	src := `
node avg(x: int, y: int) returns (m: int);
var s: int;
let
  s = x + y;
  m = s / 2;
tel
`
	sn := mustScheduleNode(t, src, "avg")
	require.Less(t, indexOf(sn.Body, "s"), indexOf(sn.Body, "m"))
}

func TestScheduleIsStableAcrossReorderedSource(t *testing.T) {
	forward := `
node n(x: int) returns (c: int);
var a: int;
    b: int;
let
  a = x + 1;
  b = a + 1;
  c = b + 1;
tel
`
	backward := `
node n(x: int) returns (c: int);
var a: int;
    b: int;
let
  c = b + 1;
  b = a + 1;
  a = x + 1;
tel
`
	sf := mustScheduleNode(t, forward, "n")
	sb := mustScheduleNode(t, backward, "n")

	orderf := []string{sf.Body[0].Pattern[0], sf.Body[1].Pattern[0], sf.Body[2].Pattern[0]}
	orderb := []string{sb.Body[0].Pattern[0], sb.Body[1].Pattern[0], sb.Body[2].Pattern[0]}
	require.Equal(t, []string{"a", "b", "c"}, orderf)
	require.Equal(t, orderf, orderb, "topological order should not depend on source order once dependencies force it")
}

func TestScheduleAlwaysAdvancesLowestIndexReadyEquation(t *testing.T) {
	// r0 depends on r1; r1 and r2 depend only on the input x. r1 is the
	// lowest-index equation ready in the first pass, and scheduling it
	// makes r0 ready too — at that point r0 (index 0) must be picked over
	// r2 (index 2) even though a same-pass scan would reach r2 next.
	src := `
node three(x: int) returns (r0: int, r1: int, r2: int);
let
  r0 = r1 + 1;
  r1 = x;
  r2 = x + 2;
tel
`
	sn := mustScheduleNode(t, src, "three")
	order := []string{sn.Body[0].Pattern[0], sn.Body[1].Pattern[0], sn.Body[2].Pattern[0]}
	require.Equal(t, []string{"r1", "r0", "r2"}, order)
}

func TestScheduleRejectsDuplicateDefinition(t *testing.T) {
	body := []nast.NEquation{
		{Pattern: []string{"y"}, Rhs: &nast.RAtomic{Expr: &nast.BAtom{Atom: &nast.AtomConst{Value: ast.Const{Type: ast.TInt, Int: 1}}}}},
		{Pattern: []string{"y"}, Rhs: &nast.RAtomic{Expr: &nast.BAtom{Atom: &nast.AtomConst{Value: ast.Const{Type: ast.TInt, Int: 2}}}}},
	}
	n := &nast.NNode{Name: "dup", Outputs: []ast.Param{{Name: "y", Type: ast.TInt}}, Body: body}

	_, err := Node(n)
	require.Error(t, err)
}

func TestScheduleFbyBreaksCycle(t *testing.T) {
	src := `
node counter(reset: bool) returns (n: int);
let
  n = 0 fby (if reset then 0 else n + 1);
tel
`
	// Must not error: the only apparent cycle (n depends on itself through
	// the fby's Next side) is broken because delay reads/writes create no
	// same-tick scheduling edge.
	_ = mustScheduleNode(t, src, "counter")
}

func TestScheduleRejectsGenuineCycle(t *testing.T) {
	src := `
node bad(x: int) returns (y: int);
let
  y = y + 1;
tel
`
	p, err := ast.ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	np, err := normalize.Normalize(p)
	require.NoError(t, err)
	n, ok := np.NodeByName("bad")
	require.True(t, ok)

	_, err = Node(n)
	require.Error(t, err)
}
