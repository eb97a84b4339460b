package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticErrorFormatsWithAndWithoutNode(t *testing.T) {
	d := New(PassSchedule, "counter", "cyclic dependency among equations defining: %s", "n")
	require.Equal(t, "schedule: counter: cyclic dependency among equations defining: n", d.Error())

	d2 := New(PassParse, "", "unexpected token %q", "+")
	require.Equal(t, `parse: unexpected token "+"`, d2.Error())
}

func TestDiagnosticWrapUnwraps(t *testing.T) {
	inner := errors.New("boom")
	d := Wrap(PassEmit, "n", inner)
	require.ErrorIs(t, d, inner)
}
