// Package diag defines the single diagnostic type every compiler pass
// reports through, per spec.md §7: a fatal error naming the pass, the node,
// and a human-readable descriptor of the offending construct.
package diag

import "fmt"

// Pass identifies which compilation stage produced a Diagnostic.
type Pass string

const (
	PassParse     Pass = "parse"
	PassNormalize Pass = "normalize"
	PassSchedule  Pass = "schedule"
	PassEmit      Pass = "emit"
	PassInterp    Pass = "interp"
)

// Diagnostic is a fatal compilation error. The driver prints exactly one of
// these and exits nonzero; there is no recovery policy (spec.md §7).
type Diagnostic struct {
	Pass   Pass
	Node   string
	Detail string
	// Err, if set, is the underlying error this Diagnostic wraps.
	Err error
}

func (d *Diagnostic) Error() string {
	if d.Node == "" {
		return fmt.Sprintf("%s: %s", d.Pass, d.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pass, d.Node, d.Detail)
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// New builds a Diagnostic with a formatted detail message.
func New(pass Pass, node, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Pass: pass, Node: node, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds a Diagnostic around an existing error.
func Wrap(pass Pass, node string, err error) *Diagnostic {
	return &Diagnostic{Pass: pass, Node: node, Detail: err.Error(), Err: err}
}
