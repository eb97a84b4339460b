package emit

import "golang.org/x/tools/imports"

// formatSource runs the emitted buffer through goimports: it gofmts the
// output and adds the "fmt"/"math" imports the optional main() demo driver
// and Std runtime pull in, so the emitter itself never has to track which
// stdlib packages a given program's constructs happen to need.
func formatSource(src []byte) ([]byte, error) {
	return imports.Process("generated_lustc.go", src, nil)
}
