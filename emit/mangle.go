package emit

import "strings"

// goKeywords are Go's reserved words; a source identifier colliding with
// one gets a fixed suffix appended, per spec.md §4.3's name-mangling rule.
// Predeclared identifiers (len, true, int, ...) are deliberately excluded:
// Go allows shadowing them, so mangling them would just be noise.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// freshPrefix mirrors normalize.freshPrefix: temporaries the normalizer
// introduces are named "$t<n>" using a character the source grammar can
// never produce. '$' is not a legal Go identifier character either, so
// mangleIdent rewrites it to a plain "tmp<n>" local name.
var freshPrefix = "$t"

// SetFreshPrefix keeps mangleIdent's temporary-detection in sync with
// whatever prefix normalize.SetFreshPrefix configured; an empty prefix
// restores "$t". The two packages don't import each other, so the driver
// (cmd/lustc) is responsible for calling both.
func SetFreshPrefix(prefix string) {
	if prefix == "" {
		prefix = "$t"
	}
	freshPrefix = prefix
}

// extraReserved holds config.Config.Reserved words, set by the driver
// before emitting so a caller embedding generated code into a larger tree
// with its own naming conventions can widen what gets mangled beyond Go's
// own keyword list.
var extraReserved = map[string]bool{}

// SetReserved replaces the extra reserved-word set (see extraReserved).
func SetReserved(words []string) {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	extraReserved = m
}

// mangleIdent renders a normalized-AST name as a valid, collision-free Go
// identifier.
func mangleIdent(name string) string {
	if strings.HasPrefix(name, freshPrefix) {
		return "tmp" + name[len(freshPrefix):]
	}
	if goKeywords[name] || extraReserved[name] || isTempShaped(name) {
		return name + "_"
	}
	return name
}

// isTempShaped reports whether name already has the exact shape mangleIdent
// renders a fresh temporary into ("tmp" followed by one or more digits).
// Source identifiers are letters/digits/underscore just like Go's, so a
// real variable can legally be spelled "tmp1" — without this check it would
// pass through unmangled and collide with the Go name a fresh normalizer
// temporary named "$t1" also renders to.
func isTempShaped(name string) bool {
	digits := strings.TrimPrefix(name, "tmp")
	if digits == "" || digits == name {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}
