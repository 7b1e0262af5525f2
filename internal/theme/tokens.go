package theme

import (
	"sort"
	"strings"
)

// TokenSet is a flat design-token map (token name -> CSS value). It is a
// value type: derived once per config snapshot and recomputed rather
// than patched.
type TokenSet map[string]string

// Clone returns an independent copy of the token set.
func (t TokenSet) Clone() TokenSet {
	out := make(TokenSet, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// CSS renders the token set as a CSS custom-property block for the given
// selector. Tokens are emitted in sorted order so the output is
// deterministic for a given set.
func (t TokenSet) CSS(selector string) string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(t[k])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}
