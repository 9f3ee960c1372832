// Package symbols edits scripting define-symbol lists.
//
// A list is a single semicolon-delimited string per platform group. It is
// handled as an ordered set of tokens so that a symbol which is a substring
// of another is never matched by accident.
package symbols

import (
	"slices"
	"strings"
)

// Sep separates symbols in a list.
const Sep = ";"

// List is an ordered set of define symbols.
type List []string

// Parse splits s into symbols, dropping blanks and duplicates.
func Parse(s string) List {
	var l List
	for _, tok := range strings.Split(s, Sep) {
		tok = strings.TrimSpace(tok)
		if tok == "" || slices.Contains(l, tok) {
			continue
		}
		l = append(l, tok)
	}
	return l
}

// Has reports whether sym is in the list.
func (l List) Has(sym string) bool {
	return slices.Contains(l, sym)
}

// Add appends sym if absent.
func (l List) Add(sym string) List {
	if sym == "" || l.Has(sym) {
		return l
	}
	return append(l, sym)
}

// Remove deletes every occurrence of sym.
func (l List) Remove(sym string) List {
	return slices.DeleteFunc(l, func(s string) bool { return s == sym })
}

func (l List) String() string {
	return strings.Join(l, Sep)
}
