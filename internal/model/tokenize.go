package model

import (
	"strings"
	"sync"
	"unicode"

	"github.com/surgebase/porter2"
)

// Terms are lowercased alphanumeric sequences of length >= 2. Identifiers
// are additionally split on camelCase, snake_case, kebab-case, and digit
// boundaries; both the split pieces and the original identifier are
// emitted, matching spec.md §3.
const minTermLength = 2

// splitCache memoizes identifier splits; splitting is the hottest path in
// term-bag construction (every symbol name and every body identifier runs
// through it), so results are cached keyed by the raw identifier.
var splitCache sync.Map // map[string][]string

// SplitIdentifier breaks an identifier into lowercase word pieces on
// camelCase, snake_case, kebab-case, dot, slash, and digit boundaries.
func SplitIdentifier(name string) []string {
	if cached, ok := splitCache.Load(name); ok {
		return cached.([]string)
	}
	pieces := splitIdentifierUncached(name)
	splitCache.Store(name, pieces)
	return pieces
}

func splitIdentifierUncached(name string) []string {
	if name == "" {
		return nil
	}
	runes := []rune(name)
	var pieces []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			pieces = append(pieces, cur.String())
			cur.Reset()
		}
	}

	for i, ch := range runes {
		switch {
		case ch == '_' || ch == '-' || ch == '.' || ch == '/':
			flush()
			continue
		case i > 0 && unicode.IsLower(runes[i-1]) && unicode.IsUpper(ch):
			// camelCase boundary: "fooBar" -> "foo", "Bar"
			flush()
		case i > 1 && unicode.IsUpper(runes[i-1]) && unicode.IsUpper(runes[i-2]) && unicode.IsLower(ch):
			// acronym boundary: "HTTPServer" -> "HTTP", "Server"
			last := []rune(cur.String())
			if len(last) > 0 {
				cur.Reset()
				cur.WriteString(string(last[:len(last)-1]))
				flush()
				cur.WriteRune(last[len(last)-1])
			}
		case i > 0 && isLetterOrDigit(runes[i-1]) && isLetterOrDigit(ch) &&
			((unicode.IsDigit(runes[i-1]) && unicode.IsLetter(ch)) ||
				(unicode.IsLetter(runes[i-1]) && unicode.IsDigit(ch))):
			flush()
		}
		cur.WriteRune(unicode.ToLower(ch))
	}
	flush()
	return pieces
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize lowercases s, splits it into raw whitespace/punctuation-bounded
// words, and for each word emits both the identifier-split pieces and the
// original word — matching the filename/symbol/body tokenization rule in
// spec.md §3 and the query tokenization rule in §4.4. Terms shorter than
// minTermLength are dropped. When stem is true, each emitted term is also
// reduced with Porter2 stemming (gated by config; off by default since
// BM25F in spec.md §4.4 assumes literal terms).
func Tokenize(s string, stem bool) []string {
	var out []string
	for _, word := range splitWords(s) {
		lower := strings.ToLower(word)
		if isTermCandidate(lower) {
			out = append(out, maybeStem(lower, stem))
		}
		for _, piece := range SplitIdentifier(word) {
			if piece != lower && isTermCandidate(piece) {
				out = append(out, maybeStem(piece, stem))
			}
		}
	}
	return out
}

func maybeStem(term string, stem bool) string {
	if !stem || len(term) < 3 {
		return term
	}
	return porter2.Stem(term)
}

func isTermCandidate(s string) bool {
	if len(s) < minTermLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			r != '_' && r != '-' && r != '.' && r != '/'
	})
}

// AddTerms tokenizes text and accumulates frequencies into field.
func AddTerms(field map[string]int, text string, stem bool) {
	for _, term := range Tokenize(text, stem) {
		field[term]++
	}
}
