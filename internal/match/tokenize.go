package match

import (
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches runs of two or more word characters (letters,
// combining marks, decimal digits, underscore), the usual count-vectorizer
// default. Single characters are dropped. The count vectoriser tokenises with
// the same pattern.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{Nd}_]{2,}`)

// Tokenize lowercases text and returns its word tokens in order.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// SharedTerms returns the sorted set of tokens that occur in both texts, i.e.
// the nonzero entries common to their count vectors.
func SharedTerms(doc, vocab string) []string {
	return sharedTokens(Tokenize(doc), tokenSet(Tokenize(vocab)))
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func sharedTokens(docTokens []string, vocab map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var shared []string
	for _, tok := range docTokens {
		if _, ok := vocab[tok]; !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		shared = append(shared, tok)
	}
	sort.Strings(shared)
	return shared
}
