// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textproc

import (
	"strings"
	"unicode"

	"github.com/pdiddy/geo-cluster/pkg/types"
)

// Tokenize lower-cases doc, replaces punctuation and symbols with spaces,
// splits on whitespace, and drops stop words. A nil stop-word set keeps
// every token.
func Tokenize(doc types.Document, stop StopWords) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, string(doc))

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if stop.Contains(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
