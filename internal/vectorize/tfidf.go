// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorize converts a corpus of documents into TF-IDF feature
// vectors over a vocabulary frozen at fit time.
//
// Term frequency is the count of a term divided by the number of surviving
// tokens in the document. Inverse document frequency uses the smoothed form
//
//	idf(t) = ln((1+N) / (1+df(t))) + 1
//
// where N is the number of documents and df(t) the number of documents
// containing t.
package vectorize

import (
	"errors"
	"math"
	"sort"

	"github.com/pdiddy/geo-cluster/internal/textproc"
	"github.com/pdiddy/geo-cluster/pkg/types"
)

// ErrInsufficientText is returned when fewer than two documents carry any
// usable term, or the vocabulary is empty. Callers fall back to a single
// cluster.
var ErrInsufficientText = errors.New("vectorize: insufficient text")

// Model is a fitted vectorizer. It is immutable after construction.
type Model struct {
	vocabulary []string
	index      map[string]int
	idf        []float64
	stop       textproc.StopWords
}

// Fit tokenizes docs, builds the sorted vocabulary of surviving terms, and
// computes idf over the whole corpus.
func Fit(docs []types.Document, stop textproc.StopWords) (*Model, error) {
	tokens, nonEmpty := tokenizeAll(docs, stop)

	seen := make(map[string]struct{})
	for _, toks := range tokens {
		for _, t := range toks {
			seen[t] = struct{}{}
		}
	}
	vocab := make([]string, 0, len(seen))
	for t := range seen {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	if nonEmpty < 2 || len(vocab) == 0 {
		return nil, ErrInsufficientText
	}
	return newModel(tokens, vocab, stop), nil
}

// FitVocabulary builds a Model over docs with a caller-supplied vocabulary.
// Terms outside the vocabulary are ignored for idf and for term counts,
// but still count toward document length. Fitting the same corpus with the
// vocabulary of an earlier Fit reproduces that model exactly.
func FitVocabulary(docs []types.Document, vocabulary []string, stop textproc.StopWords) (*Model, error) {
	tokens, nonEmpty := tokenizeAll(docs, stop)

	vocab := append([]string(nil), vocabulary...)
	sort.Strings(vocab)
	vocab = dedupSorted(vocab)

	if nonEmpty < 2 || len(vocab) == 0 {
		return nil, ErrInsufficientText
	}
	return newModel(tokens, vocab, stop), nil
}

func newModel(tokens [][]string, vocab []string, stop textproc.StopWords) *Model {
	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	df := make([]int, len(vocab))
	for _, toks := range tokens {
		counted := make(map[int]struct{})
		for _, t := range toks {
			i, ok := index[t]
			if !ok {
				continue
			}
			if _, done := counted[i]; done {
				continue
			}
			counted[i] = struct{}{}
			df[i]++
		}
	}

	n := float64(len(tokens))
	idf := make([]float64, len(vocab))
	for i := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[i]))) + 1
	}

	return &Model{vocabulary: vocab, index: index, idf: idf, stop: stop}
}

// Vocabulary returns a copy of the sorted vocabulary.
func (m *Model) Vocabulary() []string {
	return append([]string(nil), m.vocabulary...)
}

// Dimension returns the vocabulary size.
func (m *Model) Dimension() int {
	return len(m.vocabulary)
}

// IDF returns the inverse document frequency of term and whether the term
// is in the vocabulary.
func (m *Model) IDF(term string) (float64, bool) {
	i, ok := m.index[term]
	if !ok {
		return 0, false
	}
	return m.idf[i], true
}

// Transform returns one FeatureVector per document. A document with no
// vocabulary terms receives the zero vector.
func (m *Model) Transform(docs []types.Document) []types.FeatureVector {
	out := make([]types.FeatureVector, len(docs))
	for d, doc := range docs {
		out[d] = m.transformTokens(textproc.Tokenize(doc, m.stop))
	}
	return out
}

func (m *Model) transformTokens(tokens []string) types.FeatureVector {
	v := make(types.FeatureVector, len(m.vocabulary))
	if len(tokens) == 0 {
		return v
	}
	for _, t := range tokens {
		if i, ok := m.index[t]; ok {
			v[i]++
		}
	}
	length := float64(len(tokens))
	for i, c := range v {
		if c != 0 {
			v[i] = c / length * m.idf[i]
		}
	}
	return v
}

// tokenizeAll tokenizes every document and counts those with at least one
// surviving token.
func tokenizeAll(docs []types.Document, stop textproc.StopWords) ([][]string, int) {
	tokens := make([][]string, len(docs))
	nonEmpty := 0
	for i, doc := range docs {
		tokens[i] = textproc.Tokenize(doc, stop)
		if len(tokens[i]) > 0 {
			nonEmpty++
		}
	}
	return tokens, nonEmpty
}

func dedupSorted(s []string) []string {
	out := s[:0]
	for i, v := range s {
		if v == "" || (i > 0 && v == s[i-1]) {
			continue
		}
		out = append(out, v)
	}
	return out
}
