// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textproc turns dataset records into composite documents and
// documents into tokens.
package textproc

import (
	"strings"

	"github.com/pdiddy/geo-cluster/pkg/types"
)

// fieldSeparator joins record fields. It is whitespace, so it never merges
// the last word of one field with the first word of the next.
const fieldSeparator = " "

// Normalize builds one Document per record, in record order. Fields are
// taken in a fixed order (title, experiment type, summary, organism,
// overall design); empty fields contribute nothing.
func Normalize(records []types.DatasetRecord) []types.Document {
	docs := make([]types.Document, len(records))
	for i, r := range records {
		docs[i] = NormalizeRecord(r)
	}
	return docs
}

// NormalizeRecord builds the Document for a single record.
func NormalizeRecord(r types.DatasetRecord) types.Document {
	fields := []string{r.Title, r.ExperimentType, r.Summary, r.Organism, r.OverallDesign}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		parts = append(parts, f)
	}
	return types.Document(strings.ToLower(strings.Join(parts, fieldSeparator)))
}
