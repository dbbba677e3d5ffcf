// Package search finds catalog settings by fuzzy-matching a query against
// setting keys and descriptions.
package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/andronet-dev/andronet/internal/catalog"
)

// Match pairs a descriptor with the match positions inside Text.
type Match struct {
	Descriptor     catalog.Descriptor
	Score          int
	MatchedIndexes []int
}

// Text is the string queries run against, and the one MatchedIndexes
// points into.
func Text(d catalog.Descriptor) string {
	return d.Key + "  " + d.Description
}

type catalogSource []catalog.Descriptor

func (s catalogSource) String(i int) string { return Text(s[i]) }
func (s catalogSource) Len() int            { return len(s) }

// Catalog ranks every setting against the query, best match first. An empty
// query matches nothing.
func Catalog(cat *catalog.Catalog, query string) []Match {
	settings := cat.Settings()
	results := fuzzy.FindFrom(query, catalogSource(settings))

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			Descriptor:     settings[r.Index],
			Score:          r.Score,
			MatchedIndexes: r.MatchedIndexes,
		})
	}
	return matches
}
