package devserver

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/scholarsync/scholarsync/internal/domain"
)

// The dev server has no real literature corpus. Search results, related
// papers, and quotes are synthesized deterministically from their inputs so
// client behavior is reproducible across runs.

var quotes = []string{
	"Stay hungry, stay foolish.",
	"If I have seen further it is by standing on the shoulders of giants.",
	"Research is what I'm doing when I don't know what I'm doing.",
	"The important thing is not to stop questioning.",
}

func searchResults(query string) []domain.Paper {
	slug := strings.ToLower(strings.Join(strings.Fields(query), "-"))

	return []domain.Paper{
		{
			ID:              fmt.Sprintf("10.1000/%s.1", slug),
			Title:           fmt.Sprintf("Research Paper on %s", query),
			Authors:         []string{"John Doe", "Jane Smith"},
			Abstract:        fmt.Sprintf("This paper explores concepts related to %s.", query),
			PublicationDate: "2024",
			DOI:             fmt.Sprintf("10.1000/%s.1", slug),
		},
		{
			ID:              fmt.Sprintf("10.1000/%s.2", slug),
			Title:           fmt.Sprintf("A Survey of %s", query),
			Authors:         []string{"Alice Chen", "Bob Martin"},
			Abstract:        fmt.Sprintf("A comprehensive survey of recent advances in %s.", query),
			PublicationDate: "2023",
			DOI:             fmt.Sprintf("10.1000/%s.2", slug),
		},
	}
}

func relatedPapers(paperID string) []domain.RelatedPaper {
	h := fnv.New32a()
	_, _ = h.Write([]byte(paperID))
	base := int(h.Sum32() % 20)

	return []domain.RelatedPaper{
		{
			ID:         paperID + "-related-1",
			Title:      "Adjacent Work in the Same Area",
			Similarity: 75 + base,
			Reason:     "shares methodology and evaluation benchmarks",
		},
		{
			ID:         paperID + "-related-2",
			Title:      "Foundational Prior Work",
			Similarity: 50 + base,
			Reason:     "frequently co-cited with this paper",
		},
	}
}

func randomQuote(counter uint64) string {
	return quotes[counter%uint64(len(quotes))]
}
