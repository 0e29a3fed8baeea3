package devserver

import (
	"fmt"
	"strings"

	"github.com/scholarsync/scholarsync/internal/domain"
)

// formatCitation renders a citation for the paper in the requested format.
// The formats match the set the client offers; the rendering is deliberately
// simple — this backend exists for development, not bibliography management.
func formatCitation(paper domain.Paper, format domain.CitationFormat) (string, bool) {
	authors := paper.AuthorLine()
	if authors == "" {
		authors = "Unknown"
	}
	year := paper.PublicationDate
	if year == "" {
		year = "n.d."
	}

	switch format {
	case domain.CitationAPA:
		return fmt.Sprintf("%s (%s). %s.%s", authors, year, paper.Title, doiSuffix(paper, " https://doi.org/%s")), true
	case domain.CitationMLA:
		return fmt.Sprintf("%s. %q %s.%s", authors, paper.Title, year, doiSuffix(paper, " doi:%s.")), true
	case domain.CitationChicago:
		return fmt.Sprintf("%s. %q (%s).%s", authors, paper.Title, year, doiSuffix(paper, " https://doi.org/%s.")), true
	case domain.CitationHarvard:
		return fmt.Sprintf("%s, %s. %s.%s", authors, year, paper.Title, doiSuffix(paper, " Available at: https://doi.org/%s.")), true
	case domain.CitationIEEE:
		return fmt.Sprintf("%s, %q %s.%s", authors, paper.Title+",", year, doiSuffix(paper, " doi: %s.")), true
	case domain.CitationBibTeX:
		return formatBibTeX(paper, year), true
	default:
		return "", false
	}
}

func doiSuffix(paper domain.Paper, layout string) string {
	if paper.DOI == "" {
		return ""
	}
	return fmt.Sprintf(layout, paper.DOI)
}

func formatBibTeX(paper domain.Paper, year string) string {
	key := bibtexKey(paper, year)

	var b strings.Builder
	fmt.Fprintf(&b, "@article{%s,\n", key)
	fmt.Fprintf(&b, "  title = {%s},\n", paper.Title)
	fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(paper.Authors, " and "))
	fmt.Fprintf(&b, "  year = {%s}", year)
	if paper.DOI != "" {
		fmt.Fprintf(&b, ",\n  doi = {%s}", paper.DOI)
	}
	b.WriteString("\n}")
	return b.String()
}

// bibtexKey derives a citation key from the first author's surname and year.
func bibtexKey(paper domain.Paper, year string) string {
	surname := "unknown"
	if len(paper.Authors) > 0 {
		parts := strings.Fields(paper.Authors[0])
		if len(parts) > 0 {
			surname = strings.ToLower(parts[len(parts)-1])
		}
	}
	return surname + year
}
