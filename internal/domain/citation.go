package domain

// CitationFormat identifies one of the citation styles the backend can render.
type CitationFormat string

// Citation formats accepted by the citation endpoint.
const (
	CitationAPA     CitationFormat = "APA"
	CitationMLA     CitationFormat = "MLA"
	CitationChicago CitationFormat = "Chicago"
	CitationHarvard CitationFormat = "Harvard"
	CitationIEEE    CitationFormat = "IEEE"
	CitationBibTeX  CitationFormat = "BibTeX"
)

// CitationFormats returns every supported format in display order.
func CitationFormats() []CitationFormat {
	return []CitationFormat{
		CitationAPA,
		CitationMLA,
		CitationChicago,
		CitationHarvard,
		CitationIEEE,
		CitationBibTeX,
	}
}

// IsValidCitationFormat reports whether f is one of the supported formats.
func IsValidCitationFormat(f CitationFormat) bool {
	switch f {
	case CitationAPA, CitationMLA, CitationChicago, CitationHarvard, CitationIEEE, CitationBibTeX:
		return true
	}
	return false
}
