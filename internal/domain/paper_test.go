package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaperEncodedID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"doi with slash", "10.1000/xyz", "10.1000%2Fxyz"},
		{"synthetic id", "paper-42", "paper-42"},
		{"doi with parens", "10.1016/S0140-6736(20)30183-5", "10.1016%2FS0140-6736%2820%2930183-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paper{ID: tt.id}
			assert.Equal(t, tt.want, p.EncodedID())
		})
	}
}

func TestPaperAuthorLine(t *testing.T) {
	p := Paper{Authors: []string{"John Doe", "Jane Smith"}}
	assert.Equal(t, "John Doe, Jane Smith", p.AuthorLine())

	assert.Equal(t, "", Paper{}.AuthorLine())
}

func TestPaperDOIURL(t *testing.T) {
	assert.Equal(t, "https://doi.org/10.1000/xyz", Paper{DOI: "10.1000/xyz"}.DOIURL())
	assert.Equal(t, "", Paper{}.DOIURL())
}

func TestCitationFormats(t *testing.T) {
	formats := CitationFormats()
	assert.Len(t, formats, 6)

	for _, f := range formats {
		assert.True(t, IsValidCitationFormat(f), "format %s should be valid", f)
	}

	assert.False(t, IsValidCitationFormat("Vancouver"))
	assert.False(t, IsValidCitationFormat(""))
	// Formats are case-sensitive on the wire.
	assert.False(t, IsValidCitationFormat("bibtex"))
}
