// Package domain contains the view models and error taxonomy shared across the
// ScholarSync client. These types mirror the shapes owned by the backend API;
// nothing in this layer persists them.
package domain

import (
	"net/url"
	"strings"
	"time"
)

// Paper is a research paper as served by the backend. The ID is a DOI where one
// exists, otherwise a synthetic identifier assigned by the backend. DOIs contain
// '/' so the ID must be percent-encoded whenever it appears in a URL path segment.
type Paper struct {
	ID              string   `json:"id"`
	DBID            *int64   `json:"db_id,omitempty"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Abstract        string   `json:"abstract"`
	PublicationDate string   `json:"publication_date"`
	DOI             string   `json:"doi,omitempty"`
}

// EncodedID returns the paper ID percent-encoded for use in a URL path segment.
func (p Paper) EncodedID() string {
	return url.PathEscape(p.ID)
}

// AuthorLine joins the ordered author list for display.
func (p Paper) AuthorLine() string {
	return strings.Join(p.Authors, ", ")
}

// DOIURL returns the public resolver link for the paper's DOI, or "" if the
// paper has none.
func (p Paper) DOIURL() string {
	if p.DOI == "" {
		return ""
	}
	return "https://doi.org/" + p.DOI
}

// ReadingList is a user-defined named collection of saved papers.
type ReadingList struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PaperCount  int       `json:"paper_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// RelatedPaper is one entry of the backend's AI-ranked related-papers panel.
// Similarity is a percentage in [0, 100].
type RelatedPaper struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Similarity int    `json:"similarity"`
	Reason     string `json:"reason"`
}

// User is the authenticated identity delivered by the identity provider's
// session stream.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}
