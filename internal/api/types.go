package api

import (
	"github.com/scholarsync/scholarsync/internal/domain"
)

// Request and response payloads for the backend JSON API. Error bodies carry a
// "detail" field in the FastAPI style; success envelopes for the citation and
// related endpoints carry an explicit success flag.

type searchRequest struct {
	Query     string   `json:"query"`
	Databases []string `json:"databases"`
}

type searchResponse struct {
	Success   bool           `json:"success"`
	Query     string         `json:"query"`
	Databases []string       `json:"databases"`
	Results   []domain.Paper `json:"results"`
}

type papersResponse struct {
	Papers []domain.Paper `json:"papers"`
}

type paperEnvelope struct {
	Paper domain.Paper `json:"paper"`
}

// savePaperRequest intentionally serializes a nil ReadingListID as an explicit
// null, matching the backend contract for "general collection".
type savePaperRequest struct {
	Paper         domain.Paper `json:"paper"`
	ReadingListID *int64       `json:"reading_list_id"`
}

type citationResponse struct {
	Success  bool   `json:"success"`
	Citation string `json:"citation"`
	Error    string `json:"error,omitempty"`
}

type relatedResponse struct {
	Success bool                  `json:"success"`
	Related []domain.RelatedPaper `json:"related"`
	Error   string                `json:"error,omitempty"`
}

type readingListsResponse struct {
	Lists []domain.ReadingList `json:"lists"`
}

type createListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type quoteResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Quote string `json:"quote"`
	} `json:"data"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
