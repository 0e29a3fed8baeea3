package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scholarsync/scholarsync/internal/domain"
)

const maxRequestBodySize = 1 << 20

type searchRequest struct {
	Query     string   `json:"query" validate:"required"`
	Databases []string `json:"databases"`
}

type savePaperRequest struct {
	Paper         domain.Paper `json:"paper" validate:"required"`
	ReadingListID *int64       `json:"reading_list_id"`
}

type createListRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// decodeBody reads and unmarshals a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	return true
}

// paperIDParam extracts and unescapes the paper ID path parameter.
func paperIDParam(r *http.Request) string {
	raw := chi.URLParam(r, "paperID")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeDetail(w, http.StatusBadRequest, "Search query cannot be empty")
		return
	}

	s.metrics.SearchesTotal.Inc()
	s.logger.Debug().Str("query", req.Query).Msg("search executed")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"query":     req.Query,
		"databases": req.Databases,
		"results":   searchResults(req.Query),
	})
}

func (s *Server) listPapersHandler(w http.ResponseWriter, r *http.Request) {
	var listID *int64
	if raw := r.URL.Query().Get("reading_list_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "reading_list_id must be an integer")
			return
		}
		listID = &id
	}

	writeJSON(w, http.StatusOK, map[string]any{"papers": s.store.Papers(listID)})
}

func (s *Server) getPaperHandler(w http.ResponseWriter, r *http.Request) {
	id := paperIDParam(r)
	paper, ok := s.store.Paper(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Paper not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paper": paper})
}

func (s *Server) savePaperHandler(w http.ResponseWriter, r *http.Request) {
	var req savePaperRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Paper.ID == "" || req.Paper.Title == "" {
		writeDetail(w, http.StatusBadRequest, "paper id and title are required")
		return
	}
	if req.ReadingListID != nil {
		if _, ok := s.store.List(*req.ReadingListID); !ok {
			writeDetail(w, http.StatusNotFound, "Reading list not found")
			return
		}
	}

	saved := s.store.SavePaper(req.Paper, req.ReadingListID)
	s.metrics.PapersSaved.Inc()
	s.logger.Info().Str("paper_id", saved.ID).Msg("paper saved")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"paper":           saved,
		"reading_list_id": req.ReadingListID,
	})
}

func (s *Server) deletePaperHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("paper_id")
	if id == "" {
		writeDetail(w, http.StatusBadRequest, "paper_id is required")
		return
	}

	if !s.store.DeletePaper(id) {
		writeDetail(w, http.StatusNotFound, "Paper not found")
		return
	}
	s.metrics.PapersDeleted.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	id := paperIDParam(r)
	if _, ok := s.store.Paper(id); !ok {
		writeDetail(w, http.StatusNotFound, "Paper not found")
		return
	}
	// No real PDFs to serve in development.
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("%PDF-1.4\n% dev server placeholder\n"))
}

func (s *Server) citationHandler(w http.ResponseWriter, r *http.Request) {
	id := paperIDParam(r)
	format := domain.CitationFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = domain.CitationAPA
	}

	paper, ok := s.store.Paper(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Paper not found")
		return
	}

	citation, ok := formatCitation(paper, format)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "Unsupported citation format: " + string(format),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "citation": citation})
}

func (s *Server) relatedHandler(w http.ResponseWriter, r *http.Request) {
	id := paperIDParam(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"related": relatedPapers(id),
	})
}

func (s *Server) listReadingListsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"lists": s.store.Lists()})
}

func (s *Server) createReadingListHandler(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil || req.Name == "" {
		writeDetail(w, http.StatusBadRequest, "List name is required")
		return
	}

	list := s.store.CreateList(req.Name, req.Description)
	s.metrics.ListsCreated.Inc()
	s.logger.Info().Int64("list_id", list.ID).Str("name", list.Name).Msg("reading list created")

	writeJSON(w, http.StatusCreated, list)
}

func listIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "listID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "list id must be an integer")
		return 0, false
	}
	return id, true
}

func (s *Server) getReadingListHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := listIDParam(w, r)
	if !ok {
		return
	}
	list, ok := s.store.List(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Reading list not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) deleteReadingListHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := listIDParam(w, r)
	if !ok {
		return
	}
	if !s.store.DeleteList(id) {
		writeDetail(w, http.StatusNotFound, "Reading list not found")
		return
	}
	s.metrics.ListsDeleted.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
