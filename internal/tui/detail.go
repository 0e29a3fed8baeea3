package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarsync/scholarsync/internal/domain"
	"github.com/scholarsync/scholarsync/internal/resource"
)

// openPaperDetail shows a paper. Papers carried from search results render
// from the data already in hand, skipping the detail fetch; saved papers are
// re-fetched so the view reflects the stored copy.
func (a *App) openPaperDetail(paper domain.Paper, fromSearch bool) {
	a.screen = screenPaperDetail
	a.currentPaper = paper
	a.fromSearch = fromSearch
	a.formatIdx = 0

	if !fromSearch {
		id := paper.ID
		a.detail.Load(context.Background(), "paper:"+id, func(ctx context.Context) (domain.Paper, error) {
			return a.backend.GetPaper(ctx, id)
		})
	}

	a.loadCitation()
	id := paper.ID
	a.related.Load(context.Background(), "related:"+id, func(ctx context.Context) ([]domain.RelatedPaper, error) {
		return a.backend.Related(ctx, id)
	})
}

func (a *App) currentFormat() domain.CitationFormat {
	formats := domain.CitationFormats()
	return formats[a.formatIdx%len(formats)]
}

func (a *App) loadCitation() {
	id := a.currentPaper.ID
	format := a.currentFormat()
	key := fmt.Sprintf("citation:%s:%s", id, format)
	a.citation.Load(context.Background(), key, func(ctx context.Context) (string, error) {
		return a.backend.Citation(ctx, id, format)
	})
}

// detailPaper is the paper to render: the fetched copy when one loaded, the
// carried copy otherwise.
func (a *App) detailPaper() domain.Paper {
	if !a.fromSearch {
		if st := a.detail.State(); st.Status == resource.StatusSuccess {
			return st.Data
		}
	}
	return a.currentPaper
}

func (a *App) updatePaperDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		a.closePaperDetail()
	case "f", "right":
		a.formatIdx = (a.formatIdx + 1) % len(domain.CitationFormats())
		a.loadCitation()
	case "left":
		n := len(domain.CitationFormats())
		a.formatIdx = (a.formatIdx + n - 1) % n
		a.loadCitation()
	case "c":
		if st := a.citation.State(); st.Status == resource.StatusSuccess {
			text := st.Data
			return a, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(text)}
			}
		}
	case "s":
		a.openSaveModal(a.detailPaper())
	case "d":
		if !a.fromSearch {
			a.openDeletePaperModal(a.detailPaper())
		}
	case "r":
		// Retry whichever section failed.
		if st := a.detail.State(); st.Status == resource.StatusError {
			a.detail.Refresh(context.Background())
		}
		if st := a.citation.State(); st.Status == resource.StatusError {
			a.citation.Refresh(context.Background())
		}
		if st := a.related.State(); st.Status == resource.StatusError {
			a.related.Refresh(context.Background())
		}
	}
	return a, nil
}

func (a *App) closePaperDetail() {
	if a.fromSearch {
		a.screen = screenSearchResults
	} else if a.currentList.ID != 0 {
		a.screen = screenListDetail
	} else {
		a.screen = screenDashboard
	}
}

func (a *App) viewPaperDetail() string {
	// A failed detail fetch is a full-page error state with retry and back.
	if !a.fromSearch {
		if st := a.detail.State(); st.Status == resource.StatusError {
			return titleStyle.Render("Paper") + "\n" +
				errorStyle.Render(st.Err) + "\n" +
				helpStyle.Render("r: retry · esc: back")
		}
	}

	p := a.detailPaper()

	s := titleStyle.Render(p.Title) + "\n"
	s += subtitleStyle.Render(p.AuthorLine()) + "\n"
	meta := p.PublicationDate
	if link := p.DOIURL(); link != "" {
		meta += "  " + link
	}
	s += mutedStyle.Render(meta) + "\n"
	// The PDF is a passthrough link, never fetched by the client.
	s += mutedStyle.Render("PDF: "+a.backend.DownloadURL(p.ID)) + "\n\n"

	if p.Abstract != "" {
		s += labelStyle.Render("Abstract") + "\n"
		s += p.Abstract + "\n\n"
	}

	s += labelStyle.Render("Citation") + "  " + accentStyle.Render(string(a.currentFormat())) + "\n"
	switch st := a.citation.State(); st.Status {
	case resource.StatusLoading, resource.StatusIdle:
		s += mutedStyle.Render(a.spin.View()+" generating...") + "\n"
	case resource.StatusError:
		s += errorStyle.Render(st.Err) + "\n"
	case resource.StatusSuccess:
		s += citationStyle.Render(st.Data) + "\n"
	}
	s += "\n"

	s += labelStyle.Render("Related Papers") + "\n"
	switch st := a.related.State(); st.Status {
	case resource.StatusLoading, resource.StatusIdle:
		s += mutedStyle.Render(a.spin.View()+" finding related work...") + "\n"
	case resource.StatusError:
		s += errorStyle.Render(st.Err) + "\n"
	case resource.StatusSuccess:
		if len(st.Data) == 0 {
			s += mutedStyle.Render("No related papers found.") + "\n"
		}
		for _, rp := range st.Data {
			s += fmt.Sprintf("%s %s\n", accentStyle.Render(fmt.Sprintf("%3d%%", rp.Similarity)), rp.Title)
			s += mutedStyle.Render("     "+rp.Reason) + "\n"
		}
	}

	keys := []string{"f: citation format", "c: copy citation", "s: save"}
	if !a.fromSearch {
		keys = append(keys, "d: delete")
	}
	keys = append(keys, "esc: back")
	s += helpStyle.Render(strings.Join(keys, " · "))
	return s
}
