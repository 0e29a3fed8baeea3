package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarsync/scholarsync/internal/domain"
	"github.com/scholarsync/scholarsync/internal/observability"
	"github.com/scholarsync/scholarsync/internal/resource"
)

func (a *App) loadSavedPapers() {
	a.saved.Load(context.Background(), "papers:all", func(ctx context.Context) ([]domain.Paper, error) {
		return a.backend.ListPapers(ctx, nil)
	})
}

// startSearch issues a search for the query. A blank query never leaves the
// client; the inline error mirrors the backend's wording.
func (a *App) startSearch(query string) {
	if strings.TrimSpace(query) == "" {
		a.searchErr = "Search query cannot be empty"
		return
	}
	a.searchErr = ""
	a.lastQuery = query
	a.resultSel = 0
	a.screen = screenSearchResults
	logger := observability.WithScreenContext(a.logger, "search-results")
	logger.Debug().Str("query", query).Msg("search started")

	databases := a.cfg.UI.SearchDatabases
	a.results.Load(context.Background(), "search:"+query, func(ctx context.Context) ([]domain.Paper, error) {
		return a.backend.Search(ctx, query, databases)
	})
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.searchFocused {
		switch key {
		case "enter":
			a.startSearch(a.searchInput.Value())
			return a, nil
		case "tab", "down":
			if papers, ok := a.savedPapers(); ok && len(papers) > 0 {
				a.searchFocused = false
				a.searchInput.Blur()
			}
			return a, nil
		case "esc":
			a.searchInput.SetValue("")
			a.searchErr = ""
			return a, nil
		}
		// Digit keys pick a suggested topic while the search bar is focused
		// and empty.
		if a.searchInput.Value() == "" {
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(a.cfg.UI.SuggestedTopics) {
				a.startSearch(a.cfg.UI.SuggestedTopics[n-1])
				return a, nil
			}
		}

		var cmd tea.Cmd
		before := a.searchInput.Value()
		a.searchInput, cmd = a.searchInput.Update(msg)
		if a.searchInput.Value() != before {
			a.searchErr = ""
		}
		return a, cmd
	}

	papers, _ := a.savedPapers()
	switch key {
	case "tab", "/":
		a.searchFocused = true
		a.searchInput.Focus()
	case "up", "k":
		if a.savedSel > 0 {
			a.savedSel--
		} else {
			a.searchFocused = true
			a.searchInput.Focus()
		}
	case "down", "j":
		if a.savedSel < len(papers)-1 {
			a.savedSel++
		}
	case "enter":
		if a.savedSel < len(papers) {
			a.openPaperDetail(papers[a.savedSel], false)
		}
	case "d":
		// Saved collection cards offer delete; raw search results never do.
		if a.savedSel < len(papers) {
			a.openDeletePaperModal(papers[a.savedSel])
		}
	case "g":
		a.listSel = 0
		a.screen = screenReadingLists
		a.loadReadingLists()
	case "r":
		a.saved.Refresh(context.Background())
	case "o":
		a.authBusy = true
		return a, a.authCmd(authSignOut, "", "")
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

// savedPapers returns the saved collection when it has loaded.
func (a *App) savedPapers() ([]domain.Paper, bool) {
	st := a.saved.State()
	if st.Status != resource.StatusSuccess {
		return nil, false
	}
	return st.Data, true
}

func (a *App) viewDashboard() string {
	s := titleStyle.Render("Dashboard") + "\n"
	if u := a.session.Current(); u != nil {
		s += subtitleStyle.Render("Signed in as "+u.Email) + "\n"
	}
	s += "\n" + a.searchInput.View() + "\n"
	if a.searchErr != "" {
		s += fieldErrorStyle.Render(a.searchErr) + "\n"
	}

	if a.searchInput.Value() == "" && a.searchFocused {
		s += mutedStyle.Render("Try: ")
		for i, topic := range a.cfg.UI.SuggestedTopics {
			if i > 0 {
				s += mutedStyle.Render(" · ")
			}
			s += accentStyle.Render(fmt.Sprintf("%d %s", i+1, topic))
		}
		s += "\n"
	}

	s += "\n" + labelStyle.Render("Saved Papers") + "\n"
	s += a.viewPaperList(a.saved, a.savedSel, !a.searchFocused, "No saved papers yet. Search to find some.")

	s += helpStyle.Render("enter: open/search · d: delete · g: reading lists · r: refresh · o: sign out · q: quit")
	return s
}

func (a *App) updateSearchResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := a.results.State()

	switch msg.String() {
	case "esc", "b":
		a.screen = screenDashboard
		a.searchFocused = true
		a.searchInput.Focus()
	case "up", "k":
		if a.resultSel > 0 {
			a.resultSel--
		}
	case "down", "j":
		if st.Status == resource.StatusSuccess && a.resultSel < len(st.Data)-1 {
			a.resultSel++
		}
	case "enter":
		if st.Status == resource.StatusSuccess && a.resultSel < len(st.Data) {
			a.openPaperDetail(st.Data[a.resultSel], true)
		}
	case "s":
		if st.Status == resource.StatusSuccess && a.resultSel < len(st.Data) {
			a.openSaveModal(st.Data[a.resultSel])
		}
	case "r":
		if st.Status == resource.StatusError {
			a.results.Refresh(context.Background())
		}
	}
	return a, nil
}

func (a *App) viewSearchResults() string {
	s := titleStyle.Render("Search Results") + "\n"
	s += subtitleStyle.Render("for “"+a.lastQuery+"”") + "\n\n"

	s += a.viewPaperList(a.results, a.resultSel, true, "No papers matched your search.")
	s += helpStyle.Render("enter: open · s: save · r: retry · esc: back")
	return s
}

// viewPaperList renders a fetcher of papers as selectable cards.
func (a *App) viewPaperList(f *resource.Fetcher[[]domain.Paper], sel int, focused bool, empty string) string {
	st := f.State()

	switch st.Status {
	case resource.StatusIdle, resource.StatusLoading:
		return mutedStyle.Render(a.spin.View()+" loading...") + "\n\n"
	case resource.StatusError:
		return errorStyle.Render(st.Err) + "\n\n"
	}

	if len(st.Data) == 0 {
		return mutedStyle.Render(empty) + "\n\n"
	}

	var b strings.Builder
	for i, p := range st.Data {
		card := labelStyle.Render(p.Title) + "\n" +
			mutedStyle.Render(p.AuthorLine()) + "\n" +
			mutedStyle.Render(p.PublicationDate)
		if focused && i == sel {
			b.WriteString(selectedCardStyle.Render(card))
		} else {
			b.WriteString(cardStyle.Render(card))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
