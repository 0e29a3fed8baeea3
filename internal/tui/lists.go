package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarsync/scholarsync/internal/domain"
	"github.com/scholarsync/scholarsync/internal/resource"
)

func (a *App) loadReadingLists() {
	a.lists.Load(context.Background(), "lists:all", func(ctx context.Context) ([]domain.ReadingList, error) {
		return a.backend.ListReadingLists(ctx)
	})
}

func (a *App) openListDetail(list domain.ReadingList) {
	a.screen = screenListDetail
	a.currentList = list
	a.listPaperSel = 0

	id := list.ID
	a.listPapers.Load(context.Background(), fmt.Sprintf("papers:list:%d", id), func(ctx context.Context) ([]domain.Paper, error) {
		return a.backend.ListPapers(ctx, &id)
	})
}

func (a *App) updateReadingLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := a.lists.State()

	switch msg.String() {
	case "esc", "b":
		a.screen = screenDashboard
		a.searchFocused = true
		a.searchInput.Focus()
	case "up", "k":
		if a.listSel > 0 {
			a.listSel--
		}
	case "down", "j":
		if st.Status == resource.StatusSuccess && a.listSel < len(st.Data)-1 {
			a.listSel++
		}
	case "enter":
		if st.Status == resource.StatusSuccess && a.listSel < len(st.Data) {
			a.openListDetail(st.Data[a.listSel])
		}
	case "n":
		a.openCreateListModal()
	case "d":
		if st.Status == resource.StatusSuccess && a.listSel < len(st.Data) {
			a.openDeleteListModal(st.Data[a.listSel])
		}
	case "r":
		a.lists.Refresh(context.Background())
	}
	return a, nil
}

func (a *App) viewReadingLists() string {
	s := titleStyle.Render("Reading Lists") + "\n\n"

	switch st := a.lists.State(); st.Status {
	case resource.StatusIdle, resource.StatusLoading:
		s += mutedStyle.Render(a.spin.View()+" loading...") + "\n"
	case resource.StatusError:
		s += errorStyle.Render(st.Err) + "\n"
	case resource.StatusSuccess:
		if len(st.Data) == 0 {
			s += mutedStyle.Render("No reading lists yet. Press n to create one.") + "\n"
		}
		for i, list := range st.Data {
			card := labelStyle.Render(list.Name) + "\n"
			if list.Description != "" {
				card += mutedStyle.Render(list.Description) + "\n"
			}
			card += mutedStyle.Render(fmt.Sprintf("%d papers", list.PaperCount))
			if i == a.listSel {
				s += selectedCardStyle.Render(card) + "\n"
			} else {
				s += cardStyle.Render(card) + "\n"
			}
		}
	}

	s += helpStyle.Render("enter: open · n: new list · d: delete · r: refresh · esc: back")
	return s
}

func (a *App) updateListDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := a.listPapers.State()

	switch msg.String() {
	case "esc", "b":
		a.currentList = domain.ReadingList{}
		a.screen = screenReadingLists
	case "up", "k":
		if a.listPaperSel > 0 {
			a.listPaperSel--
		}
	case "down", "j":
		if st.Status == resource.StatusSuccess && a.listPaperSel < len(st.Data)-1 {
			a.listPaperSel++
		}
	case "enter":
		if st.Status == resource.StatusSuccess && a.listPaperSel < len(st.Data) {
			a.openPaperDetail(st.Data[a.listPaperSel], false)
		}
	case "d":
		if st.Status == resource.StatusSuccess && a.listPaperSel < len(st.Data) {
			a.openDeletePaperModal(st.Data[a.listPaperSel])
		}
	case "r":
		a.listPapers.Refresh(context.Background())
	}
	return a, nil
}

func (a *App) viewListDetail() string {
	s := titleStyle.Render(a.currentList.Name) + "\n"
	if a.currentList.Description != "" {
		s += subtitleStyle.Render(a.currentList.Description) + "\n"
	}
	s += "\n"

	s += a.viewPaperList(a.listPapers, a.listPaperSel, true, "This list is empty.")
	s += helpStyle.Render("enter: open · d: delete paper · r: refresh · esc: back")
	return s
}
