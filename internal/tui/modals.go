package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarsync/scholarsync/internal/domain"
	"github.com/scholarsync/scholarsync/internal/forms"
	"github.com/scholarsync/scholarsync/internal/resource"
)

func (a *App) openSaveModal(paper domain.Paper) {
	a.modal = modalSavePaper
	a.modalBusy = false
	a.modalErr = ""
	a.modalSel = 0
	a.pendingSave = paper
	a.loadReadingLists()
}

func (a *App) openCreateListModal() {
	a.modal = modalCreateList
	a.modalBusy = false
	a.modalErr = ""
	a.modalFocus = 0
	a.listForm.Reset()
	a.nameInput.SetValue("")
	a.descInput.SetValue("")
	a.nameInput.Focus()
	a.descInput.Blur()
}

func (a *App) openDeletePaperModal(paper domain.Paper) {
	a.modal = modalConfirmDeletePaper
	a.modalBusy = false
	a.modalErr = ""
	a.deletePaperID = paper.ID
}

func (a *App) openDeleteListModal(list domain.ReadingList) {
	a.modal = modalConfirmDeleteList
	a.modalBusy = false
	a.modalErr = ""
	a.deleteListID = list.ID
	a.deleteListName = list.Name
}

func (a *App) closeModal() {
	a.modal = modalNone
	a.modalBusy = false
	a.modalErr = ""
}

func (a *App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modalBusy {
		return a, nil
	}

	switch a.modal {
	case modalSavePaper:
		return a.updateSaveModal(msg)
	case modalCreateList:
		return a.updateCreateListModal(msg)
	case modalConfirmDeletePaper:
		switch msg.String() {
		case "y", "enter":
			a.modalBusy = true
			return a, a.deletePaperCmd(a.deletePaperID)
		case "n", "esc":
			// Cancel issues no request.
			a.closeModal()
		}
	case modalConfirmDeleteList:
		switch msg.String() {
		case "y", "enter":
			a.modalBusy = true
			return a, a.deleteListCmd(a.deleteListID)
		case "n", "esc":
			a.closeModal()
		}
	}
	return a, nil
}

func (a *App) updateSaveModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := a.lists.State()
	// Option 0 is the general collection; lists follow.
	optionCount := 1
	if st.Status == resource.StatusSuccess {
		optionCount += len(st.Data)
	}

	switch msg.String() {
	case "esc":
		a.closeModal()
	case "up", "k":
		if a.modalSel > 0 {
			a.modalSel--
		}
	case "down", "j":
		if a.modalSel < optionCount-1 {
			a.modalSel++
		}
	case "enter":
		var listID *int64
		if a.modalSel > 0 && st.Status == resource.StatusSuccess {
			id := st.Data[a.modalSel-1].ID
			listID = &id
		}
		a.modalBusy = true
		a.modalErr = ""
		return a, a.savePaperCmd(a.pendingSave, listID)
	}
	return a, nil
}

func (a *App) updateCreateListModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeModal()
		return a, nil
	case "tab", "shift+tab":
		a.modalFocus = 1 - a.modalFocus
		if a.modalFocus == 0 {
			a.nameInput.Focus()
			a.descInput.Blur()
		} else {
			a.descInput.Focus()
			a.nameInput.Blur()
		}
		return a, nil
	case "enter":
		a.listForm.Set(forms.FieldName, a.nameInput.Value())
		if !a.listForm.Validate() {
			return a, nil
		}
		a.modalBusy = true
		a.modalErr = ""
		return a, a.createListCmd(a.nameInput.Value(), a.descInput.Value())
	}

	var cmd tea.Cmd
	if a.modalFocus == 0 {
		before := a.nameInput.Value()
		a.nameInput, cmd = a.nameInput.Update(msg)
		if a.nameInput.Value() != before {
			a.listForm.Set(forms.FieldName, a.nameInput.Value())
		}
	} else {
		a.descInput, cmd = a.descInput.Update(msg)
	}
	return a, cmd
}

// Mutation commands. All writes go through the dispatcher so the refresh
// signal fires in one place.

func (a *App) savePaperCmd(paper domain.Paper, listID *int64) tea.Cmd {
	return func() tea.Msg {
		err := a.dispatch.SavePaper(context.Background(), paper, listID)
		return mutationResultMsg{op: opSavePaper, err: err}
	}
}

func (a *App) deletePaperCmd(id string) tea.Cmd {
	return func() tea.Msg {
		err := a.dispatch.DeletePaper(context.Background(), id)
		return mutationResultMsg{op: opDeletePaper, err: err}
	}
}

func (a *App) createListCmd(name, description string) tea.Cmd {
	return func() tea.Msg {
		list, err := a.dispatch.CreateList(context.Background(), name, description)
		return mutationResultMsg{op: opCreateList, err: err, list: list}
	}
}

func (a *App) deleteListCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := a.dispatch.DeleteList(context.Background(), id)
		return mutationResultMsg{op: opDeleteList, err: err}
	}
}

func (a *App) handleMutationResult(msg mutationResultMsg) (tea.Model, tea.Cmd) {
	a.modalBusy = false

	if msg.err != nil {
		switch msg.op {
		case opSavePaper:
			a.modalErr = domain.UserMessage(msg.err, "Failed to save paper")
		case opCreateList:
			a.modalErr = domain.UserMessage(msg.err, "Failed to create list")
		case opDeletePaper:
			a.closeModal()
			a.inlineErr = domain.UserMessage(msg.err, "Failed to delete paper")
		case opDeleteList:
			a.closeModal()
			a.inlineErr = domain.UserMessage(msg.err, "Failed to delete list")
		}
		return a, nil
	}

	a.closeModal()
	switch msg.op {
	case opSavePaper:
		return a, a.showToast("Paper saved")
	case opDeletePaper:
		if a.screen == screenPaperDetail {
			a.closePaperDetail()
		}
		return a, a.showToast("Paper deleted")
	case opCreateList:
		return a, a.showToast(fmt.Sprintf("List %q created", msg.list.Name))
	case opDeleteList:
		return a, a.showToast("List deleted")
	}
	return a, nil
}

func (a *App) viewModal() string {
	switch a.modal {
	case modalSavePaper:
		return a.viewSaveModal()
	case modalCreateList:
		return a.viewCreateListModal()
	case modalConfirmDeletePaper:
		body := labelStyle.Render("Delete this paper?") + "\n"
		body += mutedStyle.Render("It will be removed from your collection.") + "\n\n"
		body += helpStyle.Render("y: delete · n: cancel")
		return modalStyle.Render(body)
	case modalConfirmDeleteList:
		body := labelStyle.Render(fmt.Sprintf("Delete %q?", a.deleteListName)) + "\n"
		body += mutedStyle.Render("Papers in the list stay in your collection.") + "\n\n"
		body += helpStyle.Render("y: delete · n: cancel")
		return modalStyle.Render(body)
	}
	return ""
}

func (a *App) viewSaveModal() string {
	body := labelStyle.Render("Save to...") + "\n\n"

	options := []string{"General collection"}
	if st := a.lists.State(); st.Status == resource.StatusSuccess {
		for _, list := range st.Data {
			options = append(options, list.Name)
		}
	} else if st.Status == resource.StatusLoading {
		body += mutedStyle.Render(a.spin.View()+" loading lists...") + "\n"
	}

	for i, opt := range options {
		cursor := "  "
		if i == a.modalSel {
			cursor = accentStyle.Render("> ")
		}
		body += cursor + opt + "\n"
	}

	if a.modalErr != "" {
		body += "\n" + errorStyle.Render(a.modalErr) + "\n"
	}
	if a.modalBusy {
		body += "\n" + mutedStyle.Render(a.spin.View()+" saving...")
	} else {
		body += "\n" + helpStyle.Render("enter: save · esc: cancel")
	}
	return modalStyle.Render(body)
}

func (a *App) viewCreateListModal() string {
	body := labelStyle.Render("New Reading List") + "\n\n"
	body += a.nameInput.View() + "\n"
	if msg := a.listForm.Error(forms.FieldName); msg != "" {
		body += fieldErrorStyle.Render(msg) + "\n"
	}
	body += a.descInput.View() + "\n"

	if a.modalErr != "" {
		body += "\n" + errorStyle.Render(a.modalErr) + "\n"
	}
	if a.modalBusy {
		body += "\n" + mutedStyle.Render(a.spin.View()+" creating...")
	} else {
		body += "\n" + helpStyle.Render("enter: create · tab: next field · esc: cancel")
	}
	return modalStyle.Render(body)
}
