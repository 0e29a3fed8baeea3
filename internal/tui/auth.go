package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarsync/scholarsync/internal/forms"
	"github.com/scholarsync/scholarsync/internal/identity"
	"github.com/scholarsync/scholarsync/internal/resource"
)

func (a *App) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "l", "enter":
		a.enterAuthScreen(screenLogin)
	case "s":
		a.enterAuthScreen(screenSignup)
	}
	return a, nil
}

func (a *App) enterAuthScreen(s screen) {
	a.screen = s
	a.authFocus = 0
	a.authErrField = ""
	a.authErrMsg = ""
	a.emailInput.SetValue("")
	a.passwordInput.SetValue("")
	a.emailInput.Focus()
	a.passwordInput.Blur()
	a.loginForm.Reset()
	a.signupForm.Reset()
}

func (a *App) activeAuthForm() *forms.Form {
	if a.screen == screenSignup {
		return a.signupForm
	}
	return a.loginForm
}

func (a *App) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := a.activeAuthForm()

	switch msg.String() {
	case "esc":
		a.screen = screenLanding
		return a, nil

	case "tab", "shift+tab", "up", "down":
		a.authFocus = 1 - a.authFocus
		if a.authFocus == 0 {
			a.emailInput.Focus()
			a.passwordInput.Blur()
		} else {
			a.passwordInput.Focus()
			a.emailInput.Blur()
		}
		return a, nil

	case "enter":
		if a.authBusy {
			return a, nil
		}
		form.Set(forms.FieldEmail, a.emailInput.Value())
		form.Set(forms.FieldPassword, a.passwordInput.Value())
		if !form.Validate() {
			return a, nil
		}
		a.authBusy = true
		a.authErrField = ""
		a.authErrMsg = ""
		action := authSignIn
		if a.screen == screenSignup {
			action = authSignUp
		}
		return a, a.authCmd(action, a.emailInput.Value(), a.passwordInput.Value())
	}

	// Editing a field clears its validation error immediately.
	var cmd tea.Cmd
	if a.authFocus == 0 {
		before := a.emailInput.Value()
		a.emailInput, cmd = a.emailInput.Update(msg)
		if a.emailInput.Value() != before {
			form.Set(forms.FieldEmail, a.emailInput.Value())
			if a.authErrField == identity.FieldEmail {
				a.authErrMsg = ""
				a.authErrField = ""
			}
		}
	} else {
		before := a.passwordInput.Value()
		a.passwordInput, cmd = a.passwordInput.Update(msg)
		if a.passwordInput.Value() != before {
			form.Set(forms.FieldPassword, a.passwordInput.Value())
			if a.authErrField == identity.FieldPassword {
				a.authErrMsg = ""
				a.authErrField = ""
			}
		}
	}
	return a, cmd
}

func (a *App) authCmd(action authAction, email, password string) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch action {
		case authSignIn:
			_, err = a.identity.SignIn(context.Background(), email, password)
		case authSignUp:
			_, err = a.identity.SignUp(context.Background(), email, password)
		case authSignOut:
			err = a.identity.SignOut(context.Background())
		}
		return authResultMsg{action: action, err: err}
	}
}

func (a *App) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	a.authBusy = false

	if msg.action == authSignOut {
		if msg.err != nil {
			a.logger.Warn().Err(msg.err).Msg("sign-out failed")
		}
		a.screen = screenLanding
		return a, nil
	}

	if msg.err != nil {
		var authErr *identity.AuthError
		if errors.As(msg.err, &authErr) {
			a.authErrField = authErr.Field()
			a.authErrMsg = authErr.UserMessage()
		} else {
			a.authErrField = ""
			a.authErrMsg = "Something went wrong. Please try again."
		}
		return a, nil
	}

	a.screen = screenDashboard
	a.searchFocused = true
	a.searchInput.Focus()
	a.loadSavedPapers()
	return a, nil
}

func (a *App) viewLanding() string {
	s := titleStyle.Render("ScholarSync") + "\n"
	s += subtitleStyle.Render("Your research papers, organized.") + "\n\n"

	switch st := a.quote.State(); st.Status {
	case resource.StatusLoading:
		s += mutedStyle.Render(a.spin.View()+" loading...") + "\n"
	case resource.StatusSuccess:
		s += accentStyle.Render("“"+st.Data+"”") + "\n"
	}

	s += helpStyle.Render("l: log in · s: sign up · q: quit")
	return s
}

func (a *App) viewAuth() string {
	form := a.activeAuthForm()

	heading := "Welcome Back"
	sub := "Log in to your account"
	submit := "Log In"
	if a.screen == screenSignup {
		heading = "Create Account"
		sub = "Sign up to start organizing"
		submit = "Sign Up"
	}

	s := titleStyle.Render(heading) + "\n"
	s += subtitleStyle.Render(sub) + "\n\n"

	s += labelStyle.Render("Email Address") + "\n"
	s += a.emailInput.View() + "\n"
	if msg := form.Error(forms.FieldEmail); msg != "" {
		s += fieldErrorStyle.Render(msg) + "\n"
	} else if a.authErrField == identity.FieldEmail && a.authErrMsg != "" {
		s += fieldErrorStyle.Render(a.authErrMsg) + "\n"
	}

	s += "\n" + labelStyle.Render("Password") + "\n"
	s += a.passwordInput.View() + "\n"
	if msg := form.Error(forms.FieldPassword); msg != "" {
		s += fieldErrorStyle.Render(msg) + "\n"
	} else if a.authErrField == identity.FieldPassword && a.authErrMsg != "" {
		s += fieldErrorStyle.Render(a.authErrMsg) + "\n"
	}

	if a.authErrField == "" && a.authErrMsg != "" {
		s += "\n" + errorStyle.Render(a.authErrMsg) + "\n"
	}

	if a.authBusy {
		s += "\n" + mutedStyle.Render(a.spin.View()+" signing in...")
	} else {
		s += "\n" + helpStyle.Render(fmt.Sprintf("enter: %s · tab: next field · esc: back", submit))
	}
	return s
}
