package tui

import "github.com/scholarsync/scholarsync/internal/domain"

// Messages delivered into the bubbletea loop. Fetcher transitions and refresh
// signals arrive through the app's notify channel; mutations and auth calls
// resolve as command results.

// resourceUpdatedMsg signals that some fetcher changed state; the view
// re-reads fetcher snapshots on render.
type resourceUpdatedMsg struct{}

// refreshSignalMsg is a refresh-bus publication: some mutation changed paper
// or list membership.
type refreshSignalMsg struct{}

// sessionChangedMsg carries the new session user (nil when signed out).
type sessionChangedMsg struct {
	user *domain.User
}

type mutationOp int

const (
	opSavePaper mutationOp = iota
	opDeletePaper
	opCreateList
	opDeleteList
)

// mutationResultMsg is the outcome of a dispatcher call.
type mutationResultMsg struct {
	op   mutationOp
	err  error
	list domain.ReadingList // set for opCreateList on success
}

type authAction int

const (
	authSignIn authAction = iota
	authSignUp
	authSignOut
)

// authResultMsg is the outcome of an identity call.
type authResultMsg struct {
	action authAction
	err    error
}

// toastExpiredMsg dismisses the success toast identified by id; a stale id
// means a newer toast replaced it.
type toastExpiredMsg struct {
	id int
}

// copyResultMsg is the outcome of copying a citation to the clipboard.
type copyResultMsg struct {
	err error
}
