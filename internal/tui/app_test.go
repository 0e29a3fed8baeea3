package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarsync/scholarsync/internal/config"
	"github.com/scholarsync/scholarsync/internal/domain"
	"github.com/scholarsync/scholarsync/internal/forms"
	"github.com/scholarsync/scholarsync/internal/identity"
	"github.com/scholarsync/scholarsync/internal/mutation"
	"github.com/scholarsync/scholarsync/internal/refresh"
	"github.com/scholarsync/scholarsync/internal/resource"
	"github.com/scholarsync/scholarsync/internal/session"
)

// fakeBackend implements backendClient and mutation.Backend, recording call
// counts so tests can assert which requests a screen issued.
type fakeBackend struct {
	mu            sync.Mutex
	searchCalls   int
	listCalls     int
	saveCalls     int
	deleteCalls   int
	searchResults []domain.Paper
	savedPapers   []domain.Paper
	lists         []domain.ReadingList
}

func (f *fakeBackend) Search(ctx context.Context, query string, databases []string) ([]domain.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.searchResults, nil
}

func (f *fakeBackend) ListPapers(ctx context.Context, readingListID *int64) ([]domain.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.savedPapers, nil
}

func (f *fakeBackend) GetPaper(ctx context.Context, id string) (domain.Paper, error) {
	return domain.Paper{ID: id, Title: "Fetched " + id}, nil
}

func (f *fakeBackend) Citation(ctx context.Context, id string, format domain.CitationFormat) (string, error) {
	return string(format) + " citation for " + id, nil
}

func (f *fakeBackend) Related(ctx context.Context, id string) ([]domain.RelatedPaper, error) {
	return nil, nil
}

func (f *fakeBackend) ListReadingLists(ctx context.Context) ([]domain.ReadingList, error) {
	return f.lists, nil
}

func (f *fakeBackend) GetReadingList(ctx context.Context, id int64) (domain.ReadingList, error) {
	return domain.ReadingList{ID: id}, nil
}

func (f *fakeBackend) RandomQuote(ctx context.Context) (string, error) {
	return "Stay hungry, stay foolish.", nil
}

func (f *fakeBackend) DownloadURL(id string) string { return "http://example.com/" + id }

func (f *fakeBackend) SavePaper(ctx context.Context, paper domain.Paper, readingListID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	return nil
}

func (f *fakeBackend) DeletePaper(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return nil
}

func (f *fakeBackend) CreateReadingList(ctx context.Context, name, description string) (domain.ReadingList, error) {
	return domain.ReadingList{ID: 1, Name: name}, nil
}

func (f *fakeBackend) DeleteReadingList(ctx context.Context, id int64) error { return nil }

func (f *fakeBackend) counts() (search, list, save, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls, f.listCalls, f.saveCalls, f.deleteCalls
}

// fakeIdentity implements identityClient.
type fakeIdentity struct {
	signInCalls int
	signInErr   error
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &domain.User{UID: "u-1", Email: email}, nil
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	return f.SignIn(ctx, email, password)
}

func (f *fakeIdentity) SignOut(ctx context.Context) error { return nil }

// stubSource is a no-op session source.
type stubSource struct{}

func (stubSource) Current() *domain.User               { return nil }
func (stubSource) Subscribe(func(*domain.User)) func() { return func() {} }

func newTestApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()

	bus := refresh.NewBus()
	cfg := &config.Config{}
	cfg.UI.ConfirmationTTL = 2 * time.Second
	cfg.UI.SearchDatabases = []string{"arxiv"}
	cfg.UI.SuggestedTopics = []string{"Quantum Computing", "Climate Change"}

	store := session.NewStore(stubSource{})
	t.Cleanup(store.Close)

	a := NewApp(Deps{
		Config:   cfg,
		Logger:   zerolog.Nop(),
		Backend:  backend,
		Identity: &fakeIdentity{},
		Session:  store,
		Dispatch: mutation.NewDispatcher(backend, bus, zerolog.Nop()),
		Bus:      bus,
	})
	t.Cleanup(a.Close)
	return a
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func awaitFetcher[T any](t *testing.T, f *resource.Fetcher[T], want resource.Status) resource.State[T] {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.State().Status == want
	}, 2*time.Second, 5*time.Millisecond)
	return f.State()
}

func TestAppStartsOnLanding(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})
	assert.Equal(t, screenLanding, a.screen)
}

func TestLoginValidationBlocksSubmission(t *testing.T) {
	backend := &fakeBackend{}
	a := newTestApp(t, backend)
	ident := &fakeIdentity{}
	a.identity = ident

	a.Update(keyMsg("l"))
	require.Equal(t, screenLogin, a.screen)

	a.Update(keyMsg("enter"))

	assert.Zero(t, ident.signInCalls, "invalid form must not reach the provider")
	assert.Equal(t, "Email is required", a.loginForm.Error(forms.FieldEmail))
	assert.Equal(t, "Password is required", a.loginForm.Error(forms.FieldPassword))
}

func TestEditingClearsFieldError(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})

	a.Update(keyMsg("l"))
	a.Update(keyMsg("enter"))
	require.NotEmpty(t, a.loginForm.Error(forms.FieldEmail))

	a.Update(keyMsg("a"))
	assert.Empty(t, a.loginForm.Error(forms.FieldEmail), "typing clears the field's error immediately")
	assert.NotEmpty(t, a.loginForm.Error(forms.FieldPassword), "other fields keep theirs")
}

func TestSuccessfulSignInLandsOnDashboard(t *testing.T) {
	backend := &fakeBackend{savedPapers: []domain.Paper{{ID: "p1", Title: "Saved"}}}
	a := newTestApp(t, backend)

	a.Update(authResultMsg{action: authSignIn})

	assert.Equal(t, screenDashboard, a.screen)
	awaitFetcher(t, a.saved, resource.StatusSuccess)
}

func TestAuthErrorIsScopedToField(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})
	a.screen = screenLogin

	a.Update(authResultMsg{action: authSignIn, err: identity.NewAuthError("wrong-password")})

	assert.Equal(t, screenLogin, a.screen)
	assert.Equal(t, identity.FieldPassword, a.authErrField)
	assert.Equal(t, "Incorrect password", a.authErrMsg)
}

func TestBlankSearchIssuesNoRequest(t *testing.T) {
	backend := &fakeBackend{}
	a := newTestApp(t, backend)
	a.screen = screenDashboard

	a.startSearch("   ")

	assert.Equal(t, "Search query cannot be empty", a.searchErr)
	assert.Equal(t, screenDashboard, a.screen)
	search, _, _, _ := backend.counts()
	assert.Zero(t, search)
	assert.Equal(t, resource.StatusIdle, a.results.State().Status)
}

func TestSearchNavigatesToResults(t *testing.T) {
	backend := &fakeBackend{searchResults: []domain.Paper{{ID: "p1", Title: "Hit"}}}
	a := newTestApp(t, backend)
	a.screen = screenDashboard

	a.startSearch("quantum computing")

	assert.Equal(t, screenSearchResults, a.screen)
	st := awaitFetcher(t, a.results, resource.StatusSuccess)
	require.Len(t, st.Data, 1)
	assert.Equal(t, "Hit", st.Data[0].Title)
}

func TestPaperFromSearchSkipsDetailFetch(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})

	a.openPaperDetail(domain.Paper{ID: "p1", Title: "Carried"}, true)

	assert.Equal(t, screenPaperDetail, a.screen)
	assert.Equal(t, resource.StatusIdle, a.detail.State().Status, "carried papers are not re-fetched")
	assert.Equal(t, "Carried", a.detailPaper().Title)
	awaitFetcher(t, a.citation, resource.StatusSuccess)
}

func TestSavedPaperTriggersDetailFetch(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})

	a.openPaperDetail(domain.Paper{ID: "p1", Title: "Stale Title"}, false)

	st := awaitFetcher(t, a.detail, resource.StatusSuccess)
	assert.Equal(t, "Fetched p1", st.Data.Title)
	assert.Equal(t, "Fetched p1", a.detailPaper().Title)
}

func TestCitationFormatCycling(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})
	a.openPaperDetail(domain.Paper{ID: "p1"}, true)

	assert.Equal(t, domain.CitationAPA, a.currentFormat())

	a.Update(keyMsg("f"))
	assert.Equal(t, domain.CitationMLA, a.currentFormat())

	st := awaitFetcher(t, a.citation, resource.StatusSuccess)
	assert.Equal(t, "MLA citation for p1", st.Data)
}

func TestDeleteVisibilityFollowsOrigin(t *testing.T) {
	backend := &fakeBackend{}
	a := newTestApp(t, backend)

	// From search: delete is not offered.
	a.openPaperDetail(domain.Paper{ID: "p1"}, true)
	a.Update(keyMsg("d"))
	assert.Equal(t, modalNone, a.modal)

	// From the saved collection: delete opens the confirmation.
	a.openPaperDetail(domain.Paper{ID: "p1"}, false)
	a.Update(keyMsg("d"))
	assert.Equal(t, modalConfirmDeletePaper, a.modal)
}

func TestDeleteConfirmCancelIssuesNoRequest(t *testing.T) {
	backend := &fakeBackend{}
	a := newTestApp(t, backend)
	a.screen = screenDashboard
	a.openDeletePaperModal(domain.Paper{ID: "p1"})

	a.Update(keyMsg("n"))

	assert.Equal(t, modalNone, a.modal)
	_, _, _, del := backend.counts()
	assert.Zero(t, del)
}

func TestSaveSuccessShowsToastAndRefreshesLists(t *testing.T) {
	backend := &fakeBackend{}
	a := newTestApp(t, backend)
	a.screen = screenDashboard
	a.loadSavedPapers()
	awaitFetcher(t, a.saved, resource.StatusSuccess)
	_, listsBefore, _, _ := backend.counts()

	a.openSaveModal(domain.Paper{ID: "p1", Title: "T"})
	_, cmd := a.updateModal(keyMsg("enter"))
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(mutationResultMsg)
	require.True(t, ok)
	require.NoError(t, result.err)

	_, toastCmd := a.handleMutationResult(result)
	assert.Equal(t, modalNone, a.modal)
	assert.Equal(t, "Paper saved", a.toast)
	assert.NotNil(t, toastCmd)

	// The dispatcher published; drain the signal and re-pull list views.
	require.Eventually(t, func() bool {
		select {
		case m := <-a.notify:
			if _, ok := m.(refreshSignalMsg); ok {
				a.Update(m)
				return true
			}
			a.Update(m)
			return false
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		_, listsAfter, _, _ := backend.counts()
		return listsAfter > listsBefore
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStaleToastDismissIsIgnored(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})

	a.showToast("first")
	firstID := a.toastID
	a.showToast("second")

	a.Update(toastExpiredMsg{id: firstID})
	assert.Equal(t, "second", a.toast, "an older toast's timer must not dismiss a newer toast")

	a.Update(toastExpiredMsg{id: a.toastID})
	assert.Empty(t, a.toast)
}

func TestSignedOutSessionReturnsToLanding(t *testing.T) {
	a := newTestApp(t, &fakeBackend{})
	a.screen = screenDashboard

	a.Update(sessionChangedMsg{user: nil})
	assert.Equal(t, screenLanding, a.screen)
}
