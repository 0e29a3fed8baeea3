// Package tui is the terminal front end: landing/login/signup, a dashboard
// with search and the saved-paper collection, search results, paper detail
// with citations and related papers, and reading-list management.
//
// It follows The Elm Architecture via bubbletea. Remote data flows through
// resource fetchers; their transitions and refresh-bus signals enter the
// update loop over the app's notify channel.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/scholarsync/scholarsync/internal/config"
	"github.com/scholarsync/scholarsync/internal/domain"
	"github.com/scholarsync/scholarsync/internal/forms"
	"github.com/scholarsync/scholarsync/internal/mutation"
	"github.com/scholarsync/scholarsync/internal/refresh"
	"github.com/scholarsync/scholarsync/internal/resource"
	"github.com/scholarsync/scholarsync/internal/session"
)

// screen identifies which view is on screen.
type screen int

const (
	screenLanding screen = iota
	screenLogin
	screenSignup
	screenDashboard
	screenSearchResults
	screenPaperDetail
	screenReadingLists
	screenListDetail
)

// modal identifies the overlay dialog, if any.
type modal int

const (
	modalNone modal = iota
	modalSavePaper
	modalCreateList
	modalConfirmDeletePaper
	modalConfirmDeleteList
)

// backendClient is the slice of the API client the screens read through.
type backendClient interface {
	Search(ctx context.Context, query string, databases []string) ([]domain.Paper, error)
	ListPapers(ctx context.Context, readingListID *int64) ([]domain.Paper, error)
	GetPaper(ctx context.Context, id string) (domain.Paper, error)
	Citation(ctx context.Context, id string, format domain.CitationFormat) (string, error)
	Related(ctx context.Context, id string) ([]domain.RelatedPaper, error)
	ListReadingLists(ctx context.Context) ([]domain.ReadingList, error)
	GetReadingList(ctx context.Context, id int64) (domain.ReadingList, error)
	RandomQuote(ctx context.Context) (string, error)
	DownloadURL(id string) string
}

// identityClient is the slice of the identity provider the auth screens use.
type identityClient interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	SignOut(ctx context.Context) error
}

// Deps wires the app's collaborators.
type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Backend  backendClient
	Identity identityClient
	Session  *session.Store
	Dispatch *mutation.Dispatcher
	Bus      *refresh.Bus
}

// App is the root bubbletea model.
type App struct {
	cfg      *config.Config
	logger   zerolog.Logger
	backend  backendClient
	identity identityClient
	session  *session.Store
	dispatch *mutation.Dispatcher

	notify chan tea.Msg

	screen screen
	width  int
	height int
	spin   spinner.Model

	// Remote resources. One fetcher per logical resource on screen.
	quote      *resource.Fetcher[string]
	saved      *resource.Fetcher[[]domain.Paper]
	results    *resource.Fetcher[[]domain.Paper]
	detail     *resource.Fetcher[domain.Paper]
	citation   *resource.Fetcher[string]
	related    *resource.Fetcher[[]domain.RelatedPaper]
	lists      *resource.Fetcher[[]domain.ReadingList]
	listPapers *resource.Fetcher[[]domain.Paper]

	// Auth forms.
	emailInput    textinput.Model
	passwordInput textinput.Model
	authFocus     int
	loginForm     *forms.Form
	signupForm    *forms.Form
	authErrField  string
	authErrMsg    string
	authBusy      bool

	// Dashboard and search.
	searchInput   textinput.Model
	searchFocused bool
	searchErr     string
	lastQuery     string

	// Selections.
	savedSel     int
	resultSel    int
	listSel      int
	listPaperSel int
	modalSel     int

	// Paper detail context. fromSearch papers are carried from the results
	// page, rendered without a fetch, and offer no delete.
	currentPaper domain.Paper
	fromSearch   bool
	formatIdx    int
	currentList  domain.ReadingList

	// Modals.
	modal          modal
	modalBusy      bool
	modalErr       string
	listForm       *forms.Form
	nameInput      textinput.Model
	descInput      textinput.Model
	modalFocus     int
	pendingSave    domain.Paper
	deletePaperID  string
	deleteListID   int64
	deleteListName string

	// Feedback surfaces.
	toast     string
	toastID   int
	inlineErr string

	unsubscribeBus     func()
	unsubscribeSession func()
}

// NewApp creates the root model.
func NewApp(deps Deps) *App {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	email := textinput.New()
	email.Placeholder = "name@example.com"
	email.CharLimit = 120
	email.Width = 36

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 120
	password.Width = 36

	search := textinput.New()
	search.Placeholder = "Search for papers..."
	search.CharLimit = 200
	search.Width = 48

	name := textinput.New()
	name.Placeholder = "List name"
	name.CharLimit = 80
	name.Width = 36

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 200
	desc.Width = 36

	a := &App{
		cfg:           deps.Config,
		logger:        deps.Logger.With().Str("component", "tui").Logger(),
		backend:       deps.Backend,
		identity:      deps.Identity,
		session:       deps.Session,
		dispatch:      deps.Dispatch,
		notify:        make(chan tea.Msg, 64),
		screen:        screenLanding,
		spin:          spin,
		emailInput:    email,
		passwordInput: password,
		searchInput:   search,
		nameInput:     name,
		descInput:     desc,
		loginForm:     forms.NewForm(forms.LoginRuleset()),
		signupForm:    forms.NewForm(forms.SignupRuleset()),
		listForm:      forms.NewForm(forms.CreateListRuleset()),
		searchFocused: true,
	}

	a.quote = resource.NewFetcher(onFetch[string](a))
	a.saved = resource.NewFetcher(onFetch[[]domain.Paper](a))
	a.results = resource.NewFetcher(onFetch[[]domain.Paper](a))
	a.detail = resource.NewFetcher(onFetch[domain.Paper](a))
	a.citation = resource.NewFetcher(
		onFetch[string](a),
		resource.WithFallbackMessage[string]("Failed to generate citation"),
	)
	a.related = resource.NewFetcher(
		onFetch[[]domain.RelatedPaper](a),
		resource.WithFallbackMessage[[]domain.RelatedPaper]("Failed to fetch related papers"),
	)
	a.lists = resource.NewFetcher(onFetch[[]domain.ReadingList](a))
	a.listPapers = resource.NewFetcher(onFetch[[]domain.Paper](a))

	if deps.Bus != nil {
		a.unsubscribeBus = deps.Bus.Subscribe(func() {
			a.push(refreshSignalMsg{})
		})
	}
	if deps.Session != nil {
		a.unsubscribeSession = deps.Session.Subscribe(func(u *domain.User) {
			a.push(sessionChangedMsg{user: u})
		})
	}

	return a
}

// onFetch builds the OnChange option feeding fetcher transitions into the
// update loop.
func onFetch[T any](a *App) resource.Option[T] {
	return resource.WithOnChange(func(resource.State[T]) {
		a.push(resourceUpdatedMsg{})
	})
}

// push delivers a message into the update loop without blocking the caller.
func (a *App) push(msg tea.Msg) {
	select {
	case a.notify <- msg:
	default:
	}
}

// waitNotify hands the next notify-channel message to bubbletea.
func (a *App) waitNotify() tea.Cmd {
	return func() tea.Msg {
		return <-a.notify
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	a.quote.Load(context.Background(), "quote", func(ctx context.Context) (string, error) {
		return a.backend.RandomQuote(ctx)
	})
	return tea.Batch(a.spin.Tick, a.waitNotify())
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case resourceUpdatedMsg:
		// Fetcher snapshots are read at render time.
		return a, a.waitNotify()

	case refreshSignalMsg:
		// A mutation changed paper or list membership; re-pull every list
		// view that has loaded at least once.
		a.saved.Refresh(context.Background())
		a.lists.Refresh(context.Background())
		a.listPapers.Refresh(context.Background())
		return a, a.waitNotify()

	case sessionChangedMsg:
		if msg.user == nil && a.screen != screenLanding && a.screen != screenLogin && a.screen != screenSignup {
			a.screen = screenLanding
		}
		return a, a.waitNotify()

	case authResultMsg:
		return a.handleAuthResult(msg)

	case mutationResultMsg:
		return a.handleMutationResult(msg)

	case toastExpiredMsg:
		if msg.id == a.toastID {
			a.toast = ""
		}
		return a, nil

	case copyResultMsg:
		if msg.err != nil {
			a.inlineErr = "Failed to copy citation"
			return a, nil
		}
		return a, a.showToast("Copied!")

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.inlineErr = ""
		if a.modal != modalNone {
			return a.updateModal(msg)
		}
		switch a.screen {
		case screenLanding:
			return a.updateLanding(msg)
		case screenLogin, screenSignup:
			return a.updateAuth(msg)
		case screenDashboard:
			return a.updateDashboard(msg)
		case screenSearchResults:
			return a.updateSearchResults(msg)
		case screenPaperDetail:
			return a.updatePaperDetail(msg)
		case screenReadingLists:
			return a.updateReadingLists(msg)
		case screenListDetail:
			return a.updateListDetail(msg)
		}
	}

	return a, nil
}

// View renders the current screen with any modal and feedback bars.
func (a *App) View() string {
	var body string
	switch a.screen {
	case screenLanding:
		body = a.viewLanding()
	case screenLogin, screenSignup:
		body = a.viewAuth()
	case screenDashboard:
		body = a.viewDashboard()
	case screenSearchResults:
		body = a.viewSearchResults()
	case screenPaperDetail:
		body = a.viewPaperDetail()
	case screenReadingLists:
		body = a.viewReadingLists()
	case screenListDetail:
		body = a.viewListDetail()
	}

	if a.modal != modalNone {
		body += "\n\n" + a.viewModal()
	}

	var bars []string
	if a.toast != "" {
		bars = append(bars, successStyle.Render(a.toast))
	}
	if a.inlineErr != "" {
		bars = append(bars, errorStyle.Render(a.inlineErr))
	}
	if len(bars) > 0 {
		body += "\n\n" + strings.Join(bars, "  ")
	}
	return body + "\n"
}

// Close releases subscriptions and in-flight fetches.
func (a *App) Close() {
	if a.unsubscribeBus != nil {
		a.unsubscribeBus()
	}
	if a.unsubscribeSession != nil {
		a.unsubscribeSession()
	}
	for _, c := range []interface{ Close() }{
		a.quote, a.saved, a.results, a.detail,
		a.citation, a.related, a.lists, a.listPapers,
	} {
		c.Close()
	}
}

// showToast displays a green confirmation and schedules its dismissal.
func (a *App) showToast(text string) tea.Cmd {
	a.toast = text
	a.toastID++
	id := a.toastID

	ttl := a.cfg.UI.ConfirmationTTL
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
