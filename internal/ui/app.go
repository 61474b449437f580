package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coworkhq/cowork/internal/api"
	"github.com/coworkhq/cowork/internal/auth"
	"github.com/coworkhq/cowork/internal/ui/styles"
	"github.com/coworkhq/cowork/internal/ui/views"
)

// View represents the current route
type View int

const (
	ViewLogin View = iota
	ViewRestoring
	ViewTeams
	ViewBoard
	ViewMyTasks
)

const toastDuration = 4 * time.Second

type restoredMsg struct{}

type restoreFailedMsg struct{}

type toastClearMsg struct{}

// App is the root model routing between views
type App struct {
	api  *api.Client
	life *auth.Lifecycle

	currentView View
	login       *views.LoginView
	teams       *views.TeamListView
	board       *views.BoardView
	myTasks     *views.MyTasksView
	styles      *styles.Styles

	width  int
	height int
	toast  string
}

// NewApp creates the root application model
func NewApp(client *api.Client, life *auth.Lifecycle) *App {
	a := &App{
		api:    client,
		life:   life,
		login:  views.NewLoginView(life),
		teams:  views.NewTeamListView(client),
		styles: styles.NewStyles(),
	}
	if life.State() == auth.StateRestoring {
		a.currentView = ViewRestoring
	} else {
		a.currentView = ViewLogin
	}
	return a
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	if a.currentView == ViewRestoring {
		return a.restore
	}
	return a.login.Init()
}

// restore resolves the persisted token against the server before any
// protected view renders.
func (a *App) restore() tea.Msg {
	if _, err := a.life.Restore(context.Background()); err != nil {
		return restoreFailedMsg{}
	}
	if a.life.State() != auth.StateAuthenticated {
		return restoreFailedMsg{}
	}
	return restoredMsg{}
}

// Update handles messages and routes them to the current view
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Every live view tracks the size so switching needs no resync
		a.login.Update(msg)
		a.teams.Update(msg)
		if a.board != nil {
			a.board.Update(msg)
		}
		if a.myTasks != nil {
			a.myTasks.Update(msg)
		}
		return a, nil

	case restoredMsg:
		a.currentView = ViewTeams
		return a, a.teams.Init()

	case restoreFailedMsg:
		a.currentView = ViewLogin
		a.login.Reset()
		return a, a.login.Init()

	case views.LoggedIn:
		a.currentView = ViewTeams
		return a, a.teams.Init()

	case views.SelectedTeam:
		a.board = views.NewBoardView(a.api, msg.Team)
		a.currentView = ViewBoard
		cmds := []tea.Cmd{a.board.Init()}
		if a.width > 0 {
			a.board.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		}
		return a, tea.Batch(cmds...)

	case views.ShowMyTasks:
		a.myTasks = views.NewMyTasksView(a.api)
		a.currentView = ViewMyTasks
		if a.width > 0 {
			a.myTasks.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		}
		return a, a.myTasks.Init()

	case views.BackToTeams:
		a.board = nil
		a.myTasks = nil
		a.currentView = ViewTeams
		return a, a.teams.Init()

	case views.Logout:
		a.life.Logout()
		a.board = nil
		a.myTasks = nil
		a.currentView = ViewLogin
		a.login.Reset()
		return a, a.login.Init()

	case SessionExpiredMsg:
		// The gateway already purged the token; settle the lifecycle and
		// route home regardless of which view was active.
		a.life.Invalidate()
		a.board = nil
		a.myTasks = nil
		a.currentView = ViewLogin
		a.login.Reset()
		return a, a.login.Init()

	case ToastMsg:
		a.toast = msg.Text
		return a, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastClearMsg{}
		})

	case toastClearMsg:
		a.toast = ""
		return a, nil
	}

	// Route everything else to the active view
	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewTeams:
		_, cmd = a.teams.Update(msg)
	case ViewBoard:
		if a.board != nil {
			_, cmd = a.board.Update(msg)
		}
	case ViewMyTasks:
		if a.myTasks != nil {
			_, cmd = a.myTasks.Update(msg)
		}
	case ViewRestoring:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}
	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	var content string
	switch a.currentView {
	case ViewLogin:
		content = a.login.View()
	case ViewRestoring:
		content = a.renderRestoring()
	case ViewTeams:
		content = a.teams.View()
	case ViewBoard:
		if a.board != nil {
			content = a.board.View()
		}
	case ViewMyTasks:
		if a.myTasks != nil {
			content = a.myTasks.View()
		}
	}

	if a.toast != "" {
		content += "\n" + a.styles.Toast.Render(a.toast)
	}
	return content
}

func (a *App) renderRestoring() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		a.styles.Title.Render("CoWork"),
		"",
		a.styles.TitleMuted.Render("Restoring session..."),
	)
	contentWidth := styles.ContentWidth(a.width)
	centered := lipgloss.Place(contentWidth, a.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, a.width, a.height)
}
