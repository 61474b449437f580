package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coworkhq/cowork/internal/api"
	"github.com/coworkhq/cowork/internal/models"
	"github.com/coworkhq/cowork/internal/ui/keys"
	"github.com/coworkhq/cowork/internal/ui/styles"
)

// SelectedTeam signals that a team board should open
type SelectedTeam struct {
	Team models.Team
}

// ShowMyTasks signals to open the cross-team my-tasks view
type ShowMyTasks struct{}

// Logout signals an explicit sign-out request
type Logout struct{}

type teamsLoadedMsg struct {
	teams []models.Team
}

type teamItem struct {
	team models.Team
}

func (i teamItem) Title() string       { return i.team.Name }
func (i teamItem) Description() string { return i.team.Description }
func (i teamItem) FilterValue() string { return i.team.Name }

type teamDelegate struct {
	styles *styles.Styles
	width  int
}

func (d teamDelegate) Height() int                               { return 2 }
func (d teamDelegate) Spacing() int                              { return 1 }
func (d teamDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d teamDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(teamItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	name := it.team.Name
	if it.team.MyRole == models.TeamRoleLeader {
		name += " ★"
	}
	desc := it.team.Description
	if desc == "" {
		desc = "no description"
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(name), descStyle.Render(desc))
}

// TeamListView shows the teams the current user belongs to
type TeamListView struct {
	api      *api.Client
	list     list.Model
	delegate *teamDelegate
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	creating bool
	loaded   bool
	newName  textinput.Model
	newDesc  textinput.Model
	focusIdx int // 0=name, 1=desc, 2=confirm
}

// NewTeamListView creates a new team list view
func NewTeamListView(client *api.Client) *TeamListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Team name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 200

	delegate := &teamDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Teams"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &TeamListView{
		api:      client,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newDesc:  newDesc,
	}
}

func (v *TeamListView) Init() tea.Cmd {
	return v.loadTeams
}

// loadTeams refetches the team list; navigation never reuses stale data
func (v *TeamListView) loadTeams() tea.Msg {
	teams, err := v.api.ListTeams(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return teamsLoadedMsg{teams: teams}
}

func (v *TeamListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case teamsLoadedMsg:
		items := make([]list.Item, len(msg.teams))
		for i, t := range msg.teams {
			items[i] = teamItem{team: t}
		}
		v.list.SetItems(items)
		v.loaded = true
		return v, nil

	case errMsg:
		// Keep whatever was on screen; the gateway already surfaced it.
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.creating {
			return v.updateCreating(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.New):
			v.creating = true
			v.focusIdx = 0
			v.newName.Reset()
			v.newDesc.Reset()
			v.newName.Focus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.MyTasks):
			return v, func() tea.Msg { return ShowMyTasks{} }
		case key.Matches(msg, v.keys.Logout):
			return v, func() tea.Msg { return Logout{} }
		case key.Matches(msg, v.keys.Refresh):
			return v, v.loadTeams
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(teamItem); ok {
				return v, func() tea.Msg {
					return SelectedTeam{Team: item.team}
				}
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *TeamListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v.submitCreate()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == 0 || v.focusIdx == 1 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v.submitCreate()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *TeamListView) submitCreate() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(v.newName.Value())
	if name == "" {
		return v, nil
	}
	desc := strings.TrimSpace(v.newDesc.Value())
	v.creating = false
	return v, func() tea.Msg {
		team, err := v.api.CreateTeam(context.Background(), api.TeamCreateRequest{Name: name, Description: desc})
		if err != nil {
			return errMsg{err}
		}
		return SelectedTeam{Team: *team}
	}
}

func (v *TeamListView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

// View renders the view
func (v *TeamListView) View() string {
	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *TeamListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Teams"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first team"),
		"",
		s.ButtonPrimary.Render(" New Team "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TeamListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Team"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TeamListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s my tasks • %s refresh • %s logout • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("m"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("L"),
			v.styles.HelpKey.Render("q"),
		),
	)
}
