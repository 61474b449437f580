package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coworkhq/cowork/internal/api"
	"github.com/coworkhq/cowork/internal/models"
	"github.com/coworkhq/cowork/internal/ui/keys"
	"github.com/coworkhq/cowork/internal/ui/styles"
)

type myTasksLoadedMsg struct {
	tasks []models.Task
}

// MyTasksView lists tasks assigned to the current user across all teams
type MyTasksView struct {
	api    *api.Client
	tasks  []models.Task
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int
	loaded bool

	cursor  int
	scrollY int

	viewingTask  bool
	viewTaskID   int64
	viewComments []models.Comment
}

// NewMyTasksView creates the cross-team assigned-tasks view
func NewMyTasksView(client *api.Client) *MyTasksView {
	return &MyTasksView{
		api:    client,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *MyTasksView) Init() tea.Cmd {
	return v.loadTasks
}

func (v *MyTasksView) loadTasks() tea.Msg {
	tasks, err := v.api.ListMyTasks(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return myTasksLoadedMsg{tasks: tasks}
}

func (v *MyTasksView) loadComments(taskID int64) tea.Cmd {
	return func() tea.Msg {
		comments, err := v.api.ListComments(context.Background(), taskID)
		if err != nil {
			return errMsg{err}
		}
		return commentsLoadedMsg{taskID: taskID, comments: comments}
	}
}

func (v *MyTasksView) taskByID(id int64) *models.Task {
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			return &v.tasks[i]
		}
	}
	return nil
}

func (v *MyTasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case myTasksLoadedMsg:
		v.tasks = msg.tasks
		v.loaded = true
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		if v.viewingTask && v.taskByID(v.viewTaskID) == nil {
			v.viewingTask = false
			v.viewComments = nil
		}
		return v, nil

	case commentsLoadedMsg:
		if v.viewingTask && msg.taskID == v.viewTaskID {
			v.viewComments = msg.comments
		}
		return v, nil

	case errMsg:
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.viewingTask {
			switch {
			case key.Matches(msg, v.keys.Back):
				v.viewingTask = false
				v.viewComments = nil
				return v, nil
			case key.Matches(msg, v.keys.Quit):
				return v, tea.Quit
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToTeams{} }

		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
				v.ensureVisible()
			}
			return v, nil

		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.tasks)-1 {
				v.cursor++
				v.ensureVisible()
			}
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.cursor < len(v.tasks) {
				task := v.tasks[v.cursor]
				v.viewingTask = true
				v.viewTaskID = task.ID
				v.viewComments = nil
				return v, v.loadComments(task.ID)
			}
			return v, nil

		case key.Matches(msg, v.keys.Refresh):
			return v, v.loadTasks
		}
	}

	return v, nil
}

func (v *MyTasksView) ensureVisible() {
	availableHeight := v.height - 10
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *MyTasksView) View() string {
	if v.viewingTask {
		return v.renderDetail()
	}

	s := v.styles

	var body string
	switch {
	case !v.loaded:
		body = s.TitleMuted.Render("Loading...")
	case len(v.tasks) == 0:
		body = s.TitleMuted.Render("Nothing assigned to you.")
	default:
		body = v.renderList()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("My Tasks"),
		"",
		body,
		"",
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *MyTasksView) renderList() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	availableHeight := v.height - 10
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	var rows []string
	endIdx := min(v.scrollY+visibleItems, len(v.tasks))
	for i := v.scrollY; i < endIdx; i++ {
		task := v.tasks[i]

		statusDot := lipgloss.NewStyle().
			Foreground(styles.StatusColor(task.Status)).
			Render("●")
		titleLine := statusDot + " " + task.Title

		detailLine := task.TeamName + "  " + task.Status.Label()
		if task.Deadline != nil {
			detailLine += "  due " + task.Deadline.String()
		}

		var titleStyle, detailStyle lipgloss.Style
		if i == v.cursor {
			titleStyle = s.ListSelected.Width(width)
			detailStyle = s.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
		} else {
			titleStyle = s.ListItem.Width(width)
			detailStyle = s.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
		}

		rows = append(rows, lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(titleLine),
			detailStyle.Render(detailLine),
		)+"\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *MyTasksView) renderDetail() string {
	task := v.taskByID(v.viewTaskID)
	if task == nil {
		return ""
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(contentWidth-10, 20, 70)

	statusBadge := lipgloss.NewStyle().
		Foreground(styles.StatusColor(task.Status)).
		Bold(true).
		Render(task.Status.Label())
	prioBadge := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(task.Priority)).
		Bold(true).
		Render(string(task.Priority))

	deadline := "None"
	if task.Deadline != nil {
		deadline = task.Deadline.String()
	}

	contentText := task.Content
	if contentText == "" {
		contentText = s.TitleMuted.Render("No content")
	}

	var commentsContent string
	if len(v.viewComments) == 0 {
		commentsContent = s.TitleMuted.Render("No comments yet")
	} else {
		var commentLines []string
		for _, comment := range v.viewComments {
			header := s.TitleMuted.Render(
				comment.WriterNickname + " • " + comment.CreatedAt.Display(),
			)
			commentLines = append(commentLines, lipgloss.JoinVertical(lipgloss.Left,
				header,
				lipgloss.NewStyle().Width(textWidth).Render(comment.Content),
			))
		}
		commentsContent = lipgloss.JoinVertical(lipgloss.Left, commentLines...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		s.TitleMuted.Render(task.TeamName),
		"",
		s.TitleMuted.Render("Status"),
		statusBadge,
		"",
		s.TitleMuted.Render("Priority"),
		prioBadge,
		"",
		s.TitleMuted.Render("Deadline"),
		deadline,
		"",
		s.TitleMuted.Render("Content"),
		lipgloss.NewStyle().Width(textWidth).Render(contentText),
		"",
		s.TitleMuted.Render("Comments"),
		commentsContent,
		"",
		s.Help.Render(fmt.Sprintf("%s back", s.HelpKey.Render("esc"))),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *MyTasksView) renderHelp() string {
	var b strings.Builder
	b.WriteString(v.styles.Help.Render(
		fmt.Sprintf("%s view • %s refresh • %s back • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	))
	return b.String()
}
