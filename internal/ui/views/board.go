package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coworkhq/cowork/internal/api"
	"github.com/coworkhq/cowork/internal/models"
	"github.com/coworkhq/cowork/internal/ui/keys"
	"github.com/coworkhq/cowork/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// errMsg wraps a failed command. The gateway has already notified the
// user by the time one of these arrives; views only adjust local state.
type errMsg struct {
	err error
}

// BackToTeams signals to go back to the team list
type BackToTeams struct{}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type membersLoadedMsg struct {
	members []models.TeamMember
}

type commentsLoadedMsg struct {
	taskID   int64
	comments []models.Comment
}

type taskSavedMsg struct{}

type taskUpdatedMsg struct {
	task models.Task
}

type taskUpdateFailedMsg struct {
	err error
}

type taskDeletedMsg struct{}

type commentAddedMsg struct {
	taskID int64
}

type invitedMsg struct{}

// BoardView shows a team's tasks grouped by status
type BoardView struct {
	api     *api.Client
	team    models.Team
	tasks   []models.Task
	members []models.TeamMember
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int
	loaded bool

	// List state
	cursor  int
	scrollY int

	// Search and status filter
	searchInput  textinput.Model
	searching    bool
	statusFilter *models.Status
	filterOpen   bool
	filterCursor int

	// Task creation/editing
	editing      bool
	editingNew   bool
	editTaskID   int64
	editVersion  int64
	editTitle    textinput.Model
	editContent  textarea.Model
	editDeadline textinput.Model
	editPriority int // index into models.Priorities
	editStatus   int // index into models.Statuses, existing tasks only
	editWorker   int // 0 = unassigned, else index+1 into members
	editFocusIdx int
	editHint     string

	// Status change popup (the optimistic-update path)
	statusPicking bool
	statusCursor  int

	// Task detail view
	viewingTask    bool
	viewTaskID     int64
	viewComments   []models.Comment
	commentInput   textarea.Model
	commentFocused bool

	// Members panel
	showingMembers bool
	inviting       bool
	inviteInput    textinput.Model

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
}

// NewBoardView creates a board view for a team
func NewBoardView(client *api.Client, team models.Team) *BoardView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editContent := textarea.New()
	editContent.Placeholder = "Content"
	editContent.CharLimit = 2000
	editContent.SetWidth(50)
	editContent.SetHeight(4)
	editContent.ShowLineNumbers = false

	editDeadline := textinput.New()
	editDeadline.Placeholder = "YYYY-MM-DD"
	editDeadline.CharLimit = 10

	commentInput := textarea.New()
	commentInput.Placeholder = "Add a comment..."
	commentInput.CharLimit = 2000
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	inviteInput := textinput.New()
	inviteInput.Placeholder = "Login ID to invite"
	inviteInput.CharLimit = 50

	return &BoardView{
		api:          client,
		team:         team,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		searchInput:  search,
		editTitle:    editTitle,
		editContent:  editContent,
		editDeadline: editDeadline,
		commentInput: commentInput,
		inviteInput:  inviteInput,
	}
}

// Init initializes the view
func (v *BoardView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, v.loadMembers)
}

func (v *BoardView) loadTasks() tea.Msg {
	tasks, err := v.api.ListTeamTasks(context.Background(), v.team.ID)
	if err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *BoardView) loadMembers() tea.Msg {
	members, err := v.api.ListTeamMembers(context.Background(), v.team.ID)
	if err != nil {
		return errMsg{err}
	}
	return membersLoadedMsg{members: members}
}

func (v *BoardView) loadComments(taskID int64) tea.Cmd {
	return func() tea.Msg {
		comments, err := v.api.ListComments(context.Background(), taskID)
		if err != nil {
			return errMsg{err}
		}
		return commentsLoadedMsg{taskID: taskID, comments: comments}
	}
}

// visibleTasks returns the tasks matching the search and status filter,
// grouped in board column order.
func (v *BoardView) visibleTasks() []models.Task {
	search := strings.ToLower(strings.TrimSpace(v.searchInput.Value()))

	var out []models.Task
	for _, status := range models.Statuses {
		if v.statusFilter != nil && *v.statusFilter != status {
			continue
		}
		for _, t := range v.tasks {
			if t.Status != status {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(t.Title), search) &&
				!strings.Contains(strings.ToLower(t.Content), search) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// selectedTask returns the task under the cursor, nil when the list is empty
func (v *BoardView) selectedTask() *models.Task {
	visible := v.visibleTasks()
	if len(visible) == 0 || v.cursor >= len(visible) {
		return nil
	}
	t := visible[v.cursor]
	return &t
}

// taskByID finds a task in the loaded list
func (v *BoardView) taskByID(id int64) *models.Task {
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			return &v.tasks[i]
		}
	}
	return nil
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editContent.SetWidth(inputWidth)
		v.commentInput.SetWidth(inputWidth)
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.loaded = true
		if visible := v.visibleTasks(); v.cursor >= len(visible) {
			v.cursor = max(0, len(visible)-1)
		}
		// If the task being viewed disappeared, drop back to the list
		if v.viewingTask && v.taskByID(v.viewTaskID) == nil {
			v.closeDetail()
		}
		return v, nil

	case membersLoadedMsg:
		v.members = msg.members
		return v, nil

	case commentsLoadedMsg:
		if v.viewingTask && msg.taskID == v.viewTaskID {
			v.viewComments = msg.comments
		}
		return v, nil

	case taskUpdatedMsg:
		// The server-returned task, with its new version, replaces the
		// client's copy. Never bump the version locally.
		for i := range v.tasks {
			if v.tasks[i].ID == msg.task.ID {
				v.tasks[i] = msg.task
				break
			}
		}
		return v, nil

	case taskUpdateFailedMsg:
		// A stale version means someone else changed the task: refetch
		// to resynchronize instead of retrying with the same version.
		if api.IsConflict(msg.err) {
			return v, v.loadTasks
		}
		return v, nil

	case taskSavedMsg, taskDeletedMsg:
		return v, v.loadTasks

	case commentAddedMsg:
		return v, v.loadComments(msg.taskID)

	case invitedMsg:
		return v, v.loadMembers

	case errMsg:
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.statusPicking {
			return v.updateStatusPicking(msg)
		}
		if v.viewingTask {
			return v.updateViewingTask(msg)
		}
		if v.showingMembers {
			return v.updateMembers(msg)
		}
		if v.filterOpen {
			return v.updateFilter(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.searching {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.searching = false
			v.searchInput.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			v.searching = false
			v.searchInput.Blur()
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.cursor = 0
			v.scrollY = 0
			return v, cmd
		}
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
		if v.cursor < len(v.visibleTasks())-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if task := v.selectedTask(); task != nil {
			v.viewingTask = true
			v.viewTaskID = task.ID
			v.viewComments = nil
			return v, v.loadComments(task.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if task := v.selectedTask(); task != nil {
			v.startEditTask(*task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if task := v.selectedTask(); task != nil {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
		}
		return v, nil

	case key.Matches(msg, v.keys.Status):
		if task := v.selectedTask(); task != nil {
			v.statusPicking = true
			v.statusCursor = statusIndex(task.Status)
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.filterOpen = true
		v.filterCursor = 0
		return v, nil

	case key.Matches(msg, v.keys.Members):
		v.showingMembers = true
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		return v, tea.Batch(v.loadTasks, v.loadMembers)
	}

	return v, nil
}

func statusIndex(s models.Status) int {
	for i, st := range models.Statuses {
		if st == s {
			return i
		}
	}
	return 0
}

func (v *BoardView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.filterOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.filterCursor > 0 {
			v.filterCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.filterCursor < len(models.Statuses) { // +1 for "All"
			v.filterCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.filterCursor == 0 {
			v.statusFilter = nil
		} else {
			status := models.Statuses[v.filterCursor-1]
			v.statusFilter = &status
		}
		v.filterOpen = false
		v.cursor = 0
		v.scrollY = 0
		return v, nil
	}

	return v, nil
}

func (v *BoardView) updateStatusPicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.statusPicking = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.statusCursor > 0 {
			v.statusCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.statusCursor < len(models.Statuses)-1 {
			v.statusCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		task := v.selectedTask()
		if v.viewingTask {
			task = v.taskByID(v.viewTaskID)
		}
		v.statusPicking = false
		if task == nil {
			return v, nil
		}
		status := models.Statuses[v.statusCursor]
		if status == task.Status {
			return v, nil
		}
		return v, v.changeStatus(task.ID, task.Version, status)
	}

	return v, nil
}

// changeStatus submits the optimistic status update, forwarding the
// version last observed for the task.
func (v *BoardView) changeStatus(taskID, version int64, status models.Status) tea.Cmd {
	return func() tea.Msg {
		st := status
		task, err := v.api.UpdateTask(context.Background(), taskID, api.TaskUpdateRequest{
			Status:  &st,
			Version: version,
		})
		if err != nil {
			return taskUpdateFailedMsg{err}
		}
		return taskUpdatedMsg{task: *task}
	}
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		targetID := v.deleteTargetID
		if v.viewingTask {
			v.closeDetail()
		}
		return v, func() tea.Msg {
			if err := v.api.DeleteTask(context.Background(), targetID); err != nil {
				return errMsg{err}
			}
			return taskDeletedMsg{}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *BoardView) closeDetail() {
	v.viewingTask = false
	v.viewTaskID = 0
	v.viewComments = nil
	v.commentFocused = false
	v.commentInput.Blur()
	v.commentInput.Reset()
}

func (v *BoardView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.commentFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.commentFocused = false
			v.commentInput.Blur()
			return v, nil
		case msg.String() == "ctrl+s":
			return v, v.submitComment()
		default:
			var cmd tea.Cmd
			v.commentInput, cmd = v.commentInput.Update(msg)
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.closeDetail()
		return v, nil
	case key.Matches(msg, v.keys.Edit):
		if task := v.taskByID(v.viewTaskID); task != nil {
			v.closeDetail()
			v.startEditTask(*task)
			return v, textinput.Blink
		}
		return v, nil
	case key.Matches(msg, v.keys.Status):
		if task := v.taskByID(v.viewTaskID); task != nil {
			v.statusPicking = true
			v.statusCursor = statusIndex(task.Status)
		}
		return v, nil
	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
		v.deleteTargetID = v.viewTaskID
		return v, nil
	case msg.String() == "c" || msg.String() == "a":
		v.commentFocused = true
		v.commentInput.Focus()
		return v, textarea.Blink
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// submitComment posts a new comment on the viewed task
func (v *BoardView) submitComment() tea.Cmd {
	content := strings.TrimSpace(v.commentInput.Value())
	if content == "" {
		return nil
	}
	taskID := v.viewTaskID

	v.commentInput.Reset()
	v.commentFocused = false
	v.commentInput.Blur()

	return func() tea.Msg {
		_, err := v.api.CreateComment(context.Background(), taskID, api.CommentCreateRequest{Content: content})
		if err != nil {
			return errMsg{err}
		}
		return commentAddedMsg{taskID: taskID}
	}
}

func (v *BoardView) updateMembers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.inviting {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.inviting = false
			v.inviteInput.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			loginID := strings.TrimSpace(v.inviteInput.Value())
			if loginID == "" {
				return v, nil
			}
			v.inviting = false
			v.inviteInput.Blur()
			v.inviteInput.Reset()
			return v, func() tea.Msg {
				_, err := v.api.InviteMember(context.Background(), v.team.ID, api.InviteRequest{LoginID: loginID})
				if err != nil {
					return errMsg{err}
				}
				return invitedMsg{}
			}
		default:
			var cmd tea.Cmd
			v.inviteInput, cmd = v.inviteInput.Update(msg)
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Members):
		v.showingMembers = false
		return v, nil
	case key.Matches(msg, v.keys.Invite):
		v.inviting = true
		v.inviteInput.Focus()
		return v, textinput.Blink
	}
	return v, nil
}

func (v *BoardView) editFieldCount() int {
	// title, content, priority, deadline, assignee, [status], save
	if v.editingNew {
		return 6
	}
	return 7
}

func (v *BoardView) editSaveIdx() int { return v.editFieldCount() - 1 }

func (v *BoardView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editTaskID = 0
	v.editVersion = 0
	v.editFocusIdx = 0
	v.editHint = ""
	v.editTitle.Reset()
	v.editContent.Reset()
	v.editDeadline.Reset()
	v.editPriority = 1 // MEDIUM
	v.editStatus = 0
	v.editWorker = 0
	v.updateEditFocus()
}

func (v *BoardView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTaskID = task.ID
	v.editVersion = task.Version
	v.editFocusIdx = 0
	v.editHint = ""
	v.editTitle.SetValue(task.Title)
	v.editContent.SetValue(task.Content)
	if task.Deadline != nil {
		v.editDeadline.SetValue(task.Deadline.String())
	} else {
		v.editDeadline.Reset()
	}
	v.editPriority = priorityIndex(task.Priority)
	v.editStatus = statusIndex(task.Status)
	v.editWorker = 0
	if task.WorkerLoginID != nil {
		for i, m := range v.members {
			if m.LoginID == *task.WorkerLoginID {
				v.editWorker = i + 1
				break
			}
		}
	}
	v.updateEditFocus()
}

func priorityIndex(p models.Priority) int {
	for i, pr := range models.Priorities {
		if pr == p {
			return i
		}
	}
	return 1
}

func (v *BoardView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % v.editFieldCount()
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + v.editFieldCount() - 1) % v.editFieldCount()
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case 0, 3: // title, deadline move on
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case v.editSaveIdx():
			return v, v.saveTask()
		}
		// Textareas keep enter for newlines; selectors cycle on space.

	case msg.String() == " ", msg.String() == "right", msg.String() == "l":
		if v.cycleSelector(1) {
			return v, nil
		}

	case msg.String() == "left", msg.String() == "h":
		if v.cycleSelector(-1) {
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editContent, cmd = v.editContent.Update(msg)
	case 3:
		v.editDeadline, cmd = v.editDeadline.Update(msg)
	}
	return v, cmd
}

// cycleSelector advances the focused selector field, reporting whether
// one was focused.
func (v *BoardView) cycleSelector(dir int) bool {
	switch v.editFocusIdx {
	case 2:
		n := len(models.Priorities)
		v.editPriority = (v.editPriority + dir + n) % n
		return true
	case 4:
		n := len(v.members) + 1
		v.editWorker = (v.editWorker + dir + n) % n
		return true
	case 5:
		if !v.editingNew {
			n := len(models.Statuses)
			v.editStatus = (v.editStatus + dir + n) % n
			return true
		}
	}
	return false
}

func (v *BoardView) updateEditFocus() {
	v.editTitle.Blur()
	v.editContent.Blur()
	v.editDeadline.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editContent.Focus()
	case 3:
		v.editDeadline.Focus()
	}
}

func (v *BoardView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.editHint = "Title is required"
		return nil
	}
	content := strings.TrimSpace(v.editContent.Value())

	var deadline *models.Date
	if raw := strings.TrimSpace(v.editDeadline.Value()); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			v.editHint = "Deadline must be YYYY-MM-DD"
			return nil
		}
		deadline = &d
	}

	priority := models.Priorities[v.editPriority]
	workerLoginID := ""
	if v.editWorker > 0 && v.editWorker <= len(v.members) {
		workerLoginID = v.members[v.editWorker-1].LoginID
	}

	v.editing = false

	if v.editingNew {
		req := api.TaskCreateRequest{
			Title:         title,
			Content:       content,
			Priority:      priority,
			Deadline:      deadline,
			WorkerLoginID: workerLoginID,
		}
		return func() tea.Msg {
			if _, err := v.api.CreateTask(context.Background(), v.team.ID, req); err != nil {
				return errMsg{err}
			}
			return taskSavedMsg{}
		}
	}

	status := models.Statuses[v.editStatus]
	worker := workerLoginID
	req := api.TaskUpdateRequest{
		Title:    &title,
		Content:  &content,
		Status:   &status,
		Priority: &priority,
		Deadline: deadline,
		Version:  v.editVersion,
	}
	if worker != "" {
		req.WorkerLoginID = &worker
	}
	taskID := v.editTaskID
	return func() tea.Msg {
		task, err := v.api.UpdateTask(context.Background(), taskID, req)
		if err != nil {
			return taskUpdateFailedMsg{err}
		}
		return taskUpdatedMsg{task: *task}
	}
}

func (v *BoardView) ensureVisible() {
	// Each task item is 2 lines + 1 margin; headers cost a little more,
	// so keep the estimate conservative.
	availableHeight := v.height - 12
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

// View renders the view
func (v *BoardView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}
	if v.statusPicking {
		return v.renderStatusPicker()
	}
	if v.viewingTask {
		return v.renderTaskDetail()
	}
	if v.showingMembers {
		return v.renderMembers()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	searchStyle := s.Input
	if v.searching {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-30, 10, 30)
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	filterLabel := "All"
	if v.statusFilter != nil {
		filterLabel = v.statusFilter.Label()
	}
	filterBtn := s.Button.Render("Status: " + filterLabel + " ▼")

	title := s.Title.Render(v.team.Name)
	if v.team.Description != "" {
		title += "  " + s.TitleMuted.Render(v.team.Description)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", filterBtn)

	dropdown := ""
	if v.filterOpen {
		dropdown = "\n" + v.renderFilterDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header+dropdown)
}

func (v *BoardView) renderFilterDropdown() string {
	s := v.styles
	var items []string

	noneStyle := s.ListItem
	if v.filterCursor == 0 {
		noneStyle = s.ListSelected
	}
	items = append(items, noneStyle.Render("All"))

	for i, status := range models.Statuses {
		itemStyle := s.ListItem
		if v.filterCursor == i+1 {
			itemStyle = s.ListSelected
		}
		dot := lipgloss.NewStyle().Foreground(styles.StatusColor(status)).Render("●")
		items = append(items, itemStyle.Render(dot+" "+status.Label()))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return s.FilterBar.Render(content)
}

func (v *BoardView) renderTaskList() string {
	s := v.styles

	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	visible := v.visibleTasks()
	if len(visible) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	availableHeight := v.height - 12
	if availableHeight < 3 {
		availableHeight = 3
	}
	visibleItems := availableHeight / 3
	if visibleItems < 1 {
		visibleItems = 1
	}

	counts := make(map[models.Status]int)
	for _, t := range visible {
		counts[t.Status]++
	}

	var rows []string
	endIdx := min(v.scrollY+visibleItems, len(visible))
	var lastStatus models.Status

	for i := v.scrollY; i < endIdx; i++ {
		task := visible[i]
		if i == v.scrollY || task.Status != lastStatus {
			rows = append(rows, v.renderColumnHeader(task.Status, counts[task.Status]))
			lastStatus = task.Status
		}
		rows = append(rows, v.renderTaskItem(task, i == v.cursor))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *BoardView) renderColumnHeader(status models.Status, count int) string {
	dot := lipgloss.NewStyle().Foreground(styles.StatusColor(status)).Render("●")
	return v.styles.ColumnHeader.Render(fmt.Sprintf("%s %s (%d)", dot, status.Label(), count))
}

func (v *BoardView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	prio := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(task.Priority)).
		Render("[" + string(task.Priority[0]) + "]")
	titleLine := prio + " " + task.Title

	worker := "unassigned"
	if task.WorkerNickname != nil && *task.WorkerNickname != "" {
		worker = "@" + *task.WorkerNickname
	}
	detailLine := worker
	if task.Deadline != nil {
		detailLine += "  due " + task.Deadline.String()
	}

	var titleStyle, detailStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		detailStyle = s.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		detailStyle = s.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(titleLine),
		detailStyle.Render(detailLine),
	) + "\n"
}

func (v *BoardView) renderStatusPicker() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var items []string
	for i, status := range models.Statuses {
		itemStyle := s.ListItem
		if i == v.statusCursor {
			itemStyle = s.ListSelected
		}
		dot := lipgloss.NewStyle().Foreground(styles.StatusColor(status)).Render("●")
		items = append(items, itemStyle.Render(dot+" "+status.Label()))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Move to"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		s.TitleMuted.Render("↵: apply • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == v.editSaveIdx() {
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	worker := "Unassigned"
	if v.editWorker > 0 && v.editWorker <= len(v.members) {
		m := v.members[v.editWorker-1]
		worker = fmt.Sprintf("%s (%s)", m.Nickname, m.LoginID)
	}

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyle(0).Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Content:",
		fieldStyle(1).Render(v.editContent.View()),
		"",
		"Priority:",
		fieldStyle(2).Width(20).Render("◂ " + string(models.Priorities[v.editPriority]) + " ▸"),
		"",
		"Deadline:",
		fieldStyle(3).Width(14).Render(v.editDeadline.View()),
		"",
		"Assignee:",
		fieldStyle(4).Width(inputWidth).Render("◂ " + worker + " ▸"),
	}
	if !v.editingNew {
		rows = append(rows,
			"",
			"Status:",
			fieldStyle(5).Width(20).Render("◂ "+models.Statuses[v.editStatus].Label()+" ▸"),
		)
	}
	rows = append(rows, "", btnStyle.Render(" Save "))
	if v.editHint != "" {
		rows = append(rows, "", s.TitleMuted.Render(v.editHint))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ←/→: change • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderTaskDetail() string {
	task := v.taskByID(v.viewTaskID)
	if task == nil {
		return ""
	}

	s := v.styles
	maxContentWidth := styles.ContentWidth(v.width)
	textWidth := clamp(maxContentWidth-10, 20, 70)

	statusBadge := lipgloss.NewStyle().
		Foreground(styles.StatusColor(task.Status)).
		Bold(true).
		Render(task.Status.Label())
	prioBadge := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(task.Priority)).
		Bold(true).
		Render(string(task.Priority))

	worker := "Unassigned"
	if task.WorkerNickname != nil && *task.WorkerNickname != "" {
		worker = *task.WorkerNickname
		if task.WorkerLoginID != nil {
			worker += " (" + *task.WorkerLoginID + ")"
		}
	}

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

	commentInputStyle := s.Input
	if v.commentFocused {
		commentInputStyle = s.InputFocused
	}

	var helpText string
	if v.commentFocused {
		helpText = s.Help.Render(
			fmt.Sprintf("%s submit • %s cancel",
				s.HelpKey.Render("ctrl+s"),
				s.HelpKey.Render("esc"),
			),
		)
	} else {
		helpText = s.Help.Render(
			fmt.Sprintf("%s edit • %s status • %s delete • %s comment • %s back",
				s.HelpKey.Render("e"),
				s.HelpKey.Render("s"),
				s.HelpKey.Render("d"),
				s.HelpKey.Render("c"),
				s.HelpKey.Render("esc"),
			),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		"",
		s.TitleMuted.Render("Status"),
		statusBadge,
		"",
		s.TitleMuted.Render("Priority"),
		prioBadge,
		"",
		s.TitleMuted.Render("Assignee"),
		worker,
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
		commentInputStyle.Render(v.commentInput.View()),
		"",
		helpText,
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *BoardView) renderMembers() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var items []string
	for _, m := range v.members {
		line := m.Nickname + " " + s.TitleMuted.Render("("+m.LoginID+")")
		if m.Role == models.TeamRoleLeader {
			line += " " + lipgloss.NewStyle().Foreground(styles.Current.Warning).Bold(true).Render("LEADER")
		}
		items = append(items, s.ListItem.Render(line))
	}
	if len(items) == 0 {
		items = append(items, s.TitleMuted.Render("No members"))
	}

	rows := []string{
		s.Title.Render(fmt.Sprintf("Members — %s (%d)", v.team.Name, len(v.members))),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
	}

	if v.inviting {
		rows = append(rows,
			"",
			"Invite by login ID:",
			s.InputFocused.Width(clamp(contentWidth-10, 20, 40)).Render(v.inviteInput.View()),
			"",
			s.TitleMuted.Render("↵: invite • Esc: cancel"),
		)
	} else {
		rows = append(rows, "", s.TitleMuted.Render("i: invite • Esc: back"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s status • %s edit • %s new • %s del • %s search • %s filter • %s members • %s back • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("v"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	)
}
