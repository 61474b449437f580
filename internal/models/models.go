package models

// User roles as the server reports them.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Team roles, relative to the requesting user.
const (
	TeamRoleLeader = "LEADER"
	TeamRoleMember = "MEMBER"
)

// Status is a task's board column.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists all task statuses in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Label returns a human-readable column name
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Priority is a task's priority level.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists all task priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// User represents the authenticated account profile
type User struct {
	ID        int64    `json:"id"`
	LoginID   string   `json:"loginId"`
	Nickname  string   `json:"nickname"`
	Role      string   `json:"role"`
	CreatedAt DateTime `json:"createdAt"`
}

// Team represents a team as seen by the requesting user
type Team struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MyRole      string   `json:"myRole"`
	CreatedAt   DateTime `json:"createdAt"`
}

// TeamMember represents a user's membership in a team
type TeamMember struct {
	ID       int64    `json:"id"`
	LoginID  string   `json:"loginId"`
	Nickname string   `json:"nickname"`
	Role     string   `json:"role"`
	JoinedAt DateTime `json:"joinedAt"`
}

// Task represents a single task on a team board.
// Version is the optimistic-concurrency token: updates must echo the
// last-observed value or the server rejects them with a conflict.
type Task struct {
	ID             int64    `json:"id"`
	TeamID         int64    `json:"teamId"`
	TeamName       string   `json:"teamName"`
	WorkerLoginID  *string  `json:"workerLoginId"`
	WorkerNickname *string  `json:"workerNickname"`
	ParentID       *int64   `json:"parentId"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority"`
	Deadline       *Date    `json:"deadline"`
	Version        int64    `json:"version"`
	CreatedAt      DateTime `json:"createdAt"`
	UpdatedAt      DateTime `json:"updatedAt"`
}

// Comment represents a comment on a task. Comments are immutable once created.
type Comment struct {
	ID             int64    `json:"id"`
	Content        string   `json:"content"`
	TaskID         int64    `json:"taskId"`
	WriterLoginID  string   `json:"writerLoginId"`
	WriterNickname string   `json:"writerNickname"`
	CreatedAt      DateTime `json:"createdAt"`
}
