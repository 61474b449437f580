package api

import (
	"context"
	"fmt"

	"github.com/coworkhq/cowork/internal/models"
)

// TaskCreateRequest creates a task on a team board. Creation carries no
// version; the server assigns the initial one.
type TaskCreateRequest struct {
	Title         string          `json:"title"`
	Content       string          `json:"content,omitempty"`
	Status        models.Status   `json:"status,omitempty"`
	Priority      models.Priority `json:"priority,omitempty"`
	Deadline      *models.Date    `json:"deadline,omitempty"`
	WorkerLoginID string          `json:"workerLoginId,omitempty"`
	ParentID      *int64          `json:"parentId,omitempty"`
}

// TaskUpdateRequest partially updates a task. Version must be the value
// most recently observed from a fetch or mutation response — never a
// guessed one. A stale version is rejected by the server with a conflict.
type TaskUpdateRequest struct {
	Title         *string          `json:"title,omitempty"`
	Content       *string          `json:"content,omitempty"`
	Status        *models.Status   `json:"status,omitempty"`
	Priority      *models.Priority `json:"priority,omitempty"`
	Deadline      *models.Date     `json:"deadline,omitempty"`
	WorkerLoginID *string          `json:"workerLoginId,omitempty"`
	Version       int64            `json:"version"`
}

// CreateTask creates a task on a team
func (c *Client) CreateTask(ctx context.Context, teamID int64, req TaskCreateRequest) (*models.Task, error) {
	out := &models.Task{}
	if err := c.post(ctx, fmt.Sprintf("/teams/%d/tasks", teamID), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTeamTasks returns all tasks on a team board
func (c *Client) ListTeamTasks(ctx context.Context, teamID int64) ([]models.Task, error) {
	var out []models.Task
	if err := c.get(ctx, fmt.Sprintf("/teams/%d/tasks", teamID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMyTasks returns tasks assigned to the current user across teams
func (c *Client) ListMyTasks(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	if err := c.get(ctx, "/tasks/my", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask retrieves a task by ID
func (c *Client) GetTask(ctx context.Context, taskID int64) (*models.Task, error) {
	out := &models.Task{}
	if err := c.get(ctx, fmt.Sprintf("/tasks/%d", taskID), out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTask submits a partial update. The returned task carries the new
// version and must replace the caller's copy; on a conflict the caller
// refetches rather than retrying.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, req TaskUpdateRequest) (*models.Task, error) {
	out := &models.Task{}
	if err := c.patch(ctx, fmt.Sprintf("/tasks/%d", taskID), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTask deletes a task. No version check applies.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	return c.delete(ctx, fmt.Sprintf("/tasks/%d", taskID))
}
