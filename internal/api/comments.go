package api

import (
	"context"
	"fmt"

	"github.com/coworkhq/cowork/internal/models"
)

// CommentCreateRequest adds a comment to a task
type CommentCreateRequest struct {
	Content string `json:"content"`
}

// ListComments returns all comments on a task, oldest first
func (c *Client) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.get(ctx, fmt.Sprintf("/tasks/%d/comments", taskID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment adds a comment to a task
func (c *Client) CreateComment(ctx context.Context, taskID int64, req CommentCreateRequest) (*models.Comment, error) {
	out := &models.Comment{}
	if err := c.post(ctx, fmt.Sprintf("/tasks/%d/comments", taskID), req, out); err != nil {
		return nil, err
	}
	return out, nil
}
