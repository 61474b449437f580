package api

import (
	"context"
	"fmt"

	"github.com/coworkhq/cowork/internal/models"
)

// TeamCreateRequest creates a team; the creator becomes its leader
type TeamCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// InviteRequest adds an existing user to a team by login id
type InviteRequest struct {
	LoginID string `json:"loginId"`
}

// CreateTeam creates a new team
func (c *Client) CreateTeam(ctx context.Context, req TeamCreateRequest) (*models.Team, error) {
	out := &models.Team{}
	if err := c.post(ctx, "/teams", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTeams returns the teams the current user belongs to
func (c *Client) ListTeams(ctx context.Context) ([]models.Team, error) {
	var out []models.Team
	if err := c.get(ctx, "/teams", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTeam retrieves a team by ID
func (c *Client) GetTeam(ctx context.Context, teamID int64) (*models.Team, error) {
	out := &models.Team{}
	if err := c.get(ctx, fmt.Sprintf("/teams/%d", teamID), out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTeamMembers returns all members of a team
func (c *Client) ListTeamMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	var out []models.TeamMember
	if err := c.get(ctx, fmt.Sprintf("/teams/%d/members", teamID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InviteMember invites a user to a team
func (c *Client) InviteMember(ctx context.Context, teamID int64, req InviteRequest) (*models.TeamMember, error) {
	out := &models.TeamMember{}
	if err := c.post(ctx, fmt.Sprintf("/teams/%d/invite", teamID), req, out); err != nil {
		return nil, err
	}
	return out, nil
}
