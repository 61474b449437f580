package api

import (
	"context"

	"github.com/coworkhq/cowork/internal/models"
)

// LoginRequest is the credential pair for POST /auth/login
type LoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token plus a profile summary
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	LoginID     string `json:"loginId"`
	Nickname    string `json:"nickname"`
	Role        string `json:"role"`
}

// SignupRequest registers a new account
type SignupRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	out := &LoginResponse{}
	if err := c.post(ctx, "/auth/login", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Signup registers a new account. It does not log the account in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.post(ctx, "/auth/signup", req, nil)
}

// Me fetches the authenticated user's profile
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	out := &models.User{}
	if err := c.get(ctx, "/users/me", out); err != nil {
		return nil, err
	}
	return out, nil
}
