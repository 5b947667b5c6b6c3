// file: internal/client/auth.go
// version: 2.0.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-1d2e3f4a5b60

package client

import (
	"context"
	"net/http"

	"github.com/obodeflix/obodeflix/internal/models"
)

// Session is the token and user returned by signup and login.
type Session struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// Signup registers a new account and adopts its session token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/user/create", nil, body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Login authenticates and adopts the session token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/user/login", nil, body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Logout revokes the current session and drops the token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/user/logout", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers is admin-only.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (models.Page[models.User], error) {
	var page models.Page[models.User]
	err := c.do(ctx, http.MethodGet, "/user/all", opts.values(), nil, &page)
	return page, err
}
