package api

import (
	"context"
	"net/http"

	"github.com/deadside-ru/hub/pkg/model"
)

// TokenResponse is the payload returned by login and register.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type,omitempty"`
	User        model.User `json:"user"`
}

// Login submits credentials as a multipart form and returns the bearer
// token plus the authenticated user.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.submitMultipart(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account and returns the bearer token plus the
// new user.
func (c *Client) Register(ctx context.Context, username, email, password string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.postJSON(ctx, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the current user. Requires a bearer token; the backend
// rejects the call otherwise.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, "/auth/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile submits a multipart profile update. The avatar is optional.
func (c *Client) UpdateProfile(ctx context.Context, username, email string, avatar *Attachment) (*model.User, error) {
	files := map[string]*Attachment{}
	if avatar != nil {
		files["avatar"] = avatar
	}
	var user model.User
	err := c.submitMultipart(ctx, http.MethodPut, "/auth/profile", map[string]string{
		"username": username,
		"email":    email,
	}, files, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
