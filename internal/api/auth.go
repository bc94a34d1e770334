package api

import (
	"context"
	"fmt"

	"taskdeck/internal/model"
)

// Login exchanges credentials for a bearer token and the resolved user.
func (c *Client) Login(
	ctx context.Context,
	creds model.Credentials,
) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &resp, nil
}

// Register creates a new account and returns a bearer token and the
// resolved user.
func (c *Client) Register(
	ctx context.Context,
	profile model.Profile,
) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.Post(ctx, "/auth/register", profile, &resp); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &resp, nil
}

// CurrentUser resolves the user behind the installed bearer token.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.Get(ctx, "/auth/me", &user); err != nil {
		return nil, fmt.Errorf("resolving current user: %w", err)
	}
	return &user, nil
}

// Users lists all registered users, used to populate member pickers.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.Get(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
