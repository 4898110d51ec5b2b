package api

import (
	"context"
	"net/http"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

func (ac *AuthClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := ac.c.DoJSON(ctx, http.MethodPost, "/api/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and signs it in, returning the same
// token/user pair as Login.
func (ac *AuthClient) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := ac.c.DoJSON(ctx, http.MethodPost, "/api/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AuthClient) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := ac.c.DoJSON(ctx, http.MethodGet, "/api/auth/profile", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (ac *AuthClient) UpdateProfile(ctx context.Context, u User) (*User, error) {
	var out User
	if err := ac.c.DoJSON(ctx, http.MethodPut, "/api/auth/profile", "", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping is the session keep-alive; the server refreshes the token TTL.
func (ac *AuthClient) Ping(ctx context.Context) error {
	return ac.c.DoJSON(ctx, http.MethodPost, "/api/auth/ping", "", nil, nil)
}
