package supabase

import (
	"context"
	"net/http"

	"task_manager/internal/domain"
)

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// Domain converts the provider's user into the app's user.
func (u *User) Domain() *domain.User {
	out := &domain.User{ID: u.ID, Email: u.Email}
	if name, ok := u.UserMetadata["name"].(string); ok {
		out.Name = name
	}
	if phone, ok := u.UserMetadata["phone"].(string); ok {
		out.Phone = phone
	}
	return out
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignUp registers a user. With email confirmation on, the provider answers
// with the bare user, otherwise with a session wrapping it.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*User, error) {
	var resp struct {
		User
		Wrapped *User `json:"user"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/signup",
		body:   credentials{Email: email, Password: password, Data: metadata},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Wrapped != nil && resp.Wrapped.ID != "" {
		return resp.Wrapped, nil
	}
	return &resp.User, nil
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/token?grant_type=password",
		body:   credentials{Email: email, Password: password},
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/logout",
		bearer: accessToken,
	}, nil)
}

// GetUser returns the caller behind accessToken.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var u User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/user",
		bearer: accessToken,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser creates an already confirmed user. Requires the service key.
func (c *Client) CreateUser(ctx context.Context, email, password string, metadata map[string]any) (*User, error) {
	var u User
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/admin/users",
		admin:  true,
		body: map[string]any{
			"email":         email,
			"password":      password,
			"email_confirm": true,
			"user_metadata": metadata,
		},
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
