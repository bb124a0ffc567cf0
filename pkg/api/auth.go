package api

import "context"

// Credentials is the login request body.
type Credentials struct {
	UserName     string `json:"user_name"`
	UserPassword string `json:"user_password"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// SignupRequest creates a new account (Admin only).
type SignupRequest struct {
	UserName     string `json:"user_name"`
	UserPassword string `json:"user_password"`
	UserEmail    string `json:"user_email"`
	UserRole     string `json:"user_role"`
}

// Login exchanges credentials for a session token. The token is NOT applied
// to the client; the session store owns that decision.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doJSON(ctx, "POST", c.authPath+"login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.doJSON(ctx, "POST", c.authPath+"signup", req, nil)
}

// Logout revokes the token server-side. Callers treat this as
// fire-and-forget; the local session is torn down regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "POST", c.authPath+"logout", nil, nil)
}

// RefreshToken asks for a fresh token using the current bearer token.
func (c *Client) RefreshToken(ctx context.Context) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doJSON(ctx, "POST", c.authPath+"refresh", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResendVerification re-sends the email verification code.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{"user_email": email}
	return c.doJSON(ctx, "POST", c.authPath+"resend-verification", body, nil)
}
