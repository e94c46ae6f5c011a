package cartapi

import (
	"context"
	"net/http"
)

// Session is what POST /v1/login hands back.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	in := map[string]string{"email": email, "password": password}
	var s Session
	if err := c.do(ctx, "login", http.MethodPost, "/v1/login", in, &s); err != nil {
		return Session{}, err
	}
	if s.Token == "" || s.UserID == "" {
		return Session{}, &Error{Op: "login", Status: http.StatusOK, Message: "login response carries no token"}
	}
	return s, nil
}
