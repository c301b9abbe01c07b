package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// ErrIncompleteLogin is returned when a login response lacks a token or role
var ErrIncompleteLogin = errors.New("Invalid credentials or missing role/token.")

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. A response without a token or a
// role is rejected with ErrIncompleteLogin.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}

	if strings.TrimSpace(resp.Token) == "" || strings.TrimSpace(resp.User.Role) == "" {
		return nil, ErrIncompleteLogin
	}
	return &resp, nil
}

// ForgotPassword asks the backend to mail a reset link
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var msg Message
	err := c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email}, &msg)
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}
