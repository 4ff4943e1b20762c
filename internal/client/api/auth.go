package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// authEnvelope covers both {success, token, user} and the same pair
// nested under data.
type authEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Data    *struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	} `json:"data"`
}

func (g *Gateway) authenticate(ctx context.Context, path string, body any, fallback string) (AuthResult, error) {
	raw, err := g.DoRaw(ctx, http.MethodPost, path, body)
	if err != nil {
		return AuthResult{}, err
	}

	var env authEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return AuthResult{}, &Error{Kind: ErrBadResponse, Method: http.MethodPost, Path: path, Cause: err}
	}

	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return AuthResult{}, &Error{Kind: ErrClient, Status: http.StatusOK, Message: msg, Method: http.MethodPost, Path: path}
	}

	res := AuthResult{Token: env.Token}
	if env.User != nil {
		res.User = *env.User
	}
	if env.Data != nil {
		if res.Token == "" {
			res.Token = env.Data.Token
		}
		if env.User == nil && env.Data.User != nil {
			res.User = *env.Data.User
		}
	}

	if res.Token == "" {
		return AuthResult{}, &Error{Kind: ErrBadResponse, Message: "response carries no token", Method: http.MethodPost, Path: path}
	}
	if res.User.ID == "" {
		return AuthResult{}, &Error{Kind: ErrBadResponse, Message: "response carries no user", Method: http.MethodPost, Path: path}
	}
	return res, nil
}

// Login exchanges credentials for a token and the user profile.
func (g *Gateway) Login(ctx context.Context, email, password string) (AuthResult, error) {
	return g.authenticate(ctx, PathLogin, LoginRequest{Email: email, Password: password}, "Login failed")
}

// Signup creates an account; the confirmation field always equals password.
func (g *Gateway) Signup(ctx context.Context, username, email, password string) (AuthResult, error) {
	req := SignupRequest{Username: username, Email: email, Password: password, ConfirmPassword: password}
	return g.authenticate(ctx, PathSignup, req, "Signup failed")
}

// Me returns the user the stored token belongs to.
func (g *Gateway) Me(ctx context.Context) (User, error) {
	return Call[User](ctx, g, http.MethodGet, PathMe, nil)
}
