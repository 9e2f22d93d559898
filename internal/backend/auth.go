package backend

import (
	"context"
	"net/http"

	"github.com/julianstephens/dayglow/internal/models"
)

type Auth struct {
	c *Client
}

func (c *Client) Auth() *Auth { return &Auth{c: c} }

// Me returns the signed-in user.
func (a *Auth) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := a.c.do(ctx, http.MethodGet, a.c.appPath("entities", models.EntityUser, "me"), nil, nil, &u)
	return u, err
}

// UpdateMe patches the signed-in user's profile fields.
func (a *Auth) UpdateMe(ctx context.Context, patch map[string]any) (models.User, error) {
	var u models.User
	err := a.c.do(ctx, http.MethodPut, a.c.appPath("entities", models.EntityUser, "me"), nil, patch, &u)
	return u, err
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// Login exchanges credentials for a session token and starts using it.
func (a *Auth) Login(ctx context.Context, email, password string) (string, models.User, error) {
	var res loginResponse
	if err := a.c.do(ctx, http.MethodPost, a.c.appPath("auth", "login"), nil, loginRequest{email, password}, &res); err != nil {
		return "", models.User{}, err
	}
	a.c.SetToken(res.AccessToken)
	return res.AccessToken, res.User, nil
}
