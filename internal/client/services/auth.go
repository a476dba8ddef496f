package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/brainswap/internal/client/client"
	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

const (
	msgLoginFailed        = "Login failed. Please check your credentials."
	msgRegistrationFailed = "Registration failed"
)

// AuthService logs users in and out and registers new accounts.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	// Register validates the credentials again, then creates the account
	// with the chosen skills and starts a session.
	Register(ctx context.Context, creds forms.RegisterForm, skills []models.SkillRef) (*models.User, error)
	Logout(ctx context.Context) error
}

type authService struct {
	session Session
}

func NewAuthService(s Session) AuthService {
	return &authService{session: s}
}

func (a *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if err := (forms.LoginForm{Username: username, Password: password}).Validate(); err != nil {
		return nil, err
	}

	u, err := a.session.Login(ctx, username, password)
	if err != nil {
		if _, ok := a.session.Claims(); ok {
			// logged in; only the profile fetch failed
			return nil, nil
		}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return nil, &Error{Message: msgLoginFailed, Err: err}
		}
		return nil, fail(err, msgLoginFailed)
	}
	return u, nil
}

func (a *authService) Register(ctx context.Context, creds forms.RegisterForm, skills []models.SkillRef) (*models.User, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []models.SkillRef{}
	}

	u, err := a.session.Register(ctx, models.RegisterRequest{
		Username: creds.Username,
		Email:    creds.Email,
		Password: creds.Password,
		Skills:   skills,
	})
	if err != nil {
		if _, ok := a.session.Claims(); ok {
			return nil, nil
		}
		return nil, fail(err, msgRegistrationFailed)
	}
	return u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}
