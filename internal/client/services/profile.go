package services

import (
	"context"

	"github.com/dmitrijs2005/brainswap/internal/client/client"
	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

const (
	msgProfileLoadFailed   = "Failed to load profile"
	msgProfileUpdateFailed = "Failed to update profile"
	msgAddBalanceFailed    = "Failed to add balance. Please try again."
)

// ProfileUpdate is the edit-profile form. An empty Password keeps the
// current one.
type ProfileUpdate struct {
	Username string
	Email    string
	Password string
	Skills   []models.SkillRef
}

type ProfileService interface {
	// Profile refetches the profile snapshot.
	Profile(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, upd ProfileUpdate) (*models.User, error)
	// AddBalance tops up by a positive whole amount typed by the user.
	AddBalance(ctx context.Context, amount string) (*models.User, error)
}

type profileService struct {
	api     client.Client
	session Session
}

func NewProfileService(api client.Client, s Session) ProfileService {
	return &profileService{api: api, session: s}
}

func (p *profileService) Profile(ctx context.Context) (*models.User, error) {
	if _, err := userID(p.session); err != nil {
		return nil, err
	}
	u, err := p.session.RefreshProfile(ctx)
	if err != nil {
		return nil, fail(err, msgProfileLoadFailed)
	}
	return u, nil
}

func (p *profileService) Update(ctx context.Context, upd ProfileUpdate) (*models.User, error) {
	id, err := userID(p.session)
	if err != nil {
		return nil, err
	}

	req := models.UpdateUserRequest{
		Username: upd.Username,
		Email:    upd.Email,
		Password: upd.Password,
		Skills:   upd.Skills,
	}
	if _, err := p.api.UpdateUser(ctx, id, req); err != nil {
		return nil, fail(p.session.HandleError(err), msgProfileUpdateFailed)
	}

	u, err := p.session.RefreshProfile(ctx)
	if err != nil {
		return nil, fail(err, msgProfileLoadFailed)
	}
	return u, nil
}

func (p *profileService) AddBalance(ctx context.Context, amount string) (*models.User, error) {
	n, err := forms.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	id, err := userID(p.session)
	if err != nil {
		return nil, err
	}

	if _, err := p.api.AddBalance(ctx, models.AddBalanceRequest{ID: id, Balance: n}); err != nil {
		return nil, &Error{Message: msgAddBalanceFailed, Err: p.session.HandleError(err)}
	}

	u, err := p.session.RefreshProfile(ctx)
	if err != nil {
		return nil, fail(err, msgProfileLoadFailed)
	}
	return u, nil
}
