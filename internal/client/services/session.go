package services

import (
	"context"

	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/client/session"
)

// Session is what services need from *session.Manager.
type Session interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context) error
	RefreshProfile(ctx context.Context) (*models.User, error)
	CurrentUser() *models.User
	Claims() (session.Claims, bool)
	HandleError(err error) error
}

var _ Session = (*session.Manager)(nil)

// userID returns the id of the logged-in user.
func userID(s Session) (int64, error) {
	c, ok := s.Claims()
	if !ok {
		return 0, &Error{Message: MsgLoginRequired, Err: session.ErrNotAuthenticated}
	}
	return c.UserID, nil
}
