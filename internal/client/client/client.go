package client

import (
	"context"

	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

// Client is the BrainSwap REST API as seen by the client. Each method maps to
// exactly one endpoint.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)

	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error)
	AddBalance(ctx context.Context, req models.AddBalanceRequest) (*models.User, error)

	ListSkills(ctx context.Context) ([]models.Skill, error)

	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListUserPosts(ctx context.Context, userID int64) ([]models.Post, error)
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error

	CreateCall(ctx context.Context, req models.CreateCallRequest) (*models.Call, error)
	ScheduleCall(ctx context.Context, req models.ScheduleCallRequest) (*models.Call, error)
}
