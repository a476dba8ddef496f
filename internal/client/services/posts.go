package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/brainswap/internal/client/client"
	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

const (
	msgPostsLoadFailed    = "Failed to load posts"
	msgPostLoadFailed     = "Failed to load post"
	msgPostCreateFailed   = "Failed to create post"
	msgPostDeleteFailed   = "Failed to delete post. Please try again."
	msgAlreadyScheduled   = "You have already scheduled this call"
	msgScheduleFailed     = "Failed to schedule call. Please try again."
	msgCallNotSchedulable = "This call cannot be scheduled"
	msgCallNotFound       = "Call not found"
)

// maxParallelCalls bounds concurrent call-creation requests.
const maxParallelCalls = 4

type PostService interface {
	// List returns the posts shown under tab.
	List(ctx context.Context, tab models.Tab) ([]models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	// Mine lists the posts owned by the logged-in user.
	Mine(ctx context.Context) ([]models.Post, error)
	// Create validates the draft, creates the post, then all of its calls.
	// When some calls fail the result is a *PartialCreateError.
	Create(ctx context.Context, draft *forms.PostDraft) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	// Schedule joins call callID of post and returns the refetched post.
	Schedule(ctx context.Context, post *models.Post, callID int64) (*models.Post, error)
}

type postService struct {
	api     client.Client
	session Session
}

func NewPostService(api client.Client, s Session) PostService {
	return &postService{api: api, session: s}
}

func (p *postService) List(ctx context.Context, tab models.Tab) ([]models.Post, error) {
	posts, err := p.api.ListPosts(ctx)
	if err != nil {
		return nil, fail(p.session.HandleError(err), msgPostsLoadFailed)
	}
	return models.FilterByTab(posts, tab), nil
}

func (p *postService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := p.api.GetPost(ctx, id)
	if err != nil {
		return nil, fail(p.session.HandleError(err), msgPostLoadFailed)
	}
	return post, nil
}

func (p *postService) Mine(ctx context.Context) ([]models.Post, error) {
	id, err := userID(p.session)
	if err != nil {
		return nil, err
	}
	posts, err := p.api.ListUserPosts(ctx, id)
	if err != nil {
		return nil, fail(p.session.HandleError(err), msgPostsLoadFailed)
	}
	return posts, nil
}

func (p *postService) Create(ctx context.Context, draft *forms.PostDraft) (*models.Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	ownerID, err := userID(p.session)
	if err != nil {
		return nil, err
	}

	post, err := p.api.CreatePost(ctx, draft.Request(ownerID))
	if err != nil {
		return nil, fail(p.session.HandleError(err), msgPostCreateFailed)
	}

	reqs := forms.CallRequests(draft.Calls, post.ID, ownerID, draft.Type)
	errs := make([]error, len(reqs))
	created := make([]*models.Call, len(reqs))

	// no WithContext: one failed call must not cancel its siblings
	var g errgroup.Group
	g.SetLimit(maxParallelCalls)
	for i, req := range reqs {
		g.Go(func() error {
			call, err := p.api.CreateCall(ctx, req)
			created[i], errs[i] = call, p.session.HandleError(err)
			return nil
		})
	}
	_ = g.Wait()

	var failed []FailedCall
	for i, err := range errs {
		if err != nil {
			failed = append(failed, FailedCall{Call: draft.Calls[i], Err: err})
		} else if created[i] != nil {
			post.Calls = append(post.Calls, *created[i])
		}
	}
	if len(failed) > 0 {
		perr := &PartialCreateError{Post: post, Failed: failed, Total: len(reqs)}
		return post, &Error{
			Message: fmt.Sprintf("Post created, but %d of %d calls could not be scheduled", len(failed), len(reqs)),
			Err:     perr,
		}
	}
	return post, nil
}

func (p *postService) Delete(ctx context.Context, id int64) error {
	if _, err := userID(p.session); err != nil {
		return err
	}
	if err := p.api.DeletePost(ctx, id); err != nil {
		return &Error{Message: msgPostDeleteFailed, Err: p.session.HandleError(err)}
	}
	return nil
}

func (p *postService) Schedule(ctx context.Context, post *models.Post, callID int64) (*models.Post, error) {
	uid, err := userID(p.session)
	if err != nil {
		return nil, err
	}

	var call *models.Call
	for i := range post.Calls {
		if post.Calls[i].ID == callID {
			call = &post.Calls[i]
			break
		}
	}
	if call == nil {
		return nil, &forms.ValidationError{Message: msgCallNotFound}
	}
	if !call.CanSchedule(uid, post.Owner.ID) {
		return nil, &forms.ValidationError{Message: msgCallNotSchedulable}
	}

	if _, err := p.api.ScheduleCall(ctx, models.ScheduleCallRequest{CallID: callID, UserID: uid}); err != nil {
		err = p.session.HandleError(err)
		switch {
		case errors.Is(err, client.ErrConflict):
			return nil, &Error{Message: msgAlreadyScheduled, Err: err}
		case errors.Is(err, client.ErrUnavailable):
			return nil, fail(err, msgScheduleFailed)
		default:
			return nil, &Error{Message: msgScheduleFailed, Err: err}
		}
	}

	return p.Get(ctx, post.ID)
}
