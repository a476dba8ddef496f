package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/brainswap/internal/client/client"
	"github.com/dmitrijs2005/brainswap/internal/client/forms"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/client/session"
)

const MsgLoginRequired = "Please log in first."

// Error pairs the message shown to the user with its cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage picks the text to show for err: the message of a validation
// failure or service error, the connectivity banner, the server-supplied
// message, and fallback otherwise.
func UserMessage(err error, fallback string) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	if msg, ok := forms.Message(err); ok {
		return msg
	}
	if errors.Is(err, client.ErrUnavailable) {
		return client.UnavailableMessage
	}
	if errors.Is(err, session.ErrNotAuthenticated) {
		return MsgLoginRequired
	}
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	return fallback
}

func fail(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return &Error{Message: UserMessage(err, fallback), Err: err}
}

// FailedCall is a staged call whose creation request failed.
type FailedCall struct {
	Call forms.StagedCall
	Err  error
}

// PartialCreateError reports a post that was created while some of its calls
// were not. Nothing is rolled back.
type PartialCreateError struct {
	Post   *models.Post
	Failed []FailedCall
	Total  int
}

func (e *PartialCreateError) Error() string {
	return fmt.Sprintf("post %d created but %d of %d calls failed", e.Post.ID, len(e.Failed), e.Total)
}

func (e *PartialCreateError) Unwrap() []error {
	out := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		out[i] = f.Err
	}
	return out
}
