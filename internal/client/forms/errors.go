package forms

import "errors"

// ValidationError blocks a submission client-side.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Message returns the user-facing text of a validation failure.
func Message(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
