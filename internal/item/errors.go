package item

import (
	"errors"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrNoData means a provider had nothing to return.
	ErrNoData = errors.New("no data")
	// ErrLocked means shared state could not be acquired without blocking.
	ErrLocked = errors.New("locked")
	// ErrActionFailed means an action's run reported a failure.
	ErrActionFailed = errors.New("action failed")
	// ErrChannelFailed means a result could not be delivered to the controller.
	ErrChannelFailed = errors.New("channel failed")
	// ErrNotSelectable means the item lacks the capability the key asked for.
	ErrNotSelectable = errors.New("not selectable")
)

// Error is a kinded error with a message meant for the user.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	case e.Kind != nil:
		return e.Kind.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewError returns an error of the given kind.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Failed wraps a run failure as ErrActionFailed. Errors that already carry a
// kind are returned unchanged.
func Failed(err error) error {
	if err == nil {
		return nil
	}
	var ie *Error
	if errors.As(err, &ie) {
		return err
	}
	return &Error{Kind: ErrActionFailed, Err: err}
}
