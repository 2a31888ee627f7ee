package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindConflict
	KindForbidden
	KindInvalidInput
	KindStateConflict
	KindStorage
)

// Error is the closed failure set the transport layer maps to statuses.
// Boundary code switches on Kind, never on the message text.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrPollNotFound   = &Error{Kind: KindNotFound, Message: "poll not found"}
	ErrOptionNotFound = &Error{Kind: KindNotFound, Message: "option not found in poll"}
	ErrUserNotFound   = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrDidNotVote     = &Error{Kind: KindNotFound, Message: "user did not vote on this poll"}

	ErrAlreadyVoted = &Error{Kind: KindConflict, Message: "user has already voted on this poll"}
	ErrEmailTaken   = &Error{Kind: KindConflict, Message: "user already exists with this email"}

	ErrNotPollCreator     = &Error{Kind: KindForbidden, Message: "not authorized to modify this poll"}
	ErrInvalidCredentials = &Error{Kind: KindForbidden, Message: "invalid email or password"}

	ErrInvalidOption = &Error{Kind: KindInvalidInput, Message: "invalid option for this poll"}

	ErrPollLocked  = &Error{Kind: KindStateConflict, Message: "poll is locked"}
	ErrPollExpired = &Error{Kind: KindStateConflict, Message: "poll has expired"}
)

// Invalid builds an input-validation failure with a caller-facing message.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from any error in the chain. Errors that do not
// carry a kind (driver failures, context cancellation) count as storage
// failures and are treated as opaque by the boundary.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}
