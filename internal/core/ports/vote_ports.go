package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
)

// VoteRepository is the vote ledger. The storage layer enforces at most one
// vote per (poll, user) with a unique index; Create must surface a violation
// as domain.ErrAlreadyVoted so concurrent casts can never both succeed.
type VoteRepository interface {
	Create(ctx context.Context, vote *domain.Vote) error
	// Find returns nil, nil when the user has no vote on the poll.
	Find(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
	// GetByPoll returns the poll's votes in creation order with VoterName filled.
	GetByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Vote, error)
	Delete(ctx context.Context, pollID, userID uuid.UUID) error
	// Cascade deletions; deleting zero rows is not an error.
	DeleteByPoll(ctx context.Context, pollID uuid.UUID) error
	DeleteByPollAndOption(ctx context.Context, pollID, optionID uuid.UUID) error
}

type CastVoteInput struct {
	PollID   uuid.UUID
	OptionID uuid.UUID
	UserID   uuid.UUID
}

type VoteService interface {
	Cast(ctx context.Context, input CastVoteInput) (*domain.Vote, error)
	Withdraw(ctx context.Context, pollID, userID uuid.UUID) error
	GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
}
