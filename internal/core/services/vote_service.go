package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
	"github.com/4UT15T1Ck/pollApp/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

// Cast runs the vote protocol: the poll must exist, be unlocked and unexpired,
// and the option must be present. The duplicate check here is a fast path;
// the unique index behind VoteRepository.Create is the real arbiter, so two
// concurrent casts for the same user can never both land.
func (s *voteService) Cast(ctx context.Context, input ports.CastVoteInput) (*domain.Vote, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}
	if poll.IsLocked {
		return nil, domain.ErrPollLocked
	}
	if poll.Expired(time.Now()) {
		return nil, domain.ErrPollExpired
	}
	if poll.Option(input.OptionID) == nil {
		return nil, domain.ErrInvalidOption
	}

	existing, err := s.voteRepo.Find(ctx, input.PollID, input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyVoted
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    input.PollID,
		OptionID:  input.OptionID,
		UserID:    input.UserID,
		CreatedAt: time.Now(),
	}

	if err := s.voteRepo.Create(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

// Withdraw is blocked by the lock but not by expiry: a user may still retract
// a vote from an expired poll until it is locked.
func (s *voteService) Withdraw(ctx context.Context, pollID, userID uuid.UUID) error {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.IsLocked {
		return domain.ErrPollLocked
	}

	existing, err := s.voteRepo.Find(ctx, pollID, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrDidNotVote
	}

	return s.voteRepo.Delete(ctx, pollID, userID)
}

func (s *voteService) GetUserVote(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	vote, err := s.voteRepo.Find(ctx, pollID, userID)
	if err != nil {
		return nil, err
	}
	if vote == nil {
		return nil, domain.ErrDidNotVote
	}
	return vote, nil
}
