package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
	"github.com/4UT15T1Ck/pollApp/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type pollService struct {
	repo     ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewPollService(repo ports.PollRepository, voteRepo ports.VoteRepository) ports.PollService {
	return &pollService{
		repo:     repo,
		voteRepo: voteRepo,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput, creatorID uuid.UUID) (*domain.Poll, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.Invalid("poll title is required")
	}
	if len(input.Options) < 2 {
		return nil, domain.Invalid("poll must have at least two options")
	}
	for _, optText := range input.Options {
		if strings.TrimSpace(optText) == "" {
			return nil, domain.Invalid("all options must have non-empty text")
		}
	}

	pollID := uuid.New()
	now := time.Now()

	poll := &domain.Poll{
		ID:          pollID,
		Title:       input.Title,
		Description: input.Description,
		CreatorID:   creatorID,
		ExpiresAt:   input.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, optText := range input.Options {
		poll.Options = append(poll.Options, domain.PollOption{
			ID:        uuid.New(),
			PollID:    pollID,
			Text:      optText,
			CreatedAt: now,
		})
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

// GetPoll materializes the detail view: every option carries its vote count
// and voter list, grouped from the ledger in read order.
func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	poll, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.GetByPoll(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	votersByOption := make(map[uuid.UUID][]domain.Voter)
	for _, vote := range votes {
		votersByOption[vote.OptionID] = append(votersByOption[vote.OptionID], domain.Voter{
			ID:   vote.UserID,
			Name: vote.VoterName,
		})
	}

	for i := range poll.Options {
		voters := votersByOption[poll.Options[i].ID]
		poll.Options[i].Votes = int64(len(voters))
		poll.Options[i].Voters = voters
	}
	// One vote per user per poll, so this also equals the distinct voter count.
	poll.TotalVotes = int64(len(votes))

	return poll, nil
}

func (s *pollService) ListPolls(ctx context.Context, page, pageSize int) (*domain.PollPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	polls, err := s.repo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.PollPage{
		Polls:    polls,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *pollService) Update(ctx context.Context, id string, input ports.UpdatePollInput, callerID uuid.UUID) (*domain.Poll, error) {
	poll, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Creator-only, even for admins who passed the route gate. Kept as the
	// documented policy; Delete has no equivalent check.
	if poll.CreatorID != callerID {
		return nil, domain.ErrNotPollCreator
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, domain.Invalid("poll title is required")
		}
		poll.Title = *input.Title
	}
	if input.Description != nil {
		poll.Description = *input.Description
	}
	if input.ExpiresAt != nil {
		poll.ExpiresAt = input.ExpiresAt
	}
	poll.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) Delete(ctx context.Context, id string) error {
	poll, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, poll.ID); err != nil {
		return err
	}
	return s.voteRepo.DeleteByPoll(ctx, poll.ID)
}

func (s *pollService) Lock(ctx context.Context, id string) (*domain.Poll, error) {
	return s.setLocked(ctx, id, true)
}

func (s *pollService) Unlock(ctx context.Context, id string) (*domain.Poll, error) {
	return s.setLocked(ctx, id, false)
}

func (s *pollService) setLocked(ctx context.Context, id string, locked bool) (*domain.Poll, error) {
	poll, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	poll.IsLocked = locked
	poll.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) AddOption(ctx context.Context, id string, text string) (*domain.Poll, error) {
	poll, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if poll.IsLocked {
		return nil, domain.ErrPollLocked
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.Invalid("option text is required")
	}

	now := time.Now()
	poll.Options = append(poll.Options, domain.PollOption{
		ID:        uuid.New(),
		PollID:    poll.ID,
		Text:      text,
		CreatedAt: now,
	})
	poll.UpdatedAt = now

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) RemoveOption(ctx context.Context, id string, optionID string) (*domain.Poll, error) {
	optID, err := uuid.Parse(optionID)
	if err != nil {
		return nil, domain.Invalid("invalid option id")
	}

	poll, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if poll.IsLocked {
		return nil, domain.ErrPollLocked
	}

	idx := -1
	for i := range poll.Options {
		if poll.Options[i].ID == optID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, domain.ErrOptionNotFound
	}

	poll.Options = append(poll.Options[:idx], poll.Options[idx+1:]...)
	poll.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}
	// No rollback if this fails after the save; see the cascade notes.
	if err := s.voteRepo.DeleteByPollAndOption(ctx, poll.ID, optID); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) getByID(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.Invalid("invalid poll id")
	}
	return s.repo.GetByID(ctx, pollID)
}
