package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
)

type PollRepository interface {
	// Save inserts the poll or, when it already exists, updates the poll row
	// and syncs the option set (removed options are deleted, new ones inserted).
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	// List returns polls in descending creation order with VotesCount filled.
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreatePollInput struct {
	Title       string
	Description string
	Options     []string
	ExpiresAt   *time.Time
}

// UpdatePollInput is a partial patch; nil fields are left untouched.
type UpdatePollInput struct {
	Title       *string
	Description *string
	ExpiresAt   *time.Time
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput, creatorID uuid.UUID) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListPolls(ctx context.Context, page, pageSize int) (*domain.PollPage, error)
	Update(ctx context.Context, id string, input UpdatePollInput, callerID uuid.UUID) (*domain.Poll, error)
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id string) (*domain.Poll, error)
	Unlock(ctx context.Context, id string) (*domain.Poll, error)
	AddOption(ctx context.Context, id string, text string) (*domain.Poll, error)
	RemoveOption(ctx context.Context, id string, optionID string) (*domain.Poll, error)
}
