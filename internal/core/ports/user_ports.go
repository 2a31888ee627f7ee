package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
)

type UserRepository interface {
	// GetByEmail returns nil, nil when no user has the email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
	// Create relies on the unique email index and returns domain.ErrEmailTaken
	// on a violation.
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput is a partial patch; nil fields are left untouched. Role and
// password changes are only honored on the admin path.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

type UserPage struct {
	Users    []*domain.User `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
