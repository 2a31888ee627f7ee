// Package memory provides map-backed implementations of the repository ports.
// They mirror the storage-level invariants the postgres adapters get from
// unique indexes, and exist so the services can be exercised without a
// database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
	"github.com/4UT15T1Ck/pollApp/internal/core/ports"
)

type voteKey struct {
	pollID uuid.UUID
	userID uuid.UUID
}

type Store struct {
	mu     sync.Mutex
	polls  map[uuid.UUID]*domain.Poll
	users  map[uuid.UUID]*domain.User
	votes  map[voteKey]*domain.Vote
	order  []voteKey // ledger insertion order
	tokens map[string]*domain.RefreshToken
}

func NewStore() *Store {
	return &Store{
		polls:  make(map[uuid.UUID]*domain.Poll),
		users:  make(map[uuid.UUID]*domain.User),
		votes:  make(map[voteKey]*domain.Vote),
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (s *Store) Polls() ports.PollRepository { return (*pollRepo)(s) }
func (s *Store) Users() ports.UserRepository { return (*userRepo)(s) }
func (s *Store) Votes() ports.VoteRepository { return (*voteRepo)(s) }
func (s *Store) Auth() ports.AuthRepository  { return (*authRepo)(s) }

type pollRepo Store

func (r *pollRepo) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (r *pollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return clonePoll(poll), nil
}

func (r *pollRepo) List(_ context.Context, limit, offset int) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*domain.Poll, 0, len(r.polls))
	for _, poll := range r.polls {
		all = append(all, clonePoll(poll))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	for _, poll := range all {
		for key := range r.votes {
			if key.pollID == poll.ID {
				poll.VotesCount++
			}
		}
	}

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *pollRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.polls)), nil
}

func (r *pollRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.polls, id)
	return nil
}

type voteRepo Store

func (r *voteRepo) Create(_ context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voteKey{pollID: vote.PollID, userID: vote.UserID}
	if _, exists := r.votes[key]; exists {
		return domain.ErrAlreadyVoted
	}
	v := *vote
	if user, ok := r.users[vote.UserID]; ok {
		v.VoterName = user.Name
	}
	r.votes[key] = &v
	r.order = append(r.order, key)
	return nil
}

func (r *voteRepo) Find(_ context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vote, ok := r.votes[voteKey{pollID: pollID, userID: userID}]
	if !ok {
		return nil, nil
	}
	v := *vote
	return &v, nil
}

func (r *voteRepo) GetByPoll(_ context.Context, pollID uuid.UUID) ([]domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var votes []domain.Vote
	for _, key := range r.order {
		if key.pollID != pollID {
			continue
		}
		if vote, ok := r.votes[key]; ok {
			votes = append(votes, *vote)
		}
	}
	return votes, nil
}

func (r *voteRepo) Delete(_ context.Context, pollID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.votes, voteKey{pollID: pollID, userID: userID})
	return nil
}

func (r *voteRepo) DeleteByPoll(_ context.Context, pollID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.votes {
		if key.pollID == pollID {
			delete(r.votes, key)
		}
	}
	return nil
}

func (r *voteRepo) DeleteByPollAndOption(_ context.Context, pollID, optionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, vote := range r.votes {
		if key.pollID == pollID && vote.OptionID == optionID {
			delete(r.votes, key)
		}
	}
	return nil
}

type userRepo Store

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		u := *user
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type authRepo Store

func (r *authRepo) StoreRefreshToken(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	t := *token
	r.tokens[token.TokenHash] = &t
	return nil
}

func (r *authRepo) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, nil
	}
	t := *token
	return &t, nil
}

func (r *authRepo) RevokeRefreshToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.ID.String() == id {
			token.Revoked = true
		}
	}
	return nil
}

func clonePoll(poll *domain.Poll) *domain.Poll {
	p := *poll
	p.Options = append([]domain.PollOption(nil), poll.Options...)
	return &p
}
