package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4UT15T1Ck/pollApp/internal/adapters/repository/memory"
	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
	"github.com/4UT15T1Ck/pollApp/internal/core/ports"
)

type pollFixture struct {
	store   *memory.Store
	polls   ports.PollService
	votes   ports.VoteService
	creator *domain.User
}

func newPollFixture(t *testing.T) *pollFixture {
	t.Helper()

	store := memory.NewStore()
	return &pollFixture{
		store:   store,
		polls:   NewPollService(store.Polls(), store.Votes()),
		votes:   NewVoteService(store.Polls(), store.Votes()),
		creator: addUser(t, store, "Creator"),
	}
}

func (f *pollFixture) createPoll(t *testing.T, title string, options ...string) *domain.Poll {
	t.Helper()

	poll, err := f.polls.Create(context.Background(), ports.CreatePollInput{
		Title:   title,
		Options: options,
	}, f.creator.ID)
	require.NoError(t, err)
	return poll
}

func TestCreatePoll(t *testing.T) {
	f := newPollFixture(t)

	poll := f.createPoll(t, "Lunch spot", "Tacos", "Ramen", "Pizza")

	assert.NotEqual(t, uuid.Nil, poll.ID)
	assert.Equal(t, f.creator.ID, poll.CreatorID)
	assert.False(t, poll.IsLocked)
	require.Len(t, poll.Options, 3)
	// Option display order follows creation order.
	assert.Equal(t, "Tacos", poll.Options[0].Text)
	assert.Equal(t, "Ramen", poll.Options[1].Text)
	assert.Equal(t, "Pizza", poll.Options[2].Text)
}

func TestCreatePollValidation(t *testing.T) {
	f := newPollFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ports.CreatePollInput
	}{
		{"empty title", ports.CreatePollInput{Title: "  ", Options: []string{"A", "B"}}},
		{"single option", ports.CreatePollInput{Title: "T", Options: []string{"A"}}},
		{"no options", ports.CreatePollInput{Title: "T"}},
		{"blank option text", ports.CreatePollInput{Title: "T", Options: []string{"A", "  "}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.polls.Create(ctx, tc.input, f.creator.ID)
			require.Error(t, err)
			assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
		})
	}
}

func TestGetPollNotFound(t *testing.T) {
	f := newPollFixture(t)

	_, err := f.polls.GetPoll(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	_, err = f.polls.GetPoll(context.Background(), "not-a-uuid")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}

func TestUpdatePollCreatorOnly(t *testing.T) {
	f := newPollFixture(t)
	ctx := context.Background()
	poll := f.createPoll(t, "Original", "A", "B")

	other := addUser(t, f.store, "Other")
	title := "Hijacked"
	_, err := f.polls.Update(ctx, poll.ID.String(), ports.UpdatePollInput{Title: &title}, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotPollCreator)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	title = "Renamed"
	desc := "now with a description"
	updated, err := f.polls.Update(ctx, poll.ID.String(), ports.UpdatePollInput{Title: &title, Description: &desc}, f.creator.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "now with a description", updated.Description)
	// Untouched fields survive a partial update.
	assert.Len(t, updated.Options, 2)
}

func TestLockUnlock(t *testing.T) {
	f := newPollFixture(t)
	ctx := context.Background()
	poll := f.createPoll(t, "Lockable", "A", "B")

	locked, err := f.polls.Lock(ctx, poll.ID.String())
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	// Locking twice is idempotent.
	locked, err = f.polls.Lock(ctx, poll.ID.String())
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	unlocked, err := f.polls.Unlock(ctx, poll.ID.String())
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked)
}

func TestAddOption(t *testing.T) {
	f := newPollFixture(t)
	ctx := context.Background()
	poll := f.createPoll(t, "Growing", "A", "B")

	updated, err := f.polls.AddOption(ctx, poll.ID.String(), "C")
	require.NoError(t, err)
	require.Len(t, updated.Options, 3)
	assert.Equal(t, "C", updated.Options[2].Text)

	_, err = f.polls.AddOption(ctx, poll.ID.String(), "   ")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = f.polls.Lock(ctx, poll.ID.String())
	require.NoError(t, err)
	_, err = f.polls.AddOption(ctx, poll.ID.String(), "D")
	assert.ErrorIs(t, err, domain.ErrPollLocked)
}

func TestRemoveOptionDiscardsItsVotes(t *testing.T) {
	f := newPollFixture(t)
	ctx := context.Background()
	poll := f.createPoll(t, "Shrinking", "A", "B")

	u1 := addUser(t, f.store, "U1")
	u2 := addUser(t, f.store, "U2")
	castVote(t, f.votes, poll, u1, 0)
	castVote(t, f.votes, poll, u2, 1)

	updated, err := f.polls.RemoveOption(ctx, poll.ID.String(), poll.Options[0].ID.String())
	require.NoError(t, err)
	require.Len(t, updated.Options, 1)
	assert.Equal(t, "B", updated.Options[0].Text)

	// u1's vote went with the option; u2's vote is untouched.
	detail, err := f.polls.GetPoll(ctx, poll.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.TotalVotes)
	_, err = f.votes.GetUserVote(ctx, poll.ID, u1.ID)
	assert.ErrorIs(t, err, domain.ErrDidNotVote)

	_, err = f.polls.RemoveOption(ctx, poll.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)
}

func TestRemoveOptionOnLockedPoll(t *testing.T) {
	f := newPollFixture(t)
	ctx := context.Background()
	poll := f.createPoll(t, "Frozen", "A", "B")

	_, err := f.polls.Lock(ctx, poll.ID.String())
	require.NoError(t, err)

	_, err = f.polls.RemoveOption(ctx, poll.ID.String(), poll.Options[0].ID.String())
	assert.ErrorIs(t, err, domain.ErrPollLocked)
}

func TestDeletePollCascadesVotes(t *testing.T) {
	f := newPollFixture(t)
	ctx := context.Background()
	poll := f.createPoll(t, "Doomed", "A", "B")

	u1 := addUser(t, f.store, "U1")
	castVote(t, f.votes, poll, u1, 0)

	require.NoError(t, f.polls.Delete(ctx, poll.ID.String()))

	_, err := f.polls.GetPoll(ctx, poll.ID.String())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	votes, err := f.store.Votes().GetByPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestListPolls(t *testing.T) {
	f := newPollFixture(t)
	ctx := context.Background()

	first := f.createPoll(t, "First", "A", "B")
	time.Sleep(5 * time.Millisecond)
	second := f.createPoll(t, "Second", "A", "B")
	time.Sleep(5 * time.Millisecond)
	third := f.createPoll(t, "Third", "A", "B")

	u1 := addUser(t, f.store, "U1")
	castVote(t, f.votes, first, u1, 0)

	page, err := f.polls.ListPolls(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Polls, 2)
	// Newest first.
	assert.Equal(t, third.ID, page.Polls[0].ID)
	assert.Equal(t, second.ID, page.Polls[1].ID)

	page, err = f.polls.ListPolls(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Polls, 1)
	assert.Equal(t, first.ID, page.Polls[0].ID)
	assert.Equal(t, int64(1), page.Polls[0].VotesCount)

	// Out-of-range and nonsense paging normalize instead of failing.
	page, err = f.polls.ListPolls(ctx, -1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPageSize, page.PageSize)
}

func castVote(t *testing.T, votes ports.VoteService, poll *domain.Poll, user *domain.User, optionIdx int) {
	t.Helper()

	_, err := votes.Cast(context.Background(), ports.CastVoteInput{
		PollID:   poll.ID,
		OptionID: poll.Options[optionIdx].ID,
		UserID:   user.ID,
	})
	require.NoError(t, err)
}
