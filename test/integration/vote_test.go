package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
)

func voteBody(t *testing.T, optionID uuid.UUID) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"option_id": optionID})
	require.NoError(t, err)
	return body
}

// TestVoteFlow covers the cast/withdraw cycle and the tally it produces.
func TestVoteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createAdminAndToken(t)
	u1, u1Token := app.createUserAndToken(t)
	u2, u2Token := app.createUserAndToken(t)

	poll := app.createPoll(t, adminToken, "Vote Flow", "A", "B")
	optA := poll.Options[0].ID
	optB := poll.Options[1].ID

	// Unauthenticated casts are rejected
	resp := app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), "", voteBody(t, optA))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// U1 votes A
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), u1Token, voteBody(t, optA))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var vote domain.Vote
	decodeData(t, resp, &vote)
	assert.Equal(t, optA, vote.OptionID)
	assert.Equal(t, u1, vote.UserID)

	// A second cast conflicts, even for a different option
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), u1Token, voteBody(t, optB))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// U2 votes B
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), u2Token, voteBody(t, optB))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Tally: A=1, B=1, total 2, voters listed
	resp = app.doJSON(t, "GET", fmt.Sprintf("/api/polls/%s", poll.ID), u1Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail domain.Poll
	decodeData(t, resp, &detail)
	assert.Equal(t, int64(2), detail.TotalVotes)
	assert.Equal(t, int64(1), detail.Options[0].Votes)
	assert.Equal(t, int64(1), detail.Options[1].Votes)
	require.Len(t, detail.Options[0].Voters, 1)
	assert.Equal(t, u1, detail.Options[0].Voters[0].ID)
	require.Len(t, detail.Options[1].Voters, 1)
	assert.Equal(t, u2, detail.Options[1].Voters[0].ID)

	// U1 withdraws
	resp = app.doJSON(t, "DELETE", fmt.Sprintf("/api/polls/%s/votes", poll.ID), u1Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "GET", fmt.Sprintf("/api/polls/%s", poll.ID), u1Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &detail)
	assert.Equal(t, int64(1), detail.TotalVotes)
	assert.Equal(t, int64(0), detail.Options[0].Votes)

	// Withdrawing again is a 404
	resp = app.doJSON(t, "DELETE", fmt.Sprintf("/api/polls/%s/votes", poll.ID), u1Token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestVoteLifecycleGates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createAdminAndToken(t)
	_, userToken := app.createUserAndToken(t)

	poll := app.createPoll(t, adminToken, "Gated", "A", "B")
	optA := poll.Options[0].ID

	// Unknown poll -> 404
	resp := app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", uuid.New()), userToken, voteBody(t, optA))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Option from another poll -> 400
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), userToken, voteBody(t, uuid.New()))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Locked poll -> 423
	resp = app.doJSON(t, "PATCH", fmt.Sprintf("/api/polls/%s/lock", poll.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), userToken, voteBody(t, optA))
	require.Equal(t, http.StatusLocked, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "PATCH", fmt.Sprintf("/api/polls/%s/unlock", poll.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Cast, then expire the poll: the vote can still be withdrawn
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), userToken, voteBody(t, optA))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	past, _ := json.Marshal(map[string]interface{}{"expires_at": time.Now().Add(-time.Hour)})
	resp = app.doJSON(t, "PUT", fmt.Sprintf("/api/polls/%s", poll.ID), adminToken, past)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "DELETE", fmt.Sprintf("/api/polls/%s/votes", poll.ID), userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Expired poll -> 410 for new casts
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), userToken, voteBody(t, optA))
	require.Equal(t, http.StatusGone, resp.StatusCode)
	resp.Body.Close()
}

func TestMyVote(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createAdminAndToken(t)
	_, userToken := app.createUserAndToken(t)

	poll := app.createPoll(t, adminToken, "My Vote", "A", "B")

	resp := app.doJSON(t, "GET", fmt.Sprintf("/api/polls/%s/my-vote", poll.ID), userToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), userToken, voteBody(t, poll.Options[1].ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "GET", fmt.Sprintf("/api/polls/%s/my-vote", poll.ID), userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var vote domain.Vote
	decodeData(t, resp, &vote)
	assert.Equal(t, poll.Options[1].ID, vote.OptionID)
}

// TestConcurrentVoteCasts hammers the unique constraint: one user firing
// parallel casts ends up with exactly one vote.
func TestConcurrentVoteCasts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createAdminAndToken(t)
	uid, userToken := app.createUserAndToken(t)

	poll := app.createPoll(t, adminToken, "Race", "A", "B")

	const attempts = 10
	statuses := make(chan int, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), userToken, voteBody(t, poll.Options[i%2].ID))
			statuses <- resp.StatusCode
			resp.Body.Close()
		}(i)
	}

	wg.Wait()
	close(statuses)

	var created, conflicts int
	for code := range statuses {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected status: %d", code)
		}
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)

	var count int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1 AND user_id = $2", poll.ID, uid).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
