package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
)

func (app *TestApp) createPoll(t *testing.T, token string, title string, options ...string) *domain.Poll {
	t.Helper()

	body, _ := json.Marshal(map[string]interface{}{
		"title":       title,
		"description": "Desc",
		"options":     options,
	})
	resp := app.doJSON(t, "POST", "/api/polls/", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var poll domain.Poll
	decodeData(t, resp, &poll)
	return &poll
}

// TestPollFlow tests the basic lifecycle: Create -> Get -> Update -> Lock -> Delete
func TestPollFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createAdminAndToken(t)
	_, userToken := app.createUserAndToken(t)

	// Step 1: Create a Poll (admin only)
	resp := app.doJSON(t, "POST", "/api/polls/", userToken, []byte(`{"title":"Nope","options":["A","B"]}`))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	poll := app.createPoll(t, adminToken, "Flow Test Poll", "Option A", "Option B")
	assert.NotEqual(t, uuid.Nil, poll.ID)
	assert.Equal(t, "Flow Test Poll", poll.Title)
	require.Len(t, poll.Options, 2)

	// Step 2: Get the Poll as a regular user
	resp = app.doJSON(t, "GET", fmt.Sprintf("/api/polls/%s", poll.ID), userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched domain.Poll
	decodeData(t, resp, &fetched)
	assert.Equal(t, poll.ID, fetched.ID)
	assert.Equal(t, "Option A", fetched.Options[0].Text)
	assert.Equal(t, "Option B", fetched.Options[1].Text)

	// Step 3: Update by the creator
	resp = app.doJSON(t, "PUT", fmt.Sprintf("/api/polls/%s", poll.ID), adminToken, []byte(`{"title":"Renamed"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &fetched)
	assert.Equal(t, "Renamed", fetched.Title)

	// Another admin is not the creator and may not update
	_, otherAdminToken := app.createAdminAndToken(t)
	resp = app.doJSON(t, "PUT", fmt.Sprintf("/api/polls/%s", poll.ID), otherAdminToken, []byte(`{"title":"Hijacked"}`))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Step 4: Lock and unlock
	resp = app.doJSON(t, "PATCH", fmt.Sprintf("/api/polls/%s/lock", poll.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &fetched)
	assert.True(t, fetched.IsLocked)

	resp = app.doJSON(t, "PATCH", fmt.Sprintf("/api/polls/%s/unlock", poll.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &fetched)
	assert.False(t, fetched.IsLocked)

	// Step 5: Delete, then 404
	resp = app.doJSON(t, "DELETE", fmt.Sprintf("/api/polls/%s", poll.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "GET", fmt.Sprintf("/api/polls/%s", poll.ID), userToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPollCreateValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createAdminAndToken(t)

	resp := app.doJSON(t, "POST", "/api/polls/", adminToken, []byte(`{"title":"One option","options":["A"]}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "POST", "/api/polls/", adminToken, []byte(`{"title":"  ","options":["A","B"]}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestPollOptionManagement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createAdminAndToken(t)
	uid, userToken := app.createUserAndToken(t)

	poll := app.createPoll(t, adminToken, "Options Test", "A", "B")

	// Add an option
	resp := app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/options", poll.ID), adminToken, []byte(`{"text":"C"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var updated domain.Poll
	decodeData(t, resp, &updated)
	require.Len(t, updated.Options, 3)
	assert.Equal(t, "C", updated.Options[2].Text)

	// Vote for A, then remove A: the vote goes with it
	voteBody, _ := json.Marshal(map[string]interface{}{"option_id": poll.Options[0].ID})
	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/votes", poll.ID), userToken, voteBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "DELETE", fmt.Sprintf("/api/polls/%s/options/%s", poll.ID, poll.Options[0].ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &updated)
	require.Len(t, updated.Options, 2)

	var voteCount int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE poll_id = $1 AND user_id = $2", poll.ID, uid).Scan(&voteCount)
	require.NoError(t, err)
	assert.Equal(t, 0, voteCount)

	// Removing an unknown option is a 404
	resp = app.doJSON(t, "DELETE", fmt.Sprintf("/api/polls/%s/options/%s", poll.ID, uuid.New()), adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// A locked poll rejects option changes
	resp = app.doJSON(t, "PATCH", fmt.Sprintf("/api/polls/%s/lock", poll.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%s/options", poll.ID), adminToken, []byte(`{"text":"D"}`))
	require.Equal(t, http.StatusLocked, resp.StatusCode)
	resp.Body.Close()
}

// TestListPolls tests pagination and ordering (newest first)
func TestListPolls(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createAdminAndToken(t)

	for i := 1; i <= 15; i++ {
		// Slight delay to keep created_at ordering deterministic
		time.Sleep(10 * time.Millisecond)
		app.createPoll(t, adminToken, fmt.Sprintf("Poll %d", i), "A", "B")
	}

	resp := app.doJSON(t, "GET", "/api/polls/?page=1", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page1 domain.PollPage
	decodeData(t, resp, &page1)
	assert.Equal(t, int64(15), page1.Total)
	require.Len(t, page1.Polls, 10)
	assert.Equal(t, "Poll 15", page1.Polls[0].Title)

	resp = app.doJSON(t, "GET", "/api/polls/?page=2", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page2 domain.PollPage
	decodeData(t, resp, &page2)
	require.Len(t, page2.Polls, 5)
	assert.Equal(t, "Poll 5", page2.Polls[0].Title)
	assert.Equal(t, "Poll 1", page2.Polls[4].Title)
}
