package judge_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Avadhutgiri/judge-cli/api"
	"github.com/Avadhutgiri/judge-cli/internal/judge"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunReturnsSubmissionID(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/submissions/run", r.URL.Path)

		var form api.RunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		require.Equal(t, "p1", form.ProblemID)
		require.Equal(t, "python", form.Language)

		json.NewEncoder(w).Encode(api.SubmissionAccepted{SubmissionID: "sub-42"})
	})

	c := judge.NewClient(srv.URL)
	accepted, err := c.Run(context.Background(), api.RunRequest{
		ProblemID: "p1",
		Code:      "cHJpbnQoNDIp",
		Language:  "python",
	})
	require.NoError(t, err)
	require.Equal(t, "sub-42", accepted.SubmissionID)
}

func TestPollStatusNotYetAvailable(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no such submission"}`, http.StatusNotFound)
	})

	c := judge.NewClient(srv.URL)
	_, err := c.PollStatus(context.Background(), "missing")
	require.ErrorIs(t, err, judge.ErrNotYetAvailable)
}

func TestPollStatusTerminal(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/submissions/result/sub-7", r.URL.Path)
		json.NewEncoder(w).Encode(api.PollResponse{
			Status:  api.StatusWrongAnswer,
			Message: "mismatch",
		})
	})

	c := judge.NewClient(srv.URL)
	resp, err := c.PollStatus(context.Background(), "sub-7")
	require.NoError(t, err)
	require.Equal(t, api.StatusWrongAnswer, resp.Status)
}

func TestUnauthorized(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c := judge.NewClient(srv.URL)
	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, judge.ErrUnauthorized)
}

func TestTransportError(t *testing.T) {
	// port 1 refuses connections
	c := judge.NewClient("http://127.0.0.1:1")
	_, err := c.Problems(context.Background())

	var transportErr *judge.TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestStatusErrorCarriesBackendMessage(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"contest is over"}`, http.StatusConflict)
	})

	c := judge.NewClient(srv.URL)
	_, err := c.Submit(context.Background(), api.SubmitRequest{ProblemID: "p1"})

	var statusErr *judge.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusConflict, statusErr.Code)
	require.Equal(t, "contest is over", statusErr.Message)
}

func TestSessionCookieRoundTrip(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login":
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc123"})
			json.NewEncoder(w).Encode(api.User{Username: "alice"})
		case "/api/users/me":
			cookie, err := r.Cookie("token")
			if err != nil || cookie.Value != "abc123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(api.User{Username: "alice"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c := judge.NewClient(srv.URL)
	user, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "abc123", c.SessionCookie())

	// a fresh client seeded with the saved cookie is still authenticated
	c2 := judge.NewClient(srv.URL, judge.WithSessionCookie("abc123"))
	user, err = c2.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
}

func TestSubmissionHistory(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "p1", r.URL.Query().Get("problem_id"))
		json.NewEncoder(w).Encode([]api.HistoryEntry{
			{Language: "go", Result: api.StatusAccepted, SubmittedAt: "2026-08-30T12:00:00Z"},
		})
	})

	c := judge.NewClient(srv.URL)
	entries, err := c.SubmissionHistory(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, api.StatusAccepted, entries[0].Result)
}
