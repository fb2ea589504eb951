// Package judge is the HTTP client for the backend judge API. The backend
// is opaque: it compiles, runs and scores submissions server-side and this
// client only speaks its wire contract.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/Avadhutgiri/judge-cli/api"
)

const sessionCookie = "token"

type Client struct {
	endpoint string
	client   http.Client
}

type ClientOption func(*Client)

// WithSessionCookie seeds the cookie jar with a previously saved session.
func WithSessionCookie(value string) ClientOption {
	return func(c *Client) {
		u, err := url.Parse(c.endpoint)
		if err != nil {
			panic(err)
		}
		c.client.Jar.SetCookies(u, []*http.Cookie{{
			Name:  sessionCookie,
			Value: value,
		}})
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.client.Transport = transport
	}
}

// NewClient returns a new judge API client.
func NewClient(endpoint string, options ...ClientOption) *Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	c := Client{
		endpoint: endpoint,
		client: http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
	}
	for _, option := range options {
		option(&c)
	}
	return &c
}

// SessionCookie returns the current session cookie value, empty when not
// logged in. The CLI persists it between invocations.
func (c *Client) SessionCookie() string {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return ""
	}
	for _, cookie := range c.client.Jar.Cookies(u) {
		if cookie.Name == sessionCookie {
			return cookie.Value
		}
	}
	return ""
}

// Run starts an execution of user code. The returned id keys all later
// result delivery for this operation.
func (c *Client) Run(ctx context.Context, form api.RunRequest) (api.SubmissionAccepted, error) {
	var respData api.SubmissionAccepted
	err := c.postJSON(ctx, "/api/submissions/run", form, &respData)
	return respData, err
}

// Submit submits code for full judging.
func (c *Client) Submit(ctx context.Context, form api.SubmitRequest) (api.SubmissionAccepted, error) {
	var respData api.SubmissionAccepted
	err := c.postJSON(ctx, "/api/submissions/submit", form, &respData)
	return respData, err
}

// SystemRun starts a reference-solution run.
func (c *Client) SystemRun(ctx context.Context, form api.SystemRunRequest) (api.SubmissionAccepted, error) {
	var respData api.SubmissionAccepted
	err := c.postJSON(ctx, "/api/submissions/system", form, &respData)
	return respData, err
}

// PollStatus fetches the current status of a submission. A backend that has
// not registered the id yet answers 404, surfaced as ErrNotYetAvailable.
func (c *Client) PollStatus(ctx context.Context, submissionID string) (api.PollResponse, error) {
	var respData api.PollResponse
	err := c.getJSON(ctx, "/api/submissions/result/"+url.PathEscape(submissionID), &respData)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return api.PollResponse{}, ErrNotYetAvailable
		}
		return api.PollResponse{}, err
	}
	return respData, nil
}

// SubmissionHistory lists past submissions for a problem.
func (c *Client) SubmissionHistory(ctx context.Context, problemID string) ([]api.HistoryEntry, error) {
	var respData []api.HistoryEntry
	err := c.getJSON(ctx, "/api/submissions?problem_id="+url.QueryEscape(problemID), &respData)
	return respData, err
}

// Problem fetches one problem statement.
func (c *Client) Problem(ctx context.Context, problemID string) (api.Problem, error) {
	var respData api.Problem
	err := c.getJSON(ctx, "/api/problems/"+url.PathEscape(problemID), &respData)
	return respData, err
}

// Problems lists all visible problems.
func (c *Client) Problems(ctx context.Context) ([]api.ProblemSummary, error) {
	var respData []api.ProblemSummary
	err := c.getJSON(ctx, "/api/problems", &respData)
	return respData, err
}

// Leaderboard fetches the scoreboard.
func (c *Client) Leaderboard(ctx context.Context) ([]api.LeaderboardRow, error) {
	var respData []api.LeaderboardRow
	err := c.getJSON(ctx, "/api/leaderboard", &respData)
	return respData, err
}

// Login establishes a session; the cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (api.User, error) {
	var respData api.User
	err := c.postJSON(ctx, "/api/users/login", api.LoginRequest{
		Username: username,
		Password: password,
	}, &respData)
	return respData, err
}

// Logout tears the session down.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/api/users/logout", nil, nil)
}

// Me returns the identity behind the current session cookie.
func (c *Client) Me(ctx context.Context) (api.User, error) {
	var respData api.User
	err := c.getJSON(ctx, "/api/users/me", &respData)
	return respData, err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.endpoint+path, nil,
	)
	if err != nil {
		return err
	}
	return c.doRequest(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint+path, reader,
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, out)
}

func (c *Client) doRequest(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	default:
		return &StatusError{
			Code:    resp.StatusCode,
			Message: readErrorMessage(resp.Body),
		}
	}
}

// readErrorMessage pulls a {"message": "..."} body if the backend sent one.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Message
}
