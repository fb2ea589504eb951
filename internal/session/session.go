// Package session wires user actions to the result fetcher and renders the
// outcome: the client-side owner of one problem's editing and submission
// state. Each action kind is disabled while its operation is in flight.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Avadhutgiri/judge-cli/api"
	"github.com/Avadhutgiri/judge-cli/internal/codec"
	"github.com/Avadhutgiri/judge-cli/internal/fetcher"
	"github.com/Avadhutgiri/judge-cli/internal/histcache"
	"github.com/Avadhutgiri/judge-cli/internal/judge"
	"github.com/Avadhutgiri/judge-cli/internal/reveal"
	"github.com/Avadhutgiri/judge-cli/internal/verdict"
)

// ErrOperationInFlight rejects an action whose kind is already running.
type ErrOperationInFlight struct {
	Op api.OpType
}

func (e *ErrOperationInFlight) Error() string {
	return fmt.Sprintf("%s already in progress", e.Op)
}

// Runner is the submission lifecycle surface, implemented by
// fetcher.Fetcher.
type Runner interface {
	Run(ctx context.Context, form api.RunRequest) (fetcher.Result, error)
	Submit(ctx context.Context, form api.SubmitRequest, testCaseCount int) (fetcher.Result, error)
	SystemRun(ctx context.Context, form api.SystemRunRequest) (fetcher.Result, error)
}

// Catalog is the read-only judge surface, implemented by judge.Client.
type Catalog interface {
	Problem(ctx context.Context, problemID string) (api.Problem, error)
	SubmissionHistory(ctx context.Context, problemID string) ([]api.HistoryEntry, error)
}

type Session struct {
	runner  Runner
	catalog Catalog
	cache   *histcache.Cache
	out     io.Writer
	log     *slog.Logger

	anim       *reveal.Animator
	animDone   chan struct{}
	revealOpts []reveal.Option

	inflight mapset.Set[api.OpType]

	// testCaseCount is the reveal placeholder estimate; updated from the
	// problem payload when the backend discloses it.
	testCaseCount int
}

// Option configures a Session.
type Option func(*Session)

// WithRevealDelay overrides the test-case reveal delay.
func WithRevealDelay(opt reveal.Option) Option {
	return func(s *Session) {
		s.revealOpts = append(s.revealOpts, opt)
	}
}

func New(runner Runner, catalog Catalog, cache *histcache.Cache, out io.Writer, log *slog.Logger, testCaseCount int, opts ...Option) *Session {
	s := &Session{
		runner:        runner,
		catalog:       catalog,
		cache:         cache,
		out:           out,
		log:           log,
		animDone:      make(chan struct{}, 1),
		inflight:      mapset.NewSet[api.OpType](),
		testCaseCount: testCaseCount,
	}
	for _, opt := range opts {
		opt(s)
	}

	revealOpts := append([]reveal.Option{
		reveal.WithOnReveal(s.renderRevealItem),
		reveal.WithOnComplete(func() {
			select {
			case s.animDone <- struct{}{}:
			default:
			}
		}),
	}, s.revealOpts...)
	s.anim = reveal.New(revealOpts...)
	return s
}

// LoadProblem fetches a problem and adopts its declared test-case count for
// later reveal sequences.
func (s *Session) LoadProblem(ctx context.Context, problemID string) (api.Problem, error) {
	problem, err := s.catalog.Problem(ctx, problemID)
	if err != nil {
		return api.Problem{}, err
	}
	if problem.TestCaseCount > 0 {
		s.testCaseCount = problem.TestCaseCount
	}
	return problem, nil
}

// RunCode executes code against the samples or a custom input and renders
// the outcome.
func (s *Session) RunCode(ctx context.Context, problemID, code, customInput, language string) (*verdict.Verdict, error) {
	if !s.inflight.Add(api.OpRun) {
		return nil, &ErrOperationInFlight{Op: api.OpRun}
	}
	defer s.inflight.Remove(api.OpRun)

	form := api.RunRequest{
		ProblemID: problemID,
		Code:      codec.Encode(code),
		Language:  language,
	}
	if customInput != "" {
		encoded := codec.Encode(customInput)
		form.CustomTestcase = &encoded
	}

	res, err := s.runner.Run(ctx, form)
	if err != nil {
		s.renderError(err)
		return nil, err
	}
	fmt.Fprintln(s.out, verdict.FormatForDisplay(&res.Verdict))
	return &res.Verdict, nil
}

// SubmitCode submits code for judging, renders the verdict and stages the
// test-case reveal. It returns after the reveal finishes.
func (s *Session) SubmitCode(ctx context.Context, problemID, code, language string) (*verdict.Verdict, error) {
	if !s.inflight.Add(api.OpSubmit) {
		return nil, &ErrOperationInFlight{Op: api.OpSubmit}
	}
	defer s.inflight.Remove(api.OpSubmit)

	res, err := s.runner.Submit(ctx, api.SubmitRequest{
		ProblemID: problemID,
		Code:      codec.Encode(code),
		Language:  language,
	}, s.testCaseCount)
	if err != nil {
		s.renderError(err)
		return nil, err
	}

	fmt.Fprintln(s.out, verdict.FormatForDisplay(&res.Verdict))

	// drop any completion signal left over from a superseded reveal
	select {
	case <-s.animDone:
	default:
	}
	s.anim.Start(res.TestCases)
	if pending := s.anim.Remaining(len(res.TestCases)); pending > 0 {
		fmt.Fprintf(s.out, "  … %d more test case(s)\n", pending)
	}
	select {
	case <-s.animDone:
	case <-ctx.Done():
		s.anim.Stop()
		return &res.Verdict, ctx.Err()
	}
	return &res.Verdict, nil
}

// SystemRun executes the reference solution and renders its output.
func (s *Session) SystemRun(ctx context.Context, problemID, input string) (*verdict.Verdict, error) {
	if !s.inflight.Add(api.OpSystem) {
		return nil, &ErrOperationInFlight{Op: api.OpSystem}
	}
	defer s.inflight.Remove(api.OpSystem)

	form := api.SystemRunRequest{ProblemID: problemID}
	if input != "" {
		encoded := codec.Encode(input)
		form.CustomTestcase = &encoded
	}

	res, err := s.runner.SystemRun(ctx, form)
	if err != nil {
		s.renderError(err)
		return nil, err
	}
	fmt.Fprintln(s.out, verdict.FormatForDisplay(&res.Verdict))
	return &res.Verdict, nil
}

// History lists past submissions for a problem, falling back to the local
// cache when the backend is unreachable.
func (s *Session) History(ctx context.Context, problemID string) ([]api.HistoryEntry, error) {
	entries, err := s.catalog.SubmissionHistory(ctx, problemID)
	if err != nil {
		var transportErr *judge.TransportError
		if errors.As(err, &transportErr) && s.cache != nil {
			if cached, ok := s.cache.Get(problemID); ok {
				fmt.Fprintln(s.out, "(backend unreachable, showing cached history)")
				s.renderHistory(cached)
				return cached, nil
			}
		}
		s.renderError(err)
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Put(problemID, entries); err != nil {
			s.log.Warn("history cache write failed", "err", err)
		}
	}
	s.renderHistory(entries)
	return entries, nil
}

// SubmissionCode decodes a stored submission's source. Malformed wire text
// never crashes the caller; a placeholder is returned instead.
func (s *Session) SubmissionCode(entry api.HistoryEntry) string {
	text, err := codec.Decode(entry.Code)
	if err != nil {
		s.log.Warn("stored code failed to decode", "err", err)
		return "[unable to decode stored code]"
	}
	return text
}

// Close cancels any in-progress reveal.
func (s *Session) Close() {
	s.anim.Stop()
}

func (s *Session) renderRevealItem(item reveal.Item) {
	info := verdict.InfoFor(item.Status)
	label := string(item.Status)
	if label == "" {
		label = "unknown"
	}
	fmt.Fprintf(s.out, "  %s Test %d: %s\n", info.Icon, item.Index, info.Color.Sprint(label))
}

func (s *Session) renderHistory(entries []api.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "No submissions yet.")
		return
	}
	for _, e := range entries {
		info := verdict.InfoFor(e.Result)
		fmt.Fprintf(s.out, "%s  %-10s %s %s\n",
			e.SubmittedAt, e.Language, info.Icon, info.Color.Sprint(string(e.Result)))
	}
}

func (s *Session) renderError(err error) {
	switch {
	case errors.Is(err, judge.ErrUnauthorized):
		fmt.Fprintln(s.out, "Session expired. Please log in again.")
	case errors.Is(err, fetcher.ErrBudgetExhausted):
		fmt.Fprintln(s.out, "Error fetching result!")
	default:
		var statusErr *judge.StatusError
		if errors.As(err, &statusErr) && statusErr.Message != "" {
			fmt.Fprintln(s.out, statusErr.Message)
			return
		}
		fmt.Fprintln(s.out, "Error running code!")
	}
}
