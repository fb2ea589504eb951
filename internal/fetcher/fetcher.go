// Package fetcher obtains exactly one terminal verdict per submission. Two
// delivery paths race: the push channel is primary, a bounded polling loop
// is the fallback armed after a deadline. A per-operation claim decides the
// winner; the loser's delivery is a no-op.
package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Avadhutgiri/judge-cli/api"
	"github.com/Avadhutgiri/judge-cli/internal/judge"
	"github.com/Avadhutgiri/judge-cli/internal/verdict"
)

// ErrBudgetExhausted means the polling fallback ran out of attempts while
// the backend still did not know the submission id.
var ErrBudgetExhausted = errors.New("result delivery attempts exhausted")

// Backend is the judge HTTP surface the fetcher needs.
type Backend interface {
	Run(ctx context.Context, form api.RunRequest) (api.SubmissionAccepted, error)
	Submit(ctx context.Context, form api.SubmitRequest) (api.SubmissionAccepted, error)
	SystemRun(ctx context.Context, form api.SystemRunRequest) (api.SubmissionAccepted, error)
	PollStatus(ctx context.Context, submissionID string) (api.PollResponse, error)
}

// Subscriber is the push-channel surface. The returned channel carries at
// most one terminal message for the given id.
type Subscriber interface {
	Subscribe(submissionID string) (<-chan api.ResultMessage, error)
	Unsubscribe(submissionID string)
}

// Config holds the delivery timers and budgets.
type Config struct {
	// RunFallbackDelay is how long the push channel gets before polling
	// starts, for run and system-test operations.
	RunFallbackDelay time.Duration

	// SubmitFallbackDelay is the same deadline for submit operations.
	SubmitFallbackDelay time.Duration

	PollInterval time.Duration

	// PollAttempts bounds not-found poll failures, not pending retries.
	PollAttempts int
}

func DefaultConfig() Config {
	return Config{
		RunFallbackDelay:    30 * time.Second,
		SubmitFallbackDelay: 10 * time.Second,
		PollInterval:        2000 * time.Millisecond,
		PollAttempts:        5,
	}
}

// Result is one effective terminal delivery.
type Result struct {
	SubmissionID string
	Verdict      verdict.Verdict

	// TestCases is the derived reveal sequence; nil when there is nothing
	// to animate. Only set for submit operations.
	TestCases []api.Status
}

type Fetcher struct {
	backend Backend
	sub     Subscriber
	cfg     Config
	log     *slog.Logger
}

func New(backend Backend, sub Subscriber, cfg Config, log *slog.Logger) *Fetcher {
	return &Fetcher{backend: backend, sub: sub, cfg: cfg, log: log}
}

// Run executes code and blocks until its terminal verdict.
func (f *Fetcher) Run(ctx context.Context, form api.RunRequest) (Result, error) {
	accepted, err := f.backend.Run(ctx, form)
	if err != nil {
		return Result{}, err
	}
	v, err := f.await(ctx, api.OpRun, accepted.SubmissionID, f.cfg.RunFallbackDelay)
	if err != nil {
		return Result{}, err
	}
	return Result{SubmissionID: accepted.SubmissionID, Verdict: v}, nil
}

// Submit submits code and blocks until its terminal verdict, deriving the
// reveal sequence from it. testCaseCount is the client-side estimate used
// when the backend does not send explicit per-test results.
func (f *Fetcher) Submit(ctx context.Context, form api.SubmitRequest, testCaseCount int) (Result, error) {
	accepted, err := f.backend.Submit(ctx, form)
	if err != nil {
		return Result{}, err
	}
	v, err := f.await(ctx, api.OpSubmit, accepted.SubmissionID, f.cfg.SubmitFallbackDelay)
	if err != nil {
		return Result{}, err
	}
	return Result{
		SubmissionID: accepted.SubmissionID,
		Verdict:      v,
		TestCases:    verdict.Derive(v, testCaseCount),
	}, nil
}

// SystemRun runs the reference solution and blocks until its terminal
// verdict.
func (f *Fetcher) SystemRun(ctx context.Context, form api.SystemRunRequest) (Result, error) {
	accepted, err := f.backend.SystemRun(ctx, form)
	if err != nil {
		return Result{}, err
	}
	v, err := f.await(ctx, api.OpSystem, accepted.SubmissionID, f.cfg.RunFallbackDelay)
	if err != nil {
		return Result{}, err
	}
	return Result{SubmissionID: accepted.SubmissionID, Verdict: v}, nil
}

type delivery struct {
	verdict verdict.Verdict
	err     error
}

// await races the push path against the deadline-armed polling fallback for
// one submission id and returns the first effective delivery.
func (f *Fetcher) await(ctx context.Context, op api.OpType, submissionID string, fallbackDelay time.Duration) (verdict.Verdict, error) {
	opID := uuid.NewString()
	log := f.log.With("op", string(op), "op_id", opID, "submission_id", submissionID)

	// The claim is the delivery race state: whichever path wins the swap
	// delivers; everything after is a no-op. Checked atomically, never via
	// state that could go stale between a timer firing and its body running.
	claim := new(atomic.Bool)
	results := make(chan delivery, 1)
	deliver := func(d delivery) {
		if !claim.CompareAndSwap(false, true) {
			return
		}
		results <- d
	}

	pushCh, err := f.sub.Subscribe(submissionID)
	if err != nil {
		// push trouble never fails the operation, polling remains
		log.Warn("push subscribe failed, relying on polling", "err", err)
		pushCh = nil
	} else {
		defer f.sub.Unsubscribe(submissionID)
	}

	loopCtx, cancelLoops := context.WithCancel(ctx)
	defer cancelLoops()

	if pushCh != nil {
		go f.watchPush(loopCtx, op, pushCh, deliver, log)
	}
	go f.pollAfterDeadline(loopCtx, op, submissionID, fallbackDelay, claim, deliver, log)

	select {
	case d := <-results:
		return d.verdict, d.err
	case <-ctx.Done():
		claim.Store(true) // superseded; any late delivery is dropped
		return verdict.Verdict{}, ctx.Err()
	}
}

func (f *Fetcher) watchPush(ctx context.Context, op api.OpType, pushCh <-chan api.ResultMessage, deliver func(delivery), log *slog.Logger) {
	for {
		select {
		case msg := <-pushCh:
			// submit and system results carry an operation-type
			// discriminator; a mismatched message belongs to a different
			// flow on the same id and must not be consumed as ours
			if op != api.OpRun && msg.Type != op {
				log.Warn("push message with mismatched op type ignored", "got", string(msg.Type))
				continue
			}
			log.Debug("verdict delivered via push channel")
			deliver(delivery{verdict: f.normalize(op, verdict.FromPush(msg))})
			return
		case <-ctx.Done():
			return
		}
	}
}

func (f *Fetcher) pollAfterDeadline(ctx context.Context, op api.OpType, submissionID string, fallbackDelay time.Duration, claim *atomic.Bool, deliver func(delivery), log *slog.Logger) {
	if !sleep(ctx, fallbackDelay) {
		return
	}
	if claim.Load() {
		return
	}
	log.Info("push deadline passed, falling back to polling")

	attempts := f.cfg.PollAttempts
	for {
		if claim.Load() || ctx.Err() != nil {
			return
		}
		resp, err := f.backend.PollStatus(ctx, submissionID)
		switch {
		case err == nil && resp.Status == api.StatusPending:
			// non-terminal; the attempt budget only counts not-found
			// failures, pending is bounded by the operation context
			if !sleep(ctx, f.cfg.PollInterval) {
				return
			}
		case err == nil:
			log.Debug("verdict delivered via polling")
			deliver(delivery{verdict: f.normalize(op, verdict.FromPoll(resp))})
			return
		case errors.Is(err, judge.ErrNotYetAvailable):
			attempts--
			if attempts <= 0 {
				log.Warn("poll attempt budget exhausted")
				deliver(delivery{err: ErrBudgetExhausted})
				return
			}
			if !sleep(ctx, f.cfg.PollInterval) {
				return
			}
		default:
			log.Warn("poll failed", "err", err)
			deliver(delivery{err: err})
			return
		}
	}
}

func (f *Fetcher) normalize(op api.OpType, p verdict.Payload) verdict.Verdict {
	if op == api.OpSubmit {
		return verdict.NormalizeSubmission(p)
	}
	return verdict.NormalizeRun(p)
}

// sleep waits d or until ctx is done; reports whether the full wait ran.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
