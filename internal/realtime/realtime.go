// Package realtime manages the push channel: one broker connection per
// process, multiplexing per-submission-id topic subscriptions over it. The
// connection has an explicit lifecycle (open on session start, close on
// session end) instead of living in package-level state.
package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/Avadhutgiri/judge-cli/api"
)

// Manager owns the broker connection and the registry of active topic
// listeners. Connection-level failures are logged, never surfaced to an
// operation: the polling fallback is the safety net.
type Manager struct {
	nc  *nats.Conn
	log *slog.Logger

	subs *xsync.MapOf[string, *nats.Subscription]
}

// Connect opens the broker connection. Reconnects are handled by the client
// library; state changes are logged.
func Connect(url string, log *slog.Logger) (*Manager, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("push channel disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("push channel reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to push channel: %w", err)
	}
	return NewManager(nc, log), nil
}

// NewManager wraps an existing connection; the caller keeps ownership of it
// only through Close.
func NewManager(nc *nats.Conn, log *slog.Logger) *Manager {
	return &Manager{
		nc:   nc,
		log:  log,
		subs: xsync.NewMapOf[string, *nats.Subscription](),
	}
}

// Subscribe registers a listener for one submission id. Messages for other
// ids never reach the returned channel; the channel is buffered so a slow
// reader cannot stall the connection's delivery goroutine. Each id has at
// most one listener; subscribing again replaces the previous one.
func (m *Manager) Subscribe(submissionID string) (<-chan api.ResultMessage, error) {
	ch := make(chan api.ResultMessage, 1)
	sub, err := m.nc.Subscribe(api.ResultSubject(submissionID), func(msg *nats.Msg) {
		var result api.ResultMessage
		if err := json.Unmarshal(msg.Data, &result); err != nil {
			m.log.Warn("malformed push message", "subject", msg.Subject, "err", err)
			return
		}
		if result.SubmissionID != submissionID {
			// topic isolation: never consume another operation's result
			return
		}
		select {
		case ch <- result:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", submissionID, err)
	}

	if prev, ok := m.subs.LoadAndStore(submissionID, sub); ok {
		_ = prev.Unsubscribe()
	}
	return ch, nil
}

// Unsubscribe drops the listener for a submission id. Safe to call for ids
// that were never subscribed or were already dropped.
func (m *Manager) Unsubscribe(submissionID string) {
	if sub, ok := m.subs.LoadAndDelete(submissionID); ok {
		if err := sub.Unsubscribe(); err != nil {
			m.log.Warn("unsubscribe failed", "submission_id", submissionID, "err", err)
		}
	}
}

// Disabled is a subscriber for sessions without a broker connection; every
// subscription fails, leaving operations on the polling path alone.
type Disabled struct{}

func (Disabled) Subscribe(string) (<-chan api.ResultMessage, error) {
	return nil, fmt.Errorf("push channel disabled")
}

func (Disabled) Unsubscribe(string) {}

// Close drops all listeners and closes the connection.
func (m *Manager) Close() {
	m.subs.Range(func(id string, sub *nats.Subscription) bool {
		_ = sub.Unsubscribe()
		m.subs.Delete(id)
		return true
	})
	m.nc.Close()
}
