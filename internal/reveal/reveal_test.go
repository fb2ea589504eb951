package reveal_test

import (
	"sync"
	"testing"
	"time"

	"github.com/Avadhutgiri/judge-cli/api"
	"github.com/Avadhutgiri/judge-cli/internal/reveal"
	"github.com/stretchr/testify/require"
)

func TestEmptySequenceCompletesImmediately(t *testing.T) {
	a := reveal.New(reveal.WithDelay(time.Millisecond))
	a.Start(nil)

	items, state := a.Snapshot()
	require.Empty(t, items)
	require.Equal(t, reveal.Complete, state)
}

func TestRevealsInOrder(t *testing.T) {
	a := reveal.New(reveal.WithDelay(time.Millisecond))
	a.Start([]api.Status{api.StatusAccepted, api.StatusWrongAnswer, ""})

	require.Eventually(t, func() bool {
		_, state := a.Snapshot()
		return state == reveal.Complete
	}, time.Second, time.Millisecond)

	items, _ := a.Snapshot()
	require.Equal(t, []reveal.Item{
		{Index: 1, Status: api.StatusAccepted},
		{Index: 2, Status: api.StatusWrongAnswer},
		{Index: 3, Status: ""},
	}, items)
}

func TestFirstItemRevealedSynchronously(t *testing.T) {
	a := reveal.New(reveal.WithDelay(time.Hour))
	a.Start([]api.Status{api.StatusAccepted, api.StatusAccepted})

	items, state := a.Snapshot()
	require.Equal(t, reveal.Revealing, state)
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].Index)
	require.Equal(t, 1, a.Remaining(2))
}

func TestRestartDiscardsPreviousSequence(t *testing.T) {
	a := reveal.New(reveal.WithDelay(50 * time.Millisecond))
	a.Start([]api.Status{api.StatusWrongAnswer, api.StatusWrongAnswer, api.StatusWrongAnswer})

	// restart mid-reveal with a different sequence
	a.Start([]api.Status{api.StatusAccepted, api.StatusAccepted})

	require.Eventually(t, func() bool {
		_, state := a.Snapshot()
		return state == reveal.Complete
	}, time.Second, time.Millisecond)

	items, _ := a.Snapshot()
	require.Len(t, items, 2)
	for _, it := range items {
		require.Equal(t, api.StatusAccepted, it.Status)
	}
}

func TestStopCancelsPendingReveals(t *testing.T) {
	a := reveal.New(reveal.WithDelay(20 * time.Millisecond))
	a.Start([]api.Status{api.StatusAccepted, api.StatusAccepted, api.StatusAccepted})
	a.Stop()

	items, state := a.Snapshot()
	require.Equal(t, reveal.Complete, state)
	revealedAtStop := len(items)

	time.Sleep(100 * time.Millisecond)
	items, _ = a.Snapshot()
	require.Len(t, items, revealedAtStop)
}

func TestCallbacks(t *testing.T) {
	var mu sync.Mutex
	var got []reveal.Item
	done := make(chan struct{})

	a := reveal.New(
		reveal.WithDelay(time.Millisecond),
		reveal.WithOnReveal(func(it reveal.Item) {
			mu.Lock()
			got = append(got, it)
			mu.Unlock()
		}),
		reveal.WithOnComplete(func() { close(done) }),
	)
	a.Start([]api.Status{api.StatusAccepted, api.StatusWrongAnswer})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("animation did not complete")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].Index)
	require.Equal(t, 2, got[1].Index)
}
