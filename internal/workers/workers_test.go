package workers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	visited []string
	failFor map[string]bool
}

func (r *fakeRunner) ExpireChallenges(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[userID] {
		return 0, fmt.Errorf("user %s unavailable", userID)
	}
	r.visited = append(r.visited, userID)
	return 1, nil
}

func (r *fakeRunner) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.visited...)
}

type fakeLister struct {
	ids []string
	err error
}

func (l *fakeLister) ListUserIDs(context.Context) ([]string, error) {
	return l.ids, l.err
}

func TestSweepVisitsEveryUser(t *testing.T) {
	runner := &fakeRunner{}
	w := NewExpiryWorker(runner, &fakeLister{ids: []string{"a", "b", "c"}})

	w.sweep(context.Background())

	assert.Equal(t, []string{"a", "b", "c"}, runner.seen())
}

func TestSweepContinuesPastFailingUser(t *testing.T) {
	runner := &fakeRunner{failFor: map[string]bool{"b": true}}
	w := NewExpiryWorker(runner, &fakeLister{ids: []string{"a", "b", "c"}})

	w.sweep(context.Background())

	assert.Equal(t, []string{"a", "c"}, runner.seen())
}

func TestSweepAbortsWhenListingFails(t *testing.T) {
	runner := &fakeRunner{}
	w := NewExpiryWorker(runner, &fakeLister{err: fmt.Errorf("store down")})

	w.sweep(context.Background())

	assert.Empty(t, runner.seen())
}

func TestStartStop(t *testing.T) {
	runner := &fakeRunner{}
	w := NewExpiryWorker(runner, &fakeLister{ids: []string{"a"}})
	w.interval = 5 * time.Millisecond

	w.Start()

	require.Eventually(t, func() bool {
		return len(runner.seen()) > 0
	}, time.Second, time.Millisecond)

	w.Stop()
	after := len(runner.seen())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, len(runner.seen()), "no sweeps after Stop")
}

func TestStopWithoutStart(t *testing.T) {
	w := NewExpiryWorker(&fakeRunner{}, &fakeLister{})
	w.Stop() // must not panic or block
}
