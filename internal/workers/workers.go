package workers

import (
	"context"
	"log"
	"time"
)

// ExpiryRunner is the slice of the challenge service the worker drives.
type ExpiryRunner interface {
	ExpireChallenges(ctx context.Context, userID string) (int, error)
}

// UserLister enumerates every user the sweep must visit.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// ExpiryWorker sweeps all users once per day and moves overdue challenges
// into their past sets. Clients also expire on refresh; the worker catches
// users who never foreground the app.
type ExpiryWorker struct {
	challenges ExpiryRunner
	users      UserLister
	interval   time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewExpiryWorker(challenges ExpiryRunner, users UserLister) *ExpiryWorker {
	return &ExpiryWorker{
		challenges: challenges,
		users:      users,
		interval:   24 * time.Hour,
	}
}

// Start launches the sweep loop. Call Stop on shutdown, the ticker leaks
// otherwise.
func (w *ExpiryWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	ticker := time.NewTicker(w.interval)

	go func() {
		defer close(w.done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Printf("Expiry worker started, sweeping every %s", w.interval)
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (w *ExpiryWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	log.Println("Expiry worker stopped")
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	listCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	ids, err := w.users.ListUserIDs(listCtx)
	cancel()
	if err != nil {
		log.Printf("Expiry sweep: failed to list users: %v", err)
		return
	}

	expired := 0
	for _, id := range ids {
		userCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		n, err := w.challenges.ExpireChallenges(userCtx, id)
		cancel()
		if err != nil {
			// next sweep retries, the challenge stays active until then
			log.Printf("Expiry sweep: user %s: %v", id, err)
			continue
		}
		expired += n
	}

	log.Printf("Expiry sweep complete: %d users visited, %d challenges expired", len(ids), expired)
}
