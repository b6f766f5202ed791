package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/store"
	"healthChallengeAPI/internal/types/challenge"
	"healthChallengeAPI/internal/types/metrics"
	"healthChallengeAPI/internal/user"
)

// MetricsGateway is the slice of the health gateway the coordinator needs.
type MetricsGateway interface {
	QueryTotal(ctx context.Context, userID string, metric metrics.Type, start, end time.Time) (float64, error)
}

// PushProvider sends a push notification to a set of device tokens.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

// ChallengeService drives the per-user challenge lifecycle:
// Active -> Completed when the metric total reaches the target,
// Active -> Expired when the end timestamp passes first.
type ChallengeService struct {
	store   store.DocumentStore
	gateway MetricsGateway
	push    PushProvider
	now     func() time.Time
}

func NewChallengeService(docStore store.DocumentStore, gateway MetricsGateway) *ChallengeService {
	return &ChallengeService{
		store:   docStore,
		gateway: gateway,
		now:     time.Now,
	}
}

// SetPushProvider wires an optional push sender for completion notifications.
func (s *ChallengeService) SetPushProvider(p PushProvider) {
	s.push = p
}

func (s *ChallengeService) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	return s.store.ListChallenges(ctx)
}

// Join creates an ActiveChallenge instance of the template for the user.
// Joining a template the user already holds an active instance of fails.
func (s *ChallengeService) Join(ctx context.Context, userID, challengeID string) (*challenge.ActiveChallenge, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, ac := range u.ActiveChallenges {
		if ac.ChallengeID == challengeID {
			return nil, fmt.Errorf("challenge %s: %w", challengeID, apperrors.ErrAlreadyActive)
		}
	}

	tmpl, err := s.store.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := &challenge.ActiveChallenge{
		ChallengeID: tmpl.ID,
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Points:      tmpl.Points,
		Metric:      tmpl.Metric,
		Interval:    tmpl.Interval,
		StartTime:   now,
		EndTime:     tmpl.Interval.End(now),
	}

	u.ActiveChallenges = append(u.ActiveChallenges, active)
	u.UpdatedAt = now
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}

	return active, nil
}

// ExpireChallenges moves every active challenge whose end timestamp has
// passed into the past set with completed=false. Used standalone by the
// daily worker; RefreshChallenges runs the same transform inline.
func (s *ChallengeService) ExpireChallenges(ctx context.Context, userID string) (int, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	expired := expireActive(u, s.now())
	if len(expired) == 0 {
		return 0, nil
	}

	u.UpdatedAt = s.now()
	if err := s.store.SaveUser(ctx, u); err != nil {
		return 0, err
	}

	return len(expired), nil
}

// RefreshChallenges runs one coordinator cycle for the user: expire overdue
// challenges, then evaluate progress on the remaining active ones. The
// updated document is written once at the end, so a failure anywhere leaves
// the stored state untouched for the next cycle.
func (s *ChallengeService) RefreshChallenges(ctx context.Context, userID string) (*challenge.UserChallengesResponse, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expireActive(u, now)

	progress, err := s.evaluateActive(ctx, userID, u.ActiveChallenges, now)
	if err != nil {
		return nil, err
	}

	var remaining []*challenge.ActiveChallengeProgress
	var completed []*challenge.ActiveChallenge
	for i, ac := range u.ActiveChallenges {
		if progress[i] >= float64(ac.Points) {
			completed = append(completed, ac)
			continue
		}
		remaining = append(remaining, &challenge.ActiveChallengeProgress{
			ActiveChallenge: *ac,
			Progress:        progress[i],
		})
	}

	if len(completed) > 0 {
		actives := make([]*challenge.ActiveChallenge, 0, len(remaining))
		for _, r := range remaining {
			ac := r.ActiveChallenge
			actives = append(actives, &ac)
		}
		u.ActiveChallenges = actives

		for _, ac := range completed {
			u.PastChallenges = append(u.PastChallenges, &challenge.PastChallenge{
				ID:        uuid.New().String(),
				Challenge: *ac,
				Completed: true,
			})
			u.Points += ac.Points
		}
	}

	u.UpdatedAt = now
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}

	if len(completed) > 0 {
		s.notifyCompleted(ctx, u.DeviceTokens, completed)
	}

	return &challenge.UserChallengesResponse{
		Active: remaining,
		Past:   u.PastChallenges,
	}, nil
}

// GetUserChallenges returns the current sets with progress, without running
// any state transition.
func (s *ChallengeService) GetUserChallenges(ctx context.Context, userID string) (*challenge.UserChallengesResponse, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	progress, err := s.evaluateActive(ctx, userID, u.ActiveChallenges, now)
	if err != nil {
		return nil, err
	}

	active := make([]*challenge.ActiveChallengeProgress, 0, len(u.ActiveChallenges))
	for i, ac := range u.ActiveChallenges {
		active = append(active, &challenge.ActiveChallengeProgress{
			ActiveChallenge: *ac,
			Progress:        progress[i],
		})
	}

	return &challenge.UserChallengesResponse{
		Active: active,
		Past:   u.PastChallenges,
	}, nil
}

// evaluateActive reads the cumulative metric total for each active challenge
// over [start, now]. The reads are independent, so they run concurrently.
// A range with no samples yet counts as zero progress; any other gateway
// failure aborts the whole evaluation.
func (s *ChallengeService) evaluateActive(ctx context.Context, userID string, active []*challenge.ActiveChallenge, now time.Time) ([]float64, error) {
	progress := make([]float64, len(active))
	errs := make([]error, len(active))

	var wg sync.WaitGroup
	for i, ac := range active {
		wg.Add(1)
		go func(i int, ac *challenge.ActiveChallenge) {
			defer wg.Done()
			total, err := s.gateway.QueryTotal(ctx, userID, ac.Metric, ac.StartTime, now)
			if err != nil {
				if errors.Is(err, apperrors.ErrDataUnavailable) {
					progress[i] = 0
					return
				}
				errs[i] = err
				return
			}
			progress[i] = total
		}(i, ac)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("evaluate challenges: %w", err)
		}
	}

	return progress, nil
}

func (s *ChallengeService) notifyCompleted(ctx context.Context, tokens []string, completed []*challenge.ActiveChallenge) {
	if s.push == nil || len(tokens) == 0 {
		return
	}

	for _, ac := range completed {
		err := s.push.SendPush(ctx, tokens, "Challenge complete!",
			fmt.Sprintf("You finished %s and earned %d points", ac.Title, ac.Points),
			map[string]string{"challenge_id": ac.ChallengeID})
		if err != nil {
			log.Printf("Failed to send completion push for %s: %v", ac.ChallengeID, err)
		}
	}
}

// expireActive moves overdue challenges out of the active set in place and
// returns the PastChallenge records it appended.
func expireActive(u *user.User, now time.Time) []*challenge.PastChallenge {
	var kept []*challenge.ActiveChallenge
	var moved []*challenge.PastChallenge

	for _, ac := range u.ActiveChallenges {
		if ac.EndTime.Before(now) {
			moved = append(moved, &challenge.PastChallenge{
				ID:        uuid.New().String(),
				Challenge: *ac,
				Completed: false,
			})
			continue
		}
		kept = append(kept, ac)
	}

	if len(moved) > 0 {
		u.ActiveChallenges = kept
		u.PastChallenges = append(u.PastChallenges, moved...)
	}

	return moved
}
