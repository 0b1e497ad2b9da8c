package review

import (
	"context"
	"log"
	"time"

	"github.com/Wraptron/incubation-backend/src/api/notify"
)

// EventPublisher is what the sweeper needs from the notification layer.
type EventPublisher interface {
	Publish(ctx context.Context, events ...notify.Event)
}

// Sweeper auto-declines invitations that sat unanswered past the cutoff.
// It has no external caller: persistence failures go to its log, per-row
// notification failures are swallowed by the publisher. Each row transition
// is an independent conditional update, so running a sweep concurrently
// with live responses (or with another sweep) is harmless.
type Sweeper struct {
	assignments *Assignments
	assigns     AssignmentRepo
	events      EventPublisher
	cutoff      time.Duration

	Now func() time.Time
}

func NewSweeper(assignments *Assignments, assigns AssignmentRepo, events EventPublisher, cutoffDays int) *Sweeper {
	return &Sweeper{
		assignments: assignments,
		assigns:     assigns,
		events:      events,
		cutoff:      time.Duration(cutoffDays) * 24 * time.Hour,
		Now:         time.Now,
	}
}

// SweepOnce runs a single expiry pass and returns how many invitations it
// transitioned.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.Now()
	expired, err := s.assigns.ExpirePending(ctx, now.Add(-s.cutoff), now)
	if err != nil {
		return 0, err
	}
	for i := range expired {
		evs := s.assignments.responseEvents(ctx, &expired[i], notify.KindInviteExpired, false)
		s.events.Publish(ctx, evs...)
	}
	return len(expired), nil
}

// Run sweeps immediately, then on every tick until the context ends.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	sweep := func() {
		n, err := s.SweepOnce(ctx)
		if err != nil {
			log.Printf("sweep: %v", err)
			return
		}
		if n > 0 {
			log.Printf("sweep: expired %d pending invite(s)", n)
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
