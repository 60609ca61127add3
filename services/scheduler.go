// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSweepScheduler runs the session retention sweep on a fixed cadence.
// The sweep itself is an explicit function so tests drive it directly with an
// injected clock instead of waiting on timers.
func (s *SessionService) StartSweepScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 5 minutes: drop expired sessions, abandon stale ones
	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if removed := s.Sweep(); removed > 0 {
				log.Printf("🧹 Swept %d expired game session(s), %d still active", removed, s.ActiveCount())
			}
		}),
	)
}
