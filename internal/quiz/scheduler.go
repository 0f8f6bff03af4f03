package quiz

import (
	"time"

	"github.com/wisdomlc/quiz_bot/pkg/logger"
)

// Scheduler fires per-question deadline callbacks. Stop is a best-effort
// optimization only: a timer may already be mid-wakeup when stopped, so
// every callback must re-check the session's active token before acting.
type Scheduler struct{}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule runs fn after d. A panic inside fn is contained to the timer
// callback so one participant cannot take down the process.
func (s *Scheduler) Schedule(d time.Duration, fn func()) *TimerHandle {
	t := time.AfterFunc(d, func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in timer callback", "error", r)
			}
		}()
		fn()
	})
	return &TimerHandle{timer: t}
}

// TimerHandle is the explicit cancellation handle for a scheduled
// deadline.
type TimerHandle struct {
	timer *time.Timer
}

func (h *TimerHandle) Stop() {
	if h != nil && h.timer != nil {
		h.timer.Stop()
	}
}
