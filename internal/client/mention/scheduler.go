package mention

import "time"

// Scheduler runs fn once after delay unless the returned Handle is
// cancelled first.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

type Handle interface {
	Cancel()
}

// TimerScheduler schedules on the runtime timer; fn runs on its own
// goroutine.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) Handle {
	return timerHandle{time.AfterFunc(delay, fn)}
}

type timerHandle struct{ t *time.Timer }

func (h timerHandle) Cancel() { h.t.Stop() }
