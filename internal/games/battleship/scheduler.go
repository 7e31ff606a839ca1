package battleship

import "time"

// Scheduler runs deferred work, such as the computer's move, after a delay.
// The returned function cancels the task if it has not started yet.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// TimerScheduler runs tasks on their own goroutine via time.AfterFunc.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
