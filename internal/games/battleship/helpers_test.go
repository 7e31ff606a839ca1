package battleship

import "time"

// seqRand replays a fixed sequence of values, wrapping each into [0, n).
// Once the sequence is exhausted it returns 0.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) Intn(n int) int {
	if r.i >= len(r.vals) {
		return 0
	}
	v := r.vals[r.i] % n
	r.i++
	return v
}

// manualScheduler records scheduled tasks so tests decide when they run.
type manualScheduler struct {
	tasks     []func()
	delays    []time.Duration
	lastFn    func()
	cancelled int
}

func (m *manualScheduler) Schedule(delay time.Duration, fn func()) func() {
	i := len(m.tasks)
	m.tasks = append(m.tasks, fn)
	m.delays = append(m.delays, delay)
	m.lastFn = fn
	return func() {
		m.cancelled++
		m.tasks[i] = nil
	}
}

// last returns the most recently scheduled task, even if it was cancelled.
func (m *manualScheduler) last() func() {
	return m.lastFn
}

// runPending runs every task that has not been cancelled.
func (m *manualScheduler) runPending() int {
	ran := 0
	for i, fn := range m.tasks {
		if fn == nil {
			continue
		}
		m.tasks[i] = nil
		fn()
		ran++
	}
	return ran
}

// singleShipConfig is a one-destroyer game used for scripted scenarios.
func singleShipConfig() Config {
	return Config{
		Width:         10,
		Fleet:         []Ship{{Name: "destroyer", Length: 2}},
		MaxAttempts:   10,
		ComputerDelay: DefaultComputerDelay,
	}
}
