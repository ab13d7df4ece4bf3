// Package refresh emits periodic refresh ticks to the event loop so
// resident cache entries are refetched in the background while the
// dashboard sits open.
package refresh

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is a tea.Msg asking the app to refetch its resident cache
// entries from offset zero.
type TickMsg struct {
	At time.Time
}

// Refresher runs a background ticker and bridges it into the Bubble Tea
// runtime over a channel subscription.
type Refresher struct {
	interval time.Duration
	tickCh   chan TickMsg
	stopCh   chan struct{}
	mu       sync.Mutex
	running  bool
}

// New creates a refresher with the given interval. Non-positive
// intervals fall back to one minute.
func New(interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Refresher{
		interval: interval,
		tickCh:   make(chan TickMsg, 1),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the ticker goroutine and returns the subscription
// command that delivers the first tick.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	go r.run()

	return r.waitForTick()
}

// Stop halts the ticker goroutine.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	r.running = false
}

// Trigger requests an immediate tick, for the manual-refresh key.
func (r *Refresher) Trigger() {
	r.send(TickMsg{At: time.Now()})
}

func (r *Refresher) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case t := <-ticker.C:
			r.send(TickMsg{At: t})
		}
	}
}

// send delivers a tick without blocking; a pending undelivered tick
// already covers this one.
func (r *Refresher) send(msg TickMsg) {
	select {
	case r.tickCh <- msg:
	default:
	}
}

func (r *Refresher) waitForTick() tea.Cmd {
	return func() tea.Msg {
		tick, ok := <-r.tickCh
		if !ok {
			return nil
		}
		return tick
	}
}

// WaitForNext returns the subscription command for the next tick. Call
// it after handling a TickMsg to keep the subscription alive.
func (r *Refresher) WaitForNext() tea.Cmd {
	return r.waitForTick()
}
