package network

import (
	"time"

	"github.com/protoflo/protoflo/bus"
)

const endDebounce = 10 * time.Millisecond

// increaseActivity bumps the running count; a 0→≥1 transition declares the
// network running and emits start(startupDate). Any pending end debounce
// is cancelled, since new work arrived inside the window.
func (n *Network) increaseActivity() {
	n.activityMu.Lock()
	defer n.activityMu.Unlock()

	if n.cancelEnd != nil {
		n.cancelEnd()
		n.cancelEnd = nil
	}

	n.activityCount++
	if n.activityCount == 1 && !n.running {
		n.running = true
		n.startedAt = n.Scheduler.Now()
		n.Emit("start", bus.Fields{"start": n.startedAt})
	}
}

// decreaseActivity drops the running count; each 0-return schedules an end
// emission after a 10ms debounce, cancelled if more work arrives first.
// Reaching zero repeatedly is idempotent: only the first such debounce
// that survives actually fires.
func (n *Network) decreaseActivity() {
	n.activityMu.Lock()
	defer n.activityMu.Unlock()

	if n.activityCount > 0 {
		n.activityCount--
	}
	if n.activityCount != 0 {
		return
	}

	if n.cancelEnd != nil {
		n.cancelEnd()
	}
	n.cancelEnd = n.Scheduler.Schedule(endDebounce, n.emitEnd)
}

func (n *Network) emitEnd() {
	n.activityMu.Lock()
	if n.activityCount != 0 || !n.running {
		n.activityMu.Unlock()
		return
	}
	start := n.startedAt
	end := n.Scheduler.Now()
	n.running = false
	n.cancelEnd = nil
	n.activityMu.Unlock()

	n.Emit("end", bus.Fields{
		"start":  start,
		"end":    end,
		"uptime": end.Sub(start).Seconds(),
	})
}

// Running reports whether the network currently considers itself active.
func (n *Network) Running() bool {
	n.activityMu.Lock()
	defer n.activityMu.Unlock()
	return n.running
}
