package network

import (
	"sync"
	"testing"
	"time"

	"github.com/protoflo/protoflo/bus"
	"github.com/stretchr/testify/assert"
)

// fakeScheduler lets activity tests fire the debounce deterministically
// instead of racing a real timer.
type fakeScheduler struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*fakeTask
}

type fakeTask struct {
	fn        func()
	cancelled bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Unix(0, 0)}
}

func (s *fakeScheduler) Schedule(_ time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	t := &fakeTask{fn: fn}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		t.cancelled = true
		s.mu.Unlock()
	}
}

func (s *fakeScheduler) Now() time.Time { return s.now }

// fire runs every still-pending task once, in schedule order, and empties
// the queue.
func (s *fakeScheduler) fire() {
	s.mu.Lock()
	pending := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, t := range pending {
		if !t.cancelled {
			t.fn()
		}
	}
}

func newTestNetwork() *Network {
	return &Network{
		Scheduler: newFakeScheduler(),
		processes: make(map[string]*Process),
	}
}

func TestActivityStartEmitsOnFirstIncrease(t *testing.T) {
	n := newTestNetwork()
	var started bool
	n.On("start", func(bus.Fields) { started = true })

	n.increaseActivity()
	assert.True(t, started)
	assert.True(t, n.Running())
}

func TestActivityEndOnlyFiresAfterDebounceFires(t *testing.T) {
	n := newTestNetwork()
	var ended bool
	n.On("end", func(bus.Fields) { ended = true })

	n.increaseActivity()
	n.decreaseActivity()
	assert.False(t, ended, "end must wait for the debounce callback")

	n.Scheduler.(*fakeScheduler).fire()
	assert.True(t, ended)
	assert.False(t, n.Running())
}

func TestActivityDebounceCancelledByNewWork(t *testing.T) {
	n := newTestNetwork()
	var endCount int
	n.On("end", func(bus.Fields) { endCount++ })

	n.increaseActivity()
	n.decreaseActivity() // schedules end
	n.increaseActivity() // should cancel the scheduled end
	n.decreaseActivity() // schedules a fresh end

	n.Scheduler.(*fakeScheduler).fire()
	assert.Equal(t, 1, endCount)
}
