package display

import (
	"sync/atomic"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/workqueue"
)

// State holds the layer currently shown on this node's display.
//
// It is created once at startup and lives for the whole process. Set and Get
// are lock-free so they can be called from latency sensitive goroutines; the
// observer never runs inside Set but on the work queue's worker.
type State struct {
	value    atomic.Uint32
	observer atomic.Pointer[func()]
	work     *workqueue.Work
}

// NewState creates a State showing the default layer. Observer notifications
// are delivered on q.
func NewState(q *workqueue.Queue) *State {
	s := &State{}
	s.work = q.NewWork(s.notify)
	return s
}

// Set stores the layer and schedules the observer, if one is registered.
// Several Sets before the observer runs are coalesced into one notification.
func (s *State) Set(layer domain.Layer) {
	s.value.Store(uint32(layer))
	if s.observer.Load() != nil {
		s.work.Submit()
	}
}

// Get returns the layer last stored.
func (s *State) Get() domain.Layer {
	return domain.Layer(s.value.Load())
}

// RegisterObserver installs the callback run after future Sets.
// Only one observer is kept: registering again replaces the previous one.
func (s *State) RegisterObserver(cb func()) {
	if cb == nil {
		s.observer.Store(nil)
		return
	}
	s.observer.Store(&cb)
}

func (s *State) notify() {
	if cb := s.observer.Load(); cb != nil {
		(*cb)()
	}
}
