package workqueue

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestQueue_RunsSubmittedWork(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := New()
	q.Start()
	defer q.Stop()

	ran := make(chan struct{}, 1)
	w := q.NewWork(func() { ran <- struct{}{} })

	assert.True(t, w.Submit())

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("work did not run")
	}
	assert.Eventually(t, func() bool { return w.Runs() == 1 }, time.Second, time.Millisecond)
	assert.False(t, w.Pending())
}

func TestQueue_CoalescesWhilePending(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := New()
	var count atomic.Int32
	w := q.NewWork(func() { count.Add(1) })

	// Not started yet: everything after the first submission is absorbed.
	assert.True(t, w.Submit())
	assert.False(t, w.Submit())
	assert.False(t, w.Submit())
	assert.True(t, w.Pending())

	q.Start()
	defer q.Stop()

	assert.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, time.Millisecond)
	// Give a duplicate run the chance to show up.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestQueue_SubmitDuringHandlerRunsAgain(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := New()
	q.Start()
	defer q.Stop()

	entered := make(chan struct{})
	release := make(chan struct{})
	var count atomic.Int32
	w := q.NewWork(func() {
		if count.Add(1) == 1 {
			close(entered)
			<-release
		}
	})

	require.True(t, w.Submit())
	<-entered

	// The handler is running, so the item is no longer pending.
	assert.True(t, w.Submit())
	close(release)

	assert.Eventually(t, func() bool { return count.Load() == 2 }, time.Second, time.Millisecond)
}

func TestQueue_SubmitNeverBlocksOnSlowHandler(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := New()
	q.Start()
	defer q.Stop()

	release := make(chan struct{})
	slow := q.NewWork(func() { <-release })
	fast := q.NewWork(func() {})

	require.True(t, slow.Submit())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			fast.Submit()
			slow.Submit()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked behind a running handler")
	}
	close(release)
}

func TestQueue_RecoversFromPanickingHandler(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := New()
	q.Start()
	defer q.Stop()

	bad := q.NewWork(func() { panic("boom") })
	ran := make(chan struct{}, 1)
	good := q.NewWork(func() { ran <- struct{}{} })

	bad.Submit()
	good.Submit()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("queue died after a panicking handler")
	}
}

func TestQueue_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := New()
	q.Stop() // never started
	q.Start()
	q.Stop()
	q.Stop()
}
