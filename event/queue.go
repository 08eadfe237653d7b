// Package event carries participant input from the terminal poller to the
// simulation loop, which drains it once per tick
package event

import (
	"sync/atomic"

	"github.com/lixenwraith/motion-coherence/parameter"
)

// Queue is a fixed-size MPSC ring buffer.
// Push is lock-free for any number of producers; Consume is called by the
// loop only. A slot is visible to the consumer once its published flag is set.
// When full the oldest unread events are overwritten
type Queue struct {
	events    [parameter.EventQueueSize]InputEvent
	published [parameter.EventQueueSize]atomic.Bool
	head      atomic.Uint64 // next read
	tail      atomic.Uint64 // next write
	dropped   atomic.Uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push claims a slot by CAS on tail, writes, then publishes
func (q *Queue) Push(ev InputEvent) {
	for {
		tail := q.tail.Load()
		next := tail + 1
		if !q.tail.CompareAndSwap(tail, next) {
			continue
		}

		idx := tail & parameter.EventBufferMask
		q.events[idx] = ev
		q.published[idx].Store(true)

		head := q.head.Load()
		if next-head > parameter.EventQueueSize {
			if q.head.CompareAndSwap(head, next-parameter.EventQueueSize) {
				q.dropped.Add(next - parameter.EventQueueSize - head)
			}
		}
		return
	}
}

// Consume returns pending events oldest first, stopping at the first slot a
// producer has claimed but not yet published
func (q *Queue) Consume() []InputEvent {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if tail == head {
			return nil
		}

		n := tail - head
		if n > parameter.EventQueueSize {
			n = parameter.EventQueueSize
			head = tail - parameter.EventQueueSize
		}

		out := make([]InputEvent, 0, n)
		for i := uint64(0); i < n; i++ {
			idx := (head + i) & parameter.EventBufferMask
			if !q.published[idx].Load() {
				break
			}
			out = append(out, q.events[idx])
			q.published[idx].Store(false)
		}

		if q.head.CompareAndSwap(head, head+uint64(len(out))) {
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
}

// Len is an approximate pending count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	if d := tail - head; d < parameter.EventQueueSize {
		return int(d)
	}
	return parameter.EventQueueSize
}

// Dropped counts events lost to overflow
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
