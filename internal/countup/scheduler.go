package countup

import (
	"sort"
	"sync"
	"time"
)

// FrameID identifies a scheduled frame callback. The zero value means "no frame".
type FrameID uint64

// FrameFunc is invoked once per scheduled frame with the frame timestamp
type FrameFunc func(now time.Time)

// Scheduler requests and cancels one-shot frame callbacks.
//
// Implementations must guarantee that a callback whose frame was cancelled
// before it started running is never invoked.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

// FrameQueue is a refresh-synced scheduler: callbacks requested now run on the
// next Flush, which the host calls once per redraw. Callbacks requested while a
// flush is in progress wait for the following one.
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]FrameFunc
}

// NewFrameQueue creates an empty frame queue
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{
		pending: make(map[FrameID]FrameFunc),
	}
}

// RequestFrame queues fn for the next flush
func (q *FrameQueue) RequestFrame(fn FrameFunc) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	q.pending[q.next] = fn
	return q.next
}

// CancelFrame drops a queued callback. Unknown or already-run IDs are ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}

// Pending reports how many callbacks are waiting for the next flush
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs every callback queued before the call, in request order, and
// returns how many ran.
func (q *FrameQueue) Flush(now time.Time) int {
	q.mu.Lock()
	limit := q.next
	ids := make([]FrameID, 0, len(q.pending))
	for id := range q.pending {
		ids = append(ids, id)
	}
	q.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ran := 0
	for _, id := range ids {
		if id > limit {
			continue
		}
		// A callback earlier in this flush may have cancelled this one
		q.mu.Lock()
		fn, ok := q.pending[id]
		delete(q.pending, id)
		q.mu.Unlock()
		if !ok {
			continue
		}
		fn(now)
		ran++
	}
	return ran
}
