package tick

import (
	"container/heap"
	"errors"
	"fmt"
)

type Priority int

const (
	High Priority = iota
	Normal
	Low
)

func (p Priority) String() string {
	switch p {
	case High:
		return "high"
	case Normal:
		return "normal"
	case Low:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

type ID uint64

var ErrSchedulePast = errors.New("tick: target tick is in the past")

// SchedulingError is returned when an action cannot be queued. The queue is
// left unchanged.
type SchedulingError struct {
	At      Tick
	Current Tick
	Err     error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("schedule at tick %d (current %d): %v", e.At, e.Current, e.Err)
}

func (e *SchedulingError) Unwrap() error { return e.Err }

// Scheduled is a queued action. Fields are fixed once scheduled.
type Scheduled[T any] struct {
	ID       ID
	At       Tick
	Priority Priority
	Seq      uint64
	Payload  T
}

// Queue orders actions by (At, Priority, Seq). It reads the clock only to
// reject past targets and never advances it.
type Queue[T any] struct {
	clock *Clock
	items entries[T]
	index map[ID]*entry[T]
	seq   uint64
}

func NewQueue[T any](clock *Clock) *Queue[T] {
	return &Queue[T]{clock: clock, index: map[ID]*entry[T]{}}
}

func (q *Queue[T]) Len() int { return len(q.items) }

// Schedule queues payload for tick at. Targets before the clock's current
// tick fail with a *SchedulingError wrapping ErrSchedulePast.
func (q *Queue[T]) Schedule(payload T, at Tick, prio Priority) (ID, error) {
	if now := q.clock.Current(); at < now {
		return 0, &SchedulingError{At: at, Current: now, Err: ErrSchedulePast}
	}
	q.seq++
	e := &entry[T]{Scheduled: Scheduled[T]{
		ID:       ID(q.seq),
		At:       at,
		Priority: prio,
		Seq:      q.seq,
		Payload:  payload,
	}}
	heap.Push(&q.items, e)
	q.index[e.ID] = e
	return e.ID, nil
}

// DrainDue removes and returns every action targeted at exactly tick at, in
// priority then insertion order. Actions for other ticks stay queued.
func (q *Queue[T]) DrainDue(at Tick) []Scheduled[T] {
	var due []Scheduled[T]
	var stale []*entry[T]
	for len(q.items) > 0 && q.items[0].At <= at {
		e := heap.Pop(&q.items).(*entry[T])
		if e.At < at {
			// left behind by a tick nobody drained; not due now
			stale = append(stale, e)
			continue
		}
		delete(q.index, e.ID)
		due = append(due, e.Scheduled)
	}
	for _, e := range stale {
		heap.Push(&q.items, e)
	}
	return due
}

// Cancel removes a pending action. It reports false for ids that were never
// scheduled, already drained or already cancelled.
func (q *Queue[T]) Cancel(id ID) bool {
	e, ok := q.index[id]
	if !ok {
		return false
	}
	heap.Remove(&q.items, e.pos)
	delete(q.index, id)
	return true
}

// Peek returns the next action without removing it.
func (q *Queue[T]) Peek() (Scheduled[T], bool) {
	if len(q.items) == 0 {
		return Scheduled[T]{}, false
	}
	return q.items[0].Scheduled, true
}

// Pending counts queued actions whose payload matches.
func (q *Queue[T]) Pending(match func(T) bool) int {
	n := 0
	for _, e := range q.items {
		if match == nil || match(e.Payload) {
			n++
		}
	}
	return n
}

// CancelWhere cancels every pending action whose payload matches and returns
// how many were removed.
func (q *Queue[T]) CancelWhere(match func(T) bool) int {
	var ids []ID
	for _, e := range q.items {
		if match(e.Payload) {
			ids = append(ids, e.ID)
		}
	}
	for _, id := range ids {
		q.Cancel(id)
	}
	return len(ids)
}

type entry[T any] struct {
	Scheduled[T]
	pos int
}

type entries[T any] []*entry[T]

func (h entries[T]) Len() int { return len(h) }

func (h entries[T]) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.At != b.At {
		return a.At < b.At
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Seq < b.Seq
}

func (h entries[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i
	h[j].pos = j
}

func (h *entries[T]) Push(x any) {
	e := x.(*entry[T])
	e.pos = len(*h)
	*h = append(*h, e)
}

func (h *entries[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.pos = -1
	*h = old[:n-1]
	return e
}
