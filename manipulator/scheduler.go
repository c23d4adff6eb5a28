package manipulator

// Scheduler defers work to a later tick, e.g. the next animation frame.
type Scheduler interface {
	Schedule(fn func())
}

// Immediate runs scheduled work synchronously. Every pointer move commits.
type Immediate struct{}

// Schedule runs fn before returning.
func (Immediate) Schedule(fn func()) { fn() }

// FrameQueue holds scheduled work until Tick is called. A host render loop
// calls Tick once per frame.
type FrameQueue struct {
	pending []func()
}

// Schedule queues fn for the next Tick.
func (q *FrameQueue) Schedule(fn func()) { q.pending = append(q.pending, fn) }

// Tick runs and clears the queued work. It returns the number of functions run.
func (q *FrameQueue) Tick() int {
	work := q.pending
	q.pending = nil
	for _, fn := range work {
		fn()
	}
	return len(work)
}

// Len returns the number of queued functions.
func (q *FrameQueue) Len() int { return len(q.pending) }
