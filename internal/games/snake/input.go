package snake

// InputQueue holds at most one pending direction between ticks.
//
// Reversal filtering happens in two stages. Offer rejects a request that is
// the exact opposite of the direction in effect when it arrives; Resolve
// checks again against the direction in effect at the tick, since several
// requests may arrive between ticks and only the latest one survives.
type InputQueue struct {
	pending    Direction
	hasPending bool
}

// Offer records d as the pending direction, replacing any unapplied one.
// A request opposite to current is dropped and leaves the queue untouched.
// It reports whether d was queued.
func (q *InputQueue) Offer(d Direction, current Direction) bool {
	if !d.Valid() || d == current.Opposite() {
		return false
	}
	q.pending = d
	q.hasPending = true
	return true
}

// Resolve consumes the pending direction and returns the direction to apply
// this tick. A pending reversal of current is discarded and current is kept.
func (q *InputQueue) Resolve(current Direction) Direction {
	if !q.hasPending {
		return current
	}
	next := q.pending
	q.Clear()
	if next == current.Opposite() {
		return current
	}
	return next
}

// Pending returns the queued direction, if any.
func (q *InputQueue) Pending() (Direction, bool) {
	return q.pending, q.hasPending
}

// Clear drops any pending direction.
func (q *InputQueue) Clear() {
	q.pending = 0
	q.hasPending = false
}
