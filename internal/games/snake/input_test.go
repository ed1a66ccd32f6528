package snake

import "testing"

func TestOppositeIsInvolutive(t *testing.T) {
	for _, d := range Directions {
		if d.Opposite() == d {
			t.Errorf("%s is its own opposite", d)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("Opposite(Opposite(%s)) = %s", d, d.Opposite().Opposite())
		}
		v, o := d.Vector(), d.Opposite().Vector()
		if v.X != -o.X || v.Y != -o.Y {
			t.Errorf("vectors of %s and its opposite do not cancel: %v %v", d, v, o)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, ok := ParseDirection(d.String())
		if !ok || got != d {
			t.Errorf("ParseDirection(%q) = %s, %v", d.String(), got, ok)
		}
	}
	for _, s := range []string{"", "UP", "north", "unknown"} {
		if _, ok := ParseDirection(s); ok {
			t.Errorf("ParseDirection(%q) accepted invalid input", s)
		}
	}
}

func TestResolveNeverReverses(t *testing.T) {
	for _, current := range Directions {
		for _, pending := range Directions {
			var q InputQueue
			// Bypass the submit-time filter to exercise the tick-time one.
			q.pending, q.hasPending = pending, true

			got := q.Resolve(current)
			if got == current.Opposite() {
				t.Errorf("Resolve(%s) with pending %s returned a reversal", current, pending)
			}
			want := pending
			if pending == current.Opposite() {
				want = current
			}
			if got != want {
				t.Errorf("Resolve(%s) with pending %s = %s, want %s", current, pending, got, want)
			}
			if _, ok := q.Pending(); ok {
				t.Errorf("Resolve(%s) left %s pending", current, pending)
			}
		}
	}
}

func TestResolveWithoutPending(t *testing.T) {
	var q InputQueue
	if got := q.Resolve(DirUp); got != DirUp {
		t.Errorf("Resolve(up) with empty queue = %s", got)
	}
}

func TestOfferRejectsReversal(t *testing.T) {
	var q InputQueue

	if q.Offer(DirLeft, DirRight) {
		t.Error("Offer accepted a reversal")
	}
	if _, ok := q.Pending(); ok {
		t.Error("rejected reversal was queued")
	}

	if !q.Offer(DirUp, DirRight) {
		t.Fatal("Offer rejected a valid turn")
	}
	// A later reversal is dropped without clobbering the earlier request.
	q.Offer(DirLeft, DirRight)
	if d, ok := q.Pending(); !ok || d != DirUp {
		t.Errorf("Pending() = %s, %v; want up, true", d, ok)
	}
	if q.Offer(Direction(42), DirRight) {
		t.Error("Offer accepted an invalid direction")
	}
}

func TestOfferLatestWins(t *testing.T) {
	var q InputQueue
	q.Offer(DirUp, DirRight)
	q.Offer(DirDown, DirRight)

	if got := q.Resolve(DirRight); got != DirDown {
		t.Errorf("Resolve() = %s, want down", got)
	}
}

// TestDoubleTapCannotReverse sends two quick taps between ticks. Only the
// latest valid request survives and it is checked against the direction in
// effect at the tick.
func TestDoubleTapCannotReverse(t *testing.T) {
	e := newTestEngine(t, WithSource(&scriptedSource{vals: []int{0, 0}}))
	e.Reset()

	// Moving right: "up" is queued, then "down" replaces it.
	e.SubmitDirection(DirUp)
	e.SubmitDirection(DirDown)
	e.Tick()
	if e.Direction() != DirDown {
		t.Fatalf("Direction() = %s, want down", e.Direction())
	}

	// Moving down: "left" is queued, then "up" is rejected at submit time.
	e.SubmitDirection(DirLeft)
	e.SubmitDirection(DirUp)
	r := e.Tick()
	if r.Direction != DirLeft {
		t.Errorf("Direction = %s, want left", r.Direction)
	}
	if r.Ended() {
		t.Errorf("double tap ended the game: %+v", r)
	}
}

func TestSubmitIgnoredOutsidePlaying(t *testing.T) {
	e := newTestEngine(t, WithSeed(3))

	e.SubmitDirection(DirUp)
	if _, ok := e.input.Pending(); ok {
		t.Error("direction queued while idle")
	}
}
