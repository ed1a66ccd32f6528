package snake

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

// scriptedSource returns the queued values in order, then zeros.
type scriptedSource struct {
	vals []int
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v % n
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

func TestNewStartsIdle(t *testing.T) {
	e := newTestEngine(t, WithSeed(1))

	if e.State() != StateIdle {
		t.Fatalf("State() = %s, want idle", e.State())
	}

	r := e.Tick()
	if r.Outcome != OutcomeSkipped {
		t.Errorf("Tick() while idle = %s, want skipped", r.Outcome)
	}
	if e.State() != StateIdle {
		t.Errorf("Tick() while idle changed state to %s", e.State())
	}
}

func TestResetCanonicalStart(t *testing.T) {
	e := newTestEngine(t, WithSource(&scriptedSource{vals: []int{0, 0}}))
	e.Reset()

	want := []Cell{{10, 10}, {9, 10}, {8, 10}}
	if got := e.Snake(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snake() = %v, want %v", got, want)
	}
	if e.Direction() != DirRight {
		t.Errorf("Direction() = %s, want right", e.Direction())
	}
	if e.Score() != 0 {
		t.Errorf("Score() = %d, want 0", e.Score())
	}
	if e.Speed() != 150*time.Millisecond {
		t.Errorf("Speed() = %s, want 150ms", e.Speed())
	}
	if e.State() != StatePlaying {
		t.Errorf("State() = %s, want playing", e.State())
	}
	if e.Food() != (Cell{0, 0}) {
		t.Errorf("Food() = %v, want (0,0)", e.Food())
	}
}

func TestReversalRejectedOnTick(t *testing.T) {
	e := newTestEngine(t, WithSource(&scriptedSource{vals: []int{0, 0}}))
	e.Reset()

	e.SubmitDirection(DirLeft)
	r := e.Tick()

	if r.Outcome != OutcomeMoved {
		t.Fatalf("Outcome = %s, want moved", r.Outcome)
	}
	if r.Direction != DirRight {
		t.Errorf("Direction = %s, want right", r.Direction)
	}
	want := []Cell{{11, 10}, {10, 10}, {9, 10}}
	if got := e.Snake(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snake() = %v, want %v", got, want)
	}
}

func TestEatGrowsAndSpeedsUp(t *testing.T) {
	// Reset places food at (0,0). After eating, the first sample (11,10)
	// lands on the grown snake and is rejected, the second is free.
	src := &scriptedSource{vals: []int{0, 0, 11, 10, 3, 4}}
	e := newTestEngine(t, WithSource(src))
	e.Reset()
	e.food = Cell{11, 10}

	e.SubmitDirection(DirLeft)
	r := e.Tick()

	if r.Outcome != OutcomeAte {
		t.Fatalf("Outcome = %s, want ate", r.Outcome)
	}
	want := []Cell{{11, 10}, {10, 10}, {9, 10}, {8, 10}}
	if got := e.Snake(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snake() = %v, want %v", got, want)
	}
	if e.Score() != 1 {
		t.Errorf("Score() = %d, want 1", e.Score())
	}
	if e.Speed() != 147*time.Millisecond {
		t.Errorf("Speed() = %s, want 147ms", e.Speed())
	}
	if e.Food() != (Cell{3, 4}) {
		t.Errorf("Food() = %v, want (3,4)", e.Food())
	}
}

func TestWallCollision(t *testing.T) {
	e := newTestEngine(t, WithSeed(7))
	e.Reset()
	e.snake = []Cell{{0, 5}, {1, 5}, {2, 5}, {3, 5}}
	e.direction = DirLeft
	e.score = 1
	e.food = Cell{15, 15}
	before := e.Snake()

	r := e.Tick()

	if r.Outcome != OutcomeTerminated || r.Cause != CauseWall {
		t.Fatalf("Tick() = %s/%s, want terminated/wall", r.Outcome, r.Cause)
	}
	if r.Head != (Cell{-1, 5}) {
		t.Errorf("Head = %v, want (-1,5)", r.Head)
	}
	if e.State() != StateOver {
		t.Errorf("State() = %s, want over", e.State())
	}
	if e.HighScore() != 1 {
		t.Errorf("HighScore() = %d, want 1", e.HighScore())
	}
	if got := e.Snake(); !reflect.DeepEqual(got, before) {
		t.Errorf("Snake changed on collision: %v -> %v", before, got)
	}
}

func TestSelfCollision(t *testing.T) {
	e := newTestEngine(t, WithSeed(8))
	e.Reset()
	// Head at (5,5) moving right; the body curls below it.
	e.snake = []Cell{{5, 5}, {4, 5}, {4, 6}, {5, 6}, {6, 6}}
	e.direction = DirRight
	e.score = 2
	e.food = Cell{15, 15}

	e.SubmitDirection(DirDown)
	r := e.Tick()

	if r.Outcome != OutcomeTerminated || r.Cause != CauseSelf {
		t.Fatalf("Tick() = %s/%s, want terminated/self", r.Outcome, r.Cause)
	}
	if e.State() != StateOver {
		t.Errorf("State() = %s, want over", e.State())
	}
}

func TestMovingIntoTailCellCollides(t *testing.T) {
	e := newTestEngine(t, WithSeed(9))
	e.Reset()
	// 2x2 loop: the tail at (5,6) would be vacated this tick, but it still counts.
	e.snake = []Cell{{5, 5}, {6, 5}, {6, 6}, {5, 6}}
	e.direction = DirLeft
	e.score = 1
	e.food = Cell{15, 15}

	e.SubmitDirection(DirDown)
	r := e.Tick()

	if r.Cause != CauseSelf {
		t.Errorf("Cause = %s, want self", r.Cause)
	}
}

func TestTickWhileOverIsNoop(t *testing.T) {
	e := newTestEngine(t, WithSeed(10))
	e.Reset()
	for e.State() == StatePlaying {
		e.Tick()
	}

	before := e.Snapshot()
	e.SubmitDirection(DirUp)
	for range 5 {
		if r := e.Tick(); r.Outcome != OutcomeSkipped {
			t.Fatalf("Tick() while over = %s, want skipped", r.Outcome)
		}
	}
	if after := e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("state changed while over:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestRestart(t *testing.T) {
	e := newTestEngine(t, WithSeed(11))

	e.SubmitRestart()
	if e.State() != StatePlaying {
		t.Fatalf("SubmitRestart from idle: state %s, want playing", e.State())
	}

	e.snake = []Cell{{10, 10}, {9, 10}, {8, 10}, {7, 10}, {6, 10}}
	e.score = 2
	e.food = Cell{0, 0}
	e.Tick()
	e.SubmitRestart() // ignored while playing
	if e.Score() != 2 {
		t.Fatalf("SubmitRestart while playing reset the score")
	}

	for e.State() == StatePlaying {
		e.Tick()
	}
	e.SubmitRestart()

	if e.State() != StatePlaying {
		t.Errorf("State() = %s, want playing", e.State())
	}
	if e.Score() != 0 {
		t.Errorf("Score() = %d, want 0", e.Score())
	}
	if e.HighScore() != 2 {
		t.Errorf("HighScore() = %d, want 2 after restart", e.HighScore())
	}
	if _, ok := e.input.Pending(); ok {
		t.Error("pending direction survived restart")
	}
}

func TestHighScoreNeverDecreases(t *testing.T) {
	e := newTestEngine(t, WithSeed(12))
	e.Reset()
	e.snake = []Cell{{18, 10}, {17, 10}, {16, 10}, {15, 10}, {14, 10}, {13, 10}, {12, 10}, {11, 10}}
	e.score = 5
	e.food = Cell{0, 0}
	for e.State() == StatePlaying {
		e.Tick()
	}
	if e.HighScore() != 5 {
		t.Fatalf("HighScore() = %d, want 5", e.HighScore())
	}

	e.SubmitRestart()
	e.food = Cell{0, 0}
	for e.State() == StatePlaying {
		e.Tick()
	}
	if e.HighScore() != 5 {
		t.Errorf("HighScore() = %d after a lower game, want 5", e.HighScore())
	}
}

func TestSpeedSaturatesAtMinimum(t *testing.T) {
	e := newTestEngine(t, WithSeed(13))
	e.Reset()
	e.speed = 61 * time.Millisecond

	for i := range 2 {
		head := e.Head()
		e.food = head.Add(e.direction.Vector())
		if r := e.Tick(); r.Outcome != OutcomeAte {
			t.Fatalf("tick %d: Outcome = %s, want ate", i, r.Outcome)
		}
		if e.Speed() != DefaultMinSpeed {
			t.Errorf("tick %d: Speed() = %s, want %s", i, e.Speed(), DefaultMinSpeed)
		}
	}
}

func TestHooks(t *testing.T) {
	var (
		states     []State
		scores     []int
		highScores []int
		ticks      []TickResult
	)
	e := newTestEngine(t, WithSource(&scriptedSource{vals: []int{0, 0, 3, 4}}), WithHooks(Hooks{
		OnStateChange:     func(s State) { states = append(states, s) },
		OnScoreChange:     func(s int) { scores = append(scores, s) },
		OnHighScoreChange: func(s int) { highScores = append(highScores, s) },
		OnTick:            func(r TickResult) { ticks = append(ticks, r) },
	}))

	e.Reset()
	e.food = Cell{11, 10}
	e.Tick() // eat
	for e.State() == StatePlaying {
		e.Tick()
	}
	e.Tick() // skipped, no hook

	if !reflect.DeepEqual(states, []State{StatePlaying, StateOver}) {
		t.Errorf("states = %v", states)
	}
	if !reflect.DeepEqual(scores, []int{0, 1}) {
		t.Errorf("scores = %v", scores)
	}
	if !reflect.DeepEqual(highScores, []int{1}) {
		t.Errorf("highScores = %v", highScores)
	}
	if len(ticks) == 0 || ticks[0].Outcome != OutcomeAte || !ticks[len(ticks)-1].Ended() {
		t.Errorf("unexpected tick sequence: %+v", ticks)
	}
	for _, r := range ticks {
		if r.Outcome == OutcomeSkipped {
			t.Error("OnTick fired for a skipped tick")
		}
	}
}

func TestDeterminism(t *testing.T) {
	// Two engines with the same seed and inputs produce identical snapshots.
	run := func() Snapshot {
		e := newTestEngine(t, WithSeed(12345))
		e.Reset()
		for i := range 200 {
			switch i % 7 {
			case 2:
				e.SubmitDirection(DirDown)
			case 4:
				e.SubmitDirection(DirLeft)
			case 6:
				e.SubmitDirection(DirUp)
			}
			if e.Tick().Ended() {
				e.SubmitRestart()
			}
		}
		return e.Snapshot()
	}

	if a, b := run(), run(); !reflect.DeepEqual(a, b) {
		t.Errorf("snapshots differ:\n%+v\n%+v", a, b)
	}
}

// TestInvariantsUnderRandomPlay drives many sessions with pseudo-random
// input and checks the board invariants after every tick.
func TestInvariantsUnderRandomPlay(t *testing.T) {
	e := newTestEngine(t, WithSeed(2024))
	steer := NewSource(99)
	cfg := e.Config()

	for session := range 50 {
		e.Reset()
		prevSpeed := e.Speed()
		for e.State() == StatePlaying {
			if steer.IntN(3) == 0 {
				e.SubmitDirection(Directions[steer.IntN(len(Directions))])
			}
			// Steer towards the food now and then so sessions actually grow.
			if steer.IntN(4) == 0 {
				e.SubmitDirection(towards(e.Head(), e.Food()))
			}
			r := e.Tick()

			if e.Score() != len(e.snake)-cfg.InitialLength {
				t.Fatalf("session %d: score %d with length %d", session, e.Score(), len(e.snake))
			}
			if e.Speed() > prevSpeed || e.Speed() < cfg.MinSpeed {
				t.Fatalf("session %d: speed %s after %s", session, e.Speed(), prevSpeed)
			}
			prevSpeed = e.Speed()

			if r.Ended() {
				break
			}
			seen := make(map[Cell]bool, len(e.snake))
			for _, c := range e.snake {
				if !c.In(cfg.GridSize) {
					t.Fatalf("session %d: cell %v out of bounds", session, c)
				}
				if seen[c] {
					t.Fatalf("session %d: duplicate cell %v", session, c)
				}
				seen[c] = true
			}
			if seen[e.Food()] {
				t.Fatalf("session %d: food %v on snake", session, e.Food())
			}
		}
	}
}

func towards(from, to Cell) Direction {
	switch {
	case to.X > from.X:
		return DirRight
	case to.X < from.X:
		return DirLeft
	case to.Y > from.Y:
		return DirDown
	default:
		return DirUp
	}
}

func TestFoodNeverOnSnakeAfterReset(t *testing.T) {
	e := newTestEngine(t, WithSeed(999))
	for range 100 {
		e.Reset()
		if e.occupied(e.Food()) {
			t.Fatalf("food %v placed on snake %v", e.Food(), e.snake)
		}
		if !e.Food().In(e.Config().GridSize) {
			t.Fatalf("food %v out of bounds", e.Food())
		}
	}
}

func TestPlaceFoodPanicsOnFullBoard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 2
	cfg.InitialLength = 2
	e, err := New(cfg, WithSeed(1))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	e.snake = []Cell{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	defer func() {
		if recover() == nil {
			t.Error("placeFood on a full board did not panic")
		}
	}()
	e.placeFood()
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero grid", func(c *Config) { c.GridSize = 0 }, false},
		{"zero length", func(c *Config) { c.InitialLength = 0 }, false},
		{"snake wider than half board", func(c *Config) { c.InitialLength = 12 }, false},
		{"longest fitting snake", func(c *Config) { c.InitialLength = 11 }, true},
		{"min above initial", func(c *Config) { c.MinSpeed = 200 * time.Millisecond }, false},
		{"zero speed", func(c *Config) { c.InitialSpeed = 0 }, false},
		{"negative increment", func(c *Config) { c.SpeedIncrement = -time.Millisecond }, false},
		{"no progression", func(c *Config) { c.SpeedIncrement = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = -1
	if _, err := New(cfg); err == nil {
		t.Error("New() accepted an invalid config")
	}
}

func TestDebugState(t *testing.T) {
	e := newTestEngine(t, WithSource(&scriptedSource{vals: []int{0, 0}}))
	e.Reset()
	e.SubmitDirection(DirUp)

	got := e.DebugState()
	for _, want := range []string{"State: playing", "Head: (10, 10), Food: (0, 0)", "Pending: up"} {
		if !strings.Contains(got, want) {
			t.Errorf("DebugState() missing %q:\n%s", want, got)
		}
	}

	e.Tick()
	if strings.Contains(e.DebugState(), "Pending:") {
		t.Error("DebugState() still reports a pending direction after the tick")
	}
}
