package snake

import (
	"errors"
	"fmt"
	"time"
)

// Default engine constants.
const (
	DefaultGridSize       = 20
	DefaultInitialSpeed   = 150 * time.Millisecond
	DefaultSpeedIncrement = 3 * time.Millisecond
	DefaultMinSpeed       = 60 * time.Millisecond
	DefaultInitialLength  = 3
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("snake: invalid config")

// Config holds the engine constants. Speeds are tick intervals: a smaller
// value means a faster snake.
type Config struct {
	GridSize       int           // Board is GridSize x GridSize
	InitialSpeed   time.Duration // Tick interval after Reset
	SpeedIncrement time.Duration // Interval reduction per food eaten
	MinSpeed       time.Duration // Lower bound for the interval
	InitialLength  int           // Snake length after Reset
}

// DefaultConfig returns the classic 20x20 configuration.
func DefaultConfig() Config {
	return Config{
		GridSize:       DefaultGridSize,
		InitialSpeed:   DefaultInitialSpeed,
		SpeedIncrement: DefaultSpeedIncrement,
		MinSpeed:       DefaultMinSpeed,
		InitialLength:  DefaultInitialLength,
	}
}

// Validate checks that the configuration can produce a playable board.
func (c Config) Validate() error {
	switch {
	case c.GridSize <= 0:
		return fmt.Errorf("%w: grid size %d", ErrInvalidConfig, c.GridSize)
	case c.InitialLength <= 0:
		return fmt.Errorf("%w: initial length %d", ErrInvalidConfig, c.InitialLength)
	case c.InitialLength > c.GridSize/2+1:
		// The snake starts at the board center and extends left.
		return fmt.Errorf("%w: initial length %d does not fit a %d grid",
			ErrInvalidConfig, c.InitialLength, c.GridSize)
	case c.InitialSpeed <= 0 || c.MinSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidConfig)
	case c.MinSpeed > c.InitialSpeed:
		return fmt.Errorf("%w: min speed %s above initial speed %s",
			ErrInvalidConfig, c.MinSpeed, c.InitialSpeed)
	case c.SpeedIncrement < 0:
		return fmt.Errorf("%w: negative speed increment", ErrInvalidConfig)
	}
	return nil
}

// startCells returns the canonical starting body, head first: a horizontal
// segment whose head sits at the board center, facing right.
func (c Config) startCells() []Cell {
	mid := c.GridSize / 2
	cells := make([]Cell, c.InitialLength)
	for i := range cells {
		cells[i] = Cell{X: mid - i, Y: mid}
	}
	return cells
}
