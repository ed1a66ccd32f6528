// Package config provides YAML-based engine configuration loading and
// environment-driven host settings for the snake binaries.
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// ErrInvalid is returned when a loaded configuration cannot drive an engine.
var ErrInvalid = errors.New("config: invalid configuration")

// SnakeConfig is the on-disk form of the engine constants.
type SnakeConfig struct {
	GridSize         int `yaml:"grid_size"`
	InitialSpeedMs   int `yaml:"initial_speed_ms"`
	SpeedIncrementMs int `yaml:"speed_increment_ms"`
	MinSpeedMs       int `yaml:"min_speed_ms"`
	InitialLength    int `yaml:"initial_length"`
}

// FromEngine converts engine constants into their YAML form.
func FromEngine(c snake.Config) SnakeConfig {
	return SnakeConfig{
		GridSize:         c.GridSize,
		InitialSpeedMs:   int(c.InitialSpeed / time.Millisecond),
		SpeedIncrementMs: int(c.SpeedIncrement / time.Millisecond),
		MinSpeedMs:       int(c.MinSpeed / time.Millisecond),
		InitialLength:    c.InitialLength,
	}
}

// Engine converts the YAML form into validated engine constants.
func (c SnakeConfig) Engine() (snake.Config, error) {
	ec := snake.Config{
		GridSize:       c.GridSize,
		InitialSpeed:   time.Duration(c.InitialSpeedMs) * time.Millisecond,
		SpeedIncrement: time.Duration(c.SpeedIncrementMs) * time.Millisecond,
		MinSpeed:       time.Duration(c.MinSpeedMs) * time.Millisecond,
		InitialLength:  c.InitialLength,
	}
	if err := ec.Validate(); err != nil {
		return snake.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return ec, nil
}

// Marshal renders the configuration as YAML.
func (c SnakeConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}
