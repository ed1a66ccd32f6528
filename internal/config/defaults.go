package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the built-in engine configuration.
func DefaultSnakeConfig() SnakeConfig {
	return FromEngine(snake.DefaultConfig())
}
