package core

// RuntimeConfig describes the drawing surface and seed a host hands to a
// game session.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	Seed    uint64 // RNG seed; 0 means derive one from the clock
}

// DefaultConfig returns an 80x24 surface with a clock-derived seed.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
	}
}
