// snake is a deterministic snake game for the terminal, SSH and WebSocket
// clients.
//
// Usage:
//
//	snake play              - Play in this terminal
//	snake serve             - Start SSH server for remote play
//	snake web               - Start WebSocket server
//	snake history           - Show the run journal
//	snake config            - Print the effective game configuration
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible food placement
//	--db <path>          - Set run journal path (default: ~/.snake/runs.db)
//	--config <path>      - Load game constants from a YAML file
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

var (
	// Global flags
	flagSeed     uint64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagEnvFile  string

	// host holds SNAKE_* settings; explicit flags win over it.
	host = config.DefaultHostSettings()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - a deterministic snake game for your terminal",
	Long: `Snake is a grid snake game with a fixed-step engine. It can be played
locally, served over SSH, or exposed to browser clients over WebSocket.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Start WebSocket server
  history  - View the run journal
  config   - Print the effective game configuration

Environment (also read from .env):
  SNAKE_SSH_ADDR, SNAKE_WEB_ADDR, SNAKE_DB, SNAKE_LOG_LEVEL, SNAKE_IDLE_TIMEOUT

Examples:
  snake play
  snake play --seed 42
  snake serve --ssh :2222
  snake web --addr :8080
  snake history --limit 20`,
	SilenceUsage:      true,
	PersistentPreRunE: loadHostSettings,
}

func init() {
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", host.DBPath, "Path to run journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to snake.yaml (default: search ~/.snake/configs, ./configs)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", host.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file with SNAKE_* settings")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// loadHostSettings reads the dotenv file and SNAKE_* variables, then fills
// every flag the user did not set explicitly.
func loadHostSettings(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(flagEnvFile); err != nil {
		return err
	}
	h, err := config.HostFromEnv()
	if err != nil {
		return err
	}
	host = h

	if !cmd.Flags().Changed("db") {
		flagDBPath = host.DBPath
	}
	if !cmd.Flags().Changed("log-level") {
		flagLogLevel = host.LogLevel
	}
	return nil
}

// newLogger returns a stderr logger at the configured level.
func newLogger(prefix string) *log.Logger {
	return newLoggerTo(os.Stderr, prefix)
}

func newLoggerTo(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadEngineConfig resolves the game constants from --config or the search path.
func loadEngineConfig() (snake.Config, error) {
	sc, err := config.Load(flagConfig)
	if err != nil {
		return snake.Config{}, err
	}
	return sc.Engine()
}

// seedOptions returns the engine options implied by --seed.
func seedOptions(seed uint64) []snake.Option {
	if seed == 0 {
		return nil
	}
	return []snake.Option{snake.WithSeed(seed)}
}
