package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/web"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagWebAddr   string
	flagSingleRun bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the snake WebSocket server",
	Long: `Start an HTTP server that plays snake over WebSocket.

Clients connect to /ws (optionally /ws?name=<player>) and receive a welcome
frame followed by a state frame per tick. They send input and restart
messages as JSON envelopes. /healthz reports every live session.

Examples:
  snake web                  # Listen on :8080
  snake web --addr :9000
  snake web --seed 7         # Every connection gets the same food sequence
  snake web --single-run     # One game per connection`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", host.WebAddr, "HTTP listen address (host:port)")
	webCmd.Flags().BoolVar(&flagSingleRun, "single-run", false, "Close each connection after its first game over")
}

func runWeb(cmd *cobra.Command, _ []string) {
	if !cmd.Flags().Changed("addr") {
		flagWebAddr = host.WebAddr
	}

	engineCfg, err := loadEngineConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger("snake-web")

	// Open the journal (optional, serve without it on error)
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run journal", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	server, err := web.NewServer(web.Config{
		Engine:        engineCfg,
		EngineOptions: seedOptions(flagSeed),
		Store:         store,
		Logger:        logger,
		SingleRun:     flagSingleRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting snake web server on %s\n", flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx, flagWebAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
