package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagLimit   int
	flagTop     bool
	flagTUI     bool
	flagClear   bool
	flagShowRun string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the run journal",
	Long: `Display finished runs recorded by every host (terminal, SSH, web).

Examples:
  snake history                 # Most recent 10 runs and totals
  snake history --limit 25
  snake history --top           # Best runs by score
  snake history --run <run-id>  # One run in detail
  snake history --tui           # Interactive table
  snake history --clear         # Delete every run`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagTop, "top", false, "Order by score instead of recency")
	historyCmd.Flags().BoolVar(&flagTUI, "tui", false, "Browse the journal in an interactive table")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded run")
	historyCmd.Flags().StringVar(&flagShowRun, "run", "", "Show a single run by its run id")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearRuns(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Run journal cleared.")
	case flagShowRun != "":
		printRun(store, flagShowRun)
	case flagTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running history: %v\n", err)
			os.Exit(1)
		}
	default:
		printRuns(store)
	}
}

func printRuns(store *storage.Store) {
	title := "Recent Runs"
	load := store.RecentRuns
	if flagTop {
		title = "Top Runs"
		load = store.TopRuns
	}

	runs, err := load(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to record the first one!")
		return
	}

	fmt.Printf("  %-4s  %-5s  %-6s  %-5s  %-4s  %-12s  %s\n", "#", "Score", "Length", "Cause", "Host", "Player", "Date")
	fmt.Printf("  %-4s  %-5s  %-6s  %-5s  %-4s  %-12s  %s\n", "-", "-----", "------", "-----", "----", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-5d  %-6d  %-5s  %-4s  %-12s  %s\n",
			i+1, r.Score, r.Length, r.Cause, r.Host, truncate(r.Player, 12), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats()
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Runs: %d  Best: %d  Average: %.1f  Ticks: %d\n",
		stats.Runs, stats.BestScore, stats.AvgScore, stats.TotalTicks)

	counts, err := store.CauseCounts()
	if err != nil || len(counts) == 0 {
		return
	}
	causes := make([]string, 0, len(counts))
	for c := range counts {
		causes = append(causes, c)
	}
	slices.Sort(causes)
	fmt.Print("Endings:")
	for _, c := range causes {
		fmt.Printf("  %s %d", c, counts[c])
	}
	fmt.Println()
}

func printRun(store *storage.Store, runID string) {
	r, err := store.RunByID(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if r == nil {
		fmt.Fprintf(os.Stderr, "Error: no run with id %q\n", runID)
		os.Exit(1)
	}

	fmt.Printf("Run %s\n\n", r.RunID)
	fmt.Printf("  Host:     %s\n", r.Host)
	fmt.Printf("  Player:   %s\n", r.Player)
	fmt.Printf("  Score:    %d\n", r.Score)
	fmt.Printf("  Length:   %d\n", r.Length)
	fmt.Printf("  Cause:    %s\n", r.Cause)
	fmt.Printf("  Ticks:    %d\n", r.Ticks)
	fmt.Printf("  Duration: %s\n", r.Duration.Round(100*time.Millisecond))
	fmt.Printf("  Date:     %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
