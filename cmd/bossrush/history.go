package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/boss-rush/internal/storage"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history [knight]",
	Short: "Show recent fights",
	Long: `Display the most recent fights, optionally only those of one knight.

Examples:
  bossrush history
  bossrush history Arthur --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of fights to show")
}

func runHistory(_ *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var fights []storage.FightRecord
	title := "Recent fights"
	if len(args) == 1 {
		fights, err = store.KnightFights(args[0], flagLimit)
		title = fmt.Sprintf("Recent fights - %s", args[0])
	} else {
		fights, err = store.RecentFights(flagLimit)
	}
	if err != nil {
		return err
	}

	fmt.Println(title)
	fmt.Println()

	if len(fights) == 0 {
		fmt.Println("No fights recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-16s  %-8s  %-7s  %6s\n", "Date", "Knight", "Boss", "Outcome", "Frames")
	fmt.Printf("  %-16s  %-16s  %-8s  %-7s  %6s\n", "----", "------", "----", "-------", "------")
	for _, f := range fights {
		fmt.Printf("  %-16s  %-16s  %-8s  %-7s  %6d\n",
			f.CreatedAt.Format("2006-01-02 15:04"), f.Knight, f.BossID, f.Outcome, f.Frames)
	}
	return nil
}
