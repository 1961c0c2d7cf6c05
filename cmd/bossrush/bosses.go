package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/boss-rush/internal/bestiary"
)

var bossesCmd = &cobra.Command{
	Use:   "bosses",
	Short: "List bosses and fight statistics",
	Long:  `Shows every boss in the roster with its spawn settings and how fights against it have gone.`,
	Args:  cobra.NoArgs,
	RunE:  runBosses,
}

func runBosses(_ *cobra.Command, _ []string) error {
	cfg, err := loadRoster()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.AllBossStats()
	if err != nil {
		return err
	}

	fmt.Println("Bosses:")
	fmt.Println()
	fmt.Printf("  %-8s  %-8s  %4s  %3s  %-10s  %6s  %4s  %4s\n", "ID", "Title", "HP", "DMG", "Start", "Fights", "Won", "Lost")
	fmt.Printf("  %-8s  %-8s  %4s  %3s  %-10s  %6s  %4s  %4s\n", "--", "-----", "--", "---", "-----", "------", "---", "----")

	shown := 0
	for _, s := range bestiary.List() {
		boss, ok := cfg.Bosses.Lookup(s.ID)
		if !ok {
			continue
		}
		pos := boss.Position()
		var fights, won, lost int
		if st := stats[s.ID]; st != nil {
			fights, won, lost = st.Fights, st.Victories, st.Defeats
		}
		fmt.Printf("  %-8s  %-8s  %4d  %3d  %-10s  %6d  %4d  %4d\n",
			s.ID, s.Title, boss.HP(), s.Damage, fmt.Sprintf("(%d,%d)", pos.X, pos.Y), fights, won, lost)
		shown++
	}

	if shown == 0 {
		fmt.Println("  No bosses in the roster.")
		return nil
	}
	fmt.Println()
	fmt.Println("Run 'bossrush play <id>' to fight one.")
	return nil
}
