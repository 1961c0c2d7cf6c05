package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/boss-rush/internal/arena"
	"github.com/vovakirdan/boss-rush/internal/bestiary"
	"github.com/vovakirdan/boss-rush/internal/platform/tui"
	"github.com/vovakirdan/boss-rush/internal/profile"
)

var (
	flagKnight string
	flagFPS    int
)

var playCmd = &cobra.Command{
	Use:   "play [boss]",
	Short: "Fight in this terminal",
	Long: `Open the boss picker, or go straight into a fight when a boss id is given.
The knight profile is created on first use.

Controls:
  ←/a →/d  move       space/j  attack
  ↑/w      jump       l        dash
  r        restart    esc/b    back to bosses
  q        quit

Examples:
  bossrush play
  bossrush play dragon --knight Arthur
  bossrush play ogre --fps 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagKnight, "knight", "Knight", "Knight profile to fight with")
	playCmd.Flags().IntVar(&flagFPS, "fps", 0, "Steps per second (0 = roster tick_rate)")
}

func runPlay(_ *cobra.Command, args []string) error {
	var bossID string
	if len(args) == 1 {
		bossID = args[0]
		if !bestiary.Exists(bossID) {
			fmt.Fprintln(os.Stderr, "Run 'bossrush bosses' to see available bosses.")
			return fmt.Errorf("unknown boss %q", bossID)
		}
	}

	cfg, err := loadRoster()
	if err != nil {
		return err
	}
	if flagFPS > 0 {
		cfg.Arena.TickRate = flagFPS
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	profiles := profile.NewService(store)
	if _, err := tui.EnsureKnight(profiles, flagKnight); err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// The alt screen owns the terminal while playing.
	quiet := log.New(io.Discard)

	return tui.Run(tui.SessionOptions{
		Arena:    arena.New(profiles, store, cfg, quiet),
		Profiles: profiles,
		History:  store,
		Knight:   flagKnight,
		Boss:     bossID,
		Width:    width,
		Height:   height,
	})
}
