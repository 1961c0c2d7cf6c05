package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/boss-rush/internal/profile"
)

var (
	flagHealth  int
	flagStamina float64
	flagGold    int
	flagSkin    string
	flagX       int
	flagY       int
)

var knightCmd = &cobra.Command{
	Use:   "knight",
	Short: "Manage knight profiles",
	Long: `Create, inspect, update and delete knight profiles.

Knight names are 3 to 16 letters.

Examples:
  bossrush knight create Arthur
  bossrush knight show Arthur
  bossrush knight update Arthur --gold 50 --skin golden
  bossrush knight list`,
}

var knightCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a knight with default stats",
	Args:  cobra.ExactArgs(1),
	RunE: withProfiles(func(svc *profile.Service, args []string) error {
		rec, err := svc.Create(args[0])
		if err != nil {
			return err
		}
		return printRecord(rec)
	}),
}

var knightShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a knight profile",
	Args:  cobra.ExactArgs(1),
	RunE: withProfiles(func(svc *profile.Service, args []string) error {
		rec, err := svc.Read(args[0])
		if err != nil {
			return err
		}
		return printRecord(rec)
	}),
}

var knightUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Change a knight's stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := patchFromFlags(cmd)
		return withProfiles(func(svc *profile.Service, args []string) error {
			rec, err := svc.Update(args[0], patch)
			if err != nil {
				return err
			}
			return printRecord(rec)
		})(cmd, args)
	},
}

var knightDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a knight profile",
	Args:  cobra.ExactArgs(1),
	RunE: withProfiles(func(svc *profile.Service, args []string) error {
		if err := svc.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	}),
}

var knightListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all knights",
	Args:  cobra.NoArgs,
	RunE: withProfiles(func(svc *profile.Service, _ []string) error {
		records, err := svc.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No knights yet.")
			fmt.Println()
			fmt.Println("Run 'bossrush knight create <name>' to enlist one.")
			return nil
		}

		fmt.Printf("  %-16s  %4s  %7s  %5s  %s\n", "Name", "HP", "Stamina", "Gold", "Defeated")
		fmt.Printf("  %-16s  %4s  %7s  %5s  %s\n", "----", "--", "-------", "----", "--------")
		for _, r := range records {
			fmt.Printf("  %-16s  %4d  %7.1f  %5d  %v\n", r.Name, r.Health, r.Stamina, r.Gold, r.Progress.Defeated)
		}
		return nil
	}),
}

func init() {
	f := knightUpdateCmd.Flags()
	f.IntVar(&flagHealth, "health", 0, "Health")
	f.Float64Var(&flagStamina, "stamina", 0, "Stamina (0-100)")
	f.IntVar(&flagGold, "gold", 0, "Gold (never below 0)")
	f.StringVar(&flagSkin, "skin", "", "Skin name")
	f.IntVar(&flagX, "x", 0, "Position x")
	f.IntVar(&flagY, "y", 0, "Position y")
	knightUpdateCmd.MarkFlagsRequiredTogether("x", "y")

	knightCmd.AddCommand(knightCreateCmd)
	knightCmd.AddCommand(knightShowCmd)
	knightCmd.AddCommand(knightUpdateCmd)
	knightCmd.AddCommand(knightDeleteCmd)
	knightCmd.AddCommand(knightListCmd)
}

// withProfiles opens the database for the duration of fn.
func withProfiles(fn func(*profile.Service, []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(profile.NewService(store), args)
	}
}

// patchFromFlags builds a Patch from the flags that were set explicitly.
func patchFromFlags(cmd *cobra.Command) profile.Patch {
	flags := cmd.Flags()
	var p profile.Patch
	if flags.Changed("health") {
		p.Health = &flagHealth
	}
	if flags.Changed("stamina") {
		p.Stamina = &flagStamina
	}
	if flags.Changed("gold") {
		p.Gold = &flagGold
	}
	if flags.Changed("skin") {
		p.Skin = &flagSkin
	}
	if flags.Changed("x") || flags.Changed("y") {
		p.Position = &[2]int{flagX, flagY}
	}
	return p
}

func printRecord(rec profile.Record) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}
