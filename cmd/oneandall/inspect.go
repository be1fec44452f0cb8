package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/one-and-all/internal/sim"
)

var flagInspectVerbose bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Describe a save file",
	Long: `Decode a save file and print what is in it. Both the legacy layout
and the versioned one are accepted.

Examples:
  oneandall inspect ~/.oneandall/oneandall.sav
  oneandall inspect galaxy.sav -v`,
	Args: cobra.ExactArgs(1),
	Run:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVarP(&flagInspectVerbose, "verbose", "v", false, "List every planet, star and fish")
}

func runInspect(_ *cobra.Command, args []string) {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	save, version, err := sim.DecodeSave(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
		os.Exit(1)
	}
	printSummary(path, len(data), version, save)
}

func printSummary(name string, size int, version byte, save sim.SaveData) {
	sum := save.Summarize()
	fmt.Printf("%s (%d bytes, version %d)\n", name, size, version)
	fmt.Println()
	fmt.Printf("  Planets  %d (%d moons)\n", sum.Planets, sum.Moons)
	fmt.Printf("  Stars    %d\n", sum.Stars)
	fmt.Printf("  Fishes   %d\n", sum.Fishes)
	fmt.Printf("  Player   (%.1f, %.1f)\n", sum.Player.X, sum.Player.Y)

	if !flagInspectVerbose {
		return
	}

	if len(save.Planets) > 0 {
		fmt.Println()
		fmt.Printf("  %-4s  %-18s  %-6s  %-7s  %s\n", "#", "Position", "Radius", "Color", "Moons")
		for i, p := range save.Planets {
			fmt.Printf("  %-4d  %-18s  %-6.1f  %-7s  %d\n", i+1,
				fmt.Sprintf("(%.1f, %.1f)", p.Circle.X, p.Circle.Y), p.Circle.R, p.Color.HexString(), len(p.Moons))
		}
	}
	if len(save.Stars) > 0 {
		fmt.Println()
		fmt.Printf("  %-4s  %-18s  %-8s  %s\n", "#", "Position", "Rotation", "Color")
		for i, s := range save.Stars {
			pos := s.System.Host.Pos()
			fmt.Printf("  %-4d  %-18s  %-8.1f  %s\n", i+1,
				fmt.Sprintf("(%.1f, %.1f)", pos.X, pos.Y), s.R, s.Color.HexString())
		}
	}
	if len(save.Fishes) > 0 {
		fmt.Println()
		fmt.Printf("  %-4s  %-18s  %s\n", "#", "Position", "Color")
		for i, f := range save.Fishes {
			fmt.Printf("  %-4d  %-18s  %s\n", i+1,
				fmt.Sprintf("(%.1f, %.1f)", f.Pos.X, f.Pos.Y), f.Color.HexString())
		}
	}
}
