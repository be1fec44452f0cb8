package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/one-and-all/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all scenarios",
	Long:  `Shows a list of all the ways a world can start.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	scenarios := registry.List()

	if len(scenarios) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Available scenarios:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range scenarios {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")

	for _, s := range scenarios {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Description)
	}

	fmt.Println()
	fmt.Println("Run 'oneandall play <id>' to start one.")
}
