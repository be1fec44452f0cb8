package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/one-and-all/internal/platform/tui"
	"github.com/vovakirdan/one-and-all/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a scenario and saved world picker",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a scenario, Tab for the
saved worlds. Leaving a world with Esc or B returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select scenario
  Tab          - Saved worlds
  Q            - Quit

Examples:
  oneandall menu
  oneandall menu --fps 30
  oneandall menu --db ./saves.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	th, err := theme()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	session := tui.SessionConfig{
		Runtime:       runtimeConfig(),
		World:         cfg.Options(),
		DefaultSlot:   cfg.Save.Slot,
		Theme:         &th,
		Logger:        logger,
		ScreenshotDir: screenshotDir(),
	}

	store, err := storage.Open(dbPath(cfg), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save database: %v\n", err)
		// Continue without saves
	} else {
		defer store.Close()
		session.Catalog = store
		session.Open = store.Slot
	}

	if err := tui.RunSession(session); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
