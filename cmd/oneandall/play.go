package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/one-and-all/internal/config"
	"github.com/vovakirdan/one-and-all/internal/platform/tui"
	"github.com/vovakirdan/one-and-all/internal/registry"
	"github.com/vovakirdan/one-and-all/internal/storage"
)

var (
	flagSlot string
	flagFile string
	flagLoad bool
)

var playCmd = &cobra.Command{
	Use:   "play [scenario]",
	Short: "Play a scenario",
	Long: `Start a world from the given scenario (default: story).

Saves go to a named slot in the save database, or to a flat file with
--file. Saving, resetting and free creation open up once the story reaches
the sandbox.

Controls:
  Click         - Continue the story / move
  Double click  - Create
  S             - Save
  L             - Load
  R             - Start over
  ?             - Help
  Esc/B, Q      - Quit

Examples:
  oneandall play
  oneandall play sandbox --slot experiments
  oneandall play galaxy --file ./galaxy.sav
  oneandall play --slot default --load`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSlot, "slot", "", "Save slot name (default from config)")
	playCmd.Flags().StringVar(&flagFile, "file", "", "Save to a flat file instead of a slot")
	playCmd.Flags().BoolVar(&flagLoad, "load", false, "Load the save as soon as the world starts")
	playCmd.MarkFlagsMutuallyExclusive("slot", "file")
}

func runPlay(cmd *cobra.Command, args []string) {
	scenarioID := "story"
	if len(args) == 1 {
		scenarioID = args[0]
	}

	if !registry.Exists(scenarioID) {
		fmt.Fprintf(os.Stderr, "Error: unknown scenario %q\n", scenarioID)
		fmt.Fprintln(os.Stderr, "Run 'oneandall list' to see available scenarios.")
		os.Exit(1)
	}

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

	backend, closeBackend, err := openBackend(cfg, logger, flagSlot, flagFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeBackend()

	rc := runtimeConfig()
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}

	opts := cfg.Options()
	opts.Logger = logger
	w, err := registry.NewWorld(scenarioID, rc, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating world: %v\n", err)
		os.Exit(1)
	}
	logger.Info("world started", "scenario", scenarioID, "seed", rc.Seed, "backend", backend.Name())

	runErr := tui.Run(w, rc, tui.ModelOptions{
		Backend:       backend,
		Theme:         &th,
		Logger:        logger,
		ScreenshotDir: screenshotDir(),
		LoadOnStart:   flagLoad,
	})
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running world: %v\n", runErr)
		os.Exit(1)
	}
}

// openBackend picks where a world saves: the flat file if one is named,
// otherwise a slot in the save database. When the database cannot be
// opened the configured flat file is used instead.
func openBackend(cfg config.Config, logger *log.Logger, slot, file string) (storage.Backend, func(), error) {
	if file != "" {
		b, err := storage.NewFileBackend(file)
		return b, func() {}, err
	}

	store, err := storage.Open(dbPath(cfg), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save database: %v\n", err)
		logger.Warn("falling back to save file", "err", err)
		b, fileErr := storage.NewFileBackend(filepath.Join(config.DataDir(), cfg.Save.File))
		return b, func() {}, fileErr
	}

	if slot == "" {
		slot = cfg.Save.Slot
	}
	//nolint:errcheck // Best-effort close on exit
	return store.Slot(slot), func() { store.Close() }, nil
}
