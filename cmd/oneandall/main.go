// oneandall is a small creation game that runs in the terminal: a story
// about two sparks, then a sandbox of planets, stars and fish.
//
// Usage:
//
//	oneandall list                   - List scenarios
//	oneandall play [scenario]        - Play a scenario
//	oneandall menu                   - Pick scenarios and saved worlds interactively
//	oneandall sim                    - Run the galaxy headless and write a save
//	oneandall inspect <file>         - Describe a save file
//	oneandall saves <subcommand>     - Manage saved worlds
//	oneandall serve                  - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible worlds
//	--config <path>     - Tuning file (default: search ~/.oneandall, ./configs)
//	--db <path>         - Save slot database (default: from config)
//	--log-level <level> - debug, info, warn or error
//	--theme <name>      - UI theme
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/one-and-all/internal/config"
	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/platform/tui"

	// Import scenarios to register them
	_ "github.com/vovakirdan/one-and-all/internal/scenarios"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagTheme    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "oneandall",
	Short: "One And All - make a small universe in your terminal",
	Long: `One And All is a short story about two sparks that ends in a sandbox:
double click to create planets, stars and schools of fish, click to move,
and save the world you made.

Available commands:
  list     - Show all scenarios
  play     - Play a scenario directly
  menu     - Interactive scenario and saved world picker
  sim      - Run a world headless and write it as a save file
  inspect  - Describe a save file
  saves    - List, delete, export, import and browse saved worlds
  serve    - Start SSH server for remote play

Examples:
  oneandall play
  oneandall play sandbox --slot mine
  oneandall menu
  oneandall sim --ticks 600 --seed 7 --out galaxy.sav
  oneandall serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to save slot database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "UI theme")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the tuning file named by --config, or the usual search
// path.
func loadConfig() (config.Config, error) {
	return config.Load(flagConfig)
}

// dbPath returns the slot database from --db or the config.
func dbPath(cfg config.Config) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return cfg.Save.Database
}

// newLogger creates a logger at the --log-level level.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "oneandall",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger returns a logger writing to ~/.oneandall/oneandall.log, so a
// running TUI keeps the terminal to itself. The returned func closes the file.
func fileLogger() (*log.Logger, func()) {
	dir := config.DataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "oneandall.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	//nolint:errcheck // Best-effort close on exit
	return newLogger(f), func() { f.Close() }
}

// runtimeConfig sizes the world view to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// theme builds the --theme theme.
func theme() (tui.Theme, error) {
	return tui.NewTheme(flagTheme, nil)
}

// screenshotDir is where ctrl+s writes screenshots.
func screenshotDir() string {
	return filepath.Join(config.DataDir(), "screenshots")
}
