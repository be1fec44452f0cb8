package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/one-and-all/internal/platform/tui"
	"github.com/vovakirdan/one-and-all/internal/registry"
	"github.com/vovakirdan/one-and-all/internal/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Manage saved worlds",
	Long: `List, delete, export, import and browse the named save slots in the
save database.

Examples:
  oneandall saves list
  oneandall saves export default ./backup.sav
  oneandall saves import ./galaxy.sav galaxy
  oneandall saves delete galaxy
  oneandall saves browse`,
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved worlds",
	Args:  cobra.NoArgs,
	Run:   runSavesList,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a saved world",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

var savesExportCmd = &cobra.Command{
	Use:   "export <slot> <file>",
	Short: "Write a saved world to a flat save file",
	Args:  cobra.ExactArgs(2),
	Run:   runSavesExport,
}

var savesImportCmd = &cobra.Command{
	Use:   "import <file> <slot>",
	Short: "Store a flat save file as a named slot",
	Args:  cobra.ExactArgs(2),
	Run:   runSavesImport,
}

var savesBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse saved worlds and play one",
	Args:  cobra.NoArgs,
	Run:   runSavesBrowse,
}

func init() {
	savesCmd.AddCommand(savesListCmd, savesDeleteCmd, savesExportCmd, savesImportCmd, savesBrowseCmd)
}

// openStore opens the save database or exits.
func openStore() *storage.SlotStore {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(dbPath(cfg), newLogger(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runSavesList(cmd *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	slots, err := store.List(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing saves: %v\n", err)
		return
	}

	if len(slots) == 0 {
		fmt.Println("No saved worlds yet.")
		fmt.Println()
		fmt.Println("Press S in the sandbox to save one.")
		return
	}

	maxNameLen := 4 // "Slot" header
	for _, s := range slots {
		maxNameLen = max(maxNameLen, len(s.Name))
	}

	fmt.Printf("  %-*s  %-7s  %-5s  %-6s  %-8s  %s\n", maxNameLen, "Slot", "Planets", "Stars", "Fishes", "Bytes", "Updated")
	fmt.Printf("  %-*s  %-7s  %-5s  %-6s  %-8s  %s\n", maxNameLen, "----", "-------", "-----", "------", "-----", "-------")
	for _, s := range slots {
		fmt.Printf("  %-*s  %-7d  %-5d  %-6d  %-8d  %s\n", maxNameLen, s.Name,
			s.Planets, s.Stars, s.Fishes, s.Size, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesDelete(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %s\n", args[0])
}

func runSavesExport(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := exportSlot(cmd.Context(), store, args[0], args[1]); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %s to %s\n", args[0], args[1])
}

func runSavesImport(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := importSlot(cmd.Context(), store, args[0], args[1]); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %s as %s\n", args[0], args[1])
}

// exportSlot copies a slot's bytes to a flat file unchanged.
func exportSlot(ctx context.Context, store *storage.SlotStore, slot, path string) error {
	data, err := store.Get(ctx, slot)
	if err != nil {
		return err
	}
	file, err := storage.NewFileBackend(path)
	if err != nil {
		return err
	}
	return file.Save(ctx, data)
}

// importSlot stores a flat file's bytes under slot. Files that do not
// decode are rejected by the store.
func importSlot(ctx context.Context, store *storage.SlotStore, path, slot string) error {
	file, err := storage.NewFileBackend(path)
	if err != nil {
		return err
	}
	data, err := file.Load(ctx)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, slot, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func runSavesBrowse(_ *cobra.Command, _ []string) {
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

	store, err := storage.Open(dbPath(cfg), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	rc := runtimeConfig()
	result, err := tui.RunSlots(store, rc.ScreenW, rc.ScreenH, th)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	if result.Slot == "" {
		return
	}

	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}
	opts := cfg.Options()
	opts.Logger = logger
	w, err := registry.NewWorld("sandbox", rc, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating world: %v\n", err)
		return
	}

	if err := tui.Run(w, rc, tui.ModelOptions{
		Backend:       store.Slot(result.Slot),
		Theme:         &th,
		Logger:        logger,
		ScreenshotDir: screenshotDir(),
		LoadOnStart:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error running world: %v\n", err)
	}
}
