package tui

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/one-and-all/internal/sim"
	"github.com/vovakirdan/one-and-all/internal/storage"
)

func newTestServer(t *testing.T) *SSHServer {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "saves.db"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &SSHServer{
		config: DefaultSSHServerConfig(),
		store:  store,
		logger: log.New(io.Discard),
	}
}

func TestUserSlotsIsolation(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	w := sandboxWorld()
	data, err := w.EncodeSave()
	if err != nil {
		t.Fatalf("EncodeSave() error = %v", err)
	}

	alice := srv.SessionConfig("alice", 80, 24, lipgloss.NewRenderer(io.Discard))
	bob := srv.SessionConfig("bob", 80, 24, lipgloss.NewRenderer(io.Discard))

	if err := alice.Open("default").Save(ctx, data); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	mine, err := alice.Catalog.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "default" {
		t.Errorf("alice List() = %v, expected one slot named default", mine)
	}

	theirs, err := bob.Catalog.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("bob List() = %v, expected none", theirs)
	}
	if _, err := bob.Open("default").Load(ctx); err == nil {
		t.Error("bob loaded alice's save")
	}

	all, err := srv.store.List(ctx)
	if err != nil {
		t.Fatalf("store List() error = %v", err)
	}
	if len(all) != 1 || all[0].Name != "alice/default" {
		t.Errorf("store List() = %v, expected alice/default", all)
	}

	if err := bob.Catalog.Delete(ctx, "default"); err == nil {
		t.Error("bob deleted alice's save")
	}
	if err := alice.Catalog.Delete(ctx, "default"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestSessionConfigDefaults(t *testing.T) {
	srv := newTestServer(t)
	srv.config.Theme = "no-such-theme"

	cfg := srv.SessionConfig("carol", 100, 30, nil)
	if cfg.Runtime.ScreenW != 100 || cfg.Runtime.ScreenH != 30 {
		t.Errorf("Runtime = %dx%d, expected 100x30", cfg.Runtime.ScreenW, cfg.Runtime.ScreenH)
	}
	if cfg.Runtime.TickRate != 60 {
		t.Errorf("TickRate = %d, expected 60", cfg.Runtime.TickRate)
	}
	if cfg.Theme == nil {
		t.Error("unknown theme should fall back to default")
	}
	if cfg.World.SaveVersion != sim.LatestVersion {
		t.Errorf("SaveVersion = %d, expected %d", cfg.World.SaveVersion, sim.LatestVersion)
	}
	if cfg.DefaultSlot != "default" {
		t.Errorf("DefaultSlot = %q, expected default", cfg.DefaultSlot)
	}
}

func TestSessionConfigWithoutStore(t *testing.T) {
	srv := &SSHServer{config: DefaultSSHServerConfig(), logger: log.New(io.Discard)}
	cfg := srv.SessionConfig("dave", 80, 24, nil)
	if cfg.Catalog != nil || cfg.Open != nil {
		t.Error("without a store sessions should have no slots")
	}
}
