package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/sim"
)

func openTestStore(t *testing.T) *SlotStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func encodedSave(t *testing.T, planets, stars int) []byte {
	t.Helper()
	env := sim.NewEnv(1, sim.DefaultTuning())
	var s sim.SaveData
	for i := 0; i < planets; i++ {
		s.Planets = append(s.Planets, sim.NewPlanet(core.NewCircle(float32(i*40), 0, 20), core.White, env))
	}
	for i := 0; i < stars; i++ {
		s.Stars = append(s.Stars, sim.NewStar(core.NewCircle(0, float32(i*40), 5), core.White, 0.1, 0, env))
	}
	data, err := sim.EncodeSave(s, sim.LatestVersion)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSlotPutGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	data := encodedSave(t, 2, 1)
	if err := store.Put(ctx, "alpha", data); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, err := store.Get(ctx, "alpha")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Get() returned different bytes")
	}

	// Overwrite
	data2 := encodedSave(t, 0, 3)
	if err := store.Put(ctx, "alpha", data2); err != nil {
		t.Fatalf("Put() overwrite failed: %v", err)
	}
	got, _ = store.Get(ctx, "alpha")
	if !bytes.Equal(got, data2) {
		t.Error("overwrite did not replace data")
	}
}

func TestSlotPutRejectsGarbage(t *testing.T) {
	store := openTestStore(t)
	err := store.Put(context.Background(), "bad", []byte("not a save"))
	if !errors.Is(err, sim.ErrBadMagic) {
		t.Errorf("Put() err = %v, expected ErrBadMagic", err)
	}
	if err := store.Put(context.Background(), "", encodedSave(t, 0, 0)); err == nil {
		t.Error("Put() with empty name expected error")
	}
}

func TestSlotList(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, tt := range []struct {
		name           string
		planets, stars int
	}{
		{"zeta", 1, 0},
		{"alpha", 2, 3},
	} {
		if err := store.Put(ctx, tt.name, encodedSave(t, tt.planets, tt.stars)); err != nil {
			t.Fatal(err)
		}
	}

	slots, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("Expected 2 slots, got %d", len(slots))
	}
	if slots[0].Name != "alpha" || slots[1].Name != "zeta" {
		t.Errorf("order = %s, %s; expected alpha, zeta", slots[0].Name, slots[1].Name)
	}
	if slots[0].Planets != 2 || slots[0].Stars != 3 || slots[0].Fishes != 0 {
		t.Errorf("alpha counts = %+v", slots[0])
	}
	if slots[0].Size == 0 {
		t.Error("Size = 0, expected data length")
	}
	if slots[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt not parsed")
	}
}

func TestSlotDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.Put(ctx, "alpha", encodedSave(t, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "alpha"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get(ctx, "alpha"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("Get() after delete err = %v, expected ErrSlotNotFound", err)
	}
	if err := store.Delete(ctx, "alpha"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("second Delete() err = %v, expected ErrSlotNotFound", err)
	}
}

func TestSlotBackend(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	slot := store.Slot("player1")

	if _, err := slot.Load(ctx); !errors.Is(err, ErrNoSave) || !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("Load() of empty slot err = %v, expected ErrNoSave and ErrSlotNotFound", err)
	}

	data := encodedSave(t, 1, 0)
	if err := slot.Save(ctx, data); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	got, err := slot.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Load() returned different bytes")
	}
	if slot.Name() != "slot player1" {
		t.Errorf("Name() = %q", slot.Name())
	}
}

func TestWorldThroughSlot(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	slot := store.Slot("world")

	cfg := core.DefaultConfig()
	cfg.Seed = 9
	opts := sim.Options{SaveVersion: sim.VersionTagged, Setup: func(w *sim.World) { w.EnterState(sim.StateSandbox) }}
	w := sim.NewWorld(cfg, opts)
	w.AddStar(sim.NewStar(core.NewCircle(10, 10, 5), core.White, 0.1, 0, w.Env()))
	if err := w.SaveTo(ctx, slot); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	w2 := sim.NewWorld(cfg, sim.Options{})
	if err := w2.LoadFrom(ctx, slot); err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if len(w2.Stars()) != 1 {
		t.Errorf("Stars() = %d, expected 1", len(w2.Stars()))
	}
}
