// Package storage persists saves: a flat binary file, or named slots in a
// SQLite database. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/one-and-all/internal/sim"
)

// ErrSlotNotFound is returned when a named slot does not exist.
var ErrSlotNotFound = errors.New("save slot not found")

// SlotStore manages the SQLite database of named save slots.
type SlotStore struct {
	db     *sql.DB
	logger *log.Logger
}

// SlotInfo describes a stored slot without its data.
type SlotInfo struct {
	Name      string
	Planets   int
	Stars     int
	Fishes    int
	Size      int
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// A nil logger discards.
func Open(dbPath string, logger *log.Logger) (*SlotStore, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SlotStore{db: db, logger: logger}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	logger.Debug("opened save database", "path", dbPath)

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SlotStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS save_slots (
			name TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			planets INTEGER NOT NULL DEFAULT 0,
			stars INTEGER NOT NULL DEFAULT 0,
			fishes INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	if err == nil {
		s.logger.Debug("migrated", "table", "save_slots")
	}
	return err
}

// Close closes the database connection.
func (s *SlotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores data under name, replacing any existing slot. The data must
// decode as a save; its entity counts are stored alongside for listing.
func (s *SlotStore) Put(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return errors.New("storage: slot name is empty")
	}
	save, _, err := sim.DecodeSave(data)
	if err != nil {
		return fmt.Errorf("storage: slot %q: %w", name, err)
	}
	sum := save.Summarize()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO save_slots (name, data, planets, stars, fishes, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   data = excluded.data,
		   planets = excluded.planets,
		   stars = excluded.stars,
		   fishes = excluded.fishes,
		   updated_at = CURRENT_TIMESTAMP`,
		name, data, sum.Planets, sum.Stars, sum.Fishes,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save slot %q: %w", name, err)
	}
	return nil
}

// Get returns the data stored under name.
func (s *SlotStore) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM save_slots WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: slot %q: %w", name, ErrSlotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query slot %q: %w", name, err)
	}
	return data, nil
}

// List returns every slot ordered by name.
func (s *SlotStore) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, planets, stars, fishes, length(data), updated_at
		 FROM save_slots
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query slots: %w", err)
	}
	defer rows.Close()

	var slots []SlotInfo
	for rows.Next() {
		var info SlotInfo
		var updatedAt any
		if err := rows.Scan(&info.Name, &info.Planets, &info.Stars, &info.Fishes, &info.Size, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.UpdatedAt = parseTime(updatedAt)
		slots = append(slots, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return slots, nil
}

// Delete removes a slot.
func (s *SlotStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM save_slots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete slot %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("storage: slot %q: %w", name, ErrSlotNotFound)
	}
	return nil
}

// Slot adapts one named slot to a Backend.
func (s *SlotStore) Slot(name string) Backend {
	return &slotBackend{store: s, name: name}
}

type slotBackend struct {
	store *SlotStore
	name  string
}

func (b *slotBackend) Name() string { return "slot " + b.name }

func (b *slotBackend) Save(ctx context.Context, data []byte) error {
	err := b.store.Put(ctx, b.name, data)
	if err == nil {
		b.store.logger.Debug("slot saved", "slot", b.name, "bytes", len(data))
	}
	return err
}

func (b *slotBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := b.store.Get(ctx, b.name)
	if errors.Is(err, ErrSlotNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrNoSave, err)
	}
	return data, err
}

// parseTime handles DATETIME columns returned as either time.Time or string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ Backend   = (*FileBackend)(nil)
	_ Backend   = (*slotBackend)(nil)
	_ sim.Store = Backend(nil)
)
