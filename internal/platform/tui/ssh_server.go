package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/sim"
	"github.com/vovakirdan/one-and-all/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.oneandall/host_key.
	HostKeyPath string

	// DBPath is the path to the save slot database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate for every session.
	TickRate int

	// World configures every world started on the server.
	World sim.Options

	// Slot is the slot name each user saves to from the menu.
	Slot string

	// Theme names the UI theme for every session.
	Theme string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DBPath:      "~/.oneandall/saves.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		World:       sim.Options{Tuning: sim.DefaultTuning(), SaveVersion: sim.LatestVersion},
		Slot:        "default",
		Theme:       "default",
	}
}

// SSHServer wraps a Wish SSH server that runs one session per connection.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.SlotStore
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration. A nil
// logger writes to stderr.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "oneandall-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Warn("could not open save database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".oneandall", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// SessionConfig builds the session configuration for user on a terminal of
// the given size. Each user only sees and writes their own slots.
func (s *SSHServer) SessionConfig(user string, width, height int, renderer *lipgloss.Renderer) SessionConfig {
	logger := s.logger.With("user", user)
	theme, err := NewTheme(s.config.Theme, renderer)
	if err != nil {
		logger.Warn("theme", "err", err)
		theme, _ = NewTheme("default", renderer)
	}
	cfg := SessionConfig{
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: s.config.TickRate,
		},
		World:       s.config.World,
		DefaultSlot: s.config.Slot,
		Painter:     NewPainter(renderer),
		Theme:       &theme,
		Logger:      logger,
	}
	if s.store != nil {
		slots := userSlots{store: s.store, prefix: user + "/"}
		cfg.Catalog = slots
		cfg.Open = slots.Open
	}
	return cfg
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	renderer := bubbletea.MakeRenderer(sshSession)
	cfg := s.SessionConfig(sshSession.User(), pty.Window.Width, pty.Window.Height, renderer)

	return NewSessionModel(cfg), []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// userSlots is the part of a slot store belonging to one user. Slot names
// are stored with the prefix and shown without it.
type userSlots struct {
	store  *storage.SlotStore
	prefix string
}

func (u userSlots) List(ctx context.Context) ([]storage.SlotInfo, error) {
	all, err := u.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var mine []storage.SlotInfo
	for _, info := range all {
		if name, ok := strings.CutPrefix(info.Name, u.prefix); ok {
			info.Name = name
			mine = append(mine, info)
		}
	}
	return mine, nil
}

func (u userSlots) Delete(ctx context.Context, name string) error {
	return u.store.Delete(ctx, u.prefix+name)
}

// Open returns the backend for the user's slot name.
func (u userSlots) Open(name string) storage.Backend {
	return u.store.Slot(u.prefix + name)
}
