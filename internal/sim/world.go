package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/one-and-all/internal/core"
)

// Player and joining halo layout.
const (
	playerSize      = 32
	joiningSize     = 16
	playerSpawnTime = 0.075
	playerSpinRate  = 10 // seconds per radian
	playerFadeTime  = 7
	dblClickLockout = 0.3
)

// Store persists encoded saves. storage.Backend satisfies it.
type Store interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// Options configures a World.
type Options struct {
	Tuning Tuning
	// Logger receives save and load outcomes. Nil discards.
	Logger *log.Logger
	// Setup runs after every reset, letting a scenario skip the story or
	// seed the world.
	Setup func(w *World)
	// SaveVersion is the format EncodeSave writes.
	SaveVersion byte
}

// Notification is a fading message about a save or load.
type Notification struct {
	Text   string
	Timer  float32
	Failed bool
}

// StepResult reports what a tick asks of the platform.
type StepResult struct {
	SaveRequested bool
	LoadRequested bool
}

// Status is a compact view of the world for HUDs and tests.
type Status struct {
	Tick         uint64
	State        StoryState
	Planets      int
	Stars        int
	Fishes       int
	Bursts       int
	Player       core.Vector
	Camera       core.Vector
	Notification string
}

// World owns the live simulation: the player, its halo, every entity list,
// the camera and the story.
type World struct {
	cfg    core.RuntimeConfig
	opts   Options
	env    *Env
	logger *log.Logger

	tick          uint64
	state         StoryState
	stateDirty    bool
	page          page
	selectionMode bool
	createMode    bool
	hovered       int

	player          core.Rectangle
	playerR         float32
	playerParticles ParticleSystem
	joining         RotatingParticleSystem
	moveTo          core.Vector
	camera          core.Vector

	clickReleaseTime float32
	dblClickActive   bool
	dblClickTimer    float32
	clickPending     bool
	clickTimer       float32
	clickPos         core.Vector
	mouseDown        bool

	explConvs []ExplConvParticleSystem
	planets   []Planet
	stars     []Star
	fishes    []Fish

	notification *Notification
}

// NewWorld creates a world at the start of the story and runs the setup hook.
func NewWorld(cfg core.RuntimeConfig, opts Options) *World {
	if opts.Tuning == (Tuning{}) {
		opts.Tuning = DefaultTuning()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &World{
		cfg:    cfg,
		opts:   opts,
		logger: logger,
	}
	w.Reset(cfg)
	return w
}

// Reset returns the world to the first story page with a fresh random
// source from cfg.Seed.
func (w *World) Reset(cfg core.RuntimeConfig) {
	w.cfg = cfg
	w.env = NewEnv(cfg.Seed, w.opts.Tuning)
	w.tick = 0
	w.notification = nil

	center := core.NewVector(core.WorldWidth/2, core.WorldHeight/2)
	w.player = core.NewRectangle(center.X, center.Y, playerSize, playerSize)
	w.playerR = 0
	w.playerParticles = NewParticleSystem(playerSpawnTime, 1, RectShape(w.player),
		core.Vector{}, core.White, 0, 1)
	w.joining = NewRotatingParticleSystem(playerSpawnTime, 1,
		RectShape(core.NewRectangle(center.X, center.Y, joiningSize, joiningSize)),
		core.Vector{}, core.Green, 0, 0, 0.1, w.opts.Tuning.JoiningFarDist, 1)
	w.clickReleaseTime = 0

	w.enterState(StateStart)
}

// Env exposes the world's random source and tuning to scenario setup.
func (w *World) Env() *Env { return w.env }

// Tuning returns the active tuning.
func (w *World) Tuning() Tuning { return w.opts.Tuning }

// State returns the current story state.
func (w *World) State() StoryState { return w.state }

// Camera returns the top-left corner of the view in world coordinates.
func (w *World) Camera() core.Vector { return w.camera }

// Player returns the player's rectangle.
func (w *World) Player() core.Rectangle { return w.player }

// Planets returns the live planet list. Callers must not modify it.
func (w *World) Planets() []Planet { return w.planets }

// Stars returns the live star list. Callers must not modify it.
func (w *World) Stars() []Star { return w.stars }

// Fishes returns the live fish list. Callers must not modify it.
func (w *World) Fishes() []Fish { return w.fishes }

// Bursts returns the number of pending planet bursts.
func (w *World) Bursts() int { return len(w.explConvs) }

// Notification returns the message currently shown, if any.
func (w *World) Notification() *Notification { return w.notification }

// PageText returns the story text visible right now.
func (w *World) PageText() []string { return w.page.Text() }

// PageFinished reports whether the current page has fully appeared.
func (w *World) PageFinished() bool { return w.page.finished() }

// Status returns a compact snapshot of counters.
func (w *World) Status() Status {
	st := Status{
		Tick:    w.tick,
		State:   w.state,
		Planets: len(w.planets),
		Stars:   len(w.stars),
		Fishes:  len(w.fishes),
		Bursts:  len(w.explConvs),
		Player:  w.player.Pos(),
		Camera:  w.camera,
	}
	if w.notification != nil {
		st.Notification = w.notification.Text
	}
	return st
}

// EnterState jumps to story state s, as if reached by playing. Entering
// StateStart resets the world.
func (w *World) EnterState(s StoryState) {
	w.enterState(s)
}

// enterState builds the page for s and updates the interaction mode.
func (w *World) enterState(s StoryState) {
	w.state = s
	w.stateDirty = false
	w.page = pageFor(s)
	w.hovered = -1

	switch s {
	case StateIntro, StateHope, StateMiracles, StateKindness, StateDetermination, StateReflection:
		w.selectionMode = false
	case StateChoice:
		w.selectionMode = true
	case StateFirstCreation:
		w.page.reveal()
		w.selectionMode = false
		w.createMode = true
	case StateRevelation:
		w.selectionMode = false
		w.createMode = false
	case StateSandbox:
		w.selectionMode = false
		w.createMode = true
	default:
		w.state = StateStart
		w.page = pageFor(StateStart)
		w.selectionMode = true
		w.createMode = false
		w.playerParticles.Opacity = 0
		w.joining.System.Opacity = 0
		w.explConvs = nil
		w.planets = nil
		w.stars = nil
		w.fishes = nil
		w.player.X = core.WorldWidth / 2
		w.player.Y = core.WorldHeight / 2
		w.moveTo = core.NewVector(core.WorldWidth/2, core.WorldHeight/2)
		w.camera = core.Vector{}
		w.clickPending = false
		if w.opts.Setup != nil {
			w.opts.Setup(w)
		}
	}
}

func (w *World) setState(s StoryState) {
	w.state = s
	w.stateDirty = true
}

// Step advances the world by one tick of the configured rate.
func (w *World) Step(in core.InputFrame) StepResult {
	return w.Update(w.cfg.Dt(), in)
}

// Update advances the world by dt seconds.
func (w *World) Update(dt float32, in core.InputFrame) StepResult {
	var res StepResult
	t := w.opts.Tuning
	w.tick++

	w.hovered = w.page.buttonAt(in.Mouse.X, in.Mouse.Y)

	if in.Has(core.ActionPress) {
		w.handlePress(in.Mouse)
	}
	if in.Has(core.ActionRelease) {
		if !w.dblClickActive {
			w.clickReleaseTime = 0
		}
	}
	w.mouseDown = in.MouseDown

	switch {
	case in.Has(core.ActionSave):
		if w.state == StateSandbox {
			res.SaveRequested = true
		}
	case in.Has(core.ActionLoad):
		res.LoadRequested = true
	case in.Has(core.ActionReset) && w.state == StateSandbox:
		w.setState(StateStart)
	}

	w.clickReleaseTime += dt
	if w.clickPending {
		w.clickTimer += dt
		if w.clickTimer > t.DoubleClickTime {
			w.moveTo = w.clickPos
		}
	}
	if w.dblClickActive {
		w.dblClickTimer += dt
		if w.dblClickTimer > dblClickLockout {
			w.dblClickActive = false
		}
	}

	w.player.X += (w.moveTo.X - w.player.X) / t.PlayerEase
	w.player.Y += (w.moveTo.Y - w.player.Y) / t.PlayerEase
	host := w.joining.System.Host.Pos()
	w.joining.System.Host = w.joining.System.Host.At(core.NewVector(
		host.X+(w.player.X-host.X)/t.JoiningEase,
		host.Y+(w.player.Y-host.Y)/t.JoiningEase,
	))
	w.camera.X += (w.player.X - core.WorldWidth/2 - w.camera.X) / t.CameraEase
	w.camera.Y += (w.player.Y - core.WorldHeight/2 - w.camera.Y) / t.CameraEase

	w.playerR += dt / playerSpinRate

	if w.stateDirty {
		w.enterState(w.state)
	}

	if w.joining.System.Opacity < 1 && w.state > StateChoice {
		op := min(w.joining.System.Opacity+t.JoiningOpacityRate*dt, 1)
		w.joining.System.Opacity = op
		w.joining.Offset = (1-op)*t.JoiningFarDist + op*t.JoiningNearDist
	}
	if w.playerParticles.Opacity < 1 && w.state > StateIntro {
		w.playerParticles.Opacity = min(w.playerParticles.Opacity+dt/playerFadeTime, 1)
	}

	w.page.update(dt, t.TextRate)

	w.playerParticles.Host = RectShape(w.player)
	w.playerParticles.Update(dt, w.env)
	w.joining.Update(dt, w.env)

	for i := len(w.explConvs) - 1; i >= 0; i-- {
		var done bool
		w.planets, done = w.explConvs[i].Update(dt, w.env, w.planets)
		if done {
			last := len(w.explConvs) - 1
			w.explConvs[i] = w.explConvs[last]
			w.explConvs = w.explConvs[:last]
		}
	}
	for i := range w.planets {
		w.planets[i].Update(dt, w.env)
	}
	for i := range w.stars {
		w.stars[i].Update(dt, w.env)
	}

	if n := w.notification; n != nil {
		n.Timer -= dt
		if n.Timer <= 0 {
			w.notification = nil
		}
	}

	for i := range w.fishes {
		w.fishes[i].Update(dt, w.env)
	}

	return res
}

// handlePress reacts to the mouse button going down at view position mouse.
func (w *World) handlePress(mouse core.Vector) {
	if !w.page.finished() {
		w.page.reveal()
		return
	}

	switch {
	case w.createMode:
		pos := mouse.Add(w.camera)
		if w.clickReleaseTime < w.opts.Tuning.DoubleClickTime {
			w.clickReleaseTime = w.opts.Tuning.DoubleClickTime
			w.dblClickActive = true
			w.dblClickTimer = 0
			w.clickPending = false
			switch w.state {
			case StateFirstCreation:
				w.AddBurst(NewFirstBurst(pos), 30, 200)
				w.setState(StateRevelation)
			case StateSandbox:
				w.Create(pos)
			}
		} else if w.state == StateSandbox {
			w.clickPending = true
			w.clickTimer = 0
			w.clickPos = pos
		}
	case w.selectionMode:
		idx := w.page.buttonAt(mouse.X, mouse.Y)
		if idx < 0 {
			return
		}
		switch w.state {
		case StateStart:
			w.setState(StateIntro)
		case StateChoice:
			item := w.page.items[idx]
			w.joining.System.Color = item.tint
			w.setState(item.next)
		default:
			w.setState(StateStart)
		}
	default:
		switch w.state {
		case StateStart, StateIntro:
			w.setState(w.state + 1)
		case StateHope, StateMiracles, StateKindness, StateDetermination:
			w.setState(StateReflection)
		case StateReflection:
			w.setState(StateFirstCreation)
		case StateRevelation:
			w.setState(StateSandbox)
		default:
			w.setState(StateStart)
		}
	}
}

// NewFirstBurst returns the burst that forms the very first planet.
func NewFirstBurst(pos core.Vector) ExplConvParticleSystem {
	return NewExplConvParticleSystem(1.5, core.NewCircle(pos.X, pos.Y, 20), core.Hex(0x99FF99), 1)
}

// AddBurst activates b with count motes and adds it to the world.
func (w *World) AddBurst(b ExplConvParticleSystem, count int, offset float32) {
	b.Activate(count, offset, w.env)
	w.explConvs = append(w.explConvs, b)
}

// AddStar adds a star to the world.
func (w *World) AddStar(s Star) { w.stars = append(w.stars, s) }

// AddFish adds a fish to the world.
func (w *World) AddFish(f Fish) { w.fishes = append(w.fishes, f) }

// AddPlanet adds a finished planet to the world.
func (w *World) AddPlanet(p Planet) { w.planets = append(w.planets, p) }

// Create makes a random thing at world position pos: usually a planet
// burst, sometimes a star, otherwise a small school of fish.
func (w *World) Create(pos core.Vector) {
	env := w.env
	roll := env.Uniform(0, 1)
	switch {
	case roll < w.opts.Tuning.PlanetOdds:
		burst := NewExplConvParticleSystem(env.Uniform(1.2, 1.6),
			core.NewCircle(pos.X, pos.Y, env.Uniform(15, 25)),
			core.RGBA(env.ByteRange(0x44, 0xFF), env.ByteRange(0x44, 0xFF), env.ByteRange(0x44, 0xFF), 255), 1)
		w.AddBurst(burst, env.IntRange(13, 40), env.Uniform(150, 300))
	case roll < w.opts.Tuning.PlanetOdds+w.opts.Tuning.StarOdds:
		clockwise := env.Chance(0.5)
		circle := core.NewCircle(pos.X, pos.Y, env.Uniform(3, 7))
		color := core.RGBA(env.ByteRange(0x58, 0xFF), env.ByteRange(0x58, 0xFF), env.ByteRange(0x58, 0xFF), 255)
		var velr float32
		if clockwise {
			velr = env.Uniform(0.1, 0.3)
		} else {
			velr = env.Uniform(-0.3, -0.1)
		}
		w.AddStar(NewStar(circle, color, velr, env.Uniform(0, 90), env))
	default:
		for i := env.IntRange(1, 4); i > 0; i-- {
			color := core.RGBA(env.ByteRange(0x44, 0xFF), env.ByteRange(0x44, 0xFF), env.ByteRange(0x44, 0xFF), 255)
			w.AddFish(NewFish(pos, env.Uniform(0, 360), color, env))
		}
	}
}

// Snapshot copies the persistent state into a SaveData.
func (w *World) Snapshot() SaveData {
	s := SaveData{
		Player:  w.player,
		Joining: w.joining.Clone(),
	}
	for _, p := range w.planets {
		s.Planets = append(s.Planets, p.Clone())
	}
	for _, st := range w.stars {
		s.Stars = append(s.Stars, st.Clone())
	}
	s.Fishes = append(s.Fishes, w.fishes...)
	return s
}

// Load replaces the entity lists, player and halo with s and enters the
// sandbox. The world keeps s's slices.
func (w *World) Load(s SaveData) {
	w.planets = s.Planets
	w.stars = s.Stars
	w.fishes = s.Fishes
	w.player = s.Player
	w.joining = s.Joining
	w.explConvs = nil
	w.moveTo = w.player.Pos()
	w.camera = core.NewVector(w.player.X-core.WorldWidth/2, w.player.Y-core.WorldHeight/2)
	w.dblClickActive = false
	w.clickPending = false
	w.clickReleaseTime = w.opts.Tuning.DoubleClickTime
	w.enterState(StateSandbox)
	w.notify("Loaded the game", false)
}

// EncodeSave serializes the world in the configured save version.
func (w *World) EncodeSave() ([]byte, error) {
	return EncodeSave(w.Snapshot(), w.opts.SaveVersion)
}

// SaveFinished records the outcome of writing a save.
func (w *World) SaveFinished(err error) {
	if err != nil {
		w.logger.Warn("save failed", "err", err)
		w.notify(fmt.Sprintf("Failed to save: %v", err), true)
		return
	}
	w.logger.Info("saved", "planets", len(w.planets), "stars", len(w.stars), "fishes", len(w.fishes))
	w.notify("Saved the game", false)
}

// LoadBytes decodes a save read by the platform and loads it. On any error
// the world is left as it was and a failure notification is shown.
func (w *World) LoadBytes(data []byte, readErr error) error {
	if readErr != nil {
		w.logger.Warn("load failed", "err", readErr)
		w.notify(fmt.Sprintf("Failed to load: %v", readErr), true)
		return readErr
	}
	s, version, err := DecodeSave(data)
	if err != nil {
		w.logger.Warn("load failed", "err", err)
		w.notify(fmt.Sprintf("Failed to load: %v", err), true)
		return err
	}
	w.Load(s)
	w.logger.Info("loaded", "version", version, "planets", len(s.Planets), "stars", len(s.Stars), "fishes", len(s.Fishes))
	return nil
}

// SaveTo encodes the world and writes it to store.
func (w *World) SaveTo(ctx context.Context, store Store) error {
	data, err := w.EncodeSave()
	if err == nil {
		err = store.Save(ctx, data)
	}
	w.SaveFinished(err)
	return err
}

// LoadFrom reads a save from store and loads it.
func (w *World) LoadFrom(ctx context.Context, store Store) error {
	data, err := store.Load(ctx)
	return w.LoadBytes(data, err)
}

func (w *World) notify(text string, failed bool) {
	w.notification = &Notification{Text: text, Timer: w.opts.Tuning.NotificationTime, Failed: failed}
}

// Draw renders the whole world. Story text and the notification stay fixed
// to the view.
func (w *World) Draw(cv Canvas) {
	for i := range w.page.items {
		it := &w.page.items[i]
		pos := it.rect.Pos().Add(w.camera)
		switch it.kind {
		case itemButton:
			fill := it.fill
			if i == w.hovered {
				fill = it.hover
			}
			cv.FillRect(it.rect.At(pos), fill, 0, pos)
			cv.DrawText(pos.X+8, pos.Y+8, it.visible(), it.color)
		case itemText, itemInstant:
			if s := it.visible(); s != "" {
				cv.DrawText(pos.X, pos.Y, s, it.color)
			}
		}
	}

	w.playerParticles.Draw(cv)
	cv.FillRect(w.player, core.White.WithAlpha(alphaByte(w.playerParticles.Opacity)), w.playerR, w.player.Center())
	w.joining.Draw(cv)
	for i := range w.explConvs {
		w.explConvs[i].Draw(cv)
	}
	for i := range w.planets {
		w.planets[i].Draw(cv)
	}
	for i := range w.stars {
		w.stars[i].Draw(cv)
	}
	for i := range w.fishes {
		w.fishes[i].Draw(cv)
	}

	if n := w.notification; n != nil && w.opts.Tuning.NotificationTime > 0 {
		c := core.White
		if n.Failed {
			c = core.RGBA(255, 120, 120, 255)
		}
		fade := alphaByte(n.Timer / w.opts.Tuning.NotificationTime)
		cv.DrawText(w.camera.X+20, w.camera.Y+20, n.Text, c.WithAlpha(fade))
	}
}
