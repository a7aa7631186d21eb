package game

import (
	"log/slog"
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/invaders/camera"
	"github.com/pthm-cable/invaders/config"
	"github.com/pthm-cable/invaders/renderer"
	"github.com/pthm-cable/invaders/systems"
	"github.com/pthm-cable/invaders/telemetry"
	"github.com/pthm-cable/invaders/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	Headless       bool
	Autopilot      bool // Drive the player with the scripted autopilot
	AutoRestart    bool // With Autopilot, start a new game after each game over
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string  // Bookmark snapshots, empty = disabled
	OutputDir      string  // CSV logs and config copy, empty = disabled
	HighScoresPath string  // empty = use config, "-" = in-memory only

	// Config overrides the global config when set.
	Config *config.Config

	StatsCallback func(telemetry.WindowStats)
	RunCallback   func(telemetry.RunStats)
}

// Game is the driver around a Session: it feeds input, keeps time, routes
// events to telemetry and, unless headless, draws.
type Game struct {
	cfg       *config.Config
	session   *Session
	autopilot *Autopilot
	rngSeed   int64
	headless  bool

	// Latest state returned by the session, read by drawing and the autopilot
	state State

	// Driver frames since start, including frames where the game is not playing
	tick int64
	// Game clock in seconds, drives the shoot cooldown
	clock float64

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	runTracker       *telemetry.RunTracker
	outputManager    *telemetry.OutputManager
	highScores       *telemetry.HighScores
	highScoresPath   string
	statsCallback    func(telemetry.WindowStats)
	runCallback      func(telemetry.RunStats)
	logStats         bool
	snapshotDir      string

	lastStats    telemetry.WindowStats
	haveStats    bool
	lastGameOver GameOver
	lastRank     int
	runsFinished int

	// Graphics (nil when headless)
	renderer       *renderer.Renderer
	camera         *camera.Camera
	hud            *ui.HUD
	screens        *ui.Screens
	overlays       *ui.OverlayRegistry
	controlsPanel  *ui.ControlsPanel
	perfPanel      *ui.PerfPanel
	telemetryPanel *ui.TelemetryPanel
	sceneGen       uint64
	message        string
	messageTTL     float32
}

// NewGameWithOptions creates a game. In graphical mode the raylib window
// must already be open.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:              cfg,
		rngSeed:          opts.Seed,
		headless:         opts.Headless,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.SecondsPerTk),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow, cfg.Physics.TicksPerSecond),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks, cfg.Arena.Height),
		runTracker:       telemetry.NewRunTracker(cfg.Derived.SecondsPerTk),
		statsCallback:    opts.StatsCallback,
		runCallback:      opts.RunCallback,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		lastRank:         -1,
	}

	g.session = NewSession(NewSim(cfg, rng), telemetrySink{g})
	g.state = g.session.State()

	if opts.Autopilot {
		g.autopilot = NewAutopilot(cfg, opts.AutoRestart)
	}

	g.setupOutput(opts)
	g.setupHighScores(opts)

	if !opts.Headless {
		g.setupGraphics(rng)
	}

	return g
}

// setupOutput opens the CSV output directory, if any.
func (g *Game) setupOutput(opts Options) {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		return
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}
}

// setupHighScores loads the persisted high score table.
func (g *Game) setupHighScores(opts Options) {
	hsCfg := g.cfg.HighScores
	if !hsCfg.Enabled {
		return
	}

	path := opts.HighScoresPath
	if path == "" {
		path = hsCfg.Path
	}
	if path == "-" {
		g.highScores = telemetry.NewHighScores(hsCfg.Size)
		return
	}

	hs, err := telemetry.LoadHighScores(path, hsCfg.Size)
	if err != nil {
		slog.Warn("high scores unreadable, starting empty", "path", path, "error", err)
		hs = telemetry.NewHighScores(hsCfg.Size)
	}
	g.highScores = hs
	g.highScoresPath = path
}

func (g *Game) setupGraphics(rng *rand.Rand) {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	arenaW, arenaH := float32(g.cfg.Arena.Width), float32(g.cfg.Arena.Height)

	g.camera = camera.New(w, h, arenaW, arenaH)
	g.renderer = renderer.NewRenderer(renderer.NewStarfield(starCount, arenaW, arenaH, rng))
	g.hud = ui.NewHUD()
	g.screens = ui.NewScreens()
	g.overlays = ui.NewOverlayRegistry()
	g.controlsPanel = ui.NewControlsPanel(10, 80, 240)
	g.perfPanel = ui.NewPerfPanel(int32(w)-230, 70)
	g.telemetryPanel = ui.NewTelemetryPanel(int32(w)-230, 70)
	g.sceneGen = g.session.Generation()
}

const (
	// starCount is the number of background stars.
	starCount = 120

	controlsHint = "[A/D] Move  [Space] Shoot  [P] Pause  [R] Restart  [H] Help"
)

// UpdateHeadless runs one tick without graphics, driven by the autopilot if
// there is one.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	var keys Keys
	if g.autopilot != nil {
		keys = g.autopilot.Keys(g.state)
	}

	g.step(1, g.cfg.Derived.SecondsPerTk, keys)

	g.perfCollector.EndTick()
}

// Update runs one frame: input, one simulation step sized to the frame time,
// telemetry and scene sync.
func (g *Game) Update() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	keys := g.handleInput()

	dt := rl.GetFrameTime()
	g.step(float64(dt)*float64(g.cfg.Physics.TicksPerSecond), float64(dt), keys)

	g.perfCollector.StartPhase(telemetry.PhaseScene)
	g.syncScene(dt)

	g.perfCollector.EndTick()
	g.perfCollector.RecordFrame()
}

// step advances the session by delta frames lasting seconds of game time.
func (g *Game) step(delta, seconds float64, keys Keys) {
	g.perfCollector.StartPhase(telemetry.PhaseSim)
	g.clock += seconds
	g.state = g.session.Tick(delta, keys, g.clock)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if g.state.Status == StatusPlaying {
		g.collector.SampleDepth(systems.FormationDepth(g.state.Enemies))
	}
	g.flushTelemetry()
}

// apply runs a control intent from a UI button.
func (g *Game) apply(c Control) {
	g.session.Apply(c)
	g.state = g.session.State()
}

// Import replaces the current game with an exported snapshot and starts a
// new run record for it. On error the current game is kept.
func (g *Game) Import(blob string) error {
	if err := g.session.Import(blob); err != nil {
		return err
	}
	g.state = g.session.State()
	// The cooldown compares against the game clock, so it must not run backwards
	g.clock = math.Max(g.clock, g.state.LastShootTime)
	g.startRun()
	return nil
}

// syncScene mirrors the latest state into the renderer's scene.
func (g *Game) syncScene(dt float32) {
	if gen := g.session.Generation(); gen != g.sceneGen {
		g.renderer.Scene.Rebuild()
		g.sceneGen = gen
	}

	// Handles only age while the game runs, so paused sprites hold still
	animDT := dt
	if g.state.Status != StatusPlaying {
		animDT = 0
	}
	g.renderer.Scene.Sync(g.state.Player, g.state.Enemies, g.state.Bullets, animDT)
	g.renderer.Update(dt)
	g.camera.Update(dt)

	if g.messageTTL > 0 {
		g.messageTTL -= dt
		if g.messageTTL <= 0 {
			g.message = ""
		}
	}
}

// Draw renders the frame.
func (g *Game) Draw() {
	if g.headless {
		return
	}

	rl.BeginDrawing()

	g.renderer.Draw(g.camera)
	if g.overlays.IsEnabled(ui.OverlayHitboxes) {
		g.renderer.DrawHitboxes(g.camera)
	}

	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	g.hud.Draw(ui.HUDData{
		Score:        g.state.Score,
		HighScore:    g.bestScore(),
		Level:        g.state.Level,
		Lives:        g.state.Player.Lives,
		Tick:         g.state.Tick,
		FPS:          rl.GetFPS(),
		Autopilot:    g.autopilot != nil,
		Message:      g.message,
		ScreenWidth:  w,
		ScreenHeight: h,
	})
	g.hud.DrawControls(h, controlsHint)

	switch g.state.Status {
	case StatusNotStarted:
		if g.screens.DrawStart(w, h, g.bestScore()) {
			g.apply(ControlStart)
		}
	case StatusPaused:
		if g.screens.DrawPaused(w, h) {
			g.apply(ControlResume)
		}
	case StatusGameOver:
		if g.screens.DrawGameOver(w, h, ui.GameOverData{
			Score:     g.state.Score,
			Level:     g.state.Level,
			HighScore: g.bestScore(),
			Rank:      g.lastRank,
			Reason:    gameOverText(g.lastGameOver.Reason),
		}) {
			g.apply(ControlRestart)
		}
	}

	g.drawPanels(w)

	rl.EndDrawing()
}

func (g *Game) drawPanels(w int32) {
	if g.overlays.IsEnabled(ui.OverlayHelp) {
		g.controlsPanel.Draw(g.overlays)
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(w-230, 70)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayTelemetry) {
		g.telemetryPanel.SetPosition(w-230, 70)
		g.telemetryPanel.Draw(g.lastStats, g.haveStats)
	}
}

func gameOverText(r GameOverReason) string {
	switch r {
	case ReasonInvaded:
		return "The invaders landed"
	case ReasonNoLives:
		return "Out of lives"
	}
	return ""
}

// bestScore returns the top high score, or 0 without a table.
func (g *Game) bestScore() int {
	if g.highScores == nil {
		return 0
	}
	return g.highScores.Best()
}

// notify shows a transient message in the HUD.
func (g *Game) notify(msg string) {
	g.message = msg
	g.messageTTL = 2
}

// Unload releases resources and flushes output files.
func (g *Game) Unload() {
	if g.highScores != nil && g.highScoresPath != "" {
		if err := g.highScores.Save(g.highScoresPath); err != nil {
			slog.Error("failed to save high scores", "error", err)
		}
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}

// Tick returns the number of driver frames run so far.
func (g *Game) Tick() int64 {
	return g.tick
}

// State returns the latest game state.
func (g *Game) State() State {
	return g.state.Clone()
}

// Over reports whether the current game has ended.
func (g *Game) Over() bool {
	return g.state.Status == StatusGameOver
}

// RunsFinished returns how many games have ended so far.
func (g *Game) RunsFinished() int {
	return g.runsFinished
}

// HighScores returns the high score table, or nil when disabled.
func (g *Game) HighScores() *telemetry.HighScores {
	return g.highScores
}
