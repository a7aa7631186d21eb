package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/invaders/ui"
)

// handleInput processes keyboard input and returns the gameplay keys for
// this frame.
func (g *Game) handleInput() Keys {
	// Window resize propagation
	g.handleResize()

	ks := ui.PollKeys()

	if ks.Fullscreen {
		rl.ToggleFullscreen()
	}
	g.overlays.HandleKeys()

	if ks.Export {
		g.exportToClipboard()
	}
	if ks.Import {
		g.importFromClipboard()
	}

	keys := Keys{
		Left:    ks.Left,
		Right:   ks.Right,
		Shoot:   ks.Shoot,
		Pause:   ks.Pause,
		Restart: ks.Restart,
		Start:   ks.Start,
	}
	if g.autopilot != nil {
		// The autopilot plays, but the user can still pause
		auto := g.autopilot.Keys(g.state)
		auto.Pause = ks.Pause
		keys = auto
	}
	return keys
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.camera.ViewportW && h == g.camera.ViewportH {
		return
	}
	g.camera.Resize(w, h)
}

// exportToClipboard copies the current game as a snapshot string.
func (g *Game) exportToClipboard() {
	blob, err := g.session.Export()
	if err != nil {
		slog.Error("snapshot export failed", "error", err)
		g.notify("Export failed")
		return
	}
	rl.SetClipboardText(blob)
	g.notify("Game copied to clipboard")
}

// importFromClipboard replaces the current game with a snapshot string from
// the clipboard. A bad snapshot leaves the game untouched.
func (g *Game) importFromClipboard() {
	if err := g.Import(rl.GetClipboardText()); err != nil {
		g.notify("Import failed")
		return
	}
	g.notify("Game loaded from clipboard")
}
