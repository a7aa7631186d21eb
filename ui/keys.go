package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// KeyState is the keyboard as the game cares about it, sampled once per frame.
// Gameplay keys report held state; the game derives edges itself. The
// utility keys report presses.
type KeyState struct {
	Left    bool
	Right   bool
	Shoot   bool
	Pause   bool
	Restart bool
	Start   bool

	Export     bool
	Import     bool
	Fullscreen bool
}

// PollKeys samples the keyboard. Requires an open window.
func PollKeys() KeyState {
	return KeyState{
		Left:    rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA),
		Right:   rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD),
		Shoot:   rl.IsKeyDown(rl.KeySpace),
		Pause:   rl.IsKeyDown(rl.KeyP) || rl.IsKeyDown(rl.KeyEscape),
		Restart: rl.IsKeyDown(rl.KeyR),
		Start:   rl.IsKeyDown(rl.KeySpace) || rl.IsKeyDown(rl.KeyEnter),

		Export:     rl.IsKeyPressed(rl.KeyF5),
		Import:     rl.IsKeyPressed(rl.KeyF9),
		Fullscreen: rl.IsKeyPressed(rl.KeyF11),
	}
}
