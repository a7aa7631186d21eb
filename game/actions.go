package game

import "fmt"

// Keys is a snapshot of the logical keys held this tick.
type Keys struct {
	Left    bool
	Right   bool
	Shoot   bool
	Pause   bool
	Restart bool
	Start   bool
}

// Action is a gameplay intent folded into the state by Step.
type Action uint8

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionShoot
)

func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "MOVE_LEFT"
	case ActionMoveRight:
		return "MOVE_RIGHT"
	case ActionShoot:
		return "SHOOT"
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Actions maps held keys to intents in the fixed order MoveLeft, MoveRight,
// Shoot. Holding both directions yields both moves; the fold applies them in
// order, each clamped.
func Actions(k Keys) []Action {
	actions := make([]Action, 0, 3)
	if k.Left {
		actions = append(actions, ActionMoveLeft)
	}
	if k.Right {
		actions = append(actions, ActionMoveRight)
	}
	if k.Shoot {
		actions = append(actions, ActionShoot)
	}
	return actions
}

// Control is a status transition intent. Controls bypass the action fold.
type Control uint8

const (
	ControlStart Control = iota
	ControlPause
	ControlResume
	ControlTogglePause
	ControlRestart
)

func (c Control) String() string {
	switch c {
	case ControlStart:
		return "START"
	case ControlPause:
		return "PAUSE"
	case ControlResume:
		return "RESUME"
	case ControlTogglePause:
		return "TOGGLE_PAUSE"
	case ControlRestart:
		return "RESTART"
	}
	return fmt.Sprintf("Control(%d)", uint8(c))
}

// InputTracker turns held keys into control intents on the press edge, so a
// key held across many frames issues one control.
type InputTracker struct {
	prev Keys
}

// Controls returns the controls triggered by keys given the current status.
// Presses that mean nothing in the current status are ignored.
func (t *InputTracker) Controls(keys Keys, status Status) []Control {
	prev := t.prev
	t.prev = keys

	var out []Control
	switch status {
	case StatusNotStarted:
		if keys.Start && !prev.Start {
			out = append(out, ControlStart)
		}
	case StatusPlaying, StatusPaused:
		if keys.Pause && !prev.Pause {
			out = append(out, ControlTogglePause)
		}
	case StatusGameOver:
		if keys.Restart && !prev.Restart {
			out = append(out, ControlRestart)
		}
	}
	return out
}

// Reset forgets the previous frame, e.g. after the window regains focus.
func (t *InputTracker) Reset() {
	t.prev = Keys{}
}
