package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Screens draws the full-screen overlays for the non-playing statuses.
type Screens struct {
	renderer *Renderer
}

// NewScreens creates the status screens.
func NewScreens() *Screens {
	return &Screens{renderer: NewRenderer()}
}

// button size
const (
	buttonW = 200
	buttonH = 40
)

func (s *Screens) dim(w, h int32) {
	rl.DrawRectangle(0, 0, w, h, rl.Color{R: 0, G: 0, B: 0, A: 150})
}

func centeredButton(w, y int32, text string) bool {
	return gui.Button(rl.Rectangle{
		X:      float32(w/2 - buttonW/2),
		Y:      float32(y),
		Width:  buttonW,
		Height: buttonH,
	}, text)
}

// DrawStart renders the title screen. Returns true when the start button
// was clicked.
func (s *Screens) DrawStart(w, h int32, highScore int) bool {
	theme := s.renderer.Theme
	s.dim(w, h)
	s.renderer.DrawCenteredText("INVADERS", w/2, h/3, theme.TitleFontSize, theme.Accent)
	if highScore > 0 {
		s.renderer.DrawCenteredText(fmt.Sprintf("High score %d", highScore), w/2, h/3+50, 18, theme.LabelColor)
	}
	s.renderer.DrawCenteredText("Press SPACE to start", w/2, h/2+60, 16, theme.LabelColor)
	return centeredButton(w, h/2, "Start Game")
}

// DrawPaused renders the pause panel. Returns true when resume was clicked.
func (s *Screens) DrawPaused(w, h int32) bool {
	theme := s.renderer.Theme
	s.dim(w, h)

	pw, ph := int32(300), int32(150)
	px, py := w/2-pw/2, h/2-ph/2
	gui.Panel(rl.Rectangle{X: float32(px), Y: float32(py), Width: float32(pw), Height: float32(ph)}, "Paused")
	s.renderer.DrawCenteredText("Press P to resume", w/2, py+40, 16, theme.SectionHeader)
	return centeredButton(w, py+ph-buttonH-15, "Resume")
}

// GameOverData is what the game over screen reports.
type GameOverData struct {
	Score     int
	Level     int
	HighScore int
	Rank      int // 0-based high score rank, -1 if none
	Reason    string
}

// DrawGameOver renders the game over box. Returns true when restart was clicked.
func (s *Screens) DrawGameOver(w, h int32, data GameOverData) bool {
	theme := s.renderer.Theme
	s.dim(w, h)

	bw, bh := int32(320), int32(220)
	bx, by := w/2-bw/2, h/2-bh/2
	rl.DrawRectangle(bx, by, bw, bh, rl.RayWhite)
	rl.DrawRectangleLines(bx, by, bw, bh, theme.PanelBorder)

	s.renderer.DrawCenteredText("Game Over", w/2, by+20, 28, rl.Black)
	s.renderer.DrawCenteredText(fmt.Sprintf("Score %d  Level %d", data.Score, data.Level), w/2, by+60, 18, rl.DarkGray)
	if data.Reason != "" {
		s.renderer.DrawCenteredText(data.Reason, w/2, by+85, 14, rl.Gray)
	}
	switch {
	case data.Rank == 0:
		s.renderer.DrawCenteredText("New high score!", w/2, by+108, 18, theme.Warning)
	case data.Rank > 0:
		s.renderer.DrawCenteredText(fmt.Sprintf("Rank #%d", data.Rank+1), w/2, by+108, 18, rl.DarkGray)
	}
	s.renderer.DrawCenteredText("Press R to restart", w/2, by+135, 14, rl.Gray)

	return centeredButton(w, by+bh-buttonH-15, "Restart")
}
