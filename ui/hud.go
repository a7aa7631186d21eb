package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/invaders/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Score        int
	HighScore    int
	Level        int
	Lives        int
	Tick         int64
	FPS          int32
	Autopilot    bool
	Message      string // Transient notice, empty for none
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	theme := h.renderer.Theme

	// Score top right, as the arcade has it
	score := fmt.Sprintf("Score: %d", data.Score)
	rl.DrawText(score, data.ScreenWidth-rl.MeasureText(score, 24)-10, 10, 24, rl.White)
	if data.HighScore > 0 {
		hi := fmt.Sprintf("Best: %d", data.HighScore)
		rl.DrawText(hi, data.ScreenWidth-rl.MeasureText(hi, 16)-10, 38, 16, theme.LabelColor)
	}

	rl.DrawText(fmt.Sprintf("Level %d", data.Level), 10, 10, 20, rl.White)
	h.drawLives(10, 36, data.Lives)

	if data.Autopilot {
		rl.DrawText("AUTOPILOT", 10, 58, 14, theme.SectionHeader)
	}

	if data.Message != "" {
		h.renderer.DrawCenteredText(data.Message, data.ScreenWidth/2, data.ScreenHeight-30, 16, theme.SectionHeader)
	}
}

// drawLives draws one small ship per remaining life.
func (h *HUD) drawLives(x, y int32, lives int) {
	color := h.renderer.Theme.Accent
	if lives == 1 {
		color = h.renderer.Theme.Warning
	}
	for i := 0; i < lives; i++ {
		lx := float32(x + int32(i)*22)
		ly := float32(y)
		rl.DrawTriangle(
			rl.NewVector2(lx+8, ly),
			rl.NewVector2(lx, ly+12),
			rl.NewVector2(lx+16, ly+12),
			color,
		)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders tick timing by phase.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.Phases()
	height := int32(len(phases)+5)*r.Theme.LineHeight + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, 220, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Performance")
	y = r.DrawLabelValue(x, y, "Tick avg", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Tick max", stats.MaxTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Over budget", fmt.Sprintf("%d/%d", stats.OverBudget, stats.Samples))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.0f", stats.FPS))

	slowest := stats.Slowest()
	for _, ph := range phases {
		color := r.Theme.LabelColor
		if ph == slowest && stats.OverBudget > 0 {
			color = rl.Red
		} else if ph == slowest {
			color = rl.Yellow
		}
		rl.DrawText(ph.String(), x, y, r.Theme.FontSize, color)
		rl.DrawText(fmt.Sprintf("%5.1f%%", stats.Pct(ph)), x+r.Theme.LabelWidth, y, r.Theme.FontSize, color)
		y += r.Theme.LineHeight
	}
}

// TelemetryPanel renders the most recent stats window.
type TelemetryPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewTelemetryPanel creates a new telemetry panel.
func NewTelemetryPanel(x, y int32) *TelemetryPanel {
	return &TelemetryPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *TelemetryPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the telemetry panel. ok is false before the first window.
func (p *TelemetryPanel) Draw(s telemetry.WindowStats, ok bool) {
	r := p.renderer
	r.DrawPanel(p.x, p.y, 220, 9*r.Theme.LineHeight+r.Theme.Padding*2)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Last window")
	if !ok {
		r.DrawLabelValue(x, y, "Status", "collecting")
		return
	}
	y = r.DrawLabelValue(x, y, "Ends at", fmt.Sprintf("tick %d", s.WindowEndTick))
	y = r.DrawLabelValue(x, y, "Shots", fmt.Sprintf("%d", s.Shots))
	y = r.DrawLabelValue(x, y, "Kills", fmt.Sprintf("%d (%.0f%%)", s.Kills, s.Accuracy*100))
	y = r.DrawLabelValue(x, y, "Hits taken", fmt.Sprintf("%d", s.PlayerHits))
	y = r.DrawLabelValue(x, y, "Enemy shots", fmt.Sprintf("%d", s.EnemyShots))
	y = r.DrawLabelValue(x, y, "Depth avg", fmt.Sprintf("%.0f", s.DepthMean))
	r.DrawLabelValue(x, y, "Depth max", fmt.Sprintf("%.0f", s.DepthMax))
}
