package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Binding is one line of the key legend.
type Binding struct {
	Key    string
	Action string
}

// GameBindings lists the gameplay keys shown in the controls panel.
var GameBindings = []Binding{
	{"Left / A", "Move left"},
	{"Right / D", "Move right"},
	{"Space", "Shoot / start"},
	{"P / Esc", "Pause"},
	{"R", "Restart"},
	{"F5", "Export to clipboard"},
	{"F9", "Import from clipboard"},
	{"F11", "Fullscreen"},
}

// ControlsPanel renders the key legend and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := len(GameBindings) + 1
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	y = r.DrawSectionHeader(c.x+padding, y, "Game")
	for _, b := range GameBindings {
		rl.DrawText(b.Action, c.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		c.drawKey(c.x+padding, y, b.Key, c.width-padding*2)
		y += lineHeight
	}

	for _, category := range categories {
		y += 4
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		c.drawKey(x, y, desc.KeyLabel, width)
	}
}

// drawKey right-aligns a key label.
func (c *ControlsPanel) drawKey(x, y int32, label string, width int32) {
	keyText := fmt.Sprintf("[%s]", label)
	keyWidth := rl.MeasureText(keyText, c.renderer.Theme.FontSize)
	rl.DrawText(keyText, x+width-keyWidth, y, c.renderer.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "debug":
		return "Debug"
	case "info":
		return "Info"
	default:
		return cat
	}
}
