package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/invaders/camera"
	"github.com/pthm-cable/invaders/components"
)

// Palette
var (
	colorBackdrop     = rl.Color{R: 6, G: 6, B: 14, A: 255}
	colorArena        = rl.Color{R: 12, G: 12, B: 28, A: 255}
	colorPlayer       = rl.Color{R: 80, G: 220, B: 120, A: 255}
	colorEnemy        = rl.Color{R: 230, G: 90, B: 200, A: 255}
	colorEnemyEye     = rl.Color{R: 20, G: 10, B: 30, A: 255}
	colorPlayerBullet = rl.Color{R: 255, G: 240, B: 120, A: 200}
	colorEnemyBullet  = rl.Color{R: 255, G: 80, B: 60, A: 255}
)

// Renderer draws a Scene through a camera.
type Renderer struct {
	Scene *Scene
	Stars *Starfield
	time  float32
}

// NewRenderer creates a renderer with an empty scene. stars may be nil.
func NewRenderer(stars *Starfield) *Renderer {
	return &Renderer{
		Scene: NewScene(),
		Stars: stars,
	}
}

// Update advances animations by dt seconds.
func (r *Renderer) Update(dt float32) {
	r.time += dt
	if r.Stars != nil {
		r.Stars.Update(dt)
	}
}

// Draw renders the backdrop, the arena and every visible handle. Must be
// called between rl.BeginDrawing and rl.EndDrawing.
func (r *Renderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(colorBackdrop)

	ax, ay, aw, ah := cam.ArenaRect()
	rl.DrawRectangleV(rl.NewVector2(ax, ay), rl.NewVector2(aw, ah), colorArena)

	r.drawStars(cam)

	r.Scene.Each(components.SpriteEnemy, func(pos components.Position, size components.Size, sprite components.Sprite) {
		r.drawEnemy(cam, pos, size, sprite)
	})
	r.Scene.Each(components.SpritePlayer, func(pos components.Position, size components.Size, _ components.Sprite) {
		r.drawPlayer(cam, pos, size)
	})
	r.Scene.Each(components.SpritePlayerBullet, func(pos components.Position, size components.Size, _ components.Sprite) {
		r.drawBullet(cam, pos, size, colorPlayerBullet)
	})
	r.Scene.Each(components.SpriteEnemyBullet, func(pos components.Position, size components.Size, _ components.Sprite) {
		r.drawBullet(cam, pos, size, colorEnemyBullet)
	})

	// Letterbox bars hide anything drawn outside the arena
	vw, vh := cam.ViewportW, cam.ViewportH
	if ax > 0 {
		rl.DrawRectangleV(rl.NewVector2(0, 0), rl.NewVector2(ax, vh), colorBackdrop)
		rl.DrawRectangleV(rl.NewVector2(ax+aw, 0), rl.NewVector2(vw-ax-aw, vh), colorBackdrop)
	}
	if ay > 0 {
		rl.DrawRectangleV(rl.NewVector2(0, 0), rl.NewVector2(vw, ay), colorBackdrop)
		rl.DrawRectangleV(rl.NewVector2(0, ay+ah), rl.NewVector2(vw, vh-ay-ah), colorBackdrop)
	}
}

func (r *Renderer) drawStars(cam *camera.Camera) {
	if r.Stars == nil {
		return
	}
	radius := max(cam.ToScreenLen(1), 1)
	for _, s := range r.Stars.Stars {
		sx, sy := cam.WorldToScreen(s.X, s.Y)
		rl.DrawCircleV(rl.NewVector2(sx, sy), radius, rl.Color{R: s.Brightness, G: s.Brightness, B: s.Brightness, A: 255})
	}
}

func (r *Renderer) drawPlayer(cam *camera.Camera, pos components.Position, size components.Size) {
	x0, y0 := cam.WorldToScreen(pos.X, pos.Y)
	w, h := cam.ToScreenLen(size.W), cam.ToScreenLen(size.H)

	// Ship: a wide base with a cannon on top
	rl.DrawTriangle(
		rl.NewVector2(x0+w/2, y0),
		rl.NewVector2(x0, y0+h),
		rl.NewVector2(x0+w, y0+h),
		colorPlayer,
	)
	rl.DrawRectangleV(rl.NewVector2(x0+w*0.4, y0-h*0.2), rl.NewVector2(w*0.2, h*0.4), colorPlayer)
}

func (r *Renderer) drawEnemy(cam *camera.Camera, pos components.Position, size components.Size, sprite components.Sprite) {
	x0, y0 := cam.WorldToScreen(pos.X, pos.Y)
	w, h := cam.ToScreenLen(size.W), cam.ToScreenLen(size.H)

	// Legs alternate twice a second
	legPhase := int(math.Floor(float64(sprite.Age*2))) % 2
	bodyH := h * 0.7

	rl.DrawRectangleRounded(rl.NewRectangle(x0, y0, w, bodyH), 0.4, 4, colorEnemy)
	legW := w * 0.2
	for i := 0; i < 3; i++ {
		lx := x0 + float32(i)*(w-legW)/2
		if (i+legPhase)%2 == 0 {
			rl.DrawRectangleV(rl.NewVector2(lx, y0+bodyH), rl.NewVector2(legW, h-bodyH), colorEnemy)
		} else {
			rl.DrawRectangleV(rl.NewVector2(lx, y0+bodyH), rl.NewVector2(legW, (h-bodyH)/2), colorEnemy)
		}
	}

	eye := max(w*0.12, 1)
	rl.DrawRectangleV(rl.NewVector2(x0+w*0.25, y0+bodyH*0.35), rl.NewVector2(eye, eye), colorEnemyEye)
	rl.DrawRectangleV(rl.NewVector2(x0+w*0.75-eye, y0+bodyH*0.35), rl.NewVector2(eye, eye), colorEnemyEye)
}

func (r *Renderer) drawBullet(cam *camera.Camera, pos components.Position, size components.Size, color rl.Color) {
	if !cam.IsVisible(pos.X, pos.Y, size.W, size.H) {
		return
	}
	x0, y0 := cam.WorldToScreen(pos.X, pos.Y)
	w, h := cam.ToScreenLen(size.W), cam.ToScreenLen(size.H)

	// Player bullets are tall beams; draw them as a bright core inside a glow
	if w > 8 {
		rl.DrawRectangleV(rl.NewVector2(x0, y0), rl.NewVector2(w, h), rl.Fade(color, 0.25))
		rl.DrawRectangleV(rl.NewVector2(x0+w*0.4, y0), rl.NewVector2(w*0.2, h), color)
		return
	}
	rl.DrawRectangleV(rl.NewVector2(x0, y0), rl.NewVector2(max(w, 1), max(h, 1)), color)
}

// DrawHitboxes outlines every handle's collision box.
func (r *Renderer) DrawHitboxes(cam *camera.Camera) {
	outline := func(color rl.Color) func(components.Position, components.Size, components.Sprite) {
		return func(pos components.Position, size components.Size, _ components.Sprite) {
			x0, y0 := cam.WorldToScreen(pos.X, pos.Y)
			rl.DrawRectangleLinesEx(rl.NewRectangle(x0, y0, cam.ToScreenLen(size.W), cam.ToScreenLen(size.H)), 1, color)
		}
	}
	r.Scene.Each(components.SpritePlayer, outline(rl.Green))
	r.Scene.Each(components.SpriteEnemy, outline(rl.Magenta))
	r.Scene.Each(components.SpritePlayerBullet, outline(rl.Yellow))
	r.Scene.Each(components.SpriteEnemyBullet, outline(rl.Red))
}
