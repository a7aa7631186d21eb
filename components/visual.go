package components

// The types below are ECS components owned by the renderer. The simulation
// never reads them; the renderer mirrors simulation positions onto them.

// SpriteKind identifies what a visual handle depicts.
type SpriteKind uint8

const (
	SpritePlayer SpriteKind = iota
	SpriteEnemy
	SpritePlayerBullet
	SpriteEnemyBullet
)

// Position mirrors an entity's top-left corner in arena units.
type Position struct {
	X, Y float32
}

// Size mirrors an entity's extent in arena units.
type Size struct {
	W, H float32
}

// Sprite holds per-handle visual state.
type Sprite struct {
	Kind    SpriteKind
	Visible bool
	Age     float32 // Seconds since the handle was created, drives flashing/animation
}

// SimRef links a visual handle back to the simulation entity it mirrors.
type SimRef struct {
	ID uint32
}
